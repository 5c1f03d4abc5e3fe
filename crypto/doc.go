/*
Package crypto generates and loads ed25519 owner keys.

An owner identity is the address of the key's condition:

	sigs/ed25519/<public key>

The vault never verifies signatures itself. Keys only serve to derive a
stable identity that the command line client acts as.
*/
package crypto
