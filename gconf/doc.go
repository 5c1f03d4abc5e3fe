/*
Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each package owns a single configuration object, stored under the "_c:<pkg>"
key. Configuration is loaded from the "conf" section of the genesis file and
validated before it is written. Reading it back is a plain Load call.
*/
package gconf
