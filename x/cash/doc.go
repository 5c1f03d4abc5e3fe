/*
Package cash implements single asset balances.

Every address owns at most one balance entry. Empty balances are not
stored. The controller moves value between addresses and refuses any
operation that would overdraw an account or overflow the amount.
*/
package cash
