/*
Package x contains some standard extensions

Extensions are composable components that each process some part of a
request. The subpackages implement cash balances, the multisig vault and
the decorators shared by all handlers. This package holds the pieces they
have in common, like authentication.
*/
package x
