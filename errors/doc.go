/*
Package errors implements categorical error values for the vault.

Every failure that reaches a caller wraps exactly one registered root error.
The root error is the category (unauthorized, not found, already executed...)
and is what callers should test against using the Is method:

	if multisig.ErrAlreadyExecuted.Is(err) {
		...
	}

Packages that need their own categories declare them with Register during
program initialization. Codes are unique across the whole process.

Wrap an error at the point of creation (ErrXyz.New or Wrap) so that a
stacktrace gets attached. Only the innermost wrap records a stacktrace.

	%s is just the error message
	%+v is the full stack trace
*/
package errors
