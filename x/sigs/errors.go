package sigs

import "github.com/iov-one/vault/errors"

// sigs takes 120-129
var (
	// ErrInvalidSequence is returned when a signature was made for a
	// different nonce than the signer holds.
	ErrInvalidSequence = errors.Register(120, "invalid sequence number")
)
