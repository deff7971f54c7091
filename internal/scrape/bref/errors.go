package bref

import "errors"

var (
	// ErrPermanent marks failures that retrying cannot fix (404, bad URL).
	ErrPermanent = errors.New("permanent fetch error")

	// ErrLayoutChanged marks pages whose expected markup is missing, which
	// usually means basketball-reference changed its page structure.
	ErrLayoutChanged = errors.New("page layout changed")
)
