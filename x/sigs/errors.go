package sigs

import "github.com/iov-one/sharepool/errors"

// ErrInvalidSequence is returned when a signature carries a sequence that
// is not the next one expected for the signer.
var ErrInvalidSequence = errors.Register(120, "invalid sequence number")
