package weavetest

import (
	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/crypto"
)

// NewKey returns a new, random signing key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns a signature condition of a random key.
func NewCondition() sharepool.Condition {
	return NewKey().PublicKey().Condition()
}
