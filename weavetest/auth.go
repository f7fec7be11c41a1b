package weavetest

import (
	"context"
	"fmt"

	"github.com/iov-one/sharepool"
)

// Auth is a mock implementing x.Authenticator interface.
//
// This structure authenticates any of referenced conditions.
// You can use either Signer or Signers (or both) attributes to reference
// conditions. Each time all signers (regardless which attribute) are
// considered.
type Auth struct {
	// Signer represents an authentication of a single signer. This is a
	// convenience attribute when creating an authentication method for a
	// single signer.
	Signer sharepool.Condition

	// Signers represents an authentication of multiple signers.
	Signers []sharepool.Condition
}

func (a *Auth) GetConditions(sharepool.Context) []sharepool.Condition {
	if a.Signer != nil {
		return append(a.Signers, a.Signer)
	}
	return a.Signers
}

func (a *Auth) HasAddress(ctx sharepool.Context, addr sharepool.Address) bool {
	for _, s := range a.Signers {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	if a.Signer == nil {
		return false
	}
	return addr.Equals(a.Signer.Address())
}

// CtxAuth is a mock implementing x.Authenticator interface.
//
// This implementation is using context to store and retrieve permissions.
type CtxAuth struct {
	// Key used to set and retrieve conditions from the context. For
	// convenience only string type keys are allowed.
	Key string
}

func (a *CtxAuth) SetConditions(ctx sharepool.Context, permissions ...sharepool.Condition) sharepool.Context {
	return context.WithValue(ctx, a.Key, permissions)
}

func (a *CtxAuth) GetConditions(ctx sharepool.Context) []sharepool.Condition {
	val := ctx.Value(a.Key)
	if val == nil {
		return nil
	}
	conds, ok := val.([]sharepool.Condition)
	if !ok {
		panic(fmt.Sprintf("instead of []sharepool.Condition got %T", val))
	}
	return conds
}

func (a *CtxAuth) HasAddress(ctx sharepool.Context, addr sharepool.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
