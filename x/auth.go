/*
Package x contains the pieces shared by all extensions: the authentication
abstraction handlers are given and helpers to query it.
*/
package x

import (
	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/errors"
)

// Authenticator is an interface we can use to extract authentication info
// from the context. This should be passed into the constructor of
// handlers, so we can plug in another authentication system,
// rather than hard-coding x/sigs for all extensions.
type Authenticator interface {
	// GetConditions reveals all Conditions fulfilled,
	// you may want GetAddresses helper
	GetConditions(sharepool.Context) []sharepool.Condition
	// HasAddress checks if any condition matches this address
	HasAddress(sharepool.Context, sharepool.Address) bool
}

// MultiAuth chains together many Authenticators into one
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticator
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetConditions combines all Conditions from all Authenticators. Each
// condition is returned once, in the order of the first occurrence.
func (m MultiAuth) GetConditions(ctx sharepool.Context) []sharepool.Condition {
	var res []sharepool.Condition
	for _, impl := range m.impls {
		for _, c := range impl.GetConditions(ctx) {
			if !hasCondition(res, c) {
				res = append(res, c)
			}
		}
	}
	return res
}

// HasAddress returns true iff any Authenticator support this
func (m MultiAuth) HasAddress(ctx sharepool.Context, addr sharepool.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// GetAddresses wraps the GetConditions method of any Authenticator
func GetAddresses(ctx sharepool.Context, auth Authenticator) []sharepool.Address {
	conds := auth.GetConditions(ctx)
	addrs := make([]sharepool.Address, len(conds))
	for i, c := range conds {
		addrs[i] = c.Address()
	}
	return addrs
}

// MainSigner returns the first condition if any, otherwise nil
func MainSigner(ctx sharepool.Context, auth Authenticator) sharepool.Condition {
	signers := auth.GetConditions(ctx)
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}

// HasAllAddresses returns true if all elements in required are
// also in context.
func HasAllAddresses(ctx sharepool.Context, auth Authenticator, required []sharepool.Address) bool {
	for _, r := range required {
		if !auth.HasAddress(ctx, r) {
			return false
		}
	}
	return true
}

// HasAllConditions returns true if all elements in required are
// also in context.
func HasAllConditions(ctx sharepool.Context, auth Authenticator, required []sharepool.Condition) bool {
	conds := auth.GetConditions(ctx)
	for _, r := range required {
		if !hasCondition(conds, r) {
			return false
		}
	}
	return true
}

// RequireSigner returns ErrUnauthorized unless given address signed the
// transaction. The role is used to build the error message.
func RequireSigner(ctx sharepool.Context, auth Authenticator, role string, addr sharepool.Address) error {
	if len(addr) == 0 {
		return errors.Wrapf(errors.ErrUnauthorized, "no %s address", role)
	}
	if !auth.HasAddress(ctx, addr) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s %s did not sign", role, addr)
	}
	return nil
}

func hasCondition(conds []sharepool.Condition, c sharepool.Condition) bool {
	for _, p := range conds {
		if p.Equals(c) {
			return true
		}
	}
	return false
}
