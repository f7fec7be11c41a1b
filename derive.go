package sharepool

import (
	"encoding/binary"
)

// Condition namespaces of the derived addresses.
const (
	poolExt     = "dist"
	poolType    = "pool"
	vaultType   = "vault"
	accountExt  = "token"
	accountType = "account"
)

// PoolCondition returns the condition that identifies a pool with given
// configuration. The same configuration always results in the same
// condition, so anyone can recompute a pool identity from its public
// parameters.
func PoolCondition(asset, secondaryAsset string, shareSize, numberOfShares uint64) Condition {
	var data []byte
	data = appendString(data, asset)
	data = appendString(data, secondaryAsset)
	data = appendUint64(data, shareSize)
	data = appendUint64(data, numberOfShares)
	return NewCondition(poolExt, poolType, data)
}

// PoolAddress returns the address of a pool with given configuration.
func PoolAddress(asset, secondaryAsset string, shareSize, numberOfShares uint64) Address {
	return PoolCondition(asset, secondaryAsset, shareSize, numberOfShares).Address()
}

// VaultCondition returns the condition that controls the escrow account of
// a pool. No key can produce it, only the pool logic acts on its behalf.
func VaultCondition(pool Address) Condition {
	return NewCondition(poolExt, vaultType, pool)
}

// VaultAddress returns the address of the escrow account of a pool.
func VaultAddress(pool Address) Address {
	return VaultCondition(pool).Address()
}

// AccountAddress returns the canonical address of the account holding
// asset on behalf of owner.
func AccountAddress(owner Address, asset string) Address {
	data := make([]byte, 0, len(owner)+len(asset)+4)
	data = append(data, owner...)
	data = appendString(data, asset)
	return NewCondition(accountExt, accountType, data).Address()
}

// appendString writes a length prefixed string so that no two distinct
// tuples share an encoding.
func appendString(dst []byte, s string) []byte {
	var size [4]byte
	binary.BigEndian.PutUint32(size[:], uint32(len(s)))
	dst = append(dst, size[:]...)
	return append(dst, s...)
}

func appendUint64(dst []byte, v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return append(dst, b[:]...)
}
