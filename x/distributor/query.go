package distributor

import (
	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/codec"
	"github.com/iov-one/sharepool/errors"
	"github.com/iov-one/sharepool/orm"
)

// VaultInfo is the query view of a vault, combining the vault record with
// the live balance of its account.
type VaultInfo struct {
	Pool    sharepool.Address
	Asset   string
	Address sharepool.Address
	Balance uint64
}

func (v *VaultInfo) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Bytes(1, v.Pool).
		String(2, v.Asset).
		Bytes(3, v.Address).
		Uint64(4, v.Balance).
		Result()
}

func (v *VaultInfo) Unmarshal(raw []byte) error {
	*v = VaultInfo{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			v.Pool, err = d.Bytes()
		case 2:
			v.Asset, err = d.String()
		case 3:
			v.Address, err = d.Bytes()
		case 4:
			v.Balance, err = d.Uint64()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}

// VaultQuery answers "/vaults" queries. The key query expects a pool
// address, the prefix query lists all vaults. Keys of the results are pool
// addresses and values are serialized VaultInfo.
type VaultQuery struct {
	vaults *VaultBucket
	ctrl   TokenController
}

var _ sharepool.QueryHandler = (*VaultQuery)(nil)

// NewVaultQuery returns a query handler reading balances with given
// controller.
func NewVaultQuery(ctrl TokenController) *VaultQuery {
	return &VaultQuery{vaults: NewVaultBucket(), ctrl: ctrl}
}

func (q *VaultQuery) Query(db sharepool.ReadOnlyKVStore, mod string, data []byte) ([]sharepool.Model, error) {
	switch mod {
	case sharepool.KeyQueryMod:
		v, err := q.vaults.Get(db, data)
		if errors.ErrNotFound.Is(err) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		m, err := q.info(db, data, v)
		if err != nil {
			return nil, err
		}
		return []sharepool.Model{m}, nil
	case sharepool.PrefixQueryMod:
		var res []sharepool.Model
		err := q.vaults.Visit(db, func(key []byte, m orm.Model) error {
			info, err := q.info(db, key, m.(*Vault))
			if err != nil {
				return err
			}
			res = append(res, info)
			return nil
		})
		return res, err
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mod %q", mod)
	}
}

func (q *VaultQuery) info(db sharepool.ReadOnlyKVStore, pool []byte, v *Vault) (sharepool.Model, error) {
	acc, err := q.ctrl.Balance(db, v.Address())
	if err != nil {
		return sharepool.Model{}, errors.Wrap(err, "vault account")
	}
	info := VaultInfo{
		Pool:    v.Pool,
		Asset:   v.Asset,
		Address: v.Address(),
		Balance: acc.Amount,
	}
	raw, err := info.Marshal()
	if err != nil {
		return sharepool.Model{}, err
	}
	return sharepool.Pair(pool, raw), nil
}
