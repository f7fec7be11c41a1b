package utils

import (
	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/codec"
	"github.com/iov-one/sharepool/errors"
	"github.com/iov-one/sharepool/gconf"
	"github.com/iov-one/sharepool/x"
)

const gasConfigurationPkg = "gas"

// GasConfiguration holds the gas decorator parameters that can be changed
// without restarting the application.
type GasConfiguration struct {
	Metadata *sharepool.Metadata `json:"metadata"`
	// Owner is allowed to update the configuration.
	Owner sharepool.Address `json:"owner"`
	// DefaultLimit applies to transactions that do not declare a limit.
	// Zero means no limit.
	DefaultLimit int64 `json:"default_limit"`
	TxCost       int64 `json:"tx_cost"`
}

var _ gconf.OwnedConfig = (*GasConfiguration)(nil)

func (c *GasConfiguration) GetOwner() sharepool.Address {
	return c.Owner
}

func (c *GasConfiguration) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", c.Metadata.Validate())
	errs = errors.AppendField(errs, "Owner", c.Owner.Validate())
	if c.DefaultLimit < 0 {
		errs = errors.Append(errs, errors.Field("DefaultLimit", errors.ErrInput, "cannot be negative"))
	}
	if c.TxCost < 0 {
		errs = errors.Append(errs, errors.Field("TxCost", errors.ErrInput, "cannot be negative"))
	}
	return errs
}

func (c *GasConfiguration) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Message(1, c.Metadata).
		Bytes(2, c.Owner).
		Int64(3, c.DefaultLimit).
		Int64(4, c.TxCost).
		Result()
}

func (c *GasConfiguration) Unmarshal(raw []byte) error {
	*c = GasConfiguration{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			c.Metadata = &sharepool.Metadata{}
			err = d.Message(c.Metadata)
		case 2:
			c.Owner, err = d.Bytes()
		case 3:
			c.DefaultLimit, err = d.Int64()
		case 4:
			c.TxCost, err = d.Int64()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}

// UpdateGasConfigurationMsg patches the stored gas configuration. Zero
// value fields of the patch are ignored.
type UpdateGasConfigurationMsg struct {
	Metadata *sharepool.Metadata
	Patch    *GasConfiguration
}

var _ sharepool.Msg = (*UpdateGasConfigurationMsg)(nil)

func (UpdateGasConfigurationMsg) Path() string {
	return "gas/update_configuration"
}

func (m *UpdateGasConfigurationMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	if m.Patch == nil {
		errs = errors.Append(errs, errors.Field("Patch", errors.ErrEmpty, "required"))
	}
	return errs
}

func (m *UpdateGasConfigurationMsg) Marshal() ([]byte, error) {
	e := codec.NewEncoder().Message(1, m.Metadata)
	if m.Patch != nil {
		e = e.Message(2, m.Patch)
	}
	return e.Result()
}

func (m *UpdateGasConfigurationMsg) Unmarshal(raw []byte) error {
	*m = UpdateGasConfigurationMsg{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			m.Metadata = &sharepool.Metadata{}
			err = d.Message(m.Metadata)
		case 2:
			m.Patch = &GasConfiguration{}
			err = d.Message(m.Patch)
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}

// RegisterRoutes registers the gas configuration update handler. Only the
// configuration owner can update it, a missing configuration cannot be
// created after genesis.
func RegisterRoutes(r sharepool.Registry, auth x.Authenticator) {
	r.Handle(&UpdateGasConfigurationMsg{},
		gconf.NewUpdateConfigurationHandler(gasConfigurationPkg, &GasConfiguration{}, auth, nil))
}

// RegisterQuery exposes the gas configuration under the "/gas" path.
func RegisterQuery(qr sharepool.QueryRouter) {
	qr.Register("/gas", gasConfQuery{})
}

type gasConfQuery struct{}

func (gasConfQuery) Query(db sharepool.ReadOnlyKVStore, mod string, data []byte) ([]sharepool.Model, error) {
	if mod != sharepool.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mod %q", mod)
	}
	var conf GasConfiguration
	switch err := gconf.Load(db, gasConfigurationPkg, &conf); {
	case errors.ErrNotFound.Is(err):
		return nil, nil
	case err != nil:
		return nil, err
	}
	raw, err := conf.Marshal()
	if err != nil {
		return nil, err
	}
	return []sharepool.Model{sharepool.Pair([]byte(gasConfigurationPkg), raw)}, nil
}

// GasInitializer loads the "conf.gas" genesis section, if present.
type GasInitializer struct{}

var _ sharepool.Initializer = GasInitializer{}

func (GasInitializer) FromGenesis(opts sharepool.Options, db sharepool.KVStore) error {
	err := gconf.InitConfig(db, opts, gasConfigurationPkg, &GasConfiguration{})
	if errors.ErrNotFound.Is(err) {
		return nil
	}
	return err
}
