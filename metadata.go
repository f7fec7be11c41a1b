package sharepool

import (
	"github.com/iov-one/sharepool/codec"
	"github.com/iov-one/sharepool/errors"
)

// Metadata is embedded in every persisted model and every message. Schema
// is the version of the model layout, starting at 1.
type Metadata struct {
	Schema uint32
}

// Validate returns an error if the schema version is not set.
func (m *Metadata) Validate() error {
	if m == nil {
		return errors.Wrap(errors.ErrMsg, "missing metadata")
	}
	if m.Schema < 1 {
		return errors.Wrap(errors.ErrMsg, "schema version is required")
	}
	return nil
}

// Copy returns a copy of this object. This method is helpful when implementing
// orm.CloneableData interface to make a copy of the header.
func (m *Metadata) Copy() *Metadata {
	cpy := *m
	return &cpy
}

func (m *Metadata) Marshal() ([]byte, error) {
	return codec.NewEncoder().Uint64(1, uint64(m.Schema)).Result()
}

func (m *Metadata) Unmarshal(raw []byte) error {
	d := codec.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			var v uint64
			v, err = d.Uint64()
			m.Schema = uint32(v)
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}
