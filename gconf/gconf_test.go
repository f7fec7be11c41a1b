package gconf

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/errors"
	"github.com/iov-one/sharepool/store"
	"github.com/iov-one/sharepool/weavetest"
	"github.com/iov-one/sharepool/weavetest/assert"
)

func TestSaveLoad(t *testing.T) {
	cases := map[string]struct {
		Conf        *myconfig
		WantSaveErr *errors.Error
	}{
		"all fields": {
			Conf: &myconfig{Owner: weavetest.RandomAddr(t), Num: 852151421, Str: "foobar"},
		},
		"zero number": {
			Conf: &myconfig{Owner: weavetest.RandomAddr(t), Str: "foobar"},
		},
		"invalid address cannot be saved": {
			Conf:        &myconfig{Owner: sharepool.Address("too short"), Num: 1},
			WantSaveErr: errors.ErrInput,
		},
		"negative number cannot be saved": {
			Conf:        &myconfig{Owner: weavetest.RandomAddr(t), Num: -1},
			WantSaveErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			if err := Save(db, "mypkg", tc.Conf); !tc.WantSaveErr.Is(err) {
				t.Fatalf("unexpected save error: %s", err)
			}
			if tc.WantSaveErr != nil {
				assert.IsErr(t, errors.ErrNotFound, Load(db, "mypkg", &myconfig{}))
				return
			}

			var got myconfig
			assert.Nil(t, Load(db, "mypkg", &got))
			assert.Equal(t, tc.Conf, &got)

			// Each package has its own configuration.
			assert.IsErr(t, errors.ErrNotFound, Load(db, "otherpkg", &got))
		})
	}
}

func TestInitConfig(t *testing.T) {
	owner := weavetest.RandomAddr(t)
	raw, err := json.Marshal(map[string]interface{}{
		"conf": map[string]interface{}{
			"mypkg": map[string]interface{}{"Owner": owner, "Num": 7, "Str": "genesis"},
		},
	})
	assert.Nil(t, err)
	var opts sharepool.Options
	assert.Nil(t, json.Unmarshal(raw, &opts))

	db := store.MemStore()
	assert.Nil(t, InitConfig(db, opts, "mypkg", &myconfig{}))

	var got myconfig
	assert.Nil(t, Load(db, "mypkg", &got))
	assert.Equal(t, myconfig{Owner: owner, Num: 7, Str: "genesis"}, got)

	assert.IsErr(t, errors.ErrNotFound, InitConfig(db, opts, "otherpkg", &myconfig{}))
}

type myconfig struct {
	Owner sharepool.Address
	Num   int64
	Str   string
}

func (c *myconfig) GetOwner() sharepool.Address { return c.Owner }
func (c *myconfig) Marshal() ([]byte, error)    { return json.Marshal(c) }
func (c *myconfig) Unmarshal(raw []byte) error {
	*c = myconfig{}
	return json.Unmarshal(raw, c)
}

func (c *myconfig) Validate() error {
	if err := c.Owner.Validate(); err != nil {
		return errors.Wrap(err, "address")
	}
	if c.Num < 0 {
		return errors.Wrap(errors.ErrInput, "negative number")
	}
	return nil
}

type myconfigMsg struct {
	Patch *myconfig
}

var _ sharepool.Msg = (*myconfigMsg)(nil)

func (msg *myconfigMsg) Marshal() ([]byte, error)   { return json.Marshal(msg) }
func (msg *myconfigMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, msg) }
func (msg *myconfigMsg) Path() string               { return "myconfig" }
func (msg *myconfigMsg) Validate() error {
	if msg.Patch == nil {
		return errors.Wrap(errors.ErrMsg, "patch required")
	}
	return nil
}
