package app

import (
	"context"
	"testing"

	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/codec"
	"github.com/iov-one/sharepool/errors"
	"github.com/iov-one/sharepool/orm"
	"github.com/iov-one/sharepool/store/iavl"
	"github.com/iov-one/sharepool/weavetest/assert"
	abci "github.com/tendermint/tendermint/abci/types"
)

// setMsg writes a single key/value pair.
type setMsg struct {
	Key   []byte
	Value []byte
}

func (setMsg) Path() string { return "test/set" }

func (m *setMsg) Validate() error {
	if len(m.Key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	return nil
}

func (m *setMsg) Marshal() ([]byte, error) {
	return codec.NewEncoder().Bytes(1, m.Key).Bytes(2, m.Value).Result()
}

func (m *setMsg) Unmarshal(raw []byte) error {
	d := codec.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			m.Key, err = d.Bytes()
		case 2:
			m.Value, err = d.Bytes()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}

// setTx is a transaction carrying a setMsg as its only content.
type setTx struct {
	msg setMsg
}

func (tx *setTx) GetMsg() (sharepool.Msg, error) { return &tx.msg, nil }
func (tx *setTx) Marshal() ([]byte, error)       { return tx.msg.Marshal() }
func (tx *setTx) Unmarshal(raw []byte) error     { return tx.msg.Unmarshal(raw) }

func decodeSetTx(raw []byte) (sharepool.Tx, error) {
	var tx setTx
	if err := tx.Unmarshal(raw); err != nil {
		return nil, err
	}
	return &tx, nil
}

type setHandler struct{}

func (setHandler) Check(ctx sharepool.Context, db sharepool.KVStore, tx sharepool.Tx) (*sharepool.CheckResult, error) {
	var msg setMsg
	if err := sharepool.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	return &sharepool.CheckResult{GasAllocated: 10}, nil
}

func (setHandler) Deliver(ctx sharepool.Context, db sharepool.KVStore, tx sharepool.Tx) (*sharepool.DeliverResult, error) {
	var msg setMsg
	if err := sharepool.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	if string(msg.Key) == "forbidden" {
		return nil, errors.Wrap(errors.ErrUnauthorized, "forbidden key")
	}
	if err := db.Set(msg.Key, msg.Value); err != nil {
		return nil, err
	}
	return &sharepool.DeliverResult{Data: msg.Key, GasUsed: 7}, nil
}

// genesisWriter stores the "greeting" genesis value under the "greeting"
// key.
type genesisWriter struct{}

func (genesisWriter) FromGenesis(opts sharepool.Options, db sharepool.KVStore) error {
	var greeting string
	if err := opts.ReadOptions("greeting", &greeting); err != nil {
		return err
	}
	return db.Set([]byte("greeting"), []byte(greeting))
}

func newTestApp(t testing.TB) BaseApp {
	t.Helper()
	qr := sharepool.NewQueryRouter()
	orm.RegisterQuery(qr)
	rt := NewRouter()
	rt.Handle(&setMsg{}, setHandler{})

	store := NewStoreApp("testapp", iavl.MockCommitStore(), qr, context.Background())
	store.WithInit(genesisWriter{})
	return NewBaseApp(store, decodeSetTx, rt, false)
}

func TestBaseAppLifecycle(t *testing.T) {
	app := newTestApp(t)

	app.InitChain(abci.RequestInitChain{
		ChainId:       "test-chain-1",
		AppStateBytes: []byte(`{"greeting": "hello"}`),
	})
	assert.Equal(t, "test-chain-1", app.GetChainID())

	app.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 1, ChainID: "test-chain-1"}})

	raw, err := (&setTx{msg: setMsg{Key: []byte("pool"), Value: []byte("full")}}).Marshal()
	assert.Nil(t, err)

	check := app.CheckTx(raw)
	assert.Equal(t, uint32(0), check.Code)
	assert.Equal(t, int64(10), check.GasWanted)

	deliver := app.DeliverTx(raw)
	assert.Equal(t, uint32(0), deliver.Code)
	assert.Equal(t, []byte("pool"), deliver.Data)
	assert.Equal(t, int64(7), deliver.GasUsed)

	forbidden, err := (&setTx{msg: setMsg{Key: []byte("forbidden")}}).Marshal()
	assert.Nil(t, err)
	res := app.DeliverTx(forbidden)
	assert.Equal(t, errors.ErrUnauthorized.ABCICode(), res.Code)

	empty := app.DeliverTx(nil)
	assert.Equal(t, errors.ErrEmpty.ABCICode(), empty.Code)

	// Nothing is visible to the queries before the commit.
	q := app.Query(abci.RequestQuery{Path: "/", Data: []byte("pool")})
	assert.Equal(t, uint32(0), q.Code)
	var values ResultSet
	assert.Nil(t, values.Unmarshal(q.Value))
	assert.Equal(t, 0, len(values.Results))

	app.EndBlock(abci.RequestEndBlock{Height: 1})
	commit := app.Commit()
	if len(commit.Data) == 0 {
		t.Fatal("empty app hash")
	}

	q = app.Query(abci.RequestQuery{Path: "/", Data: []byte("pool")})
	assert.Equal(t, uint32(0), q.Code)
	assert.Equal(t, int64(1), q.Height)
	assert.Nil(t, values.Unmarshal(q.Value))
	assert.Equal(t, [][]byte{[]byte("full")}, values.Results)

	q = app.Query(abci.RequestQuery{Path: "/?prefix", Data: []byte("greet")})
	assert.Equal(t, uint32(0), q.Code)
	var keys ResultSet
	assert.Nil(t, keys.Unmarshal(q.Key))
	assert.Nil(t, values.Unmarshal(q.Value))
	models, err := JoinResults(&keys, &values)
	assert.Nil(t, err)
	assert.Equal(t, []sharepool.Model{sharepool.Pair([]byte("greeting"), []byte("hello"))}, models)

	q = app.Query(abci.RequestQuery{Path: "/unknown"})
	assert.Equal(t, errors.ErrNotFound.ABCICode(), q.Code)

	info := app.Info(abci.RequestInfo{})
	assert.Equal(t, int64(1), info.LastBlockHeight)
	assert.Equal(t, commit.Data, info.LastBlockAppHash)
	assert.Equal(t, "testapp", info.Data)
}

func TestInitChainTwicePanics(t *testing.T) {
	app := newTestApp(t)
	req := abci.RequestInitChain{ChainId: "test-chain-1", AppStateBytes: []byte(`{}`)}
	app.InitChain(req)
	assert.Panics(t, func() { app.InitChain(req) })
}

func TestInitChainRequiresAppState(t *testing.T) {
	app := newTestApp(t)
	assert.Panics(t, func() {
		app.InitChain(abci.RequestInitChain{ChainId: "test-chain-1"})
	})
}
