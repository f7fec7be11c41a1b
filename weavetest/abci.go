package weavetest

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/codec"
	"github.com/iov-one/sharepool/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// Tester is implemented by both *testing.T and *testing.B. Use it instead of
// the pointer type to allow notation to accept both objects.
type Tester interface {
	Helper()
	Errorf(string, ...interface{})
	Fatalf(string, ...interface{})
	Logf(string, ...interface{})
}

// AppRunner provides a translation layer between an ABCI interface and the
// transaction API. It takes care of serializing transactions, creating
// blocks and decoding query results.
type AppRunner struct {
	chainID string
	height  int64
	t       Tester
	app     abci.Application
}

// NewAppRunner creates an AppRunner for given application. Errors returned
// by the application are decoded back into registered error kinds, so that
// they can be tested with the Is method.
func NewAppRunner(t Tester, app abci.Application, chainID string) *AppRunner {
	return &AppRunner{
		chainID: chainID,
		t:       t,
		app:     app,
	}
}

// ChainID returns the chain ID the genesis was loaded with.
func (r *AppRunner) ChainID() string {
	return r.chainID
}

// Height returns the height of the last created block.
func (r *AppRunner) Height() int64 {
	return r.height
}

// InitChain serialize to JSON given genesis and loads it. Loading a genesis
// is causing a block creation.
func (r *AppRunner) InitChain(genesis interface{}) {
	r.t.Helper()

	raw, err := json.MarshalIndent(genesis, "", "  ")
	if err != nil {
		r.t.Fatalf("cannot JSON serialize genesis: %s", err)
	}

	changed := r.InBlock(func() error {
		r.app.InitChain(abci.RequestInitChain{
			Time:          time.Now(),
			ChainId:       r.chainID,
			AppStateBytes: raw,
		})
		return nil
	})
	if !changed {
		r.t.Fatalf("genesis did not change the state")
	}
}

// CheckTx serializes given transaction and runs it through CheckTx.
func (r *AppRunner) CheckTx(tx sharepool.Tx) (*abci.ResponseCheckTx, error) {
	raw, err := tx.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "cannot marshal transaction")
	}
	resp := r.app.CheckTx(raw)
	if err := errors.ABCIError(resp.Code, resp.Log); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeliverTx serializes given transaction and runs it through DeliverTx.
// It must be called within a block.
func (r *AppRunner) DeliverTx(tx sharepool.Tx) (*abci.ResponseDeliverTx, error) {
	raw, err := tx.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "cannot marshal transaction")
	}
	resp := r.app.DeliverTx(raw)
	if err := errors.ABCIError(resp.Code, resp.Log); err != nil {
		return nil, err
	}
	return &resp, nil
}

// InBlock begins a block and runs given function. All transactions
// executed within given function are part of newly created block. The
// block is then finished and changes committed, even if the function
// returns an error.
// InBlock returns true if the application state was modified.
//
// Any failure is ending the test instantly.
func (r *AppRunner) InBlock(executeTx func() error) bool {
	r.t.Helper()

	r.height++
	initialHash := r.app.Info(abci.RequestInfo{}).LastBlockAppHash

	r.app.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{
			ChainID: r.chainID,
			Height:  r.height,
			Time:    time.Now(),
		},
	})

	if err := executeTx(); err != nil {
		r.t.Fatalf("operation failed with %+v", err)
	}

	r.app.EndBlock(abci.RequestEndBlock{Height: r.height})

	// Commit data contains the new app hash. It differs from the initial
	// hash only if the state was modified.
	finalHash := r.app.Commit().Data
	return !bytes.Equal(initialHash, finalHash)
}

// Query runs an ABCI query against the committed state and returns the
// decoded results.
func (r *AppRunner) Query(path string, data []byte) ([]sharepool.Model, error) {
	resp := r.app.Query(abci.RequestQuery{Path: path, Data: data})
	if err := errors.ABCIError(resp.Code, resp.Log); err != nil {
		return nil, err
	}
	keys, err := decodeResultSet(resp.Key)
	if err != nil {
		return nil, errors.Wrap(err, "cannot parse keys")
	}
	values, err := decodeResultSet(resp.Value)
	if err != nil {
		return nil, errors.Wrap(err, "cannot parse values")
	}
	if len(keys) != len(values) {
		return nil, errors.Wrapf(errors.ErrState, "%d keys and %d values", len(keys), len(values))
	}
	models := make([]sharepool.Model, len(keys))
	for i := range keys {
		models[i] = sharepool.Pair(keys[i], values[i])
	}
	return models, nil
}

// QueryOne runs a key query and unmarshals the single result into dest.
// It returns ErrNotFound if nothing was found.
func (r *AppRunner) QueryOne(path string, key []byte, dest sharepool.Persistent) error {
	models, err := r.Query(path, key)
	if err != nil {
		return err
	}
	if len(models) == 0 {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", path, key)
	}
	return dest.Unmarshal(models[0].Value)
}

// decodeResultSet reads the repeated field 1 of a serialized result set.
func decodeResultSet(raw []byte) ([][]byte, error) {
	var res [][]byte
	d := codec.NewDecoder(raw)
	for d.Next() {
		if d.Field() != 1 {
			if err := d.Skip(); err != nil {
				return nil, err
			}
			continue
		}
		b, err := d.Bytes()
		if err != nil {
			return nil, err
		}
		res = append(res, b)
	}
	return res, d.Err()
}
