package app

import (
	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/codec"
	"github.com/iov-one/sharepool/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/common"
)

// ResultSet is the wire form of a list of query results. A query response
// carries one set for the keys and one for the values, both of the same
// length.
type ResultSet struct {
	Results [][]byte
}

func (rs *ResultSet) Marshal() ([]byte, error) {
	return codec.NewEncoder().RepeatedBytes(1, rs.Results).Result()
}

func (rs *ResultSet) Unmarshal(raw []byte) error {
	*rs = ResultSet{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			var b []byte
			b, err = d.Bytes()
			rs.Results = append(rs.Results, b)
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}

// ResultsFromKeys returns a ResultSet of all keys
// given a set of models
func ResultsFromKeys(models []sharepool.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a ResultSet of all values
// given a set of models
func ResultsFromValues(models []sharepool.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults inverts ResultsFromKeys and ResultsFromValues
// and makes then a consistent whole again
func JoinResults(keys, values *ResultSet) ([]sharepool.Model, error) {
	kref, vref := keys.Results, values.Results
	if len(kref) != len(vref) {
		return nil, errors.Wrapf(errors.ErrState, "%d keys and %d values", len(kref), len(vref))
	}
	mods := make([]sharepool.Model, len(kref))
	for i := range mods {
		mods[i] = sharepool.Pair(kref[i], vref[i])
	}
	return mods, nil
}

// UnmarshalOneResult will parse a resultset, and
// it if is not empty, unmarshal the first result into o
func UnmarshalOneResult(bz []byte, o sharepool.Persistent) error {
	var res ResultSet
	if err := res.Unmarshal(bz); err != nil {
		return err
	}
	if len(res.Results) == 0 {
		return errors.Wrap(errors.ErrNotFound, "empty result set")
	}
	return o.Unmarshal(res.Results[0])
}

// checkOrError returns an abci response for CheckTx, converting the error
// message if present.
func checkOrError(result *sharepool.CheckResult, err error, debug bool) abci.ResponseCheckTx {
	if err != nil {
		code, log := errors.ABCIInfo(err, debug)
		return abci.ResponseCheckTx{Code: code, Log: log}
	}
	return abci.ResponseCheckTx{
		Data:      result.Data,
		Log:       result.Log,
		GasWanted: result.GasAllocated,
	}
}

// deliverOrError returns an abci response for DeliverTx, converting the
// error message if present.
func deliverOrError(result *sharepool.DeliverResult, err error, path string, debug bool) abci.ResponseDeliverTx {
	if err != nil {
		code, log := errors.ABCIInfo(err, debug)
		return abci.ResponseDeliverTx{Code: code, Log: log}
	}
	return abci.ResponseDeliverTx{
		Data:    result.Data,
		Log:     result.Log,
		GasUsed: result.GasUsed,
		Tags: []common.KVPair{
			{Key: []byte("action"), Value: []byte(path)},
		},
	}
}

// queryError converts an error into an abci query response.
func queryError(err error, debug bool) abci.ResponseQuery {
	code, log := errors.ABCIInfo(err, debug)
	return abci.ResponseQuery{Code: code, Log: log}
}
