package orm

import (
	"encoding/hex"

	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/errors"
)

// QueryRangeLimit is the maximum number of entries a range query returns.
const QueryRangeLimit = 1000

// prefixQuery answers ABCI queries for all keys under a bucket prefix.
// Returned keys do not contain the bucket prefix.
type prefixQuery struct {
	prefix []byte
}

var _ sharepool.QueryHandler = prefixQuery{}

func (q prefixQuery) Query(db sharepool.ReadOnlyKVStore, mod string, data []byte) ([]sharepool.Model, error) {
	key := append(append([]byte{}, q.prefix...), data...)
	switch mod {
	case sharepool.KeyQueryMod:
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, nil
		}
		return []sharepool.Model{sharepool.Pair(data, value)}, nil
	case sharepool.PrefixQueryMod:
		it, err := db.Iterator(key, prefixEnd(key))
		if err != nil {
			return nil, err
		}
		models, err := ConsumeIterator(it)
		if err != nil {
			return nil, err
		}
		for i := range models {
			models[i].Key = models[i].Key[len(q.prefix):]
		}
		return models, nil
	case sharepool.RangeQueryMod:
		offset, err := parseRangeOffset(data)
		if err != nil {
			return nil, err
		}
		start := append(append([]byte{}, q.prefix...), offset...)
		it, err := db.Iterator(start, prefixEnd(q.prefix))
		if err != nil {
			return nil, err
		}
		models, err := consumeIteratorLimit(it, QueryRangeLimit)
		if err != nil {
			return nil, err
		}
		for i := range models {
			models[i].Key = models[i].Key[len(q.prefix):]
		}
		return models, nil
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mod %q", mod)
	}
}

// parseRangeOffset decodes the hex encoded range query offset. A trailing
// ":" is accepted.
func parseRangeOffset(raw []byte) ([]byte, error) {
	if n := len(raw); n > 0 && raw[n-1] == ':' {
		raw = raw[:n-1]
	}
	offset := make([]byte, hex.DecodedLen(len(raw)))
	if _, err := hex.Decode(offset, raw); err != nil {
		return nil, errors.Wrap(errors.ErrInput, "offset is not hex data")
	}
	return offset, nil
}

// ConsumeIterator will read all remaining data into an
// array and release the iterator
func ConsumeIterator(it sharepool.Iterator) ([]sharepool.Model, error) {
	return consumeIteratorLimit(it, -1)
}

// consumeIteratorLimit reads at most limit entries, or all of them if
// limit is negative.
func consumeIteratorLimit(it sharepool.Iterator, limit int) ([]sharepool.Model, error) {
	defer it.Release()

	var res []sharepool.Model
	for limit < 0 || len(res) < limit {
		k, v, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		res = append(res, sharepool.Pair(k, v))
	}
	return res, nil
}

// prefixEnd returns the smallest key that is greater than all keys
// starting with given prefix, or nil if there is no such key.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte{}, prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

// RegisterQuery exposes the raw store under the "/" path. Keys are full
// database keys, including bucket prefixes.
func RegisterQuery(qr sharepool.QueryRouter) {
	qr.Register("/", prefixQuery{})
}
