package store

import (
	"bytes"

	"github.com/iov-one/sharepool/errors"
)

// cacheIter merges the pending writes of a cache wrap with the iterator of
// the store below it. Pending writes shadow the parent values with the same
// key and pending deletes hide them.
type cacheIter struct {
	items   []keyer
	parent  *peekIter
	reverse bool
}

var _ Iterator = (*cacheIter)(nil)

func newCacheIter(items []keyer, parent Iterator, reverse bool) *cacheIter {
	return &cacheIter{
		items:   items,
		parent:  &peekIter{it: parent},
		reverse: reverse,
	}
}

// Next returns the next key in order of iteration.
func (i *cacheIter) Next() ([]byte, []byte, error) {
	for {
		pkey, pvalue, err := i.parent.peek()
		parentDone := errors.ErrIteratorDone.Is(err)
		if err != nil && !parentDone {
			return nil, nil, err
		}

		if len(i.items) == 0 {
			if parentDone {
				return nil, nil, errors.ErrIteratorDone
			}
			i.parent.advance()
			return pkey, pvalue, nil
		}

		item := i.items[0]
		if !parentDone {
			cmp := bytes.Compare(pkey, item.Key())
			if i.reverse {
				cmp = -cmp
			}
			if cmp < 0 {
				i.parent.advance()
				return pkey, pvalue, nil
			}
			if cmp == 0 {
				// Shadowed by our own write or delete.
				i.parent.advance()
			}
		}

		i.items = i.items[1:]
		if s, ok := item.(setItem); ok {
			return s.key, s.value, nil
		}
		// Deleted item, look at the next one.
	}
}

// Release releases the parent iterator.
func (i *cacheIter) Release() {
	i.items = nil
	i.parent.it.Release()
}

// peekIter allows to look at the next element of an iterator without
// consuming it.
type peekIter struct {
	it     Iterator
	loaded bool
	key    []byte
	value  []byte
	err    error
}

func (p *peekIter) peek() ([]byte, []byte, error) {
	if !p.loaded {
		p.key, p.value, p.err = p.it.Next()
		p.loaded = true
	}
	return p.key, p.value, p.err
}

func (p *peekIter) advance() {
	p.loaded = false
}
