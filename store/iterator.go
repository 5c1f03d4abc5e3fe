package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/vault/errors"
)

// snapshot copies all items of the btree within [start, end) in the
// requested order. Writes must not happen while iterating, so a copy taken
// up front is as good as a live cursor.
func snapshot(bt *btree.BTree, start, end []byte, ascending bool) []btree.Item {
	var items []btree.Item
	collect := func(item btree.Item) bool {
		items = append(items, item)
		return true
	}

	switch {
	case start == nil && end == nil:
		bt.Ascend(collect)
	case start == nil:
		bt.AscendLessThan(bkey{end}, collect)
	case end == nil:
		bt.AscendGreaterOrEqual(bkey{start}, collect)
	default:
		bt.AscendRange(bkey{start}, bkey{end}, collect)
	}

	if !ascending {
		for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
			items[i], items[j] = items[j], items[i]
		}
	}
	return items
}

// mergeIterator combines our cached writes with the results of the parent
// store, taking into consideration overwrites and deletes.
type mergeIterator struct {
	ours      []btree.Item
	idx       int
	ascending bool

	parent     Iterator
	parentKey  []byte
	parentVal  []byte
	parentDone bool
}

var _ Iterator = (*mergeIterator)(nil)

func newMergeIterator(ours []btree.Item, parent Iterator, ascending bool) *mergeIterator {
	it := &mergeIterator{
		ours:      ours,
		ascending: ascending,
		parent:    parent,
	}
	return it
}

// advanceParent loads the next parent element into the buffer.
func (m *mergeIterator) advanceParent() error {
	if m.parentDone {
		return nil
	}
	key, val, err := m.parent.Next()
	if errors.ErrIteratorDone.Is(err) {
		m.parentDone = true
		m.parentKey, m.parentVal = nil, nil
		return nil
	}
	if err != nil {
		return err
	}
	m.parentKey, m.parentVal = key, val
	return nil
}

// Next returns the next key/value pair, preferring our writes over the
// parent for equal keys.
func (m *mergeIterator) Next() ([]byte, []byte, error) {
	if m.parentKey == nil && !m.parentDone {
		if err := m.advanceParent(); err != nil {
			return nil, nil, err
		}
	}

	for {
		haveOurs := m.idx < len(m.ours)
		haveParent := !m.parentDone

		switch {
		case !haveOurs && !haveParent:
			return nil, nil, errors.ErrIteratorDone
		case !haveOurs:
			key, val := m.parentKey, m.parentVal
			if err := m.advanceParent(); err != nil {
				return nil, nil, err
			}
			return key, val, nil
		}

		item := m.ours[m.idx]
		cmp := -1
		if haveParent {
			cmp = bytes.Compare(item.(keyer).Key(), m.parentKey)
			if !m.ascending {
				cmp = -cmp
			}
		}

		if cmp > 0 {
			key, val := m.parentKey, m.parentVal
			if err := m.advanceParent(); err != nil {
				return nil, nil, err
			}
			return key, val, nil
		}

		// ours shadows the parent entry with the same key
		m.idx++
		if cmp == 0 {
			if err := m.advanceParent(); err != nil {
				return nil, nil, err
			}
		}
		if set, ok := item.(setItem); ok {
			return set.Key(), set.value, nil
		}
		// deleted item, keep looking
	}
}

// Release releases the Iterator.
func (m *mergeIterator) Release() {
	m.parent.Release()
	m.ours = nil
}
