package orm

import (
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketNames(t *testing.T) {
	assert.NotPanics(t, func() { NewBucket("txs", NewSimpleObj(nil, &Counter{})) })
	assert.Panics(t, func() { NewBucket("a", NewSimpleObj(nil, &Counter{})) })
	assert.Panics(t, func() { NewBucket("Upper", NewSimpleObj(nil, &Counter{})) })
}

func TestBucketStore(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("cnts", NewSimpleObj(nil, &Counter{}))

	obj, err := b.Get(db, []byte("missing"))
	require.NoError(t, err)
	assert.Nil(t, obj)

	// invalid models are rejected
	err = b.Save(db, NewSimpleObj([]byte("bad"), &Counter{Count: -1}))
	assert.True(t, errors.ErrInvalidModel.Is(err))
	err = b.Save(db, NewSimpleObj(nil, &Counter{Count: 1}))
	assert.True(t, errors.ErrEmpty.Is(err))

	c := &Counter{Count: 17, Tags: []string{"a", "b"}}
	require.NoError(t, b.Save(db, NewSimpleObj([]byte("one"), c)))

	obj, err = b.Get(db, []byte("one"))
	require.NoError(t, err)
	require.NotNil(t, obj)
	assert.Equal(t, []byte("one"), obj.Key())
	assert.Equal(t, c, obj.Value())

	ok, err := b.Has(db, []byte("one"))
	require.NoError(t, err)
	assert.True(t, ok)

	// the bucket prefix isolates data from the other buckets
	other := NewBucket("cntx", NewSimpleObj(nil, &Counter{}))
	obj, err = other.Get(db, []byte("one"))
	require.NoError(t, err)
	assert.Nil(t, obj)

	require.NoError(t, b.Delete(db, []byte("one")))
	obj, err = b.Get(db, []byte("one"))
	require.NoError(t, err)
	assert.Nil(t, obj)
}

func TestBucketQueryAndIterate(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("cnts", NewSimpleObj(nil, &Counter{}))

	keys := [][]byte{{1, 1}, {1, 2}, {2, 1}, {1, 0}}
	for i, k := range keys {
		require.NoError(t, b.Save(db, NewSimpleObj(k, &Counter{Count: int64(i)})))
	}

	qr := vault.NewQueryRouter()
	b.Register("counters", qr)
	h := qr.Handler("/counters")
	require.NotNil(t, h)

	res, err := h.Query(db, vault.KeyQueryMod, []byte{1, 2})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, b.DBKey([]byte{1, 2}), res[0].Key)

	res, err = h.Query(db, vault.KeyQueryMod, []byte{9, 9})
	require.NoError(t, err)
	assert.Len(t, res, 0)

	res, err = h.Query(db, vault.PrefixQueryMod, []byte{1})
	require.NoError(t, err)
	require.Len(t, res, 3)
	assert.Equal(t, b.DBKey([]byte{1, 0}), res[0].Key)
	assert.Equal(t, b.DBKey([]byte{1, 2}), res[2].Key)

	_, err = h.Query(db, "unknown", nil)
	assert.True(t, errors.ErrHuman.Is(err))

	var counts []int64
	err = b.Iterate(db, []byte{1}, func(obj Object) error {
		counts = append(counts, obj.Value().(*Counter).Count)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 0, 1}, counts)

	// errors stop the iteration
	var seen int
	err = b.Iterate(db, nil, func(Object) error {
		seen++
		return errors.ErrInvalidState
	})
	assert.True(t, errors.ErrInvalidState.Is(err))
	assert.Equal(t, 1, seen)
}

func TestPrefixRange(t *testing.T) {
	cases := map[string]struct {
		prefix []byte
		end    []byte
	}{
		"normal":                 {[]byte{1, 3, 4}, []byte{1, 3, 5}},
		"normal short":           {[]byte{79}, []byte{80}},
		"empty cases":            {nil, nil},
		"roll-over example 1":    {[]byte{17, 28, 255}, []byte{17, 29, 0}},
		"roll-over example 2":    {[]byte{15, 42, 255, 255}, []byte{15, 43, 0, 0}},
		"pathological roll-over": {[]byte{255, 255, 255, 255}, nil},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			start, end := prefixRange(tc.prefix)
			assert.Equal(t, tc.prefix, start)
			assert.Equal(t, tc.end, end)
		})
	}
}
