package iavl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitStoreVersions(t *testing.T) {
	s := NewCommitStore("", "test", 0)
	defer s.Close()

	info, err := s.LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(0), info.Version)

	cache := s.CacheWrap()
	require.NoError(t, cache.Set([]byte("owner:a"), []byte{1}))
	require.NoError(t, cache.Set([]byte("owner:b"), []byte{1}))

	// nothing is visible before the cache is written
	val, err := s.Get([]byte("owner:a"))
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, cache.Write())
	first, err := s.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Version)
	assert.NotEmpty(t, first.Hash)

	val, err = s.Get([]byte("owner:a"))
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, val)

	// discarded changes never reach the tree
	cache = s.CacheWrap()
	require.NoError(t, cache.Delete([]byte("owner:a")))
	cache.Discard()
	val, err = s.Get([]byte("owner:a"))
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, val)

	cache = s.CacheWrap()
	require.NoError(t, cache.Delete([]byte("owner:b")))
	require.NoError(t, cache.Write())
	second, err := s.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Version)
	assert.NotEqual(t, first.Hash, second.Hash)

	has, err := treeAdapter{tree: s.tree}.Has([]byte("owner:b"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestCommitStoreIterator(t *testing.T) {
	s := NewCommitStore("", "test", 0)
	defer s.Close()

	cache := s.CacheWrap()
	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, cache.Set([]byte(k), []byte(k)))
	}
	require.NoError(t, cache.Write())
	_, err := s.Commit()
	require.NoError(t, err)

	it, err := s.CacheWrap().ReverseIterator(nil, nil)
	require.NoError(t, err)
	defer it.Release()

	var keys []string
	for {
		k, _, err := it.Next()
		if err != nil {
			break
		}
		keys = append(keys, string(k))
	}
	assert.Equal(t, []string{"c", "b", "a"}, keys)
}
