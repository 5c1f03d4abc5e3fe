package orm

import (
	"reflect"
	"testing"

	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
)

func TestModelBucket(t *testing.T) {
	db := store.MemStore()

	b := NewModelBucket("cnts", &Counter{})

	if err := b.Put(db, []byte("c1"), &Counter{Count: 1}); err != nil {
		t.Fatalf("cannot save counter instance: %s", err)
	}
	if err := b.Has(db, []byte("c1")); err != nil {
		t.Fatalf("cannot find c1 counter: %s", err)
	}

	var c1 Counter
	if err := b.One(db, []byte("c1"), &c1); err != nil {
		t.Fatalf("cannot get c1 counter: %s", err)
	}
	if c1.Count != 1 {
		t.Fatalf("unexpected counter state: %d", c1.Count)
	}

	var l Label
	if err := b.One(db, []byte("c1"), &l); !errors.ErrInvalidType.Is(err) {
		t.Fatalf("unexpected error when loading into a wrong type: %s", err)
	}

	if err := b.Put(db, []byte("c2"), &Counter{Count: -4}); !errors.ErrInvalidModel.Is(err) {
		t.Fatalf("unexpected error when saving an invalid model: %s", err)
	}

	if err := b.Delete(db, []byte("c1")); err != nil {
		t.Fatalf("cannot delete c1 counter: %s", err)
	}
	if err := b.Delete(db, []byte("unknown")); !errors.ErrNotFound.Is(err) {
		t.Fatalf("unexpected error when deleting unexisting instance: %s", err)
	}
	if err := b.One(db, []byte("c1"), &c1); !errors.ErrNotFound.Is(err) {
		t.Fatalf("unexpected error for an unknown model get: %s", err)
	}
	if err := b.Has(db, []byte("c1")); !errors.ErrNotFound.Is(err) {
		t.Fatalf("unexpected error for an unknown model check: %s", err)
	}
}

func TestModelBucketIterate(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &Counter{})

	for i, key := range []string{"b2", "a1", "b1", "c1"} {
		if err := b.Put(db, []byte(key), &Counter{Count: int64(i + 1)}); err != nil {
			t.Fatalf("cannot save %q: %s", key, err)
		}
	}

	var keys []string
	var counts []int64
	err := b.Iterate(db, []byte("b"), func(key []byte, m Model) error {
		keys = append(keys, string(key))
		counts = append(counts, m.(*Counter).Count)
		return nil
	})
	if err != nil {
		t.Fatalf("cannot iterate: %s", err)
	}
	if want := []string{"b1", "b2"}; !reflect.DeepEqual(keys, want) {
		t.Fatalf("want %q keys, got %q", want, keys)
	}
	if want := []int64{3, 1}; !reflect.DeepEqual(counts, want) {
		t.Fatalf("want %v counts, got %v", want, counts)
	}

	stop := errors.ErrHuman.New("stop")
	var n int
	err = b.Iterate(db, nil, func([]byte, Model) error {
		n++
		return stop
	})
	if !errors.ErrHuman.Is(err) || n != 1 {
		t.Fatalf("iteration not stopped: %d calls, %v", n, err)
	}
}
