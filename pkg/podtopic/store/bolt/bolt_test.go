package bolt

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"github.com/cognicore/podtopic/pkg/podtopic/internalerr"
	"github.com/cognicore/podtopic/pkg/podtopic/store"
	"github.com/cognicore/podtopic/pkg/podtopic/store/storetest"
)

// newTestStore creates a temporary bbolt store for testing.
func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	st, err := Open(path)
	require.NoError(t, err)
	return st, path
}

func TestBoltStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		st, _ := newTestStore(t)
		return st
	})
}

func TestBoltReopen(t *testing.T) {
	ctx := context.Background()
	st, path := newTestStore(t)

	want := storetest.Bundle(t, "b1", time.Date(2024, 1, 2, 3, 4, 5, 6, time.UTC))
	require.NoError(t, st.SaveBundle(ctx, want))
	require.NoError(t, st.Close())

	st2, err := Open(path)
	require.NoError(t, err)
	defer st2.Close()

	got, err := st2.LoadBundle(ctx, "b1")
	require.NoError(t, err)
	storetest.AssertSameBundle(t, want, got)
}

func TestBoltCorruptMeta(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t)
	defer st.Close()

	require.NoError(t, st.SaveBundle(ctx, storetest.Bundle(t, "b1", time.Now())))
	require.NoError(t, st.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte("b1")).Put(keyMeta, []byte("{"))
	}))

	b, err := st.LoadBundle(ctx, "b1")
	assert.Nil(t, b)
	assert.ErrorIs(t, err, internalerr.ErrLoad)
}

func TestBoltMissingModel(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t)
	defer st.Close()

	require.NoError(t, st.SaveBundle(ctx, storetest.Bundle(t, "b1", time.Now())))
	require.NoError(t, st.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte("b1")).Delete(keyModel)
	}))

	_, err := st.LoadBundle(ctx, "b1")
	var le *internalerr.LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "model", le.Artifact)
}

func TestBoltCancelledContext(t *testing.T) {
	st, _ := newTestStore(t)
	defer st.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := st.LoadBundle(ctx, "")
	assert.ErrorIs(t, err, context.Canceled)
}
