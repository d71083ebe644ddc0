package quick

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorePutAndGet(t *testing.T) {
	store := NewStore(24 * time.Hour)

	vendors := []VendorInput{{Name: "Acme", CostPerRecord: 9}}
	session := store.Put(vendors, &CompareResult{})
	require.NotEmpty(t, session.ID)
	assert.Equal(t, session.CreatedAt.Add(24*time.Hour), session.ExpiresAt)

	got, err := store.Get(session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)
	assert.Equal(t, vendors, got.Vendors)
}

func TestStoreUnknownSession(t *testing.T) {
	store := NewStore(24 * time.Hour)

	_, err := store.Get("no-such-session")
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStoreSweepsExpiredOnAccess(t *testing.T) {
	store := NewStore(24 * time.Hour)

	current := time.Now()
	store.now = func() time.Time { return current }

	stale := store.Put([]VendorInput{{Name: "Old", CostPerRecord: 5}}, nil)
	require.Equal(t, 1, store.Len())

	// Advance past the TTL: the session is swept on the next access.
	current = current.Add(25 * time.Hour)

	_, err := store.Get(stale.ID)
	require.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 0, store.Len())
}

func TestStoreDistinctIDs(t *testing.T) {
	store := NewStore(time.Hour)

	a := store.Put(nil, nil)
	b := store.Put(nil, nil)
	assert.NotEqual(t, a.ID, b.ID)
}
