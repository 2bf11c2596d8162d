package session_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/core/academics"
	"github.com/trezcool/academia/core/session"
	"github.com/trezcool/academia/core/user"
)

func newStore() *session.Store {
	return session.NewStore(time.Hour, func(usr user.User) *academics.Workspace {
		return academics.NewWorkspace(usr.Username, nil, nil, nil)
	})
}

func TestStore_Lifecycle(t *testing.T) {
	store := newStore()
	assert.Equal(t, 0, store.Len(), "empty at startup")

	hod := user.User{ID: "2", Username: "hod", Role: user.RoleHOD}
	sess := store.Create(hod)
	require.NotEmpty(t, sess.ID)
	require.NotNil(t, sess.Workspace)
	assert.Equal(t, hod, sess.User)
	assert.False(t, sess.CreatedAt.IsZero())

	got, err := store.Get(sess.ID)
	require.NoError(t, err)
	assert.Same(t, sess, got)

	require.NoError(t, store.Delete(sess.ID))
	_, err = store.Get(sess.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
	assert.ErrorIs(t, store.Delete(sess.ID), session.ErrNotFound)
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	store := newStore()
	usr := user.User{ID: "2", Username: "hod", Role: user.RoleHOD}

	a := store.Create(usr)
	b := store.Create(usr)
	assert.NotEqual(t, a.ID, b.ID)
	assert.NotSame(t, a.Workspace, b.Workspace)

	_, err := a.Workspace.AddColumn("Grade")
	require.NoError(t, err)
	assert.Equal(t, 1, a.Workspace.Status().Columns)
	assert.Equal(t, 0, b.Workspace.Status().Columns)
}

func TestStore_Concurrent(t *testing.T) {
	store := newStore()
	usr := user.User{ID: "1", Username: "principal", Role: user.RolePrincipal}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess := store.Create(usr)
			_, _ = store.Get(sess.ID)
			_ = store.Delete(sess.ID)
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, store.Len())
}

func TestStore_Expiry(t *testing.T) {
	store := newStore()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	store.SetNowFunc(func() time.Time { return now })

	usr := user.User{ID: "2", Username: "hod", Role: user.RoleHOD}
	old := store.Create(usr)

	now = now.Add(30 * time.Minute)
	fresh := store.Create(usr)
	assert.Equal(t, 2, store.Len())

	now = now.Add(30 * time.Minute)
	_, err := store.Get(old.ID)
	assert.ErrorIs(t, err, session.ErrNotFound, "expired after the ttl")
	_, err = store.Get(fresh.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, store.Len(), "expired session dropped on access")

	// an expired session nobody reads is dropped by the next login
	now = now.Add(time.Hour)
	store.Create(usr)
	assert.Equal(t, 1, store.Len())
	_, err = store.Get(fresh.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestStore_NoExpiry(t *testing.T) {
	store := session.NewStore(0, func(usr user.User) *academics.Workspace {
		return academics.NewWorkspace(usr.Username, nil, nil, nil)
	})
	now := time.Now()
	store.SetNowFunc(func() time.Time { return now })

	sess := store.Create(user.User{ID: "1", Username: "principal", Role: user.RolePrincipal})
	now = now.Add(24 * 365 * time.Hour)
	_, err := store.Get(sess.ID)
	assert.NoError(t, err)
}
