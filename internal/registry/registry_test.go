package registry

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mockhub/mockhub/internal/storage"
)

func newTestRegistry(t *testing.T) (*Registry, storage.Storage) {
	t.Helper()

	store, err := storage.NewSQLite(filepath.Join(t.TempDir(), "mockhub.db"))
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { store.Close() })

	return New(store, zerolog.Nop()), store
}

func TestCreateRoundTrip(t *testing.T) {
	reg, store := newTestRegistry(t)
	ctx := context.Background()

	// Every JSON kind the authoring UI can submit.
	values := []string{
		`{"msg":"world"}`,
		`[1,2,3]`,
		`"just a string"`,
		`42.5`,
		`true`,
		`null`,
		`{"nested":{"list":[{"a":1},{"b":[null,false]}]}}`,
	}

	for _, v := range values {
		id, err := reg.Create(ctx, "/rt", json.RawMessage(v))
		require.NoError(t, err, "value %s", v)

		ep, err := store.GetEndpoint(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, ep)
		assert.Equal(t, v, string(ep.Response), "stored bytes must match submitted bytes")
	}
}

func TestCreateEmptyPath(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	before, err := reg.List(ctx)
	require.NoError(t, err)

	_, err = reg.Create(ctx, "", json.RawMessage(`{}`))
	assert.ErrorIs(t, err, ErrPathRequired)

	after, err := reg.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after, "validation failure must not mutate the store")
}

func TestCreateInvalidResponse(t *testing.T) {
	reg, _ := newTestRegistry(t)

	_, err := reg.Create(context.Background(), "/bad", json.RawMessage(`{"unterminated`))
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestCreateAbsentResponseStoresNull(t *testing.T) {
	reg, store := newTestRegistry(t)
	ctx := context.Background()

	id, err := reg.Create(ctx, "/empty", nil)
	require.NoError(t, err)

	ep, err := store.GetEndpoint(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, ep)
	assert.Equal(t, "null", string(ep.Response))
}

func TestCreateDuplicatePaths(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	id1, err := reg.Create(ctx, "/dup", json.RawMessage(`1`))
	require.NoError(t, err)
	id2, err := reg.Create(ctx, "/dup", json.RawMessage(`2`))
	require.NoError(t, err, "duplicate paths are allowed")
	assert.NotEqual(t, id1, id2)

	// Each duplicate is independently deletable by its own id.
	require.NoError(t, reg.Delete(ctx, id1))
	require.NoError(t, reg.Delete(ctx, id2))
}

func TestUpdate(t *testing.T) {
	reg, store := newTestRegistry(t)
	ctx := context.Background()

	id, err := reg.Create(ctx, "/hello", json.RawMessage(`{"msg":"world"}`))
	require.NoError(t, err)

	before, err := store.GetEndpoint(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, before)

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, reg.Update(ctx, id, "/hello2", json.RawMessage(`[1,2,3]`)))

	after, err := store.GetEndpoint(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, after)
	assert.Equal(t, id, after.ID)
	assert.Equal(t, "/hello2", after.Path)
	assert.Equal(t, `[1,2,3]`, string(after.Response))
	assert.True(t, after.CreatedAt.Equal(before.CreatedAt), "created_at is immutable")
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt), "updated_at must advance")
}

func TestUpdateValidationPrecedesNotFound(t *testing.T) {
	reg, _ := newTestRegistry(t)

	err := reg.Update(context.Background(), "ep_missing", "", json.RawMessage(`{}`))
	assert.ErrorIs(t, err, ErrPathRequired)
}

func TestUpdateMissing(t *testing.T) {
	reg, _ := newTestRegistry(t)

	err := reg.Update(context.Background(), "ep_missing", "/x", json.RawMessage(`{}`))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteFinality(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	id, err := reg.Create(ctx, "/hello", json.RawMessage(`{}`))
	require.NoError(t, err)

	require.NoError(t, reg.Delete(ctx, id))
	assert.ErrorIs(t, reg.Delete(ctx, id), ErrNotFound)
	assert.ErrorIs(t, reg.Update(ctx, id, "/x", json.RawMessage(`{}`)), ErrNotFound)
}

func TestListNewestFirst(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	_, err := reg.Create(ctx, "/first", json.RawMessage(`1`))
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	_, err = reg.Create(ctx, "/second", json.RawMessage(`2`))
	require.NoError(t, err)

	endpoints, err := reg.List(ctx)
	require.NoError(t, err)
	require.Len(t, endpoints, 2)
	assert.Equal(t, "/second", endpoints[0].Path)
	assert.Equal(t, "/first", endpoints[1].Path)
}

func TestListEmpty(t *testing.T) {
	reg, _ := newTestRegistry(t)

	endpoints, err := reg.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, endpoints, "empty list must marshal as [], not null")
	assert.Len(t, endpoints, 0)
}
