package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/examprep/internal/core/domain"
	"github.com/custodia-labs/examprep/internal/core/ports/driven"
)

// setupTestStore creates a SQLite store in a temporary directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })
	return store
}

func setupCollection(t *testing.T, store *Store) driven.Collection {
	t.Helper()

	c, err := store.GetOrCreateCollection(context.Background(), "study", "models/text-embedding-004")
	require.NoError(t, err)
	return c
}

func record(id string, emb ...float32) domain.VectorRecord {
	return domain.VectorRecord{
		ID:        id,
		Embedding: emb,
		Document:  "doc " + id,
		Metadata: domain.ChunkMetadata{
			SourceFile: "lecture01",
			SourcePage: 2,
		},
	}
}

// ==================== Store Creation Tests ====================

func TestNewStore_ErrorHandling(t *testing.T) {
	_, err := NewStore("/invalid\x00path")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "creating data directory")
}

func TestNewStore_Success(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "db")

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	dbPath := filepath.Join(dir, DatabaseFile)
	assert.Equal(t, dbPath, store.Path())
	assert.FileExists(t, dbPath)
	assert.NoError(t, store.db.Ping())
}

func TestNewStore_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	c, err := store.GetOrCreateCollection(ctx, "study", "m")
	require.NoError(t, err)
	require.NoError(t, c.Upsert(ctx, []domain.VectorRecord{record("a", 1, 2)}))
	require.NoError(t, store.Close())

	store, err = NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	c, err = store.GetCollection(ctx, "study")
	require.NoError(t, err)
	assert.Equal(t, "m", c.EmbeddingModel())

	n, err := c.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)
}

// ==================== Collection Tests ====================

func TestGetCollection_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetCollection(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetOrCreateCollection(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	c, err := store.GetOrCreateCollection(ctx, "study", "model-a")
	require.NoError(t, err)
	assert.Equal(t, "study", c.Name())
	assert.Equal(t, "model-a", c.EmbeddingModel())

	// Reopening with another model keeps the recorded one.
	c, err = store.GetOrCreateCollection(ctx, "study", "model-b")
	require.NoError(t, err)
	assert.Equal(t, "model-a", c.EmbeddingModel())
}

func TestGetOrCreateCollection_EmptyName(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetOrCreateCollection(context.Background(), "  ", "m")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpsert_ReplacesByID(t *testing.T) {
	store := setupTestStore(t)
	c := setupCollection(t, store)
	ctx := context.Background()

	require.NoError(t, c.Upsert(ctx, []domain.VectorRecord{record("a", 0, 0), record("b", 1, 1)}))

	updated := record("a", 5, 5)
	updated.Document = "replaced"
	require.NoError(t, c.Upsert(ctx, []domain.VectorRecord{updated}))

	n, err := c.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	matches, err := c.Query(ctx, []float32{5, 5}, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "a", matches[0].ID)
	assert.Equal(t, "replaced", matches[0].Document)
}

func TestUpsert_Empty(t *testing.T) {
	store := setupTestStore(t)
	c := setupCollection(t, store)

	assert.NoError(t, c.Upsert(context.Background(), nil))
}

func TestUpsert_DimensionMismatch(t *testing.T) {
	store := setupTestStore(t)
	c := setupCollection(t, store)
	ctx := context.Background()

	require.NoError(t, c.Upsert(ctx, []domain.VectorRecord{record("a", 1, 2, 3)}))

	err := c.Upsert(ctx, []domain.VectorRecord{record("b", 4, 5, 6), record("c", 1, 2)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// The failed batch is rolled back as a whole.
	n, err := c.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestUpsert_RejectsMissingID(t *testing.T) {
	store := setupTestStore(t)
	c := setupCollection(t, store)

	err := c.Upsert(context.Background(), []domain.VectorRecord{record("", 1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestQuery_OrdersByDistance(t *testing.T) {
	store := setupTestStore(t)
	c := setupCollection(t, store)
	ctx := context.Background()

	require.NoError(t, c.Upsert(ctx, []domain.VectorRecord{
		record("far", 10, 10),
		record("near", 1, 0),
		record("exact", 0, 0),
		record("mid", 2, 2),
	}))

	matches, err := c.Query(ctx, []float32{0, 0}, 3)
	require.NoError(t, err)
	require.Len(t, matches, 3)

	assert.Equal(t, "exact", matches[0].ID)
	assert.Equal(t, "near", matches[1].ID)
	assert.Equal(t, "mid", matches[2].ID)
	assert.InDelta(t, 0, matches[0].Distance, 1e-9)
	assert.InDelta(t, 1, matches[1].Distance, 1e-9)
	assert.InDelta(t, 8, matches[2].Distance, 1e-9)

	for i := 1; i < len(matches); i++ {
		assert.LessOrEqual(t, matches[i-1].Distance, matches[i].Distance)
	}
}

func TestQuery_TiesKeepInsertionOrder(t *testing.T) {
	store := setupTestStore(t)
	c := setupCollection(t, store)
	ctx := context.Background()

	var records []domain.VectorRecord
	for i := range 5 {
		records = append(records, record(fmt.Sprintf("r%d", i), 1, 1))
	}
	require.NoError(t, c.Upsert(ctx, records))

	matches, err := c.Query(ctx, []float32{0, 0}, 5)
	require.NoError(t, err)
	for i, m := range matches {
		assert.Equal(t, fmt.Sprintf("r%d", i), m.ID)
	}
}

func TestQuery_FewerThanN(t *testing.T) {
	store := setupTestStore(t)
	c := setupCollection(t, store)
	ctx := context.Background()

	require.NoError(t, c.Upsert(ctx, []domain.VectorRecord{record("a", 1)}))

	matches, err := c.Query(ctx, []float32{1}, 10)
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestQuery_EmptyCollectionAndZeroN(t *testing.T) {
	store := setupTestStore(t)
	c := setupCollection(t, store)
	ctx := context.Background()

	matches, err := c.Query(ctx, []float32{1, 2}, 10)
	require.NoError(t, err)
	assert.Empty(t, matches)

	require.NoError(t, c.Upsert(ctx, []domain.VectorRecord{record("a", 1, 2)}))
	matches, err = c.Query(ctx, []float32{1, 2}, 0)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestQuery_RoundTripsMetadata(t *testing.T) {
	store := setupTestStore(t)
	c := setupCollection(t, store)
	ctx := context.Background()

	r := record("a", 0.25, -0.5)
	r.Metadata = domain.ChunkMetadata{
		SourceFile:           "Thermo – Lecture 3",
		SourcePage:           7,
		VisualDescriptions:   "A P-V diagram.",
		TableDescriptions:    "",
		EquationDescriptions: "PV = nRT",
	}
	require.NoError(t, c.Upsert(ctx, []domain.VectorRecord{r}))

	matches, err := c.Query(ctx, []float32{0.25, -0.5}, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, r.Metadata, matches[0].Metadata)
	assert.Equal(t, r.Document, matches[0].Document)
}

func TestQuery_DimensionMismatch(t *testing.T) {
	store := setupTestStore(t)
	c := setupCollection(t, store)
	ctx := context.Background()

	require.NoError(t, c.Upsert(ctx, []domain.VectorRecord{record("a", 1, 2)}))

	_, err := c.Query(ctx, []float32{1, 2, 3}, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCollections_AreIsolated(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	a, err := store.GetOrCreateCollection(ctx, "a", "m")
	require.NoError(t, err)
	b, err := store.GetOrCreateCollection(ctx, "b", "m")
	require.NoError(t, err)

	require.NoError(t, a.Upsert(ctx, []domain.VectorRecord{record("x", 1)}))
	require.NoError(t, b.Upsert(ctx, []domain.VectorRecord{record("x", 1, 2)}))

	na, _ := a.Count(ctx)
	nb, _ := b.Count(ctx)
	assert.Equal(t, 1, na)
	assert.Equal(t, 1, nb)
}

// ==================== Helper Function Tests ====================

func TestFloat32Codec(t *testing.T) {
	in := []float32{0, 1.5, -2.25, 3.4028235e38}
	assert.Equal(t, in, bytesToFloat32Slice(float32SliceToBytes(in)))
	assert.Nil(t, float32SliceToBytes(nil))
	assert.Nil(t, bytesToFloat32Slice(nil))
}

func TestSquaredL2(t *testing.T) {
	assert.InDelta(t, 25, squaredL2([]float32{0, 0}, []float32{3, 4}), 1e-9)
	assert.InDelta(t, 0, squaredL2([]float32{1, 1}, []float32{1, 1}), 1e-9)
}
