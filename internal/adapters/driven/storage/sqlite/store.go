package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/examprep/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/examprep/internal/core/domain"
	"github.com/custodia-labs/examprep/internal/core/ports/driven"
	"github.com/custodia-labs/examprep/internal/logger"
)

// DatabaseFile is the file name created inside the store directory.
const DatabaseFile = "vectors.db"

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Store is a SQLite-backed set of vector collections.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens or creates the store in dataDir.
// If dataDir is empty, defaults to ./chroma_db_vision.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		dataDir = domain.DefaultDBPath
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// GetOrCreateCollection opens a collection, creating it if missing.
// Opening an existing collection with a different embedding model logs a
// warning; the stored model is kept.
func (s *Store) GetOrCreateCollection(ctx context.Context, name, embeddingModel string) (driven.Collection, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: empty collection name", domain.ErrInvalidInput)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO collections (name, embedding_model) VALUES (?, ?) ON CONFLICT(name) DO NOTHING`,
		name, embeddingModel)
	if err != nil {
		return nil, fmt.Errorf("creating collection %s: %w", name, err)
	}

	c, err := s.collection(ctx, name)
	if err != nil {
		return nil, err
	}

	if c.model != "" && embeddingModel != "" && c.model != embeddingModel {
		logger.Warn("collection %q was built with %q but %q is configured; results may be meaningless",
			name, c.model, embeddingModel)
	}
	return c, nil
}

// GetCollection opens an existing collection.
func (s *Store) GetCollection(ctx context.Context, name string) (driven.Collection, error) {
	return s.collection(ctx, name)
}

func (s *Store) collection(ctx context.Context, name string) (*collection, error) {
	c := &collection{store: s, name: name}
	err := s.db.QueryRowContext(ctx,
		`SELECT embedding_model FROM collections WHERE name = ?`, name).Scan(&c.model)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("collection %s: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading collection %s: %w", name, err)
	}
	return c, nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	pending, err := migrations.Up(fsys)
	if err != nil {
		return err
	}

	for _, m := range pending {
		if m.Version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.SQL); err != nil {
			return fmt.Errorf("executing migration %s: %w", m.Name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", m.Version); err != nil {
			return fmt.Errorf("recording migration %s: %w", m.Name, err)
		}
	}

	return nil
}

// ==================== Collection ====================

// collection implements driven.Collection.
type collection struct {
	store *Store
	name  string
	model string
}

var _ driven.Collection = (*collection)(nil)

// Name returns the collection name.
func (c *collection) Name() string {
	return c.name
}

// EmbeddingModel returns the model recorded at creation.
func (c *collection) EmbeddingModel() string {
	return c.model
}

// Upsert inserts or replaces records by id in one transaction.
// All embeddings in a collection must share one dimension; the first
// upsert fixes it.
func (c *collection) Upsert(ctx context.Context, records []domain.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := c.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var dim int
	if err := tx.QueryRowContext(ctx,
		`SELECT dimension FROM collections WHERE name = ?`, c.name).Scan(&dim); err != nil {
		return fmt.Errorf("reading dimension: %w", err)
	}

	if dim == 0 {
		dim = len(records[0].Embedding)
		if _, err := tx.ExecContext(ctx,
			`UPDATE collections SET dimension = ? WHERE name = ?`, dim, c.name); err != nil {
			return fmt.Errorf("recording dimension: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (collection, id, document, embedding, metadata)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(collection, id) DO UPDATE SET
			document = excluded.document,
			embedding = excluded.embedding,
			metadata = excluded.metadata
	`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if r.ID == "" {
			return fmt.Errorf("%w: record without id", domain.ErrInvalidInput)
		}
		if len(r.Embedding) != dim || dim == 0 {
			return fmt.Errorf("%w: record %s has dimension %d, collection expects %d",
				domain.ErrInvalidInput, r.ID, len(r.Embedding), dim)
		}

		metadataJSON, err := json.Marshal(r.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling metadata: %w", err)
		}

		if _, err := stmt.ExecContext(ctx, c.name, r.ID, r.Document,
			float32SliceToBytes(r.Embedding), string(metadataJSON)); err != nil {
			return fmt.Errorf("upserting record %s: %w", r.ID, err)
		}
	}

	return tx.Commit()
}

// Query returns up to n records nearest to embedding by squared L2 distance.
func (c *collection) Query(ctx context.Context, embedding []float32, n int) ([]domain.Match, error) {
	if n <= 0 {
		return nil, nil
	}

	rows, err := c.store.db.QueryContext(ctx,
		`SELECT id, document, embedding, metadata FROM records WHERE collection = ? ORDER BY seq`,
		c.name)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var matches []domain.Match
	for rows.Next() {
		var (
			m            domain.Match
			blob         []byte
			metadataJSON string
		)
		if err := rows.Scan(&m.ID, &m.Document, &blob, &metadataJSON); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}

		stored := bytesToFloat32Slice(blob)
		if len(stored) != len(embedding) {
			return nil, fmt.Errorf("%w: query dimension %d, collection dimension %d",
				domain.ErrInvalidInput, len(embedding), len(stored))
		}
		m.Distance = squaredL2(embedding, stored)

		if err := json.Unmarshal([]byte(metadataJSON), &m.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshalling metadata for %s: %w", m.ID, err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})
	if len(matches) > n {
		matches = matches[:n]
	}
	return matches, nil
}

// Count returns the number of records in the collection.
func (c *collection) Count(ctx context.Context) (int, error) {
	var n int
	err := c.store.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM records WHERE collection = ?`, c.name).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return n, nil
}

// ==================== Helper Functions ====================

func squaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
