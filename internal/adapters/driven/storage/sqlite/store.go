package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/labelscan/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/labelscan/internal/core/domain"
	"github.com/custodia-labs/labelscan/internal/core/ports/driven"
	"github.com/custodia-labs/labelscan/internal/logger"
)

// timeLayout sorts lexically in chronological order for UTC values.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store is a unified SQLite-based storage that provides access to
// all store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.labelscan/data/labelscan.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".labelscan", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "labelscan.db")

	// WAL lets the watch command read history while a scan writes.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
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
		now:  time.Now,
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

// ScanStore returns a ScanStore interface backed by this store.
func (s *Store) ScanStore() driven.ScanStore {
	return &scanStore{store: s}
}

// VisionCache returns a VisionCache interface backed by this store.
func (s *Store) VisionCache() driven.VisionCache {
	return &visionCache{store: s}
}

// migrate runs all pending migrations, each in its own transaction.
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

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := s.applyMigration(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		logger.Debug("Applied migration %s", name)
	}

	return nil
}

func (s *Store) applyMigration(version int, content string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(content); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		// Rows written by other tools may use plain RFC 3339.
		t, _ = time.Parse(time.RFC3339Nano, s)
	}
	return t
}

// ==================== Scan Store ====================

// scanStore implements driven.ScanStore.
type scanStore struct {
	store *Store
}

var _ driven.ScanStore = (*scanStore)(nil)

const barcodeColumns = `barcode, symbology, first_seen, last_seen, scan_count,
	COALESCE(product_name, ''), COALESCE(brand, ''), COALESCE(category, ''), COALESCE(notes, '')`

// RecordScan inserts or bumps the barcode row and appends a history row
// in one transaction.
func (s *scanStore) RecordScan(ctx context.Context, code domain.Code, batchID string) (domain.ScanRecord, error) {
	if code.Value == "" {
		return domain.ScanRecord{}, fmt.Errorf("%w: empty barcode", domain.ErrInvalidInput)
	}
	now := s.store.now()
	ts := formatTime(now)

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.ScanRecord{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	existing, err := scanBarcode(tx.QueryRowContext(ctx,
		"SELECT "+barcodeColumns+" FROM barcodes WHERE barcode = ?", code.Value))

	var rec domain.ScanRecord
	switch {
	case errors.Is(err, domain.ErrNotFound):
		_, err = tx.ExecContext(ctx, `
			INSERT INTO barcodes (barcode, symbology, first_seen, last_seen, scan_count)
			VALUES (?, ?, ?, ?, 1)
		`, code.Value, code.Symbology, ts, ts)
		if err != nil {
			return domain.ScanRecord{}, fmt.Errorf("insert barcode: %w", err)
		}
		rec = domain.ScanRecord{
			Barcode:   code.Value,
			Symbology: code.Symbology,
			IsNew:     true,
			FirstSeen: parseTime(ts),
			ScanCount: 1,
		}
	case err != nil:
		return domain.ScanRecord{}, err
	default:
		_, err = tx.ExecContext(ctx, `
			UPDATE barcodes SET last_seen = ?, scan_count = scan_count + 1 WHERE barcode = ?
		`, ts, code.Value)
		if err != nil {
			return domain.ScanRecord{}, fmt.Errorf("update barcode: %w", err)
		}
		rec = domain.ScanRecord{
			Barcode:     existing.Barcode,
			Symbology:   existing.Symbology,
			FirstSeen:   existing.FirstSeen,
			ScanCount:   existing.ScanCount + 1,
			ProductName: existing.ProductName,
			Brand:       existing.Brand,
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO scan_history (barcode, timestamp, batch_id, source) VALUES (?, ?, ?, ?)
	`, code.Value, ts, nullString(batchID), nullString(code.Source))
	if err != nil {
		return domain.ScanRecord{}, fmt.Errorf("insert scan history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.ScanRecord{}, fmt.Errorf("commit: %w", err)
	}

	logger.Debug("Recorded scan: %s (new=%t, count=%d)", rec.Barcode, rec.IsNew, rec.ScanCount)
	return rec, nil
}

// UpdateProductInfo sets the non-nil fields of info.
func (s *scanStore) UpdateProductInfo(ctx context.Context, barcode string, info domain.ProductInfo) error {
	var sets []string
	var args []any
	add := func(column string, v *string) {
		if v != nil {
			sets = append(sets, column+" = ?")
			args = append(args, *v)
		}
	}
	add("product_name", info.ProductName)
	add("brand", info.Brand)
	add("category", info.Category)
	add("notes", info.Notes)

	if len(sets) == 0 {
		return nil
	}
	args = append(args, barcode)

	//nolint:gosec // G202: column names are fixed above, values are bound.
	result, err := s.store.db.ExecContext(ctx,
		"UPDATE barcodes SET "+strings.Join(sets, ", ")+" WHERE barcode = ?", args...)
	if err != nil {
		return fmt.Errorf("update product info: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetBarcodeInfo retrieves the record for one barcode.
func (s *scanStore) GetBarcodeInfo(ctx context.Context, barcode string) (*domain.BarcodeInfo, error) {
	info, err := scanBarcode(s.store.db.QueryRowContext(ctx,
		"SELECT "+barcodeColumns+" FROM barcodes WHERE barcode = ?", barcode))
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// TopBarcodes returns barcodes ordered by scan count, then recency.
func (s *scanStore) TopBarcodes(ctx context.Context, limit int) ([]domain.BarcodeInfo, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT "+barcodeColumns+" FROM barcodes ORDER BY scan_count DESC, last_seen DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("querying top barcodes: %w", err)
	}
	defer rows.Close()

	var out []domain.BarcodeInfo
	for rows.Next() {
		info, err := scanBarcode(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// RecentScans returns history rows newest first, joined with product data.
func (s *scanStore) RecentScans(ctx context.Context, limit int) ([]domain.ScanEvent, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT h.id, h.barcode, h.timestamp, COALESCE(h.batch_id, ''), COALESCE(h.source, ''),
			COALESCE(b.product_name, ''), COALESCE(b.brand, '')
		FROM scan_history h
		LEFT JOIN barcodes b ON h.barcode = b.barcode
		ORDER BY h.timestamp DESC, h.id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent scans: %w", err)
	}
	defer rows.Close()

	var out []domain.ScanEvent
	for rows.Next() {
		var ev domain.ScanEvent
		var ts string
		if err := rows.Scan(&ev.ID, &ev.Barcode, &ts, &ev.BatchID, &ev.Source, &ev.ProductName, &ev.Brand); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		ev.Timestamp = parseTime(ts)
		out = append(out, ev)
	}
	return out, rows.Err()
}

// Stats summarises the store. ScannedToday uses the local day boundary.
func (s *scanStore) Stats(ctx context.Context) (domain.ScanStats, error) {
	var stats domain.ScanStats
	db := s.store.db

	if err := db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(scan_count), 0) FROM barcodes",
	).Scan(&stats.TotalBarcodes, &stats.TotalScans); err != nil {
		return stats, fmt.Errorf("counting barcodes: %w", err)
	}

	now := s.store.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := db.QueryRowContext(ctx,
		"SELECT COUNT(DISTINCT barcode) FROM scan_history WHERE timestamp >= ?", formatTime(midnight),
	).Scan(&stats.ScannedToday); err != nil {
		return stats, fmt.Errorf("counting today's scans: %w", err)
	}

	top, err := s.TopBarcodes(ctx, 1)
	if err != nil {
		return stats, err
	}
	if len(top) > 0 {
		stats.MostScanned = &top[0]
	}
	return stats, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBarcode(row rowScanner) (domain.BarcodeInfo, error) {
	var info domain.BarcodeInfo
	var firstSeen, lastSeen string
	err := row.Scan(&info.Barcode, &info.Symbology, &firstSeen, &lastSeen, &info.ScanCount,
		&info.ProductName, &info.Brand, &info.Category, &info.Notes)
	if errors.Is(err, sql.ErrNoRows) {
		return info, domain.ErrNotFound
	}
	if err != nil {
		return info, fmt.Errorf("scanning barcode: %w", err)
	}
	info.FirstSeen = parseTime(firstSeen)
	info.LastSeen = parseTime(lastSeen)
	return info, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
