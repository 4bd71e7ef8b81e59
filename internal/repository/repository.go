// Package repository gives the in-memory mih.Index durability: every
// insert is written to Postgres before it lands in the index, and
// LoadAll rebuilds the index from Postgres at startup.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JustinTDCT/pifindex/internal/hash256"
	"github.com/JustinTDCT/pifindex/internal/mih"
)

// ErrNotFound is returned when a lookup by ID matches no corpus record.
var ErrNotFound = errors.New("repository: not found")

// MediaKind distinguishes a whole-image hash from one sampled video frame.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaFrame MediaKind = "video_frame"
)

// Record is one corpus row: a fingerprint plus the provenance needed to
// point a match back at a file on disk.
type Record struct {
	ID              uuid.UUID
	Fingerprint     hash256.Hash256
	Quality         int
	SourcePath      string
	MediaKind       MediaKind
	FrameNumber     *int
	FrameTimestamp  *float64
	CreatedAt       time.Time
}

// Repository pairs a durable Postgres corpus table with an in-memory MIH
// index. Readers take the RLock for Search; the writer paths (Insert and
// LoadAll's index swap) take the full Lock, mirroring the teacher's rwmutex-guarded in-memory
// caches layered over a SQL source of truth.
type Repository struct {
	db  *sql.DB
	mu  sync.RWMutex
	idx *mih.Index
}

// New wraps db with a fresh, empty index. Call LoadAll to hydrate it
// from existing rows before serving queries.
func New(db *sql.DB) *Repository {
	return &Repository{db: db, idx: mih.New()}
}

// LoadAll rebuilds the in-memory index from every row in corpus_hashes.
func (r *Repository) LoadAll(ctx context.Context) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, fingerprint, quality, source_path, media_kind,
		       frame_number, frame_timestamp, created_at
		FROM corpus_hashes`)
	if err != nil {
		return fmt.Errorf("load corpus: %w", err)
	}
	defer rows.Close()

	idx := mih.New()
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return err
		}
		idx.Insert(mih.Entry{Fingerprint: rec.Fingerprint, Metadata: rec})
	}
	if err := rows.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	r.idx = idx
	r.mu.Unlock()
	return nil
}

// Insert durably stores rec and adds it to the in-memory index. The
// caller supplies ID (callers mint it with uuid.New so it's known before
// the write completes, matching the teacher's insert-then-use pattern
// for referencing a row by ID right after creating it).
func (r *Repository) Insert(ctx context.Context, rec Record) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO corpus_hashes
			(id, fingerprint, quality, source_path, media_kind, frame_number, frame_timestamp, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, rec.Fingerprint.Format(), rec.Quality, rec.SourcePath, string(rec.MediaKind),
		rec.FrameNumber, rec.FrameTimestamp, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert corpus row: %w", err)
	}

	r.mu.Lock()
	r.idx.Insert(mih.Entry{Fingerprint: rec.Fingerprint, Metadata: rec})
	r.mu.Unlock()
	return nil
}

// Match is one search hit: the stored record plus its Hamming distance
// from the query hash.
type Match struct {
	Record   Record
	Distance int
}

// Search returns every indexed record within Hamming distance tolerance
// of query, ordered by ascending distance.
func (r *Repository) Search(query hash256.Hash256, tolerance int) ([]Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, err := r.idx.QueryTopK(query, tolerance, r.idx.Len())
	if err != nil {
		return nil, err
	}

	matches := make([]Match, len(n))
	for i, entryIdx := range n {
		entry := r.idx.EntryAt(entryIdx)
		rec := entry.Metadata.(Record)
		matches[i] = Match{Record: rec, Distance: hash256.Distance(query, rec.Fingerprint)}
	}
	return matches, nil
}

// Len reports how many records the in-memory index currently holds.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.idx.Len()
}

// KnownSourcePaths returns the set of source paths already represented
// in the index, so a rescan can skip files it has already hashed.
func (r *Repository) KnownSourcePaths() map[string]bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	known := make(map[string]bool, r.idx.Len())
	for i := 0; i < r.idx.Len(); i++ {
		rec := r.idx.EntryAt(i).Metadata.(Record)
		known[rec.SourcePath] = true
	}
	return known
}

func scanRecord(rows *sql.Rows) (Record, error) {
	var rec Record
	var hexHash, mediaKind string
	var frameNumber sql.NullInt64
	var frameTimestamp sql.NullFloat64

	if err := rows.Scan(&rec.ID, &hexHash, &rec.Quality, &rec.SourcePath, &mediaKind,
		&frameNumber, &frameTimestamp, &rec.CreatedAt); err != nil {
		return Record{}, fmt.Errorf("scan corpus row: %w", err)
	}

	h, err := hash256.Parse(hexHash)
	if err != nil {
		return Record{}, fmt.Errorf("parse stored fingerprint: %w", err)
	}
	rec.Fingerprint = h
	rec.MediaKind = MediaKind(mediaKind)
	if frameNumber.Valid {
		n := int(frameNumber.Int64)
		rec.FrameNumber = &n
	}
	if frameTimestamp.Valid {
		ts := frameTimestamp.Float64
		rec.FrameTimestamp = &ts
	}
	return rec, nil
}
