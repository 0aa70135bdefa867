// Package storage persists documents, the inverted index, and the image
// side-channel in PostgreSQL. One crawler stream writes while any number of
// query requests read; MVCC keeps readers unblocked, so no application-level
// locking is needed.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/lib/pq"

	"webseek/pkg/apperr"
	"webseek/pkg/postgres"
)

// MinPrefixLength is the shortest prefix served by TermsWithPrefix. Shorter
// prefixes would scan most of the vocabulary.
const MinPrefixLength = 2

const schema = `
CREATE TABLE IF NOT EXISTS documents (
    id         BIGSERIAL PRIMARY KEY,
    url        TEXT NOT NULL UNIQUE,
    title      TEXT NOT NULL DEFAULT '',
    content    TEXT NOT NULL DEFAULT '',
    popularity BIGINT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS postings (
    term      TEXT NOT NULL,
    doc_id    BIGINT NOT NULL REFERENCES documents(id),
    frequency INT NOT NULL CHECK (frequency >= 1)
);

CREATE INDEX IF NOT EXISTS idx_postings_term ON postings (term);
CREATE INDEX IF NOT EXISTS idx_postings_doc_id ON postings (doc_id);

CREATE TABLE IF NOT EXISTS images (
    id       BIGSERIAL PRIMARY KEY,
    img_url  TEXT NOT NULL UNIQUE,
    page_url TEXT NOT NULL,
    alt      TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_images_alt ON images (alt);
`

// Store gives the crawler and the query engine access to the shared
// relational state. It is safe for concurrent use.
type Store struct {
	db     *postgres.Client
	logger *slog.Logger
}

func New(db *postgres.Client) *Store {
	return &Store{
		db:     db,
		logger: slog.Default().With("component", "storage"),
	}
}

// Migrate applies the schema. All statements are idempotent, so it runs on
// every startup.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}

// SavePage inserts a document together with its postings and images in one
// transaction. A URL that already has a document row returns
// apperr.ErrDuplicateURL and leaves the store untouched; callers treat that
// as a no-op. Zero-count terms are never stored.
func (s *Store) SavePage(ctx context.Context, page Page, termCounts map[string]int, images []Image) (int64, error) {
	var docID int64
	err := s.db.InTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx,
			`INSERT INTO documents (url, title, content, popularity)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (url) DO NOTHING
			 RETURNING id`,
			page.URL, page.Title, page.Content, page.Popularity,
		)
		if err := row.Scan(&docID); err != nil {
			if err == sql.ErrNoRows {
				return apperr.Wrap(apperr.ErrDuplicateURL, "%s", page.URL)
			}
			return fmt.Errorf("inserting document: %w", err)
		}

		if len(termCounts) > 0 {
			stmt, err := tx.PrepareContext(ctx, pq.CopyIn("postings", "term", "doc_id", "frequency"))
			if err != nil {
				return fmt.Errorf("preparing postings copy: %w", err)
			}
			for term, count := range termCounts {
				if count < 1 {
					continue
				}
				if _, err := stmt.ExecContext(ctx, term, docID, count); err != nil {
					stmt.Close()
					return fmt.Errorf("buffering posting %q: %w", term, err)
				}
			}
			if _, err := stmt.ExecContext(ctx); err != nil {
				stmt.Close()
				return fmt.Errorf("flushing postings: %w", err)
			}
			if err := stmt.Close(); err != nil {
				return fmt.Errorf("closing postings copy: %w", err)
			}
		}

		for _, img := range images {
			// data: URLs can exceed any sane length; skip them.
			if img.URL == "" || len(img.URL) >= 500 {
				continue
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO images (img_url, page_url, alt)
				 VALUES ($1, $2, $3)
				 ON CONFLICT (img_url) DO NOTHING`,
				img.URL, page.URL, img.Alt,
			); err != nil {
				return fmt.Errorf("inserting image: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return docID, nil
}

// GetByURL returns the document for a URL or apperr.ErrNotFound.
func (s *Store) GetByURL(ctx context.Context, url string) (*Document, error) {
	var doc Document
	err := s.db.DB.QueryRowContext(ctx,
		`SELECT id, url, title, content, popularity FROM documents WHERE url = $1`,
		url,
	).Scan(&doc.ID, &doc.URL, &doc.Title, &doc.Content, &doc.Popularity)
	if err == sql.ErrNoRows {
		return nil, apperr.Wrap(apperr.ErrNotFound, "%s", url)
	}
	if err != nil {
		return nil, fmt.Errorf("querying document by url: %w", err)
	}
	return &doc, nil
}

// CountDocuments reports the number of stored documents. It serves the
// stats endpoint, not the ranking hot path.
func (s *Store) CountDocuments(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return n, nil
}

// MatchesForTerm returns every posting for a term joined with its document,
// unordered. snippetLen bounds the content prefix carried for display.
func (s *Store) MatchesForTerm(ctx context.Context, term string, snippetLen int) ([]TermMatch, error) {
	rows, err := s.db.DB.QueryContext(ctx,
		`SELECT d.id, d.url, d.title, p.frequency, d.popularity,
		        length(d.content), left(d.content, $2)
		 FROM postings p
		 JOIN documents d ON d.id = p.doc_id
		 WHERE p.term = $1`,
		term, snippetLen,
	)
	if err != nil {
		return nil, fmt.Errorf("querying postings for %q: %w", term, err)
	}
	defer rows.Close()

	var matches []TermMatch
	for rows.Next() {
		var m TermMatch
		if err := rows.Scan(&m.DocID, &m.URL, &m.Title, &m.Frequency,
			&m.Popularity, &m.ContentLength, &m.Snippet); err != nil {
			return nil, fmt.Errorf("scanning posting row: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating postings: %w", err)
	}
	return matches, nil
}

// TermsWithPrefix returns up to limit distinct indexed terms starting with
// prefix. Prefixes shorter than MinPrefixLength yield an empty result.
func (s *Store) TermsWithPrefix(ctx context.Context, prefix string, limit int) ([]string, error) {
	if utf8.RuneCountInString(prefix) < MinPrefixLength {
		return nil, nil
	}
	rows, err := s.db.DB.QueryContext(ctx,
		`SELECT DISTINCT term FROM postings WHERE term LIKE $1 || '%' LIMIT $2`,
		prefix, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying terms with prefix %q: %w", prefix, err)
	}
	defer rows.Close()

	var terms []string
	for rows.Next() {
		var term string
		if err := rows.Scan(&term); err != nil {
			return nil, fmt.Errorf("scanning term row: %w", err)
		}
		terms = append(terms, term)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating terms: %w", err)
	}
	return terms, nil
}

// SearchImages returns images whose alt text contains the query as a
// case-insensitive substring.
func (s *Store) SearchImages(ctx context.Context, query string, limit int) ([]Image, error) {
	if query == "" {
		return nil, nil
	}
	rows, err := s.db.DB.QueryContext(ctx,
		`SELECT img_url, page_url, alt FROM images
		 WHERE alt ILIKE '%' || $1 || '%'
		 LIMIT $2`,
		query, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying images: %w", err)
	}
	defer rows.Close()

	var images []Image
	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.URL, &img.PageURL, &img.Alt); err != nil {
			return nil, fmt.Errorf("scanning image row: %w", err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating images: %w", err)
	}
	return images, nil
}
