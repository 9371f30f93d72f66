package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// BlobRepo reads and writes the UTF-8 JSON save blobs.
type BlobRepo struct {
	db *sql.DB
}

func NewBlobRepo(db *sql.DB) *BlobRepo {
	return &BlobRepo{db: db}
}

// Get returns the stored value for key, or ("", false, nil) when absent.
func (r *BlobRepo) Get(ctx context.Context, key string) (string, bool, error) {
	row := r.db.QueryRowContext(ctx, `SELECT value FROM blobs WHERE key = ?`, key)

	var v string
	if err := row.Scan(&v); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("blob get %q: %w", key, err)
	}
	return v, true, nil
}

func (r *BlobRepo) Put(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO blobs (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("blob put %q: %w", key, err)
	}
	return nil
}

// PutAll writes several blobs in one transaction so a persist cycle lands
// atomically.
func (r *BlobRepo) PutAll(ctx context.Context, blobs map[string]string) error {
	return WithTx(ctx, r.db, func(tx *sql.Tx) error {
		now := time.Now().UTC()
		for key, value := range blobs {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO blobs (key, value, updated_at) VALUES (?, ?, ?)
				ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
			`, key, value, now); err != nil {
				return fmt.Errorf("blob put %q: %w", key, err)
			}
		}
		return nil
	})
}

func (r *BlobRepo) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM blobs WHERE key = ?`, key); err != nil {
		return fmt.Errorf("blob delete %q: %w", key, err)
	}
	return nil
}
