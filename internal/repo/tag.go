// Package repo contains all persistence logic for the tagtrack service.
// TagRepo is the contract every other component depends on; this file holds
// the Postgres implementation, memory.go the in-memory one.
// No business logic lives here — only SQL and type mapping. Every status
// change flows through the lifecycle service first, so the repo never
// inspects or guards a transition itself.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mholtz/tagtrack/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// uniqueViolation is the Postgres error code for a unique constraint breach.
const uniqueViolation = "23505"

// TagRepo defines the persistence operations for tag records.
// The service layer depends on this interface, not a concrete implementation,
// so the whole engine runs identically over Postgres or the in-memory store.
type TagRepo interface {
	// Create inserts a new tag record and returns the persisted record with
	// the DB-generated id populated. Returns domain.ErrDuplicate if a record
	// already exists for the same item.
	Create(ctx context.Context, rec domain.TagRecord) (domain.TagRecord, error)

	// GetByID retrieves a single tag record by its UUID primary key.
	// Returns domain.ErrNotFound if no record with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.TagRecord, error)

	// Update overwrites the mutable fields (status, last_updated, last_printed)
	// of an existing record and returns the updated record.
	// Returns domain.ErrNotFound if no record with that ID exists.
	Update(ctx context.Context, rec domain.TagRecord) (domain.TagRecord, error)

	// List returns all tag records in their natural order (oldest assignment
	// first, id as tiebreaker). Each call is a fresh read, never a cached
	// snapshot.
	List(ctx context.Context) ([]domain.TagRecord, error)
}

// pgTagRepo is the Postgres implementation of TagRepo.
type pgTagRepo struct {
	db db
}

// NewTagRepo constructs a TagRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTagRepo(db db) TagRepo {
	return &pgTagRepo{db: db}
}

// Create inserts a new tag row and returns the full persisted record.
// The unique index on item_id enforces one live tag per item; a violation
// surfaces as domain.ErrDuplicate.
func (r *pgTagRepo) Create(ctx context.Context, rec domain.TagRecord) (domain.TagRecord, error) {
	const q = `
		INSERT INTO tags (item_id, item_name, serial_number, category, status, assigned_at, last_updated, last_printed)
		VALUES (@item_id, @item_name, @serial_number, @category, @status, @assigned_at, @last_updated, @last_printed)
		RETURNING id, item_id, item_name, serial_number, category, status, assigned_at, last_updated, last_printed`

	args := pgx.NamedArgs{
		"item_id":       rec.Item.ItemID,
		"item_name":     rec.Item.Name,
		"serial_number": rec.Item.SerialNumber,
		"category":      rec.Item.Category,
		"status":        string(rec.Status),
		"assigned_at":   rec.AssignedAt,
		"last_updated":  rec.LastUpdated,
		"last_printed":  rec.LastPrinted, // nil becomes NULL
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTagRecord(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.TagRecord{}, fmt.Errorf("repo.TagRepo.Create: %w", domain.ErrDuplicate)
		}
		return domain.TagRecord{}, fmt.Errorf("repo.TagRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a tag record by primary key.
func (r *pgTagRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.TagRecord, error) {
	const q = `
		SELECT id, item_id, item_name, serial_number, category, status, assigned_at, last_updated, last_printed
		FROM tags
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanTagRecord(row)
	if err != nil {
		return domain.TagRecord{}, fmt.Errorf("repo.TagRepo.GetByID: %w", err)
	}
	return result, nil
}

// Update overwrites the mutable fields of a record and returns the updated row.
// The item back-reference and assigned_at are deliberately not in the SET
// clause: both are immutable after creation.
func (r *pgTagRepo) Update(ctx context.Context, rec domain.TagRecord) (domain.TagRecord, error) {
	const q = `
		UPDATE tags
		SET status       = @status,
		    last_updated = @last_updated,
		    last_printed = @last_printed
		WHERE id = @id
		RETURNING id, item_id, item_name, serial_number, category, status, assigned_at, last_updated, last_printed`

	args := pgx.NamedArgs{
		"id":           rec.ID,
		"status":       string(rec.Status),
		"last_updated": rec.LastUpdated,
		"last_printed": rec.LastPrinted,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTagRecord(row)
	if err != nil {
		return domain.TagRecord{}, fmt.Errorf("repo.TagRepo.Update: %w", err)
	}
	return result, nil
}

// List returns every tag record ordered by assignment time, id as tiebreaker.
// This is the store's natural order; search results and batch selections
// inherit it unchanged.
func (r *pgTagRepo) List(ctx context.Context) ([]domain.TagRecord, error) {
	const q = `
		SELECT id, item_id, item_name, serial_number, category, status, assigned_at, last_updated, last_printed
		FROM tags
		ORDER BY assigned_at, id`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.TagRepo.List: %w", err)
	}
	defer rows.Close()

	recs := []domain.TagRecord{}
	for rows.Next() {
		rec, err := scanTagRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TagRepo.List: scan: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TagRepo.List: rows: %w", err)
	}
	return recs, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanTagRecord
// to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanTagRecord maps a single database row into a domain.TagRecord.
// It handles the UUID and nullable last_printed conversions.
func scanTagRecord(s scanner) (domain.TagRecord, error) {
	var (
		rec         domain.TagRecord
		id          pgtype.UUID
		itemID      pgtype.UUID
		status      string
		lastPrinted pgtype.Timestamptz
	)

	err := s.Scan(&id, &itemID, &rec.Item.Name, &rec.Item.SerialNumber, &rec.Item.Category,
		&status, &rec.AssignedAt, &rec.LastUpdated, &lastPrinted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TagRecord{}, domain.ErrNotFound
		}
		return domain.TagRecord{}, err
	}

	rec.ID = uuid.UUID(id.Bytes)
	rec.Item.ItemID = uuid.UUID(itemID.Bytes)
	rec.Status = domain.Status(status)
	if lastPrinted.Valid {
		lp := lastPrinted.Time
		rec.LastPrinted = &lp
	}

	return rec, nil
}
