// Package repo contains all database access logic for the voice navigation API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL and type mapping. Every query is
// filtered by owner_id; there is no way to read or write another owner's rows.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/smartnav/voicenav/internal/domain"
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

// containmentMinLen is the minimum length (in characters) either side of a
// bidirectional substring containment match must have for the containment
// arms to apply. Exact case-insensitive equality is always allowed. Without
// this guard a one-letter location name would match almost any spoken text.
const containmentMinLen = 2

// LocationRepo defines the persistence operations for Locations.
// The service and voice layers depend on this interface, not the concrete
// Postgres implementation, so they can be unit-tested with a mock.
type LocationRepo interface {
	// Create inserts a new location and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	// Returns domain.ErrDuplicate if the owner already has a location with
	// the same name, compared case-insensitively.
	Create(ctx context.Context, loc domain.Location) (domain.Location, error)

	// GetByID retrieves a single location by primary key, scoped to ownerID.
	// Returns domain.ErrNotFound if absent or owned by another user.
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (domain.Location, error)

	// List returns all of the owner's locations ordered by creation time
	// descending (most recently saved first).
	List(ctx context.Context, ownerID uuid.UUID) ([]domain.Location, error)

	// FindByName returns the owner's location whose name matches text:
	// case-insensitive equality, or bidirectional substring containment when
	// both sides are at least containmentMinLen characters. When several rows
	// qualify the first created wins. Returns domain.ErrNotFound on no match.
	FindByName(ctx context.Context, ownerID uuid.UUID, text string) (domain.Location, error)

	// Search returns the owner's locations whose name or any tag contains
	// text case-insensitively, ordered by name. Empty text returns all of
	// the owner's locations.
	Search(ctx context.Context, ownerID uuid.UUID, text string) ([]domain.Location, error)

	// Update overwrites the mutable fields of an existing location and
	// returns the updated record. Returns domain.ErrNotFound if the id does
	// not exist for the owner, domain.ErrDuplicate on a name collision.
	Update(ctx context.Context, loc domain.Location) (domain.Location, error)

	// Delete removes a location by ID, scoped to ownerID. The database
	// cascades the delete to every magic phrase targeting the location.
	// Returns domain.ErrNotFound if absent for the owner.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// pgLocationRepo is the Postgres implementation of LocationRepo.
type pgLocationRepo struct {
	db db
}

// NewLocationRepo constructs a LocationRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewLocationRepo(db db) LocationRepo {
	return &pgLocationRepo{db: db}
}

// Create inserts a new location row and returns the full persisted record.
func (r *pgLocationRepo) Create(ctx context.Context, loc domain.Location) (domain.Location, error) {
	const q = `
		INSERT INTO locations (owner_id, name, latitude, longitude, tags, notes)
		VALUES (@owner_id, @name, @latitude, @longitude, @tags, @notes)
		RETURNING id, owner_id, name, latitude, longitude, tags, notes, created_at, updated_at`

	args := pgx.NamedArgs{
		"owner_id":  loc.OwnerID,
		"name":      loc.Name,
		"latitude":  loc.Latitude,
		"longitude": loc.Longitude,
		"tags":      loc.Tags,
		"notes":     loc.Notes,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanLocation(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Location{}, fmt.Errorf("repo.LocationRepo.Create: %w", domain.ErrDuplicate)
		}
		return domain.Location{}, fmt.Errorf("repo.LocationRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a location by primary key, scoped to its owner.
func (r *pgLocationRepo) GetByID(ctx context.Context, ownerID, id uuid.UUID) (domain.Location, error) {
	const q = `
		SELECT id, owner_id, name, latitude, longitude, tags, notes, created_at, updated_at
		FROM locations
		WHERE owner_id = @owner_id AND id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"owner_id": ownerID, "id": id})
	result, err := scanLocation(row)
	if err != nil {
		return domain.Location{}, fmt.Errorf("repo.LocationRepo.GetByID: %w", err)
	}
	return result, nil
}

// List returns all of the owner's locations, most recently created first.
func (r *pgLocationRepo) List(ctx context.Context, ownerID uuid.UUID) ([]domain.Location, error) {
	const q = `
		SELECT id, owner_id, name, latitude, longitude, tags, notes, created_at, updated_at
		FROM locations
		WHERE owner_id = @owner_id
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"owner_id": ownerID})
	if err != nil {
		return nil, fmt.Errorf("repo.LocationRepo.List: %w", err)
	}
	defer rows.Close()

	return collectLocations(rows, "repo.LocationRepo.List")
}

// FindByName resolves text to a single location via equality or bidirectional
// containment. ORDER BY created_at makes the first-created-wins tie-break
// explicit rather than an accident of row order.
func (r *pgLocationRepo) FindByName(ctx context.Context, ownerID uuid.UUID, text string) (domain.Location, error) {
	const q = `
		SELECT id, owner_id, name, latitude, longitude, tags, notes, created_at, updated_at
		FROM locations
		WHERE owner_id = @owner_id
		  AND (
		       lower(name) = lower(@text)
		    OR (char_length(@text) >= @min_len AND char_length(name) >= @min_len
		        AND (lower(@text) LIKE '%' || lower(name) || '%'
		          OR lower(name) LIKE '%' || lower(@text) || '%'))
		  )
		ORDER BY created_at ASC
		LIMIT 1`

	args := pgx.NamedArgs{"owner_id": ownerID, "text": text, "min_len": containmentMinLen}
	row := r.db.QueryRow(ctx, q, args)
	result, err := scanLocation(row)
	if err != nil {
		return domain.Location{}, fmt.Errorf("repo.LocationRepo.FindByName: %w", err)
	}
	return result, nil
}

// Search matches text as a case-insensitive substring of the name or of any
// tag. Empty text matches every row for the owner.
func (r *pgLocationRepo) Search(ctx context.Context, ownerID uuid.UUID, text string) ([]domain.Location, error) {
	const q = `
		SELECT id, owner_id, name, latitude, longitude, tags, notes, created_at, updated_at
		FROM locations
		WHERE owner_id = @owner_id
		  AND (@text = ''
		    OR lower(name) LIKE '%' || lower(@text) || '%'
		    OR EXISTS (
		         SELECT 1 FROM unnest(tags) AS tag
		         WHERE lower(tag) LIKE '%' || lower(@text) || '%'))
		ORDER BY name ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"owner_id": ownerID, "text": text})
	if err != nil {
		return nil, fmt.Errorf("repo.LocationRepo.Search: %w", err)
	}
	defer rows.Close()

	return collectLocations(rows, "repo.LocationRepo.Search")
}

// Update overwrites the mutable fields of a location and returns the updated record.
func (r *pgLocationRepo) Update(ctx context.Context, loc domain.Location) (domain.Location, error) {
	const q = `
		UPDATE locations
		SET name       = @name,
		    latitude   = @latitude,
		    longitude  = @longitude,
		    tags       = @tags,
		    notes      = @notes,
		    updated_at = now()
		WHERE owner_id = @owner_id AND id = @id
		RETURNING id, owner_id, name, latitude, longitude, tags, notes, created_at, updated_at`

	args := pgx.NamedArgs{
		"id":        loc.ID,
		"owner_id":  loc.OwnerID,
		"name":      loc.Name,
		"latitude":  loc.Latitude,
		"longitude": loc.Longitude,
		"tags":      loc.Tags,
		"notes":     loc.Notes,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanLocation(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Location{}, fmt.Errorf("repo.LocationRepo.Update: %w", domain.ErrDuplicate)
		}
		return domain.Location{}, fmt.Errorf("repo.LocationRepo.Update: %w", err)
	}
	return result, nil
}

// Delete removes a location by primary key, scoped to its owner.
// Dependent magic phrases are removed by the ON DELETE CASCADE foreign key,
// so the whole removal is a single atomic statement.
func (r *pgLocationRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	const q = `DELETE FROM locations WHERE owner_id = @owner_id AND id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"owner_id": ownerID, "id": id})
	if err != nil {
		return fmt.Errorf("repo.LocationRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.LocationRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan helpers
// to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanLocation maps a single database row into a domain.Location.
func scanLocation(s scanner) (domain.Location, error) {
	var (
		l  domain.Location
		id pgtype.UUID
		ow pgtype.UUID
	)

	err := s.Scan(&id, &ow, &l.Name, &l.Latitude, &l.Longitude, &l.Tags, &l.Notes, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Location{}, domain.ErrNotFound
		}
		return domain.Location{}, err
	}

	l.ID = uuid.UUID(id.Bytes)
	l.OwnerID = uuid.UUID(ow.Bytes)
	if l.Tags == nil {
		l.Tags = []string{}
	}
	return l, nil
}

// collectLocations drains rows into a slice, wrapping errors with op.
func collectLocations(rows pgx.Rows, op string) ([]domain.Location, error) {
	locations := []domain.Location{}
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		locations = append(locations, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}
	return locations, nil
}

// isUniqueViolation reports whether err is a Postgres unique_violation (23505),
// raised when an insert or update collides with one of the per-owner
// case-insensitive unique indexes.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
