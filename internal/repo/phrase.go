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

// phraseColumns is the join projection every phrase read uses: the phrase row
// plus the target location's name and coordinates.
const phraseColumns = `
	mp.id, mp.owner_id, mp.phrase, mp.action_type, mp.target_location_id, mp.created_at,
	l.name, l.latitude, l.longitude`

// PhraseRepo defines the persistence operations for MagicPhrases.
// Every read returns the phrase joined with its target location.
type PhraseRepo interface {
	// Create inserts a new phrase and returns the persisted record joined
	// with its target location. Returns domain.ErrDuplicate if the owner
	// already has the phrase (case-insensitive, trimmed); domain.ErrNotFound
	// if the target location row has vanished underneath the insert.
	Create(ctx context.Context, phrase domain.MagicPhrase) (domain.MagicPhrase, error)

	// GetByID retrieves a single phrase by primary key, scoped to ownerID.
	// Returns domain.ErrNotFound if absent or owned by another user.
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (domain.MagicPhrase, error)

	// List returns all of the owner's phrases, most recently created first.
	List(ctx context.Context, ownerID uuid.UUID) ([]domain.MagicPhrase, error)

	// FindMatch returns the owner's phrase matching text: case-insensitive
	// equality, or bidirectional substring containment when both sides are at
	// least containmentMinLen characters. First created wins on ambiguity.
	// Returns domain.ErrNotFound when nothing matches.
	FindMatch(ctx context.Context, ownerID uuid.UUID, text string) (domain.MagicPhrase, error)

	// Delete removes a phrase by ID, scoped to ownerID.
	// Returns domain.ErrNotFound if absent for the owner.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// pgPhraseRepo is the Postgres implementation of PhraseRepo.
type pgPhraseRepo struct {
	db db
}

// NewPhraseRepo constructs a PhraseRepo backed by the provided db connection.
func NewPhraseRepo(db db) PhraseRepo {
	return &pgPhraseRepo{db: db}
}

// Create inserts the phrase and immediately re-selects it joined with the
// target location, all in one statement via a data-modifying CTE.
func (r *pgPhraseRepo) Create(ctx context.Context, phrase domain.MagicPhrase) (domain.MagicPhrase, error) {
	const q = `
		WITH inserted AS (
			INSERT INTO magic_phrases (owner_id, phrase, action_type, target_location_id)
			VALUES (@owner_id, @phrase, @action_type, @target_location_id)
			RETURNING id, owner_id, phrase, action_type, target_location_id, created_at
		)
		SELECT mp.id, mp.owner_id, mp.phrase, mp.action_type, mp.target_location_id, mp.created_at,
		       l.name, l.latitude, l.longitude
		FROM inserted mp
		JOIN locations l ON l.id = mp.target_location_id`

	args := pgx.NamedArgs{
		"owner_id":           phrase.OwnerID,
		"phrase":             phrase.Phrase,
		"action_type":        phrase.ActionType,
		"target_location_id": phrase.TargetLocationID,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanPhrase(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.MagicPhrase{}, fmt.Errorf("repo.PhraseRepo.Create: %w", domain.ErrDuplicate)
		}
		if isForeignKeyViolation(err) {
			return domain.MagicPhrase{}, fmt.Errorf("repo.PhraseRepo.Create: target location: %w", domain.ErrNotFound)
		}
		return domain.MagicPhrase{}, fmt.Errorf("repo.PhraseRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a phrase joined with its target location.
func (r *pgPhraseRepo) GetByID(ctx context.Context, ownerID, id uuid.UUID) (domain.MagicPhrase, error) {
	const q = `
		SELECT ` + phraseColumns + `
		FROM magic_phrases mp
		JOIN locations l ON l.id = mp.target_location_id
		WHERE mp.owner_id = @owner_id AND mp.id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"owner_id": ownerID, "id": id})
	result, err := scanPhrase(row)
	if err != nil {
		return domain.MagicPhrase{}, fmt.Errorf("repo.PhraseRepo.GetByID: %w", err)
	}
	return result, nil
}

// List returns all of the owner's phrases, most recently created first.
func (r *pgPhraseRepo) List(ctx context.Context, ownerID uuid.UUID) ([]domain.MagicPhrase, error) {
	const q = `
		SELECT ` + phraseColumns + `
		FROM magic_phrases mp
		JOIN locations l ON l.id = mp.target_location_id
		WHERE mp.owner_id = @owner_id
		ORDER BY mp.created_at DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"owner_id": ownerID})
	if err != nil {
		return nil, fmt.Errorf("repo.PhraseRepo.List: %w", err)
	}
	defer rows.Close()

	phrases := []domain.MagicPhrase{}
	for rows.Next() {
		p, err := scanPhrase(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.PhraseRepo.List: scan: %w", err)
		}
		phrases = append(phrases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.PhraseRepo.List: rows: %w", err)
	}
	return phrases, nil
}

// FindMatch resolves spoken text to a phrase via equality or bidirectional
// containment, joined with the target location. Stored phrases are compared
// trimmed because the unique index treats them that way too.
func (r *pgPhraseRepo) FindMatch(ctx context.Context, ownerID uuid.UUID, text string) (domain.MagicPhrase, error) {
	const q = `
		SELECT ` + phraseColumns + `
		FROM magic_phrases mp
		JOIN locations l ON l.id = mp.target_location_id
		WHERE mp.owner_id = @owner_id
		  AND (
		       lower(btrim(mp.phrase)) = lower(btrim(@text))
		    OR (char_length(@text) >= @min_len AND char_length(btrim(mp.phrase)) >= @min_len
		        AND (lower(@text) LIKE '%' || lower(btrim(mp.phrase)) || '%'
		          OR lower(btrim(mp.phrase)) LIKE '%' || lower(@text) || '%'))
		  )
		ORDER BY mp.created_at ASC
		LIMIT 1`

	args := pgx.NamedArgs{"owner_id": ownerID, "text": text, "min_len": containmentMinLen}
	row := r.db.QueryRow(ctx, q, args)
	result, err := scanPhrase(row)
	if err != nil {
		return domain.MagicPhrase{}, fmt.Errorf("repo.PhraseRepo.FindMatch: %w", err)
	}
	return result, nil
}

// Delete removes a phrase by primary key, scoped to its owner.
func (r *pgPhraseRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	const q = `DELETE FROM magic_phrases WHERE owner_id = @owner_id AND id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"owner_id": ownerID, "id": id})
	if err != nil {
		return fmt.Errorf("repo.PhraseRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.PhraseRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanPhrase maps a single joined database row into a domain.MagicPhrase.
func scanPhrase(s scanner) (domain.MagicPhrase, error) {
	var (
		p      domain.MagicPhrase
		id     pgtype.UUID
		ow     pgtype.UUID
		target pgtype.UUID
		action string
	)

	err := s.Scan(&id, &ow, &p.Phrase, &action, &target, &p.CreatedAt,
		&p.LocationName, &p.Latitude, &p.Longitude)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.MagicPhrase{}, domain.ErrNotFound
		}
		return domain.MagicPhrase{}, err
	}

	p.ID = uuid.UUID(id.Bytes)
	p.OwnerID = uuid.UUID(ow.Bytes)
	p.TargetLocationID = uuid.UUID(target.Bytes)
	p.ActionType = domain.ActionType(action)
	return p, nil
}

// isForeignKeyViolation reports whether err is a Postgres foreign_key_violation
// (23503), raised when a phrase insert references a location that no longer exists.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
