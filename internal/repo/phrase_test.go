package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartnav/voicenav/internal/domain"
	"github.com/smartnav/voicenav/internal/repo"
)

// newPhraseRepos returns a PhraseRepo and a LocationRepo sharing one rolled-back
// transaction, so phrases can reference locations created in the same test.
func newPhraseRepos(t *testing.T) (repo.PhraseRepo, repo.LocationRepo) {
	t.Helper()
	tx := newTestTx(t)
	return repo.NewPhraseRepo(tx), repo.NewLocationRepo(tx)
}

// createTargetLocation inserts a location for the phrase under test to point at.
func createTargetLocation(t *testing.T, locations repo.LocationRepo, owner uuid.UUID) domain.Location {
	t.Helper()
	loc, err := locations.Create(context.Background(), locationFixture(owner))
	require.NoError(t, err)
	return loc
}

func phraseFixture(owner uuid.UUID, targetID uuid.UUID) domain.MagicPhrase {
	return domain.MagicPhrase{
		OwnerID:          owner,
		Phrase:           "take me home",
		ActionType:       domain.ActionNavigate,
		TargetLocationID: targetID,
	}
}

func TestPhraseRepo_Create(t *testing.T) {
	phrases, locations := newPhraseRepos(t)
	ctx := context.Background()
	owner := uuid.New()
	target := createTargetLocation(t, locations, owner)

	got, err := phrases.Create(ctx, phraseFixture(owner, target.ID))

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, owner, got.OwnerID)
	assert.Equal(t, "take me home", got.Phrase)
	assert.Equal(t, domain.ActionNavigate, got.ActionType)
	assert.Equal(t, target.ID, got.TargetLocationID)
	assert.False(t, got.CreatedAt.IsZero())

	// Reads always join the target location.
	assert.Equal(t, target.Name, got.LocationName)
	assert.Equal(t, target.Latitude, got.Latitude)
	assert.Equal(t, target.Longitude, got.Longitude)
}

func TestPhraseRepo_Create_Duplicate(t *testing.T) {
	phrases, locations := newPhraseRepos(t)
	ctx := context.Background()
	owner := uuid.New()
	target := createTargetLocation(t, locations, owner)

	_, err := phrases.Create(ctx, phraseFixture(owner, target.ID))
	require.NoError(t, err)

	// Differs only in case and surrounding whitespace — still a duplicate.
	dup := phraseFixture(owner, target.ID)
	dup.Phrase = "  Take Me HOME "
	_, err = phrases.Create(ctx, dup)

	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestPhraseRepo_Create_MissingTarget(t *testing.T) {
	phrases, _ := newPhraseRepos(t)

	_, err := phrases.Create(context.Background(), phraseFixture(uuid.New(), uuid.New()))

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPhraseRepo_GetByID(t *testing.T) {
	phrases, locations := newPhraseRepos(t)
	ctx := context.Background()
	owner := uuid.New()
	target := createTargetLocation(t, locations, owner)

	created, err := phrases.Create(ctx, phraseFixture(owner, target.ID))
	require.NoError(t, err)

	got, err := phrases.GetByID(ctx, owner, created.ID)

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, target.Name, got.LocationName)
}

func TestPhraseRepo_GetByID_WrongOwner(t *testing.T) {
	phrases, locations := newPhraseRepos(t)
	ctx := context.Background()
	owner := uuid.New()
	target := createTargetLocation(t, locations, owner)

	created, err := phrases.Create(ctx, phraseFixture(owner, target.ID))
	require.NoError(t, err)

	_, err = phrases.GetByID(ctx, uuid.New(), created.ID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPhraseRepo_List(t *testing.T) {
	phrases, locations := newPhraseRepos(t)
	ctx := context.Background()
	owner := uuid.New()
	target := createTargetLocation(t, locations, owner)

	p1 := phraseFixture(owner, target.ID)
	p2 := phraseFixture(owner, target.ID)
	p2.Phrase = "work time"

	_, err := phrases.Create(ctx, p1)
	require.NoError(t, err)
	_, err = phrases.Create(ctx, p2)
	require.NoError(t, err)

	got, err := phrases.List(ctx, owner)

	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, p := range got {
		assert.Equal(t, target.Name, p.LocationName, "list rows carry the joined location")
	}
}

func TestPhraseRepo_List_Empty(t *testing.T) {
	phrases, _ := newPhraseRepos(t)

	got, err := phrases.List(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPhraseRepo_FindMatch_Exact(t *testing.T) {
	phrases, locations := newPhraseRepos(t)
	ctx := context.Background()
	owner := uuid.New()
	target := createTargetLocation(t, locations, owner)

	created, err := phrases.Create(ctx, phraseFixture(owner, target.ID))
	require.NoError(t, err)

	got, err := phrases.FindMatch(ctx, owner, "take me home")

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, target.Latitude, got.Latitude)
}

func TestPhraseRepo_FindMatch_StoredWhitespaceIgnored(t *testing.T) {
	phrases, locations := newPhraseRepos(t)
	ctx := context.Background()
	owner := uuid.New()
	target := createTargetLocation(t, locations, owner)

	p := phraseFixture(owner, target.ID)
	p.Phrase = "  take me home  "
	created, err := phrases.Create(ctx, p)
	require.NoError(t, err)

	got, err := phrases.FindMatch(ctx, owner, "take me home")

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestPhraseRepo_FindMatch_TextContainsPhrase(t *testing.T) {
	phrases, locations := newPhraseRepos(t)
	ctx := context.Background()
	owner := uuid.New()
	target := createTargetLocation(t, locations, owner)

	p := phraseFixture(owner, target.ID)
	p.Phrase = "home"
	created, err := phrases.Create(ctx, p)
	require.NoError(t, err)

	got, err := phrases.FindMatch(ctx, owner, "please take me home now")

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestPhraseRepo_FindMatch_ShortTextNeedsExactMatch(t *testing.T) {
	phrases, locations := newPhraseRepos(t)
	ctx := context.Background()
	owner := uuid.New()
	target := createTargetLocation(t, locations, owner)

	p := phraseFixture(owner, target.ID)
	p.Phrase = "x"
	created, err := phrases.Create(ctx, p)
	require.NoError(t, err)

	// A one-character phrase never matches by containment.
	_, err = phrases.FindMatch(ctx, owner, "extra stuff")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := phrases.FindMatch(ctx, owner, "x")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestPhraseRepo_FindMatch_NotFound(t *testing.T) {
	phrases, _ := newPhraseRepos(t)

	_, err := phrases.FindMatch(context.Background(), uuid.New(), "anything")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPhraseRepo_FindMatch_WrongOwner(t *testing.T) {
	phrases, locations := newPhraseRepos(t)
	ctx := context.Background()
	owner := uuid.New()
	target := createTargetLocation(t, locations, owner)

	_, err := phrases.Create(ctx, phraseFixture(owner, target.ID))
	require.NoError(t, err)

	_, err = phrases.FindMatch(ctx, uuid.New(), "take me home")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPhraseRepo_Delete(t *testing.T) {
	phrases, locations := newPhraseRepos(t)
	ctx := context.Background()
	owner := uuid.New()
	target := createTargetLocation(t, locations, owner)

	created, err := phrases.Create(ctx, phraseFixture(owner, target.ID))
	require.NoError(t, err)

	err = phrases.Delete(ctx, owner, created.ID)
	require.NoError(t, err)

	_, err = phrases.GetByID(ctx, owner, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPhraseRepo_Delete_NotFound(t *testing.T) {
	phrases, _ := newPhraseRepos(t)

	err := phrases.Delete(context.Background(), uuid.New(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPhraseRepo_DeletingLocationCascades(t *testing.T) {
	phrases, locations := newPhraseRepos(t)
	ctx := context.Background()
	owner := uuid.New()
	target := createTargetLocation(t, locations, owner)

	created, err := phrases.Create(ctx, phraseFixture(owner, target.ID))
	require.NoError(t, err)

	// Deleting the target location takes its phrases with it atomically.
	err = locations.Delete(ctx, owner, target.ID)
	require.NoError(t, err)

	_, err = phrases.GetByID(ctx, owner, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
