package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/wolfaudio/studio-mcp/internal/domain/project"
	"github.com/wolfaudio/studio-mcp/internal/repository"
)

func TestProjectRepository_SaveAndGet(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	proj := &project.Project{
		Name:           "Episode 1",
		Script:         "hello spoken world",
		Notes:          "first draft",
		CreatedAt:      time.Now().UTC().Truncate(time.Second),
		WordCount:      3,
		CharacterCount: 18,
	}
	require.NoError(t, repo.Save(ctx, proj))

	got, err := repo.Get(ctx, "Episode 1")
	require.NoError(t, err)
	require.Equal(t, "hello spoken world", got.Script)
	require.Equal(t, "first draft", got.Notes)
	require.Equal(t, 3, got.WordCount)
	require.False(t, got.IsSample)
	require.True(t, got.LastModified.IsZero())
}

func TestProjectRepository_SaveUpsert(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	created := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.Save(ctx, &project.Project{
		Name:      "Episode 1",
		Script:    "v1",
		CreatedAt: created,
		IsSample:  true,
	}))

	modified := created.Add(time.Hour)
	require.NoError(t, repo.Save(ctx, &project.Project{
		Name:         "Episode 1",
		Script:       "v2",
		CreatedAt:    created,
		LastModified: modified,
		WordCount:    1,
	}))

	got, err := repo.Get(ctx, "Episode 1")
	require.NoError(t, err)
	require.Equal(t, "v2", got.Script)
	require.False(t, got.IsSample)
	require.Equal(t, modified, got.LastModified.UTC())

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestProjectRepository_GetMissing(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)

	_, err := repo.Get(context.Background(), "ghost")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectRepository_Delete(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &project.Project{
		Name:      "scratch",
		CreatedAt: time.Now(),
	}))
	require.NoError(t, repo.Delete(ctx, "scratch"))

	_, err := repo.Get(ctx, "scratch")
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.ErrorIs(t, repo.Delete(ctx, "scratch"), repository.ErrNotFound)
}

func TestProjectRepository_ListOrder(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.Save(ctx, &project.Project{Name: "older", CreatedAt: base.Add(-time.Hour)}))
	require.NoError(t, repo.Save(ctx, &project.Project{Name: "newer", CreatedAt: base}))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "newer", list[0].Name)
	require.Equal(t, "older", list[1].Name)
}
