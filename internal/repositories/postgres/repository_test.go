package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SAP-F-2025/phonics-service/internal/models"
	"github.com/SAP-F-2025/phonics-service/internal/repositories"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// each connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.Material{}, &models.Assignment{}, &models.Profile{}))
	return db
}

func sampleQuestions() []models.Question {
	return []models.Question{
		{ID: 1, Text: "Find the cat", Content: models.PictureChoiceContent{
			CorrectImages:   []models.ImageRef{"cat.png"},
			IncorrectImages: []models.ImageRef{"dog.png"},
		}},
		{ID: 2, Text: "Split", Content: models.CategorySplitContent{Categories: []models.Category{
			{Name: "Hard", Items: []models.CategoryItem{{Text: "ba"}}},
			{Name: "Soft", Items: []models.CategoryItem{{Text: "bi"}}},
		}}},
	}
}

func TestMaterialPostgreSQL_ListOrderedByDisplayOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewMaterialPostgreSQL(newTestDB(t))

	for _, m := range []*models.Material{
		{Title: "third", DisplayOrder: 5},
		{Title: "first", DisplayOrder: 0},
		{Title: "second", DisplayOrder: 2},
	} {
		require.NoError(t, repo.Create(ctx, m))
	}

	materials, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, materials, 3)
	assert.Equal(t, "first", materials[0].Title)
	assert.Equal(t, "second", materials[1].Title)
	assert.Equal(t, "third", materials[2].Title)

	next, err := repo.NextDisplayOrder(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, next)
}

func TestMaterialPostgreSQL_NextDisplayOrderEmpty(t *testing.T) {
	repo := NewMaterialPostgreSQL(newTestDB(t))

	next, err := repo.NextDisplayOrder(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, next)
}

func TestMaterialPostgreSQL_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewMaterialPostgreSQL(newTestDB(t))

	_, err := repo.GetByID(ctx, 42)
	assert.True(t, repositories.IsNotFound(err))

	err = repo.Update(ctx, &models.Material{ID: 42, Title: "x"})
	assert.True(t, repositories.IsNotFound(err))

	err = repo.Delete(ctx, 42)
	assert.True(t, repositories.IsNotFound(err))

	exists, err := repo.Exists(ctx, 42)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMaterialPostgreSQL_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewMaterialPostgreSQL(newTestDB(t))

	m := &models.Material{Title: "Letter B"}
	require.NoError(t, repo.Create(ctx, m))

	url := "https://cdn.example.com/b.png"
	m.Title = "Letter B and P"
	m.ImageURL = &url
	m.DisplayOrder = 3
	require.NoError(t, repo.Update(ctx, m))

	got, err := repo.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Letter B and P", got.Title)
	require.NotNil(t, got.ImageURL)
	assert.Equal(t, url, *got.ImageURL)
	assert.Equal(t, 3, got.DisplayOrder)
}

func TestAssignmentPostgreSQL_QuestionsRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewAssignmentPostgreSQL(newTestDB(t))

	a := &models.Assignment{
		MaterialID:   1,
		Title:        "Sound B",
		SoundLetter:  "B",
		QuestionType: models.PictureChoice,
		Questions:    sampleQuestions(),
	}
	require.NoError(t, repo.Create(ctx, a))
	assert.Equal(t, 2, a.QuestionsCount)

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, got.Questions, 2)
	assert.Equal(t, 2, got.QuestionsCount)

	pc, ok := got.Questions[0].Content.(models.PictureChoiceContent)
	require.True(t, ok)
	assert.Equal(t, []models.ImageRef{"cat.png"}, pc.CorrectImages)

	cs, ok := got.Questions[1].Content.(models.CategorySplitContent)
	require.True(t, ok)
	assert.Equal(t, "Soft", cs.Categories[1].Name)
}

func TestAssignmentPostgreSQL_GetByMaterialOrderedByCreatedAt(t *testing.T) {
	ctx := context.Background()
	repo := NewAssignmentPostgreSQL(newTestDB(t))

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	offsets := []time.Duration{2 * time.Hour, 0, time.Hour}
	for i, title := range []string{"later", "earliest", "middle"} {
		require.NoError(t, repo.Create(ctx, &models.Assignment{
			MaterialID:   7,
			Title:        title,
			SoundLetter:  "S",
			QuestionType: models.PictureChoice,
			Questions:    sampleQuestions(),
			CreatedAt:    base.Add(offsets[i]),
		}))
	}
	require.NoError(t, repo.Create(ctx, &models.Assignment{
		MaterialID: 8, Title: "other", SoundLetter: "S", QuestionType: models.PictureChoice, Questions: sampleQuestions(),
	}))

	assignments, err := repo.GetByMaterial(ctx, 7)
	require.NoError(t, err)
	require.Len(t, assignments, 3)
	assert.Equal(t, "earliest", assignments[0].Title)
	assert.Equal(t, "middle", assignments[1].Title)
	assert.Equal(t, "later", assignments[2].Title)

	count, err := repo.CountByMaterial(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	deleted, err := repo.DeleteByMaterial(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	remaining, err := repo.GetByMaterial(ctx, 8)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestAssignmentPostgreSQL_UpdateReplacesQuestions(t *testing.T) {
	ctx := context.Background()
	repo := NewAssignmentPostgreSQL(newTestDB(t))

	a := &models.Assignment{MaterialID: 1, Title: "t", SoundLetter: "A", QuestionType: models.PictureChoice, Questions: sampleQuestions()}
	require.NoError(t, repo.Create(ctx, a))

	a.Title = "renamed"
	a.Questions = a.Questions[:1]
	require.NoError(t, repo.Update(ctx, a))

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)
	assert.Len(t, got.Questions, 1)

	require.NoError(t, repo.Delete(ctx, a.ID))
	_, err = repo.GetByID(ctx, a.ID)
	assert.True(t, repositories.IsNotFound(err))
}

func TestProfilePostgreSQL_MissingIsNil(t *testing.T) {
	repo := NewProfilePostgreSQL(newTestDB(t))

	profile, err := repo.GetByID(context.Background(), "nobody")
	assert.NoError(t, err)
	assert.Nil(t, profile)
}

func TestProfilePostgreSQL_UpsertAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewProfilePostgreSQL(newTestDB(t))

	require.NoError(t, repo.Upsert(ctx, &models.Profile{ID: "u1", Email: "a@example.com", Role: models.RoleLearner}))
	require.NoError(t, repo.Upsert(ctx, &models.Profile{ID: "u2", Email: "b@example.com", Role: models.RoleLearner}))
	require.NoError(t, repo.Upsert(ctx, &models.Profile{ID: "u1", Email: "a@example.com", Role: models.RoleAdmin}))

	got, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.RoleAdmin, got.Role)

	admin := models.RoleAdmin
	admins, total, err := repo.List(ctx, repositories.ProfileFilters{Role: &admin})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, admins, 1)
	assert.Equal(t, "u1", admins[0].ID)

	require.NoError(t, repo.Delete(ctx, "u2"))
	assert.True(t, repositories.IsNotFound(repo.Delete(ctx, "u2")))
}

func TestRepository_WithTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(newTestDB(t))

	boom := errors.New("boom")
	err := repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Material().Create(ctx, &models.Material{Title: "temp"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	materials, err := repo.Material().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, materials)

	assert.NoError(t, repo.Ping(ctx))
}
