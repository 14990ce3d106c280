package authoring

import (
	"errors"
	"testing"
	"time"

	apperrors "github.com/SAP-F-2025/phonics-service/internal/errors"
	"github.com/SAP-F-2025/phonics-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() func() time.Time {
	t := time.UnixMilli(1_700_000_000_000)
	return func() time.Time { return t }
}

func pictureQuestion(text string) models.Question {
	return models.Question{Text: text, Content: models.PictureChoiceContent{
		CorrectImages:   []models.ImageRef{"a.png"},
		IncorrectImages: []models.ImageRef{"b.png"},
	}}
}

func texts(qs []models.Question) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.Text
	}
	return out
}

func TestDocument_AddAssignsUniqueIDs(t *testing.T) {
	d := NewDocument(1, WithClock(fixedClock()))

	id1, err := d.AddQuestion(pictureQuestion("one"))
	require.NoError(t, err)
	id2, err := d.AddQuestion(pictureQuestion("two"))
	require.NoError(t, err)

	assert.Equal(t, int64(1_700_000_000_000), id1)
	assert.Equal(t, id1+1, id2)
	assert.Equal(t, []string{"one", "two"}, texts(d.Questions()))
}

func TestDocument_AddRejectsInvalid(t *testing.T) {
	d := NewDocument(1)

	_, err := d.AddQuestion(models.Question{Text: "", Content: models.PictureChoiceContent{}})
	assert.True(t, apperrors.IsMissingField(err))
	assert.Equal(t, 0, d.Len())
}

func TestDocument_AddThenRemoveLeavesOthersUnchanged(t *testing.T) {
	d := NewDocument(1, WithClock(fixedClock()))
	for _, text := range []string{"a", "b", "c"} {
		_, err := d.AddQuestion(pictureQuestion(text))
		require.NoError(t, err)
	}
	before := d.Questions()

	id, err := d.AddQuestion(pictureQuestion("temp"))
	require.NoError(t, err)
	require.NoError(t, d.RemoveQuestion(id))

	assert.Equal(t, before, d.Questions())
}

func TestDocument_RemoveKeepsOrder(t *testing.T) {
	d := NewDocument(1, WithClock(fixedClock()))
	var ids []int64
	for _, text := range []string{"a", "b", "c"} {
		id, err := d.AddQuestion(pictureQuestion(text))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	require.NoError(t, d.RemoveQuestion(ids[1]))
	assert.Equal(t, []string{"a", "c"}, texts(d.Questions()))

	// ids are never reused after a removal
	id, err := d.AddQuestion(pictureQuestion("d"))
	require.NoError(t, err)
	assert.Greater(t, id, ids[2])
}

func TestDocument_UpdatePreservesPosition(t *testing.T) {
	d := NewDocument(1, WithClock(fixedClock()))
	var ids []int64
	for _, text := range []string{"a", "b", "c"} {
		id, err := d.AddQuestion(pictureQuestion(text))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	require.NoError(t, d.UpdateQuestion(ids[1], pictureQuestion("B")))

	qs := d.Questions()
	assert.Equal(t, []string{"a", "B", "c"}, texts(qs))
	assert.Equal(t, ids[1], qs[1].ID)
}

func TestDocument_UnknownIDIsNotFound(t *testing.T) {
	d := NewDocument(1)

	assert.True(t, errors.Is(d.UpdateQuestion(42, pictureQuestion("x")), ErrQuestionNotFound))
	assert.True(t, errors.Is(d.RemoveQuestion(42), ErrQuestionNotFound))
	_, err := d.BeginEdit(42)
	assert.True(t, errors.Is(err, ErrQuestionNotFound))
}

func TestDocument_EditingCursor(t *testing.T) {
	d := NewDocument(1, WithClock(fixedClock()))
	id, err := d.AddQuestion(pictureQuestion("a"))
	require.NoError(t, err)

	_, editing := d.EditingID()
	assert.False(t, editing)

	q, err := d.BeginEdit(id)
	require.NoError(t, err)
	assert.Equal(t, "a", q.Text)
	got, editing := d.EditingID()
	assert.True(t, editing)
	assert.Equal(t, id, got)

	require.NoError(t, d.UpdateQuestion(id, pictureQuestion("a2")))
	_, editing = d.EditingID()
	assert.False(t, editing)

	_, err = d.BeginEdit(id)
	require.NoError(t, err)
	require.NoError(t, d.RemoveQuestion(id))
	_, editing = d.EditingID()
	assert.False(t, editing)
}

func TestDocument_SetMetadata(t *testing.T) {
	d := NewDocument(1)

	err := d.SetMetadata("  ", "desc", "С", models.PictureChoice)
	require.Error(t, err)

	require.NoError(t, d.SetMetadata(" Звук С ", " ", "С", models.SyllablePattern))
	assert.Equal(t, models.SyllablePattern, d.QuestionType())
}

func TestDocument_ToPersistable(t *testing.T) {
	d := NewDocument(7, WithClock(fixedClock()))
	require.NoError(t, d.SetMetadata("Звук С", "", "С", models.PictureChoice))

	_, err := d.ToPersistable()
	assert.True(t, apperrors.IsEmptyCollection(err))

	_, err = d.AddQuestion(pictureQuestion("a"))
	require.NoError(t, err)

	p, err := d.ToPersistable()
	require.NoError(t, err)
	assert.Equal(t, uint(7), p.MaterialID)
	assert.Equal(t, "Звук С", p.Title)
	assert.Nil(t, p.Description)
	assert.Equal(t, "С", p.SoundLetter)
	assert.Len(t, p.Questions, 1)
}

func TestFromAssignment_ReassignsDuplicateIDs(t *testing.T) {
	desc := "описание"
	a := &models.Assignment{
		MaterialID:   3,
		Title:        "t",
		Description:  &desc,
		SoundLetter:  "Ш",
		QuestionType: models.PictureChoice,
		Questions: []models.Question{
			func() models.Question { q := pictureQuestion("a"); q.ID = 10; return q }(),
			func() models.Question { q := pictureQuestion("b"); q.ID = 10; return q }(),
			pictureQuestion("c"),
		},
	}

	d := FromAssignment(a, WithClock(func() time.Time { return time.UnixMilli(5) }))
	qs := d.Questions()
	require.Len(t, qs, 3)
	assert.Equal(t, int64(10), qs[0].ID)
	assert.Equal(t, int64(11), qs[1].ID)
	assert.Equal(t, int64(12), qs[2].ID)

	p, err := d.ToPersistable()
	require.NoError(t, err)
	require.NotNil(t, p.Description)
	assert.Equal(t, desc, *p.Description)
}
