package quiz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizcraft/internal/generator"
	"quizcraft/internal/models"
)

// fakeArchive is an in-memory Archive.
type fakeArchive struct {
	quizzes    map[string]*models.ArchivedQuiz
	archiveErr error
}

func newFakeArchive() *fakeArchive {
	return &fakeArchive{quizzes: make(map[string]*models.ArchivedQuiz)}
}

func (a *fakeArchive) ArchiveQuiz(quiz *models.ArchivedQuiz) error {
	if a.archiveErr != nil {
		return a.archiveErr
	}
	a.quizzes[quiz.QuizID] = quiz
	return nil
}

func (a *fakeArchive) GetQuizByID(quizID string) (*models.ArchivedQuiz, error) {
	quiz, ok := a.quizzes[quizID]
	if !ok {
		return nil, ErrQuizNotFound
	}
	return quiz, nil
}

func (a *fakeArchive) GetQuizzesByCreator(creatorID uint) ([]models.ArchivedQuiz, error) {
	var out []models.ArchivedQuiz
	for _, quiz := range a.quizzes {
		if quiz.CreatorID == creatorID {
			out = append(out, *quiz)
		}
	}
	return out, nil
}

// fakeCache is an in-memory PayloadCache that records deletions.
type fakeCache struct {
	payloads map[string]*models.QuizPayload
	deleted  []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{payloads: make(map[string]*models.QuizPayload)}
}

func (c *fakeCache) SetQuizPayload(payload *models.QuizPayload) error {
	c.payloads[payload.ID] = payload
	return nil
}

func (c *fakeCache) GetQuizPayload(quizID string) (*models.QuizPayload, error) {
	payload, ok := c.payloads[quizID]
	if !ok {
		return nil, errors.New("cache miss")
	}
	return payload, nil
}

func (c *fakeCache) DeleteQuizPayload(quizID string) error {
	delete(c.payloads, quizID)
	c.deleted = append(c.deleted, quizID)
	return nil
}

func manualSpec(numProblems int) models.Spec {
	return models.Spec{Manual: &models.ManualSpec{
		Subject:     "Math",
		FocusArea:   "Addition",
		NumProblems: numProblems,
		Difficulty:  models.DifficultyEasy,
	}}
}

func TestGenerateQuizStoresInCacheAndArchive(t *testing.T) {
	archive := newFakeArchive()
	cache := newFakeCache()
	gen := generator.NewService(nil, "gpt-4.1-mini")
	service := NewService(gen, archive, cache)

	payload, err := service.GenerateQuiz(context.Background(), manualSpec(3), 7)
	require.NoError(t, err)

	cached, err := cache.GetQuizPayload(payload.ID)
	require.NoError(t, err)
	assert.Equal(t, payload, cached)

	archived, err := archive.GetQuizByID(payload.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(7), archived.CreatorID)

	decoded, err := archived.DecodePayload()
	require.NoError(t, err)
	assert.Equal(t, payload.Questions, decoded.Questions)
}

func TestGenerateQuizEvictsCacheWhenArchiveFails(t *testing.T) {
	archive := newFakeArchive()
	archive.archiveErr = errors.New("connection refused")
	cache := newFakeCache()
	gen := generator.NewService(nil, "gpt-4.1-mini")
	service := NewService(gen, archive, cache)

	payload, err := service.GenerateQuiz(context.Background(), manualSpec(2), 0)
	require.NoError(t, err, "the caller still gets their quiz")

	require.Equal(t, []string{payload.ID}, cache.deleted)
	_, err = cache.GetQuizPayload(payload.ID)
	assert.Error(t, err, "a cache entry must not outlive a failed archive write")
}

func TestGetQuizPrefersCache(t *testing.T) {
	archive := newFakeArchive()
	cache := newFakeCache()
	gen := generator.NewService(nil, "gpt-4.1-mini")
	service := NewService(gen, archive, cache)

	payload, err := service.GenerateQuiz(context.Background(), manualSpec(2), 0)
	require.NoError(t, err)

	// Drop the archive row; the cache alone must serve the quiz.
	delete(archive.quizzes, payload.ID)
	got, err := service.GetQuiz(payload.ID)
	require.NoError(t, err)
	assert.Equal(t, payload.ID, got.ID)
}

func TestGetQuizRefillsCacheFromArchive(t *testing.T) {
	archive := newFakeArchive()
	cache := newFakeCache()
	gen := generator.NewService(nil, "gpt-4.1-mini")
	service := NewService(gen, archive, cache)

	payload, err := service.GenerateQuiz(context.Background(), manualSpec(2), 0)
	require.NoError(t, err)

	delete(cache.payloads, payload.ID)
	got, err := service.GetQuiz(payload.ID)
	require.NoError(t, err)
	assert.Equal(t, payload.ID, got.ID)

	_, err = cache.GetQuizPayload(payload.ID)
	assert.NoError(t, err, "an archive hit refreshes the cache")
}
