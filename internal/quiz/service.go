package quiz

import (
	"context"
	"fmt"
	"log"
	"time"

	"quizcraft/internal/generator"
	"quizcraft/internal/models"
)

// Archive is the durable quiz store. *Repository implements it.
type Archive interface {
	ArchiveQuiz(quiz *models.ArchivedQuiz) error
	GetQuizByID(quizID string) (*models.ArchivedQuiz, error)
	GetQuizzesByCreator(creatorID uint) ([]models.ArchivedQuiz, error)
}

// PayloadCache is the ephemeral quiz store. *cache.RedisCache
// implements it.
type PayloadCache interface {
	SetQuizPayload(payload *models.QuizPayload) error
	GetQuizPayload(quizID string) (*models.QuizPayload, error)
	DeleteQuizPayload(quizID string) error
}

type Service struct {
	gen   *generator.Service
	repo  Archive
	cache PayloadCache
}

// NewService wires the generator with optional storage. A nil repo or
// cache disables that layer; generation itself never depends on either.
func NewService(gen *generator.Service, repo Archive, cache PayloadCache) *Service {
	return &Service{
		gen:   gen,
		repo:  repo,
		cache: cache,
	}
}

// GenerateQuiz runs the generator and wraps the questions into an
// immutable payload. Archive and cache failures are logged, never
// surfaced: the caller already has their quiz.
func (s *Service) GenerateQuiz(ctx context.Context, spec models.Spec, creatorID uint) (*models.QuizPayload, error) {
	questions, err := s.gen.Generate(ctx, spec)
	if err != nil {
		return nil, err
	}

	totalPoints := 0
	for _, q := range questions {
		totalPoints += q.Points
	}

	payload := &models.QuizPayload{
		ID:           fmt.Sprintf("quiz_%d", time.Now().UnixMilli()),
		Difficulty:   spec.GetDifficulty(),
		Questions:    questions,
		TotalPoints:  totalPoints,
		CreatedAtISO: time.Now().UTC().Format(time.RFC3339),
	}
	if spec.Manual != nil {
		payload.Subject = spec.Manual.Subject
		payload.Grade = spec.Manual.Grade
	}

	if s.cache != nil {
		if err := s.cache.SetQuizPayload(payload); err != nil {
			log.Printf("Error caching quiz %s: %v", payload.ID, err)
		}
	}

	if s.repo != nil {
		archived, err := models.NewArchivedQuiz(payload, creatorID)
		if err != nil {
			log.Printf("Error encoding quiz %s for archive: %v", payload.ID, err)
		} else if err := s.repo.ArchiveQuiz(archived); err != nil {
			log.Printf("Error archiving quiz %s: %v", payload.ID, err)
			// Keep the stores consistent: a cache entry must not
			// outlive a failed archive write.
			s.evictCache(payload.ID)
		}
	}

	return payload, nil
}

func (s *Service) evictCache(quizID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteQuizPayload(quizID); err != nil {
		log.Printf("Error evicting quiz %s from cache: %v", quizID, err)
	}
}

// GetQuiz loads a previously generated payload, cache first, archive
// second.
func (s *Service) GetQuiz(quizID string) (*models.QuizPayload, error) {
	if s.cache != nil {
		if payload, err := s.cache.GetQuizPayload(quizID); err == nil {
			return payload, nil
		}
	}

	if s.repo == nil {
		return nil, ErrQuizNotFound
	}

	archived, err := s.repo.GetQuizByID(quizID)
	if err != nil {
		return nil, err
	}
	payload, err := archived.DecodePayload()
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetQuizPayload(payload); err != nil {
			log.Printf("Error refreshing cache for quiz %s: %v", quizID, err)
		}
	}
	return payload, nil
}

func (s *Service) GetQuizzesByCreator(creatorID uint) ([]models.ArchivedQuiz, error) {
	if s.repo == nil {
		return []models.ArchivedQuiz{}, nil
	}
	return s.repo.GetQuizzesByCreator(creatorID)
}
