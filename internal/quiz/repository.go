package quiz

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"quizcraft/internal/models"
)

var ErrQuizNotFound = errors.New("quiz not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ArchiveQuiz(quiz *models.ArchivedQuiz) error {
	if err := r.db.Create(quiz).Error; err != nil {
		log.Printf("Error archiving quiz %s: %v", quiz.QuizID, err)
		return err
	}
	return nil
}

func (r *Repository) GetQuizByID(quizID string) (*models.ArchivedQuiz, error) {
	var quiz models.ArchivedQuiz
	err := r.db.Where("quiz_id = ?", quizID).First(&quiz).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}
	return &quiz, nil
}

func (r *Repository) GetQuizzesByCreator(creatorID uint) ([]models.ArchivedQuiz, error) {
	var quizzes []models.ArchivedQuiz
	err := r.db.Where("creator_id = ?", creatorID).Order("created_at DESC").Find(&quizzes).Error
	return quizzes, err
}
