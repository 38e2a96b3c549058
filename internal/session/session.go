// Package session implements the quiz-taking state machine: one
// in-progress pass over a generated quiz, owned by a single client and
// never shared or persisted.
package session

import (
	"errors"
	"math"
	"strings"

	"quizcraft/internal/models"
)

var (
	ErrCompleted       = errors.New("quiz already completed")
	ErrNotCompleted    = errors.New("quiz not completed yet")
	ErrUnanswered      = errors.New("current question has no answer")
	ErrAtFirstQuestion = errors.New("already at the first question")
	ErrUnknownQuestion = errors.New("question not part of this quiz")
)

// Session moves InProgress(index) -> Completed(score). The quiz
// payload is read-only; all mutable state lives here.
type Session struct {
	quiz      *models.QuizPayload
	index     int
	answers   map[string]string
	completed bool
	score     models.QuizScoreSummary
}

func New(quiz *models.QuizPayload) *Session {
	return &Session{
		quiz:    quiz,
		answers: make(map[string]string),
	}
}

func (s *Session) Quiz() *models.QuizPayload { return s.quiz }

func (s *Session) CurrentIndex() int { return s.index }

func (s *Session) Completed() bool { return s.completed }

// Current returns the question at the cursor. ok is false when the
// quiz has no questions.
func (s *Session) Current() (models.QuizQuestion, bool) {
	if s.index >= len(s.quiz.Questions) {
		return models.QuizQuestion{}, false
	}
	return s.quiz.Questions[s.index], true
}

// Answers returns a copy of the recorded answers.
func (s *Session) Answers() map[string]string {
	out := make(map[string]string, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

// SelectAnswer upserts the answer for a question. The cursor does not
// move.
func (s *Session) SelectAnswer(questionID, answer string) error {
	if s.completed {
		return ErrCompleted
	}
	for _, q := range s.quiz.Questions {
		if q.ID == questionID {
			s.answers[questionID] = answer
			return nil
		}
	}
	return ErrUnknownQuestion
}

// Next advances the cursor, or completes the quiz and computes the
// score when the cursor is on the last question. Refused while the
// current question is unanswered.
func (s *Session) Next() error {
	if s.completed {
		return ErrCompleted
	}
	if current, ok := s.Current(); ok {
		if _, answered := s.answers[current.ID]; !answered {
			return ErrUnanswered
		}
	}
	if s.index >= len(s.quiz.Questions)-1 {
		s.score = Score(s.quiz, s.answers)
		s.completed = true
		return nil
	}
	s.index++
	return nil
}

// Previous moves the cursor back. Answer presence is not required to
// go back.
func (s *Session) Previous() error {
	if s.completed {
		return ErrCompleted
	}
	if s.index == 0 {
		return ErrAtFirstQuestion
	}
	s.index--
	return nil
}

// Restart clears all answers and returns to the first question. Only
// allowed once the quiz is completed.
func (s *Session) Restart() error {
	if !s.completed {
		return ErrNotCompleted
	}
	s.index = 0
	s.answers = make(map[string]string)
	s.completed = false
	s.score = models.QuizScoreSummary{}
	return nil
}

// ScoreSummary returns the computed score; ok is false until the quiz
// is completed.
func (s *Session) ScoreSummary() (models.QuizScoreSummary, bool) {
	if !s.completed {
		return models.QuizScoreSummary{}, false
	}
	return s.score, true
}

// Score grades an answer map against a quiz. Option questions award
// full points on an exact id match. Free-text questions award full
// points for any non-blank submission; there is no semantic grading, a
// known limitation. With zero total points the percentage is 0, never
// NaN.
func Score(quiz *models.QuizPayload, answers map[string]string) models.QuizScoreSummary {
	earned, total := 0, 0
	for _, question := range quiz.Questions {
		total += question.Points
		answer, ok := answers[question.ID]
		if !ok {
			continue
		}
		if question.FreeText() {
			if strings.TrimSpace(answer) != "" {
				earned += question.Points
			}
			continue
		}
		if answer == question.CorrectOptionID {
			earned += question.Points
		}
	}

	percentage := 0
	if total > 0 {
		percentage = int(math.Round(float64(earned) / float64(total) * 100))
	}

	return models.QuizScoreSummary{
		TotalQuestions: len(quiz.Questions),
		TotalPoints:    total,
		EarnedPoints:   earned,
		Percentage:     percentage,
	}
}
