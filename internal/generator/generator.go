// Package generator turns a quiz spec into an ordered question list,
// via the external generation capability when it cooperates and a
// deterministic fallback when it does not.
package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"quizcraft/internal/models"
	"quizcraft/pkg/llm"
)

// Placeholders used when the spec is in upload mode and no subject
// text exists yet.
const (
	defaultSubject   = "General Knowledge"
	defaultFocusArea = "Basic Concepts"
	defaultGrade     = "5th grade"
)

type Service struct {
	provider llm.Provider
	model    string
}

func NewService(provider llm.Provider, model string) *Service {
	return &Service{provider: provider, model: model}
}

// Generate produces the question list for a spec. Moderation
// rejections propagate unchanged; every other failure of the external
// call (network, quota, unparsable output) degrades to the fallback
// generator, so the caller always gets a quiz.
func (s *Service) Generate(ctx context.Context, spec models.Spec) ([]models.QuizQuestion, error) {
	subject, focusArea, grade := defaultSubject, defaultFocusArea, defaultGrade
	if spec.Manual != nil {
		subject = spec.Manual.Subject
		focusArea = spec.Manual.FocusArea
		if spec.Manual.Grade != "" {
			grade = spec.Manual.Grade
		}

		if err := checkModeration(subject, focusArea); err != nil {
			return nil, err
		}
	}

	numProblems := spec.NumProblems()
	if numProblems == 0 {
		return []models.QuizQuestion{}, nil
	}

	questions, err := s.generateWithAI(ctx, spec, subject, focusArea, grade)
	if err != nil {
		log.Printf("AI generation failed, using fallback: %v", err)
		return GenerateFallback(subject, focusArea, numProblems), nil
	}
	return questions, nil
}

func (s *Service) generateWithAI(ctx context.Context, spec models.Spec, subject, focusArea, grade string) ([]models.QuizQuestion, error) {
	if s.provider == nil {
		return nil, errors.New("no generation provider configured")
	}

	req := llm.Request{
		Model:           s.model,
		Schema:          questionsSchema,
		Temperature:     1,
		MaxOutputTokens: 2048,
	}
	if spec.Upload != nil {
		req.Instructions = buildUploadPrompt(spec.Upload.NumProblems, spec.Upload.Difficulty)
		req.File = &llm.File{
			Name:     spec.Upload.FileName,
			MIMEType: spec.Upload.FileType.MIMEType(),
			Base64:   spec.Upload.FileBase64,
		}
	} else {
		req.Instructions = buildManualPrompt(subject, grade, spec.Manual.NumProblems, focusArea, spec.Manual.Difficulty)
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	return parseQuestions(resp.Content)
}

// parseQuestions validates the untrusted provider output and
// normalizes it: sequential ids q1..qN in returned order, 1 point
// each. A count mismatch against the request is passed through
// uncorrected.
func parseQuestions(content []byte) ([]models.QuizQuestion, error) {
	var parsed rawResponse
	if err := json.Unmarshal(content, &parsed); err != nil {
		return nil, fmt.Errorf("response is not valid JSON: %w", err)
	}

	questions := make([]models.QuizQuestion, 0, len(parsed.Questions))
	for i, raw := range parsed.Questions {
		question, err := normalizeQuestion(raw, i)
		if err != nil {
			return nil, err
		}
		questions = append(questions, question)
	}
	return questions, nil
}

func normalizeQuestion(raw rawQuestion, index int) (models.QuizQuestion, error) {
	if raw.Question == "" {
		return models.QuizQuestion{}, fmt.Errorf("question %d has an empty prompt", index+1)
	}

	// Free-text questions carry no options and no correct option.
	if len(raw.Options) == 0 {
		if raw.CorrectOptionID != "" {
			return models.QuizQuestion{}, fmt.Errorf("question %d has a correct option but no options", index+1)
		}
		return models.QuizQuestion{
			ID:      fmt.Sprintf("q%d", index+1),
			Prompt:  raw.Question,
			Options: []models.QuizOption{},
			Points:  1,
		}, nil
	}

	if len(raw.Options) != 4 {
		return models.QuizQuestion{}, fmt.Errorf("question %d has %d options, want 4", index+1, len(raw.Options))
	}

	options := make([]models.QuizOption, 4)
	seen := make(map[string]bool, 4)
	correctFound := false
	for j, opt := range raw.Options {
		if opt.ID == "" || opt.Text == "" {
			return models.QuizQuestion{}, fmt.Errorf("question %d option %d is incomplete", index+1, j+1)
		}
		if seen[opt.ID] {
			return models.QuizQuestion{}, fmt.Errorf("question %d has duplicate option id %q", index+1, opt.ID)
		}
		seen[opt.ID] = true
		if opt.ID == raw.CorrectOptionID {
			correctFound = true
		}
		options[j] = models.QuizOption{ID: opt.ID, Text: opt.Text}
	}
	if !correctFound {
		return models.QuizQuestion{}, fmt.Errorf("question %d correct option %q not among options", index+1, raw.CorrectOptionID)
	}

	return models.QuizQuestion{
		ID:              fmt.Sprintf("q%d", index+1),
		Prompt:          raw.Question,
		Options:         options,
		CorrectOptionID: raw.CorrectOptionID,
		Points:          1,
	}, nil
}
