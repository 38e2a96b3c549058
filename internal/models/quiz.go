package models

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Difficulty string

const (
	DifficultyEasy        Difficulty = "easy"
	DifficultyModerate    Difficulty = "moderate"
	DifficultyChallenging Difficulty = "challenging"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyModerate, DifficultyChallenging:
		return true
	}
	return false
}

type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypePNG  FileType = "png"
	FileTypeJPG  FileType = "jpg"
	FileTypeJPEG FileType = "jpeg"
)

func (t FileType) Valid() bool {
	switch t {
	case FileTypePDF, FileTypePNG, FileTypeJPG, FileTypeJPEG:
		return true
	}
	return false
}

// MIMEType returns the content type used when the file is forwarded
// to the generation provider.
func (t FileType) MIMEType() string {
	switch t {
	case FileTypePDF:
		return "application/pdf"
	case FileTypePNG:
		return "image/png"
	default:
		return "image/jpeg"
	}
}

// MaxUploadBytes caps decoded lesson uploads at 10MB.
const MaxUploadBytes = 10 * 1024 * 1024

// ManualSpec describes a quiz by subject and focus area.
type ManualSpec struct {
	Subject     string     `json:"subject"`
	Grade       string     `json:"grade,omitempty"`
	NumProblems int        `json:"numProblems"`
	FocusArea   string     `json:"focusArea"`
	Difficulty  Difficulty `json:"difficulty"`
}

// UploadSpec describes a quiz derived from an uploaded lesson document.
type UploadSpec struct {
	FileName    string     `json:"fileName"`
	FileType    FileType   `json:"fileType"`
	FileBase64  string     `json:"fileBase64"`
	NumProblems int        `json:"numProblems"`
	Difficulty  Difficulty `json:"difficulty"`
}

// Spec is the validated description of what quiz to build. Exactly one
// variant is populated, keyed by the wire field "mode".
type Spec struct {
	Manual *ManualSpec
	Upload *UploadSpec
}

type specEnvelope struct {
	Mode string `json:"mode"`

	Subject   string `json:"subject,omitempty"`
	Grade     string `json:"grade,omitempty"`
	FocusArea string `json:"focusArea,omitempty"`

	FileName   string   `json:"fileName,omitempty"`
	FileType   FileType `json:"fileType,omitempty"`
	FileBase64 string   `json:"fileBase64,omitempty"`

	NumProblems int        `json:"numProblems"`
	Difficulty  Difficulty `json:"difficulty"`
}

func (s *Spec) UnmarshalJSON(data []byte) error {
	var env specEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}

	switch env.Mode {
	case "manual":
		s.Manual = &ManualSpec{
			Subject:     env.Subject,
			Grade:       env.Grade,
			NumProblems: env.NumProblems,
			FocusArea:   env.FocusArea,
			Difficulty:  env.Difficulty,
		}
		s.Upload = nil
	case "upload":
		s.Upload = &UploadSpec{
			FileName:    env.FileName,
			FileType:    env.FileType,
			FileBase64:  env.FileBase64,
			NumProblems: env.NumProblems,
			Difficulty:  env.Difficulty,
		}
		s.Manual = nil
	default:
		return fmt.Errorf("unknown quiz spec mode %q", env.Mode)
	}
	return nil
}

func (s Spec) MarshalJSON() ([]byte, error) {
	switch {
	case s.Manual != nil:
		return json.Marshal(specEnvelope{
			Mode:        "manual",
			Subject:     s.Manual.Subject,
			Grade:       s.Manual.Grade,
			FocusArea:   s.Manual.FocusArea,
			NumProblems: s.Manual.NumProblems,
			Difficulty:  s.Manual.Difficulty,
		})
	case s.Upload != nil:
		return json.Marshal(specEnvelope{
			Mode:        "upload",
			FileName:    s.Upload.FileName,
			FileType:    s.Upload.FileType,
			FileBase64:  s.Upload.FileBase64,
			NumProblems: s.Upload.NumProblems,
			Difficulty:  s.Upload.Difficulty,
		})
	}
	return nil, errors.New("quiz spec has no variant set")
}

// NumProblems returns the requested question count for either variant.
func (s Spec) NumProblems() int {
	if s.Manual != nil {
		return s.Manual.NumProblems
	}
	if s.Upload != nil {
		return s.Upload.NumProblems
	}
	return 0
}

// GetDifficulty returns the requested difficulty for either variant.
func (s Spec) GetDifficulty() Difficulty {
	if s.Manual != nil {
		return s.Manual.Difficulty
	}
	if s.Upload != nil {
		return s.Upload.Difficulty
	}
	return ""
}

// Validate enforces the per-variant field requirements.
func (s Spec) Validate() error {
	switch {
	case s.Manual != nil && s.Upload != nil:
		return errors.New("quiz spec must have exactly one variant")
	case s.Manual != nil:
		if s.Manual.Subject == "" {
			return errors.New("subject is required")
		}
		if s.Manual.FocusArea == "" {
			return errors.New("focus area is required")
		}
		return validateCommon(s.Manual.NumProblems, s.Manual.Difficulty)
	case s.Upload != nil:
		if s.Upload.FileName == "" {
			return errors.New("file name is required")
		}
		if !s.Upload.FileType.Valid() {
			return fmt.Errorf("unsupported file type %q", s.Upload.FileType)
		}
		decoded, err := base64.StdEncoding.DecodeString(s.Upload.FileBase64)
		if err != nil {
			return errors.New("file content is not valid base64")
		}
		if len(decoded) == 0 {
			return errors.New("file content is required")
		}
		if len(decoded) > MaxUploadBytes {
			return errors.New("file size must be less than 10MB")
		}
		return validateCommon(s.Upload.NumProblems, s.Upload.Difficulty)
	}
	return errors.New("quiz spec has no variant set")
}

func validateCommon(numProblems int, difficulty Difficulty) error {
	if numProblems < 1 || numProblems > 50 {
		return errors.New("number of problems must be between 1 and 50")
	}
	if !difficulty.Valid() {
		return fmt.Errorf("unknown difficulty %q", difficulty)
	}
	return nil
}

// QuizOption is one answer choice, id conventionally a-d.
type QuizOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// QuizQuestion is a single generated question. Options is empty for
// free-text questions, otherwise holds exactly 4 choices.
type QuizQuestion struct {
	ID              string       `json:"id"`
	Prompt          string       `json:"prompt"`
	Options         []QuizOption `json:"options"`
	CorrectOptionID string       `json:"correctOptionId"`
	Points          int          `json:"points"`
}

// FreeText reports whether the question is answered with typed text
// rather than an option pick.
func (q QuizQuestion) FreeText() bool {
	return len(q.Options) == 0
}

// QuizPayload is the generated quiz handed to the client. Immutable
// after generation.
type QuizPayload struct {
	ID           string         `json:"id"`
	Subject      string         `json:"subject,omitempty"`
	Grade        string         `json:"grade,omitempty"`
	Difficulty   Difficulty     `json:"difficulty"`
	Questions    []QuizQuestion `json:"questions"`
	TotalPoints  int            `json:"totalPoints"`
	CreatedAtISO string         `json:"createdAtISO"`
}

// QuizScoreSummary is the result of scoring one completed session.
type QuizScoreSummary struct {
	TotalQuestions int `json:"totalQuestions"`
	TotalPoints    int `json:"totalPoints"`
	EarnedPoints   int `json:"earnedPoints"`
	Percentage     int `json:"percentage"`
}

type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
	Username  string         `json:"username" gorm:"unique;not null"`
	Email     string         `json:"email"`
	Password  string         `json:"-" gorm:"not null"`
}

// ArchivedQuiz is the stored record of one generated quiz. The full
// payload is kept as JSON so it can be replayed or exported later.
type ArchivedQuiz struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	QuizID      string    `json:"quiz_id" gorm:"uniqueIndex;not null"`
	CreatorID   uint      `json:"creator_id" gorm:"index"`
	Subject     string    `json:"subject"`
	Grade       string    `json:"grade"`
	Difficulty  string    `json:"difficulty"`
	NumProblems int       `json:"num_problems"`
	TotalPoints int       `json:"total_points"`
	Payload     string    `json:"-" gorm:"type:text;not null"`
}

// NewArchivedQuiz flattens a payload into its archive row.
func NewArchivedQuiz(payload *QuizPayload, creatorID uint) (*ArchivedQuiz, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &ArchivedQuiz{
		QuizID:      payload.ID,
		CreatorID:   creatorID,
		Subject:     payload.Subject,
		Grade:       payload.Grade,
		Difficulty:  string(payload.Difficulty),
		NumProblems: len(payload.Questions),
		TotalPoints: payload.TotalPoints,
		Payload:     string(raw),
	}, nil
}

// DecodePayload restores the archived payload.
func (a *ArchivedQuiz) DecodePayload() (*QuizPayload, error) {
	var payload QuizPayload
	if err := json.Unmarshal([]byte(a.Payload), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}
