// Package export renders a generated quiz to a paginated PDF with a
// separate answer key, for printing and handing out.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/jung-kurt/gofpdf"

	"quizcraft/internal/models"
)

// questionsPerPage is the fixed page-break threshold. The answer key
// always starts on its own page regardless of remaining space.
const questionsPerPage = 5

type Exporter struct {
	questionsPerPage int
}

func NewExporter() *Exporter {
	return &Exporter{questionsPerPage: questionsPerPage}
}

// Render builds the document: a title block, the questions with their
// options (or a blank answer line for free-text quizzes), then the
// answer key. The payload is never mutated.
func (e *Exporter) Render(quiz *models.QuizPayload) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 20)

	pdf.AddPage()
	e.renderTitle(pdf, quiz)

	for i, question := range quiz.Questions {
		if i > 0 && i%e.questionsPerPage == 0 {
			pdf.AddPage()
		}
		e.renderQuestion(pdf, i+1, question)
	}

	e.renderAnswerKey(pdf, quiz)
	return pdf
}

// Write renders the quiz and streams the PDF bytes.
func (e *Exporter) Write(quiz *models.QuizPayload, w io.Writer) error {
	return e.Render(quiz).Output(w)
}

func (e *Exporter) renderTitle(pdf *gofpdf.Fpdf, quiz *models.QuizPayload) {
	title := "Quiz"
	if quiz.Subject != "" {
		title = quiz.Subject + " Quiz"
	}

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, title, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	meta := fmt.Sprintf("Difficulty: %s   |   Questions: %d   |   Points: %d",
		capitalize(string(quiz.Difficulty)), len(quiz.Questions), quiz.TotalPoints)
	if quiz.Grade != "" {
		meta = fmt.Sprintf("Grade: %s   |   %s", quiz.Grade, meta)
	}
	pdf.CellFormat(0, 8, meta, "", 1, "C", false, 0, "")
	pdf.Ln(6)
}

func (e *Exporter) renderQuestion(pdf *gofpdf.Fpdf, number int, question models.QuizQuestion) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.MultiCell(0, 7, fmt.Sprintf("%d. %s", number, question.Prompt), "", "L", false)

	pdf.SetFont("Helvetica", "", 11)
	if question.FreeText() {
		pdf.CellFormat(0, 8, "Answer: ________________________________________", "", 1, "L", false, 0, "")
	} else {
		for _, option := range question.Options {
			pdf.MultiCell(0, 6, fmt.Sprintf("    %s) %s", option.ID, option.Text), "", "L", false)
		}
	}
	pdf.Ln(4)
}

func (e *Exporter) renderAnswerKey(pdf *gofpdf.Fpdf, quiz *models.QuizPayload) {
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Answer Key", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	for i, question := range quiz.Questions {
		answer := "(free response)"
		if !question.FreeText() {
			answer = question.CorrectOptionID
			for _, option := range question.Options {
				if option.ID == question.CorrectOptionID {
					answer = fmt.Sprintf("%s) %s", option.ID, option.Text)
					break
				}
			}
		}
		pdf.CellFormat(0, 7, fmt.Sprintf("%d. %s", i+1, answer), "", 1, "L", false, 0, "")
	}
}

// Filename builds the download name: <subject-or-"quiz">_<difficulty>_<ISO-date>.pdf.
func Filename(quiz *models.QuizPayload) string {
	subject := slugify(quiz.Subject)
	if subject == "" {
		subject = "quiz"
	}

	date := time.Now().UTC().Format("2006-01-02")
	if created, err := time.Parse(time.RFC3339, quiz.CreatedAtISO); err == nil {
		date = created.UTC().Format("2006-01-02")
	}

	return fmt.Sprintf("%s_%s_%s.pdf", subject, quiz.Difficulty, date)
}

func slugify(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

// capitalize upper-cases the first rune. The difficulty labels are
// single lowercase words, so this is all the title casing needed.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
