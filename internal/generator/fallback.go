package generator

import (
	"fmt"
	"strings"

	"quizcraft/internal/models"
)

// questionTemplate is one canned fallback question. Prompt and option
// texts may reference the subject and focus area with %[1]s / %[2]s.
type questionTemplate struct {
	prompt          string
	options         [4]string
	correctOptionID string
}

var optionIDs = [4]string{"a", "b", "c", "d"}

var mathTemplates = []questionTemplate{
	{"What is 7 + 8?", [4]string{"13", "14", "15", "16"}, "c"},
	{"What is 9 x 6?", [4]string{"54", "56", "45", "63"}, "a"},
	{"What is 144 / 12?", [4]string{"10", "11", "12", "14"}, "c"},
	{"What is 15 - 9?", [4]string{"5", "6", "7", "8"}, "b"},
	{"Which of these numbers is prime?", [4]string{"21", "27", "33", "29"}, "d"},
}

var historyTemplates = []questionTemplate{
	{"In which year did World War II end?", [4]string{"1943", "1945", "1947", "1950"}, "b"},
	{"Which ancient civilization built the pyramids at Giza?", [4]string{"The Romans", "The Greeks", "The Egyptians", "The Persians"}, "c"},
	{"Who was the first President of the United States?", [4]string{"George Washington", "Thomas Jefferson", "John Adams", "Benjamin Franklin"}, "a"},
	{"On which continent is the Nile River located?", [4]string{"Asia", "Africa", "South America", "Europe"}, "b"},
	{"The Great Wall is located in which country?", [4]string{"Japan", "India", "China", "Mongolia"}, "c"},
}

var scienceTemplates = []questionTemplate{
	{"What is the chemical symbol for water?", [4]string{"CO2", "H2O", "O2", "NaCl"}, "b"},
	{"How many protons does a hydrogen atom have?", [4]string{"2", "0", "1", "3"}, "c"},
	{"Which gas do plants absorb during photosynthesis?", [4]string{"Carbon dioxide", "Oxygen", "Nitrogen", "Hydrogen"}, "a"},
	{"What is the chemical symbol for sodium?", [4]string{"S", "N", "So", "Na"}, "d"},
	{"Which state of matter has a fixed volume but no fixed shape?", [4]string{"Solid", "Liquid", "Gas", "Plasma"}, "b"},
}

var genericTemplates = []questionTemplate{
	{
		"What is the main topic of %[2]s in %[1]s?",
		[4]string{
			"The core ideas and definitions of %[2]s",
			"An unrelated branch of %[1]s",
			"Only the historical background",
			"Topics outside the course material",
		},
		"a",
	},
	{
		"Which of the following best describes %[2]s?",
		[4]string{
			"A topic unrelated to %[1]s",
			"A key area of study within %[1]s",
			"A purely recreational activity",
			"A subject with no practical use",
		},
		"b",
	},
	{
		"When studying %[2]s, what is the most important first step?",
		[4]string{
			"Memorizing advanced material immediately",
			"Skipping directly to practice tests",
			"Learning the fundamental concepts",
			"Avoiding any background reading",
		},
		"c",
	},
	{
		"What is the primary goal of learning about %[2]s?",
		[4]string{
			"Passing a single test and forgetting it",
			"Collecting unrelated facts",
			"Impressing others with vocabulary",
			"Building a working understanding of %[2]s",
		},
		"d",
	},
	{
		"Which approach is best for mastering %[2]s?",
		[4]string{
			"Regular practice with feedback",
			"Studying once right before the exam",
			"Reading summaries without examples",
			"Ignoring mistakes when they happen",
		},
		"a",
	},
}

var fillerOptions = [4]string{
	"Its key concepts and vocabulary",
	"Unrelated trivia",
	"Only memorizing isolated facts",
	"Skipping the fundamentals",
}

// expand substitutes the subject/focus placeholders; plain template
// strings pass through untouched.
func expand(text, subject, focusArea string) string {
	if !strings.Contains(text, "%[") {
		return text
	}
	return fmt.Sprintf(text, subject, focusArea)
}

// templatesFor picks a subject-aware bank: arithmetic for math,
// geography/history facts for history, chemistry flavor for science,
// generic study questions otherwise.
func templatesFor(subject string) []questionTemplate {
	lower := strings.ToLower(subject)
	switch {
	case strings.Contains(lower, "math"):
		return mathTemplates
	case strings.Contains(lower, "history"):
		return historyTemplates
	case strings.Contains(lower, "science"):
		return scienceTemplates
	default:
		return genericTemplates
	}
}

// GenerateFallback produces deterministic questions when the external
// capability is unavailable or returned garbage. It is a pure function
// of (subject, focusArea, numProblems) and never fails: template
// questions first, then generic filler up to the requested count. Every
// question has 4 options, a valid correct option and 1 point.
func GenerateFallback(subject, focusArea string, numProblems int) []models.QuizQuestion {
	templates := templatesFor(subject)

	questions := make([]models.QuizQuestion, 0, numProblems)
	for i := 0; i < numProblems && i < len(templates); i++ {
		tmpl := templates[i]
		options := make([]models.QuizOption, 4)
		for j, text := range tmpl.options {
			options[j] = models.QuizOption{
				ID:   optionIDs[j],
				Text: expand(text, subject, focusArea),
			}
		}
		questions = append(questions, models.QuizQuestion{
			ID:              fmt.Sprintf("q%d", i+1),
			Prompt:          expand(tmpl.prompt, subject, focusArea),
			Options:         options,
			CorrectOptionID: tmpl.correctOptionID,
			Points:          1,
		})
	}

	for i := len(questions); i < numProblems; i++ {
		options := make([]models.QuizOption, 4)
		for j, text := range fillerOptions {
			options[j] = models.QuizOption{ID: optionIDs[j], Text: text}
		}
		questions = append(questions, models.QuizQuestion{
			ID:              fmt.Sprintf("q%d", i+1),
			Prompt:          fmt.Sprintf("Question %d: What is an important aspect of %s?", i+1, focusArea),
			Options:         options,
			CorrectOptionID: "a",
			Points:          1,
		})
	}

	return questions
}
