package generator

import (
	"fmt"

	"quizcraft/internal/models"
)

const manualPromptTemplate = `You are a quiz creator tool for teachers. The quiz you generate will be used to test students on particular material. Please make a quiz that is appropriate for the following use case

subject: %s
grade: %s
number of problems: %d
topic of focus: %s
difficulty level: %s

Formatting requirements:
- Every question must have exactly 4 answer options with ids a, b, c and d.
- Exactly one option is correct; distribute the correct option randomly across all 4 positions.
- Questions must be specific and practical, worded appropriately for the grade level.
- Do not use "all of the above" or "none of the above" options.

Return the JSON schema only`

const uploadPromptTemplate = `You are a quiz creator tool for teachers. The quiz you generate will be used to test students on particular material. Please make a quiz that is based off of the attached lesson plan. Also ensure the quiz meets the following guidelines:

Number of problems: %d
Difficulty Level: %s

Formatting requirements:
- Every question must have exactly 4 answer options with ids a, b, c and d.
- Exactly one option is correct; distribute the correct option randomly across all 4 positions.
- Do not use "all of the above" or "none of the above" options.

Return the JSON schema only`

func buildManualPrompt(subject, grade string, numProblems int, focusArea string, difficulty models.Difficulty) string {
	return fmt.Sprintf(manualPromptTemplate, subject, grade, numProblems, focusArea, difficulty)
}

func buildUploadPrompt(numProblems int, difficulty models.Difficulty) string {
	return fmt.Sprintf(uploadPromptTemplate, numProblems, difficulty)
}
