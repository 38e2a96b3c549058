package generator

import "quizcraft/pkg/llm"

// questionsSchema is the strict output shape sent with every
// generation call: an array of questions, each with a prompt, 4
// lettered options and the id of the correct one. Free-text questions
// come back with an empty options array.
var questionsSchema = &llm.Schema{
	Name:   "quiz_questions_array",
	Strict: true,
	Definition: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"questions": map[string]interface{}{
				"type":        "array",
				"description": "An array of quiz questions.",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"question": map[string]interface{}{
							"type":        "string",
							"description": "The quiz question to be answered.",
						},
						"options": map[string]interface{}{
							"type":        "array",
							"description": "Exactly 4 answer options with ids a-d, or an empty array for free-text questions.",
							"items": map[string]interface{}{
								"type": "object",
								"properties": map[string]interface{}{
									"id": map[string]interface{}{
										"type":        "string",
										"description": "Single lowercase letter a, b, c or d.",
									},
									"text": map[string]interface{}{
										"type":        "string",
										"description": "The option text.",
									},
								},
								"required":             []interface{}{"id", "text"},
								"additionalProperties": false,
							},
						},
						"correctOptionId": map[string]interface{}{
							"type":        "string",
							"description": "Id of the correct option, or an empty string for free-text questions.",
						},
					},
					"required":             []interface{}{"question", "options", "correctOptionId"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []interface{}{"questions"},
		"additionalProperties": false,
	},
}

// rawOption and rawQuestion are the untrusted wire shapes before
// validation.
type rawOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type rawQuestion struct {
	Question        string      `json:"question"`
	Options         []rawOption `json:"options"`
	CorrectOptionID string      `json:"correctOptionId"`
}

type rawResponse struct {
	Questions []rawQuestion `json:"questions"`
}
