package generator

import "strings"

// forbiddenTopics is matched by case-insensitive substring containment
// against subject + focus area. The over-broad match (a token inside an
// unrelated word still rejects) is intentional.
var forbiddenTopics = []string{
	"serial killers", "murderers", "violence", "sexual", "pornographic", "hate speech",
	"extremist", "graphic violence", "gore", "self-harm", "lgbtia+", "woke", "wokeness",
	"adult themes", "stripping", "prostitution", "drugs", "rape",
}

const moderationMessage = "I'm sorry, but I cannot generate a lesson plan on that topic. Please try something else"

// ModerationError rejects a spec before any generation attempt. It is
// never absorbed by the fallback path.
type ModerationError struct {
	Topic string
}

func (e *ModerationError) Error() string {
	return moderationMessage
}

// checkModeration scans the lowercased subject and focus area for
// forbidden topics. Upload mode carries no text to check and is not
// filtered.
func checkModeration(subject, focusArea string) error {
	input := strings.ToLower(subject + " " + focusArea)
	for _, topic := range forbiddenTopics {
		if strings.Contains(input, topic) {
			return &ModerationError{Topic: topic}
		}
	}
	return nil
}
