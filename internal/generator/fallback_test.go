package generator

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackProducesRequestedCount(t *testing.T) {
	for _, n := range []int{0, 1, 5, 12, 50} {
		questions := GenerateFallback("Geography", "Capitals", n)
		require.Len(t, questions, n)

		for i, q := range questions {
			assert.Equal(t, fmt.Sprintf("q%d", i+1), q.ID)
			assert.NotEmpty(t, q.Prompt)
			assert.Equal(t, 1, q.Points)
			require.Len(t, q.Options, 4)

			found := false
			for _, opt := range q.Options {
				assert.NotEmpty(t, opt.Text)
				if opt.ID == q.CorrectOptionID {
					found = true
				}
			}
			assert.True(t, found, "correct option %q must be among the options", q.CorrectOptionID)
		}
	}
}

func TestFallbackIsDeterministic(t *testing.T) {
	first := GenerateFallback("Math", "Fractions", 8)
	second := GenerateFallback("Math", "Fractions", 8)
	assert.Equal(t, first, second)
}

func TestFallbackSubjectAwareness(t *testing.T) {
	math := GenerateFallback("Mathematics", "Addition", 1)
	assert.Contains(t, math[0].Prompt, "7 + 8")

	history := GenerateFallback("World History", "WWII", 1)
	assert.Contains(t, history[0].Prompt, "World War II")

	science := GenerateFallback("Science", "Chemistry", 1)
	assert.Contains(t, science[0].Prompt, "water")

	generic := GenerateFallback("Literature", "Poetry", 1)
	assert.Contains(t, generic[0].Prompt, "Poetry")
	assert.Contains(t, generic[0].Prompt, "Literature")
}

func TestFallbackFillerBeyondTemplates(t *testing.T) {
	questions := GenerateFallback("Literature", "Poetry", 9)
	require.Len(t, questions, 9)

	// Past the 5 templates the filler questions reference the running
	// index and the focus area.
	assert.Contains(t, questions[5].Prompt, "Question 6")
	assert.Contains(t, questions[8].Prompt, "Poetry")
	for _, q := range questions[5:] {
		require.Len(t, q.Options, 4)
		assert.Equal(t, "a", q.CorrectOptionID)
	}
}
