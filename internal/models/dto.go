package models

// QuestionView is the client-facing shape of a question during a live
// session. The correct option is withheld unless the viewer owns the key.
type QuestionView struct {
	ID              string       `json:"id"`
	Prompt          string       `json:"prompt"`
	Options         []QuizOption `json:"options"`
	Points          int          `json:"points"`
	FreeText        bool         `json:"freeText"`
	CorrectOptionID string       `json:"correctOptionId,omitempty"`
}

func (q QuizQuestion) ToView(withAnswer bool) QuestionView {
	view := QuestionView{
		ID:       q.ID,
		Prompt:   q.Prompt,
		Options:  q.Options,
		Points:   q.Points,
		FreeText: q.FreeText(),
	}
	if withAnswer {
		view.CorrectOptionID = q.CorrectOptionID
	}
	return view
}
