package model

// Subject is a question-bank subject available for exam generation.
type Subject struct {
	Name          string   `json:"name"`
	Topics        []string `json:"topics"`
	QuestionCount int      `json:"question_count,omitempty"`
}
