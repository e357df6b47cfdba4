package model

// ─── Wizard requests ────────────────────────────────────────────────

// StartWizardRequest opens a generation session.
type StartWizardRequest struct {
	TotalQuestions *int `json:"total_questions" binding:"required,min=0,max=500"`
}

type SelectSubjectRequest struct {
	Subject string   `json:"subject" binding:"required,max=255"`
	Topics  []string `json:"topics" binding:"omitempty,dive,required,max=255"`
}

type SetTotalRequest struct {
	TotalQuestions *int `json:"total_questions" binding:"required,min=0,max=500"`
}

// SetTierRequest edits one tier. Exactly one of Percent or Count is set.
type SetTierRequest struct {
	Percent *float64 `json:"percent" binding:"omitempty,min=0,max=100"`
	Count   *int     `json:"count" binding:"omitempty,min=0"`
}

type SetPointsRequest struct {
	Easy   float64 `json:"easy" binding:"min=0"`
	Medium float64 `json:"medium" binding:"min=0"`
	Hard   float64 `json:"hard" binding:"min=0"`
}

type NegativeMarkingRequest struct {
	Enabled *bool   `json:"enabled" binding:"required"`
	Easy    float64 `json:"easy" binding:"min=0"`
	Medium  float64 `json:"medium" binding:"min=0"`
	Hard    float64 `json:"hard" binding:"min=0"`
}

// ScheduleRequest is the scheduling step form. Date and time are read in the
// console's exam timezone.
type ScheduleRequest struct {
	Title           string  `json:"title" binding:"required,max=255"`
	Description     string  `json:"description"`
	Date            string  `json:"date" binding:"required,datetime=2006-01-02"`
	Time            string  `json:"time" binding:"required,datetime=15:04"`
	DurationMinutes int     `json:"duration_minutes" binding:"required,min=1"`
	PassingScore    float64 `json:"passing_score" binding:"min=0,max=100"`
}
