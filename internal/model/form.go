package model

// QuestionType classifies an intake-form question. NAME and PHONE
// exist so a host can map dedicated fields onto the guest name and
// contact inputs; the core treats all types identically.
type QuestionType string

const (
	QuestionText     QuestionType = "TEXT"
	QuestionCheckbox QuestionType = "CHECKBOX"
	QuestionRadio    QuestionType = "RADIO"
	QuestionName     QuestionType = "NAME"
	QuestionPhone    QuestionType = "PHONE"
)

// FormQuestion is one intake question belonging to an event. Question
// definitions are read-only to the booking core.
type FormQuestion struct {
	ID           uint64       `json:"id"`
	EventID      uint64       `json:"event_id"`
	QuestionText string       `json:"question_text"`
	QuestionType QuestionType `json:"question_type"`
	IsRequired   bool         `json:"is_required"`
}

// FormAnswer is one guest response to one question for one
// reservation. Answers are immutable after creation.
type FormAnswer struct {
	ID            uint64 `json:"id"`
	ReservationID uint64 `json:"-"`
	QuestionID    uint64 `json:"question_id"`
	AnswerText    string `json:"answer_text"`
}
