package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/event-reservation/internal/model"
)

// FormQuestionRepo provides persistence for intake-form question
// definitions. Questions are written through the event catalog and
// read-only to the booking core.
type FormQuestionRepo struct {
	db *sql.DB
}

// NewFormQuestionRepo returns a FormQuestionRepo bound to the given database.
func NewFormQuestionRepo(db *sql.DB) *FormQuestionRepo { return &FormQuestionRepo{db: db} }

// CreateBulkTx inserts the questions of an event in one statement.
// Passing an empty slice has no effect and returns nil.
func (r *FormQuestionRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, questions []model.FormQuestion) error {
	if len(questions) == 0 {
		return nil
	}
	insert := `INSERT INTO form_questions (event_id, question_text, question_type, is_required) VALUES `
	args := make([]any, 0, len(questions)*4)
	for i, q := range questions {
		if i > 0 {
			insert += ","
		}
		insert += "(?, ?, ?, ?)"
		args = append(args, q.EventID, q.QuestionText, q.QuestionType, q.IsRequired)
	}
	_, err := tx.ExecContext(ctx, insert, args...)
	return err
}

// ListByEvent returns all questions of an event in definition order.
func (r *FormQuestionRepo) ListByEvent(ctx context.Context, eventID uint64) ([]model.FormQuestion, error) {
	return listQuestions(ctx, r.db, eventID)
}

// ListByEventTx is ListByEvent inside a caller-managed transaction.
// The booking core uses it so the question set read during validation
// belongs to the same consistent snapshot as the capacity change.
func (r *FormQuestionRepo) ListByEventTx(ctx context.Context, tx *sql.Tx, eventID uint64) ([]model.FormQuestion, error) {
	return listQuestions(ctx, tx, eventID)
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func listQuestions(ctx context.Context, q querier, eventID uint64) ([]model.FormQuestion, error) {
	const query = `SELECT id, event_id, question_text, question_type, is_required
	               FROM form_questions WHERE event_id = ? ORDER BY id`
	rows, err := q.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	questions := make([]model.FormQuestion, 0)
	for rows.Next() {
		var fq model.FormQuestion
		if err := rows.Scan(&fq.ID, &fq.EventID, &fq.QuestionText, &fq.QuestionType, &fq.IsRequired); err != nil {
			return nil, err
		}
		questions = append(questions, fq)
	}
	return questions, rows.Err()
}
