package domain

// AnswerID identifies an answer.
type AnswerID int64

// Answer belongs to a question and records the account that wrote it.
type Answer struct {
	ID         AnswerID   `json:"id"`
	Content    string     `json:"content"`
	QuestionID QuestionID `json:"question_id"`
	AccountID  AccountID  `json:"account_id"`
}

type NewAnswer struct {
	Content    string
	QuestionID QuestionID
}
