package domain

// QuestionID identifies a question.
type QuestionID int64

// Question is a mutable resource owned by the account that created it.
type Question struct {
	ID        QuestionID `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Tags      []string   `json:"tags,omitempty"`
	AccountID AccountID  `json:"account_id"`
}

// NewQuestion is the user-supplied part of a question. Title and Content are
// free text and pass through moderation before they reach a store.
type NewQuestion struct {
	Title   string
	Content string
	Tags    []string
}

// Pagination bounds a listing. A nil Limit means no limit.
type Pagination struct {
	Limit  *int
	Offset int
}
