package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type credentialsRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required"`
}

type questionRequest struct {
	Title   string   `json:"title"   validate:"required,max=255"`
	Content string   `json:"content" validate:"required"`
	Tags    []string `json:"tags"    validate:"omitempty,dive,required"`
}

// answerRequest accepts both form and JSON bodies.
type answerRequest struct {
	Content    string `json:"content"     form:"content"     validate:"required"`
	QuestionID int64  `json:"question_id" form:"question_id" validate:"required,gt=0"`
}
