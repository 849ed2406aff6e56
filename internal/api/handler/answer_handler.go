package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/oashtari/question-and-answer/internal/core/domain"
	"github.com/oashtari/question-and-answer/internal/core/ports"
	"github.com/oashtari/question-and-answer/internal/infrastructure/metrics"
)

// AnswerHandler handles HTTP requests for answers.
type AnswerHandler struct {
	service ports.AnswerService
}

func NewAnswerHandler(service ports.AnswerService) *AnswerHandler {
	return &AnswerHandler{service: service}
}

// Create handles POST /answers.
//
// @Summary      Answer a question
// @Tags         answers
// @Accept       x-www-form-urlencoded,json
// @Produce      json
// @Security     SessionToken
// @Param        content      formData  string  true  "Answer text"
// @Param        question_id  formData  int     true  "Question id"
// @Success      201          {string}  string  "Answer added"
// @Failure      401          {object}  errorResponse
// @Failure      422          {object}  errorResponse
// @Failure      500          {object}  errorResponse
// @Router       /answers [post]
func (h *AnswerHandler) Create(c echo.Context) error {
	caller, err := AccountIDFrom(c)
	if err != nil {
		return err
	}

	var req answerRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	_, err = h.service.Create(c.Request().Context(), caller, domain.NewAnswer{
		Content:    req.Content,
		QuestionID: domain.QuestionID(req.QuestionID),
	})
	if err != nil {
		return err
	}

	metrics.AnswersCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, "Answer added")
}
