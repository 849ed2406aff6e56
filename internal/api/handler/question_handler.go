package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/oashtari/question-and-answer/internal/core/domain"
	"github.com/oashtari/question-and-answer/internal/core/ports"
	"github.com/oashtari/question-and-answer/internal/infrastructure/metrics"
)

// QuestionHandler handles HTTP requests for questions.
type QuestionHandler struct {
	service ports.QuestionService
}

func NewQuestionHandler(service ports.QuestionService) *QuestionHandler {
	return &QuestionHandler{service: service}
}

// List handles GET /questions.
//
// @Summary      List questions
// @Tags         questions
// @Produce      json
// @Param        limit   query     int  false  "Page size (requires offset)"
// @Param        offset  query     int  false  "Rows to skip (requires limit)"
// @Success      200     {array}   domain.Question
// @Failure      422     {object}  errorResponse
// @Router       /questions [get]
func (h *QuestionHandler) List(c echo.Context) error {
	page, err := pagination(c)
	if err != nil {
		return err
	}

	questions, err := h.service.List(c.Request().Context(), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, questions)
}

// Create handles POST /questions.
//
// @Summary      Ask a question
// @Tags         questions
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        body  body      questionRequest  true  "Question"
// @Success      201   {object}  domain.Question
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /questions [post]
func (h *QuestionHandler) Create(c echo.Context) error {
	caller, err := AccountIDFrom(c)
	if err != nil {
		return err
	}

	var req questionRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	q, err := h.service.Create(c.Request().Context(), caller, req.toDomain())
	if err != nil {
		return err
	}

	metrics.QuestionsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, q)
}

// Update handles PUT /questions/:id.
//
// @Summary      Edit a question
// @Tags         questions
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        id    path      int              true  "Question id"
// @Param        body  body      questionRequest  true  "Question"
// @Success      200   {object}  domain.Question
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /questions/{id} [put]
func (h *QuestionHandler) Update(c echo.Context) error {
	caller, err := AccountIDFrom(c)
	if err != nil {
		return err
	}

	id, err := questionID(c)
	if err != nil {
		return err
	}

	var req questionRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	q, err := h.service.Update(c.Request().Context(), caller, id, req.toDomain())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, q)
}

// Delete handles DELETE /questions/:id.
//
// @Summary      Delete a question
// @Tags         questions
// @Produce      json
// @Security     SessionToken
// @Param        id   path      int  true  "Question id"
// @Success      200  {string}  string  "Question <id> deleted"
// @Failure      401  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /questions/{id} [delete]
func (h *QuestionHandler) Delete(c echo.Context) error {
	caller, err := AccountIDFrom(c)
	if err != nil {
		return err
	}

	id, err := questionID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), caller, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, fmt.Sprintf("Question %d deleted", id))
}

func (r questionRequest) toDomain() domain.NewQuestion {
	return domain.NewQuestion{Title: r.Title, Content: r.Content, Tags: r.Tags}
}

func questionID(c echo.Context) (domain.QuestionID, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Invalid(domain.KindInvalidParam, "handler.questionID", "id")
	}
	return domain.QuestionID(id), nil
}

// pagination reads limit and offset. Neither means the whole list; exactly
// one of them is a missing parameter.
func pagination(c echo.Context) (domain.Pagination, error) {
	rawLimit, rawOffset := c.QueryParam("limit"), c.QueryParam("offset")
	switch {
	case rawLimit == "" && rawOffset == "":
		return domain.Pagination{}, nil
	case rawLimit == "" || rawOffset == "":
		return domain.Pagination{}, domain.Invalid(domain.KindMissingParams, "handler.pagination", "limit and offset must be given together")
	}

	limit, err := strconv.Atoi(rawLimit)
	if err != nil || limit < 0 {
		return domain.Pagination{}, domain.Invalid(domain.KindInvalidParam, "handler.pagination", "limit")
	}
	offset, err := strconv.Atoi(rawOffset)
	if err != nil || offset < 0 {
		return domain.Pagination{}, domain.Invalid(domain.KindInvalidParam, "handler.pagination", "offset")
	}

	return domain.Pagination{Limit: &limit, Offset: offset}, nil
}
