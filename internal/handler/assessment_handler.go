package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skilltracker/skilltracker-backend/internal/assessment"
	"github.com/skilltracker/skilltracker-backend/internal/middleware"
	"github.com/skilltracker/skilltracker-backend/internal/model"
	"github.com/skilltracker/skilltracker-backend/internal/response"
	"github.com/skilltracker/skilltracker-backend/internal/service"
	"github.com/skilltracker/skilltracker-backend/internal/validator"
)

// AssessmentHandler drives live quiz and mock-test sessions over REST. The
// same session can also be driven over the WebSocket stream; both surfaces
// share one Manager, so state is consistent across them.
type AssessmentHandler struct {
	manager     *assessment.Manager
	assessments *service.AssessmentService
	userService *service.UserService
}

// NewAssessmentHandler creates a new AssessmentHandler.
func NewAssessmentHandler(manager *assessment.Manager, assessments *service.AssessmentService, userService *service.UserService) *AssessmentHandler {
	return &AssessmentHandler{manager: manager, assessments: assessments, userService: userService}
}

// answerBody is the REST payload for answering one question.
type answerBody struct {
	Index  int    `json:"index" binding:"min=0"`
	Option string `json:"option" binding:"required,max=500"`
}

// sessionParams extracts and validates the :kind/:language pair.
func sessionParams(c *gin.Context) (model.AssessmentKind, string, bool) {
	kind := model.AssessmentKind(c.Param("kind"))
	if !kind.Valid() {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidKind)
		return "", "", false
	}
	language := c.Param("language")
	if language == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return "", "", false
	}
	return kind, language, true
}

// Open godoc
// GET /api/v1/:kind/:language
// Opens (or resumes) the caller's session and returns its state. A locked
// mock language returns the locked snapshot, not an error.
func (h *AssessmentHandler) Open(c *gin.Context) {
	kind, language, ok := sessionParams(c)
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	session, err := h.manager.Open(c.Request.Context(), claims.UserID, kind, language)
	if err != nil {
		switch {
		case errors.Is(err, assessment.ErrPoolEmpty):
			response.Fail(c, http.StatusNotFound, response.ErrPoolEmpty)
		case errors.Is(err, assessment.ErrCardMissing):
			response.Fail(c, http.StatusNotFound, response.ErrCardMissing)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, session.Snapshot())
}

// State godoc
// GET /api/v1/:kind/:language/state
// Returns the live session state without creating one.
func (h *AssessmentHandler) State(c *gin.Context) {
	kind, language, ok := sessionParams(c)
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	session, found := h.manager.Get(claims.UserID, kind, language)
	if !found {
		response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
		return
	}
	response.Success(c, http.StatusOK, session.Snapshot())
}

// Answer godoc
// POST /api/v1/:kind/:language/answer
// Records an option for one question of the live session.
func (h *AssessmentHandler) Answer(c *gin.Context) {
	kind, language, ok := sessionParams(c)
	if !ok {
		return
	}
	var body answerBody
	if fields := validator.Bind(c, &body); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	session, found := h.manager.Get(claims.UserID, kind, language)
	if !found {
		response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
		return
	}

	if err := session.Answer(c.Request.Context(), body.Index, body.Option); err != nil {
		h.failSessionOp(c, err)
		return
	}
	response.Success(c, http.StatusOK, session.Snapshot())
}

// Advance godoc
// POST /api/v1/:kind/:language/advance
// Moves to the next question; on the final question this submits.
func (h *AssessmentHandler) Advance(c *gin.Context) {
	h.navigate(c, func(s *assessment.Session) error {
		return s.Advance(c.Request.Context())
	})
}

// Retreat godoc
// POST /api/v1/:kind/:language/retreat
// Moves to the previous question; a no-op on the first one.
func (h *AssessmentHandler) Retreat(c *gin.Context) {
	h.navigate(c, func(s *assessment.Session) error {
		return s.Retreat()
	})
}

func (h *AssessmentHandler) navigate(c *gin.Context, op func(*assessment.Session) error) {
	kind, language, ok := sessionParams(c)
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	session, found := h.manager.Get(claims.UserID, kind, language)
	if !found {
		response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
		return
	}

	if err := op(session); err != nil {
		h.failSessionOp(c, err)
		return
	}
	response.Success(c, http.StatusOK, session.Snapshot())
}

// Submit godoc
// POST /api/v1/:kind/:language/submit
// Finalizes the session and returns the scored snapshot. A persistence
// failure still completes the session; the response flags the unsaved result.
func (h *AssessmentHandler) Submit(c *gin.Context) {
	kind, language, ok := sessionParams(c)
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	session, found := h.manager.Get(claims.UserID, kind, language)
	if !found {
		response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
		return
	}

	score, err := session.Submit(c.Request.Context())
	if err != nil {
		if errors.Is(err, assessment.ErrResultNotSaved) {
			response.Fail(c, http.StatusAccepted, response.ErrResultNotSaved)
			return
		}
		h.failSessionOp(c, err)
		return
	}

	snapshot := session.Snapshot()
	response.Success(c, http.StatusOK, gin.H{
		"score": score,
		"total": snapshot.Total,
		"state": snapshot,
	})
}

// Quit godoc
// POST /api/v1/:kind/:language/quit
// Abandons the session without recording a result.
func (h *AssessmentHandler) Quit(c *gin.Context) {
	kind, language, ok := sessionParams(c)
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	session, found := h.manager.Get(claims.UserID, kind, language)
	if !found {
		response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
		return
	}

	if err := session.Quit(c.Request.Context()); err != nil {
		h.failSessionOp(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// Questions godoc
// GET /api/v1/:kind/:language/questions
// Returns the raw question pool, correct answers included, for clients that
// score locally and report through POST /save-result. Served from the Redis
// payload cache.
func (h *AssessmentHandler) Questions(c *gin.Context) {
	kind, language, ok := sessionParams(c)
	if !ok {
		return
	}

	questions, err := h.assessments.FetchQuestions(c.Request.Context(), kind, language)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if len(questions) == 0 {
		response.Fail(c, http.StatusNotFound, response.ErrPoolEmpty)
		return
	}
	response.Success(c, http.StatusOK, questions)
}

// Card godoc
// GET /api/v1/:kind/:language/card
// Returns the session sizing for one language and kind.
func (h *AssessmentHandler) Card(c *gin.Context) {
	kind, language, ok := sessionParams(c)
	if !ok {
		return
	}

	card, err := h.assessments.FetchCard(c.Request.Context(), kind, language)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if card == nil {
		response.Fail(c, http.StatusNotFound, response.ErrCardMissing)
		return
	}
	response.Success(c, http.StatusOK, card)
}

// MockStatus godoc
// GET /api/v1/mock-status/:language
// Reports whether the mock test for a language is permanently locked.
func (h *AssessmentHandler) MockStatus(c *gin.Context) {
	language := c.Param("language")
	if language == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	status, err := h.assessments.Status(c.Request.Context(), claims.UserID, language)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, status)
}

// MockCompletions godoc
// GET /api/v1/mock-completions
// Lists every language whose mock test the caller has locked.
func (h *AssessmentHandler) MockCompletions(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	completions, err := h.userService.MockCompletions(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, completions)
}

// SaveResult godoc
// POST /api/v1/save-result
// Accepts a client-scored result and routes it through the persistence queue.
func (h *AssessmentHandler) SaveResult(c *gin.Context) {
	var req model.SaveResultRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	result, err := h.assessments.SaveClientResult(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrResultNotSaved)
		return
	}
	response.Success(c, http.StatusCreated, result)
}

// History godoc
// GET /api/v1/history?kind=quiz|mock
// Lists the caller's past results, newest first.
func (h *AssessmentHandler) History(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	kind := c.Query("kind")
	if kind != "" && !model.AssessmentKind(kind).Valid() {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidKind)
		return
	}

	results, err := h.userService.History(c.Request.Context(), claims.UserID, kind)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, results)
}

func (h *AssessmentHandler) failSessionOp(c *gin.Context, err error) {
	switch {
	case errors.Is(err, assessment.ErrNotInProgress):
		response.Fail(c, http.StatusConflict, response.ErrSessionFinished)
	case errors.Is(err, assessment.ErrIndexOutOfRange):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
	case errors.Is(err, assessment.ErrLocked):
		response.Fail(c, http.StatusForbidden, response.ErrMockLocked)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
