package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prepwise/interview-service/internal/services"
	"github.com/prepwise/interview-service/internal/utils"
)

// InterviewHandler exposes the session engine's API surface: start, next,
// submit, pause/resume, draft, time remaining and results.
type InterviewHandler struct {
	BaseHandler
	services services.ServiceManager
}

func NewInterviewHandler(serviceManager services.ServiceManager, logger utils.Logger) *InterviewHandler {
	return &InterviewHandler{
		BaseHandler: NewBaseHandler(logger),
		services:    serviceManager,
	}
}

// StartSessionResponse bundles the new session with its first question.
type StartSessionResponse struct {
	Session       interface{} `json:"session"`
	FirstQuestion interface{} `json:"first_question,omitempty"`
}

// SaveDraftRequest carries the in-progress answer text.
type SaveDraftRequest struct {
	Text string `json:"text"`
}

// TimeRemainingResponse reports the pending question's countdown.
type TimeRemainingResponse struct {
	Remaining int  `json:"remaining"`
	Running   bool `json:"running"`
}

// StartSession creates a session and delivers its first question.
// POST /api/v1/interviews/start
func (h *InterviewHandler) StartSession(c *gin.Context) {
	var req services.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	session, err := h.services.Session().Create(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	next, err := h.services.Sequencer().Next(c.Request.Context(), session.ID)
	if err != nil {
		// The session exists; the client can retry question delivery.
		h.logger.LogError(err, "First question delivery failed", "session_id", session.ID)
		h.RespondWithSuccess(c, http.StatusCreated, "Session created, first question unavailable",
			StartSessionResponse{Session: session})
		return
	}

	if updated, err := h.services.Session().Get(c.Request.Context(), session.ID); err == nil {
		session = updated
	}

	h.RespondWithSuccess(c, http.StatusCreated, "Session created",
		StartSessionResponse{Session: session, FirstQuestion: next.Question})
}

// GetSession returns a read-only session snapshot.
// GET /api/v1/interviews/:id
func (h *InterviewHandler) GetSession(c *gin.Context) {
	session, err := h.services.Session().Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Session retrieved", session)
}

// NextQuestion delivers the next (or still-pending) question, or the
// completion signal.
// POST /api/v1/interviews/:id/next
func (h *InterviewHandler) NextQuestion(c *gin.Context) {
	result, err := h.services.Sequencer().Next(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	if result.Completed {
		h.RespondWithSuccess(c, http.StatusOK, "All questions delivered", result)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Question delivered", result)
}

// SubmitAnswer records an answer for the pending question.
// POST /api/v1/interviews/:id/submit
func (h *InterviewHandler) SubmitAnswer(c *gin.Context) {
	var req services.SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.services.Evaluation().Submit(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Answer recorded", result)
}

// PauseSession pauses an active session.
// POST /api/v1/interviews/:id/pause
func (h *InterviewHandler) PauseSession(c *gin.Context) {
	paused, err := h.services.Session().Pause(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	if !paused {
		h.RespondWithError(c, http.StatusConflict, "Session is not active", nil)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Session paused", nil)
}

// ResumeSession resumes a paused session.
// POST /api/v1/interviews/:id/resume
func (h *InterviewHandler) ResumeSession(c *gin.Context) {
	resumed, err := h.services.Session().Resume(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	if !resumed {
		h.RespondWithError(c, http.StatusConflict, "Session is not paused", nil)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Session resumed", nil)
}

// SaveDraft stores the in-progress answer text for timeout auto-submit.
// PUT /api/v1/interviews/:id/draft
func (h *InterviewHandler) SaveDraft(c *gin.Context) {
	var req SaveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.services.Session().SaveDraft(c.Request.Context(), c.Param("id"), req.Text); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Draft saved", nil)
}

// GetTimeRemaining reports the countdown of the pending question.
// GET /api/v1/interviews/:id/time-remaining
func (h *InterviewHandler) GetTimeRemaining(c *gin.Context) {
	remaining, running, err := h.services.Session().TimeRemaining(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Time remaining",
		TimeRemainingResponse{Remaining: remaining, Running: running})
}

// GetResults returns the results bundle of a completed session.
// GET /api/v1/interviews/:id/results
func (h *InterviewHandler) GetResults(c *gin.Context) {
	bundle, err := h.services.Results().Results(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Results", bundle)
}
