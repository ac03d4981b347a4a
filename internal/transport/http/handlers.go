package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"iqscalar-assessment-service/internal/app"
	"iqscalar-assessment-service/internal/domain"
	"iqscalar-assessment-service/internal/history"
)

// BankInvalidator drops a cached bank so it is reloaded from its source.
type BankInvalidator interface {
	Invalidate(ctx context.Context, kind domain.BankKind) error
}

// Handler serves the REST API over the assessment, daily and history use cases.
type Handler struct {
	assessment *app.AssessmentService
	daily      *app.DailyService
	history    *history.Recorder
	banks      BankInvalidator
	timeLimit  time.Duration
	logger     *slog.Logger
}

func NewHandler(assessment *app.AssessmentService, daily *app.DailyService, hist *history.Recorder, banks BankInvalidator, timeLimit time.Duration, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		assessment: assessment,
		daily:      daily,
		history:    hist,
		banks:      banks,
		timeLimit:  timeLimit,
		logger:     logger,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.Write([]byte("ok"))
}

func bankKind(r *http.Request) (domain.BankKind, bool) {
	switch kind := domain.BankKind(chi.URLParam(r, "kind")); kind {
	case domain.BankTest, domain.BankPractice:
		return kind, true
	default:
		return "", false
	}
}

func (h *Handler) BankStats(w http.ResponseWriter, r *http.Request) {
	kind, ok := bankKind(r)
	if !ok {
		writeDomainErr(w, h.logger, r, domain.ErrUnknownBank)
		return
	}
	stats, err := h.assessment.Statistics(r.Context(), kind)
	if err != nil {
		writeDomainErr(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) BankCategories(w http.ResponseWriter, r *http.Request) {
	kind, ok := bankKind(r)
	if !ok {
		writeDomainErr(w, h.logger, r, domain.ErrUnknownBank)
		return
	}
	categories, err := h.assessment.Categories(r.Context(), kind)
	if err != nil {
		writeDomainErr(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

// ReloadBank drops the cached bank of kind.
func (h *Handler) ReloadBank(w http.ResponseWriter, r *http.Request) {
	kind, ok := bankKind(r)
	if !ok {
		writeDomainErr(w, h.logger, r, domain.ErrUnknownBank)
		return
	}
	if h.banks != nil {
		if err := h.banks.Invalidate(r.Context(), kind); err != nil {
			writeDomainErr(w, h.logger, r, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

type startRequest struct {
	UserID   string `json:"userId"`
	Category string `json:"category"`
	Count    int    `json:"count"`
}

func (h *Handler) StartTest(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	attempt, err := h.assessment.StartTest(r.Context(), req.UserID, req.Count)
	if err != nil {
		writeDomainErr(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newAttemptView(attempt, h.timeLimit))
}

func (h *Handler) StartPractice(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	attempt, err := h.assessment.StartPractice(r.Context(), req.UserID, req.Category, req.Count)
	if err != nil {
		writeDomainErr(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newAttemptView(attempt, 0))
}

type submitRequest struct {
	Answers        []*int `json:"answers"`
	ElapsedSeconds int    `json:"elapsedSeconds"`
}

func (h *Handler) SubmitAttempt(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	elapsed := time.Duration(req.ElapsedSeconds) * time.Second
	result, err := h.assessment.Submit(r.Context(), chi.URLParam(r, "attemptID"), req.Answers, elapsed)
	if err != nil {
		writeDomainErr(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) Progress(w http.ResponseWriter, r *http.Request) {
	progress, err := h.assessment.Progress(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeDomainErr(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

func (h *Handler) ResetExposure(w http.ResponseWriter, r *http.Request) {
	if err := h.assessment.ResetExposure(r.Context(), chi.URLParam(r, "userID")); err != nil {
		writeDomainErr(w, h.logger, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	entries, err := h.history.History(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeDomainErr(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// ClearHistory removes the user's history and achievements.
func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.history.Clear(r.Context(), chi.URLParam(r, "userID")); err != nil {
		writeDomainErr(w, h.logger, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Achievements(w http.ResponseWriter, r *http.Request) {
	list, err := h.history.Achievements(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeDomainErr(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) UserStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.history.Stats(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeDomainErr(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// dateParam returns ?date= or today.
func (h *Handler) dateParam(r *http.Request) string {
	if d := r.URL.Query().Get("date"); d != "" {
		return d
	}
	return h.daily.Today()
}

func (h *Handler) DailyQuestion(w http.ResponseWriter, r *http.Request) {
	q, err := h.daily.Question(r.Context(), h.dateParam(r))
	if err != nil {
		writeDomainErr(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dailyQuestionView{
		DailyQuizID:  q.DailyQuizID,
		Date:         q.Date,
		questionView: newQuestionView(q.Question, 0),
	})
}

type dailyAnswerRequest struct {
	AnswerIndex *int   `json:"answerIndex"`
	Date        string `json:"date"`
}

func (h *Handler) DailyAnswer(w http.ResponseWriter, r *http.Request) {
	var req dailyAnswerRequest
	if err := decodeJSON(w, r, &req); err != nil || req.AnswerIndex == nil {
		writeErr(w, http.StatusBadRequest, "answerIndex is required")
		return
	}
	date := req.Date
	if date == "" {
		date = h.daily.Today()
	}
	outcome, err := h.daily.SubmitAnswer(r.Context(), chi.URLParam(r, "userID"), date, *req.AnswerIndex)
	if err != nil {
		writeDomainErr(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (h *Handler) DailyStatus(w http.ResponseWriter, r *http.Request) {
	date := h.dateParam(r)
	rec, err := h.daily.Answer(r.Context(), chi.URLParam(r, "userID"), date)
	if err != nil {
		writeDomainErr(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dailyStatusView{
		Date:     date,
		Answered: rec != nil && rec.Answered,
		Record:   rec,
	})
}

func (h *Handler) DailyStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.daily.Stats(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeDomainErr(w, h.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
