package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/julianstephens/sadhana/internal/catalog"
	"github.com/julianstephens/sadhana/internal/constants"
	"github.com/julianstephens/sadhana/internal/insights"
	"github.com/julianstephens/sadhana/internal/logger"
	"github.com/julianstephens/sadhana/internal/models"
	"github.com/julianstephens/sadhana/internal/practice"
	"github.com/julianstephens/sadhana/internal/validation"
)

// maxImportBytes caps the body of POST /api/import.
const maxImportBytes = 32 << 20

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store     *practice.Store
	Catalog   *catalog.Catalog
	Validator *validation.Validator

	// Now is the reference clock; Location is where "today" is decided.
	Now      func() time.Time
	Location *time.Location
	// TopN bounds the insights top-stotra list; negative means no limit.
	TopN int
}

// NewHandler creates a handler with the default catalog, UTC clock and top-5 tally.
func NewHandler(store *practice.Store) *Handler {
	return &Handler{
		Store:     store,
		Catalog:   catalog.Default(),
		Validator: validation.New(),
		Now:       time.Now,
		Location:  time.UTC,
		TopN:      constants.DefaultTopN,
	}
}

func (h *Handler) now() time.Time {
	return h.Now().In(h.Location)
}

func (h *Handler) dateOrNow(date string) string {
	if date != "" {
		return date
	}
	return models.Timestamp(h.now())
}

// =============================================================================
// JAPA
// =============================================================================

// ListJapa returns the japa history, most recent first.
// GET /api/japa
func (h *Handler) ListJapa(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.JapaHistory(r.Context()))
}

// CreateJapa records one session.
// POST /api/japa
func (h *Handler) CreateJapa(w http.ResponseWriter, r *http.Request) {
	var req JapaRequest
	if !decodeBody(w, r, &req) {
		return
	}

	session := models.JapaSession{Malas: req.Malas, Date: h.dateOrNow(req.Date)}
	if res := h.Validator.JapaSession(session); res.HasProblems() {
		writeError(w, http.StatusBadRequest, "invalid japa session", res.Problems)
		return
	}
	if err := h.Store.SaveJapaSession(r.Context(), session); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save japa session", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

// DeleteJapa removes sessions with the exact timestamp.
// DELETE /api/japa/{date}
func (h *Handler) DeleteJapa(w http.ResponseWriter, r *http.Request) {
	date, ok := pathParam(w, r, "date")
	if !ok {
		return
	}
	if err := h.Store.DeleteJapaSession(r.Context(), date); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete japa session", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// RECITATIONS
// =============================================================================

// ListRecitations returns the recitation log, most recent first.
// GET /api/recitations
func (h *Handler) ListRecitations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.RecitationLog(r.Context()))
}

// CreateRecitation records recitations and returns the stored entry, which
// may be an existing one for the same stotra and day with its count raised.
// POST /api/recitations
func (h *Handler) CreateRecitation(w http.ResponseWriter, r *http.Request) {
	var req RecitationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	entry := models.RecitationLog{
		StotraID:    req.StotraID,
		StotraTitle: req.StotraTitle,
		Count:       req.Count,
		Date:        h.dateOrNow(req.Date),
	}
	if entry.Count == 0 {
		entry.Count = 1
	}
	if entry.StotraID != "" {
		title, err := h.Catalog.Title(entry.StotraID, entry.StotraTitle)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid recitation", err.Error())
			return
		}
		entry.StotraTitle = title
	}
	if res := h.Validator.RecitationLog(entry); res.HasProblems() {
		writeError(w, http.StatusBadRequest, "invalid recitation", res.Problems)
		return
	}

	if err := h.Store.SaveRecitation(r.Context(), entry); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save recitation", err.Error())
		return
	}

	stored := entry
	for _, l := range h.Store.RecitationLog(r.Context()) {
		if l.StotraID == entry.StotraID && l.Day() == entry.Day() {
			stored = l
			break
		}
	}
	writeJSON(w, http.StatusCreated, stored)
}

// DeleteRecitation removes log entries with the exact timestamp.
// DELETE /api/recitations/{date}
func (h *Handler) DeleteRecitation(w http.ResponseWriter, r *http.Request) {
	date, ok := pathParam(w, r, "date")
	if !ok {
		return
	}
	if err := h.Store.DeleteRecitation(r.Context(), date); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete recitation", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// JOURNAL
// =============================================================================

// ListGratitude returns the gratitude journal, most recent first.
// GET /api/journal
func (h *Handler) ListGratitude(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.GratitudeNotes(r.Context()))
}

// CreateGratitude adds a note.
// POST /api/journal
func (h *Handler) CreateGratitude(w http.ResponseWriter, r *http.Request) {
	var req GratitudeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	note := models.GratitudeNote{Note: strings.TrimSpace(req.Note), Date: h.dateOrNow(req.Date)}
	if res := h.Validator.GratitudeNote(note); res.HasProblems() {
		writeError(w, http.StatusBadRequest, "invalid gratitude note", res.Problems)
		return
	}
	if err := h.Store.SaveGratitudeNote(r.Context(), note); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save gratitude note", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// DeleteGratitude removes notes with the exact timestamp.
// DELETE /api/journal/{date}
func (h *Handler) DeleteGratitude(w http.ResponseWriter, r *http.Request) {
	date, ok := pathParam(w, r, "date")
	if !ok {
		return
	}
	if err := h.Store.DeleteGratitudeNote(r.Context(), date); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete gratitude note", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// GOALS
// =============================================================================

// ListGoals returns all goals, most recent first.
// GET /api/goals
func (h *Handler) ListGoals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.Goals(r.Context()))
}

// CreateGoal adds an open goal.
// POST /api/goals
func (h *Handler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var req GoalRequest
	if !decodeBody(w, r, &req) {
		return
	}

	goal := models.Goal{
		ID:    req.ID,
		Type:  models.GoalType(req.Type),
		Title: strings.TrimSpace(req.Title),
	}
	if goal.ID == "" {
		goal.ID = uuid.NewString()
	}
	if res := h.Validator.Goal(goal); res.HasProblems() {
		writeError(w, http.StatusBadRequest, "invalid goal", res.Problems)
		return
	}
	if err := h.Store.SaveGoal(r.Context(), goal); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save goal", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, goal)
}

// UpdateGoalStatus marks a goal done or open. Unknown ids are ignored.
// PUT /api/goals/{id}/status
func (h *Handler) UpdateGoalStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	var req GoalStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.IsCompleted == nil {
		writeError(w, http.StatusBadRequest, "isCompleted is required", nil)
		return
	}
	if err := h.Store.UpdateGoalStatus(r.Context(), id, *req.IsCompleted); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update goal", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteGoal removes a goal by id.
// DELETE /api/goals/{id}
func (h *Handler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.Store.DeleteGoal(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete goal", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// INSIGHTS & LIBRARY
// =============================================================================

// GetInsights computes the summary. ?top=N overrides the configured tally size.
// GET /api/insights
func (h *Handler) GetInsights(w http.ResponseWriter, r *http.Request) {
	topN := h.TopN
	if v := r.URL.Query().Get("top"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "top must be a non-negative integer", nil)
			return
		}
		topN = n
	}

	ctx := r.Context()
	summary := insights.Summarize(h.now(),
		h.Store.JapaHistory(ctx),
		h.Store.RecitationLog(ctx),
		h.Store.GratitudeNotes(ctx),
		h.Store.Goals(ctx),
		topN)
	writeJSON(w, http.StatusOK, summary)
}

// ListStotras returns the library catalog.
// GET /api/stotras
func (h *Handler) ListStotras(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Catalog.All())
}

// =============================================================================
// BULK TRANSFER
// =============================================================================

// Export returns every collection as one document.
// GET /api/export
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Store.ExportAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to export", err.Error())
		return
	}
	filename := constants.BackupFilePrefix + h.now().Format(constants.BackupTimeLayout) + constants.BackupFileSuffix
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	writeJSON(w, http.StatusOK, doc)
}

// Import replaces each collection present in the posted document.
// POST /api/import
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "import document too large", err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "failed to read import document", err.Error())
		return
	}
	doc, err := practice.ParseDocument(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid import document", err.Error())
		return
	}

	report, err := h.Store.ImportAll(r.Context(), doc)
	if err != nil {
		logger.Error("import failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error(), report)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// WipeData deletes every collection. Requires ?confirm=true.
// DELETE /api/data
func (h *Handler) WipeData(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		writeError(w, http.StatusBadRequest, "pass confirm=true to delete all data", nil)
		return
	}
	if err := h.Store.WipeAll(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to wipe data", err.Error())
		return
	}
	logger.Warn("all practice data wiped via API")
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// HELPERS
// =============================================================================

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large", nil)
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}
	return true
}

// pathParam returns the unescaped route parameter. Timestamps arrive
// percent-encoded since they carry ':' and '+'.
func pathParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	value, err := url.PathUnescape(chi.URLParam(r, name))
	if err != nil || value == "" {
		writeError(w, http.StatusBadRequest, "invalid "+name, nil)
		return "", false
	}
	return value, true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Warn("failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string, details any) {
	writeJSON(w, status, ErrorResponse{Error: message, Details: details})
}
