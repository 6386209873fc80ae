package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/futplan/internal/usecase"
)

func (h *Handler) ListRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRoster")
	defer span.End()

	matchID := r.PathValue("matchID")
	entries, err := h.rosterService.ListRoster(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "list roster failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]rosterEntryDTO, 0, len(entries))
	for _, e := range entries {
		items = append(items, rosterEntryToDTO(e))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) AddRosterPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddRosterPlayer")
	defer span.End()

	var req addRosterPlayerRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := r.PathValue("matchID")
	entry, err := h.rosterService.AddPlayer(ctx, usecase.AddPlayerInput{
		MatchID: matchID,
		UserID:  req.UserID,
		Email:   req.Email,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "add roster player failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, rosterEntryToDTO(entry))
}

func (h *Handler) UpdateMyAttendance(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateMyAttendance")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req updateAttendanceRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := r.PathValue("matchID")
	entry, err := h.rosterService.UpdateAttendance(ctx, matchID, principal.UserID, req.Status)
	if err != nil {
		h.logger.WarnContext(ctx, "update attendance failed", "match_id", matchID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rosterEntryToDTO(entry))
}

func (h *Handler) DistributeRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DistributeRoster")
	defer span.End()

	matchID := r.PathValue("matchID")
	assignments, err := h.rosterService.DistributeRandomly(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "distribute roster failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]assignmentDTO, 0, len(assignments))
	for _, a := range assignments {
		items = append(items, assignmentDTO{UserID: a.UserID, Side: string(a.Side)})
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ClearRosterAssignments(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ClearRosterAssignments")
	defer span.End()

	matchID := r.PathValue("matchID")
	affected, err := h.rosterService.ClearAssignments(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "clear roster assignments failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, countDTO{Affected: affected})
}

func (h *Handler) AssignRosterManually(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AssignRosterManually")
	defer span.End()

	var req manualAssignmentRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	pairs := make([]usecase.ManualAssignment, 0, len(req.Assignments))
	for _, item := range req.Assignments {
		pairs = append(pairs, usecase.ManualAssignment{UserID: item.UserID, Side: item.Side})
	}

	matchID := r.PathValue("matchID")
	applied, err := h.rosterService.AssignManually(ctx, matchID, pairs)
	if err != nil {
		h.logger.WarnContext(ctx, "manual roster assignment failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, countDTO{Affected: int64(applied)})
}

func (h *Handler) AssignRosterPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AssignRosterPlayer")
	defer span.End()

	var req assignPlayerRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := r.PathValue("matchID")
	userID := r.PathValue("userID")
	if err := h.rosterService.AssignPlayer(ctx, matchID, userID, req.Side); err != nil {
		h.logger.WarnContext(ctx, "assign roster player failed", "match_id", matchID, "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, assignmentDTO{UserID: userID, Side: strings.ToLower(strings.TrimSpace(req.Side))})
}

func (h *Handler) SyncRosterFromTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncRosterFromTeams")
	defer span.End()

	matchID := r.PathValue("matchID")
	result, err := h.rosterService.SyncFromTeams(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "sync roster from teams failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamSyncDTO{Home: result.Home, Away: result.Away})
}
