package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/paddleup/pickleplay/middleware"
	"github.com/paddleup/pickleplay/models"
	"github.com/paddleup/pickleplay/services"
)

type WaitlistHandler struct {
	waitlistService *services.WaitlistService
	logger          *slog.Logger
}

func NewWaitlistHandler(waitlistService *services.WaitlistService, logger *slog.Logger) *WaitlistHandler {
	return &WaitlistHandler{waitlistService: waitlistService, logger: logger}
}

type joinWaitlistRequest struct {
	DivisionID *int `json:"division_id"`
}

// JoinTournamentWaitlist handles POST /tournaments/{tournamentID}/waitlist.
func (h *WaitlistHandler) JoinTournamentWaitlist(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	tournamentID, err := urlParamInt(r, "tournamentID")
	if err != nil {
		errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var input joinWaitlistRequest
	if r.ContentLength > 0 {
		if err := readJSON(w, r, &input); err != nil {
			errorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	entry, err := h.waitlistService.AddToWaitlist(r.Context(), userID, models.EventKindTournament, tournamentID, input.DivisionID)
	if err != nil {
		h.logError(r, err)
		respondServiceError(w, err)
		return
	}
	_ = writeJSON(w, http.StatusCreated, entry, nil)
}

// JoinLeagueWaitlist handles POST /leagues/{leagueID}/waitlist. The
// entry targets the league's active season.
func (h *WaitlistHandler) JoinLeagueWaitlist(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	leagueID, err := urlParamInt(r, "leagueID")
	if err != nil {
		errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := h.waitlistService.AddToWaitlist(r.Context(), userID, models.EventKindLeague, leagueID, nil)
	if err != nil {
		h.logError(r, err)
		respondServiceError(w, err)
		return
	}
	_ = writeJSON(w, http.StatusCreated, entry, nil)
}

// GetTournamentWaitlistPosition handles GET /tournaments/{tournamentID}/waitlist/position.
// A caller with no active entry gets 204: absence is not failure.
func (h *WaitlistHandler) GetTournamentWaitlistPosition(w http.ResponseWriter, r *http.Request) {
	h.getPosition(w, r, models.EventKindTournament, "tournamentID")
}

// GetLeagueWaitlistPosition handles GET /leagues/{leagueID}/waitlist/position.
// An optional season_id query parameter targets a non-active season.
func (h *WaitlistHandler) GetLeagueWaitlistPosition(w http.ResponseWriter, r *http.Request) {
	h.getPosition(w, r, models.EventKindLeague, "leagueID")
}

func (h *WaitlistHandler) getPosition(w http.ResponseWriter, r *http.Request, kind models.EventKind, param string) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	eventID, err := urlParamInt(r, param)
	if err != nil {
		errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	seasonID, err := queryParamIntPtr(r, "season_id")
	if err != nil {
		errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	info, err := h.waitlistService.GetWaitlistPosition(r.Context(), userID, kind, eventID, seasonID)
	if err != nil {
		h.logError(r, err)
		respondServiceError(w, err)
		return
	}
	if info == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	_ = writeJSON(w, http.StatusOK, info, nil)
}

// AcceptTournamentSpot handles POST /tournaments/{tournamentID}/waitlist/accept.
// Domain rejections come back as 200 bodies for the client to render.
func (h *WaitlistHandler) AcceptTournamentSpot(w http.ResponseWriter, r *http.Request) {
	h.spotAction(w, r, h.waitlistService.AcceptWaitlistSpot)
}

// DeclineTournamentSpot handles POST /tournaments/{tournamentID}/waitlist/decline.
func (h *WaitlistHandler) DeclineTournamentSpot(w http.ResponseWriter, r *http.Request) {
	h.spotAction(w, r, h.waitlistService.DeclineWaitlistSpot)
}

func (h *WaitlistHandler) spotAction(
	w http.ResponseWriter,
	r *http.Request,
	action func(ctx context.Context, userID int, kind models.EventKind, eventID int) (*services.SpotActionResult, error),
) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	tournamentID, err := urlParamInt(r, "tournamentID")
	if err != nil {
		errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := action(r.Context(), userID, models.EventKindTournament, tournamentID)
	if err != nil {
		h.logError(r, err)
		respondServiceError(w, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, result, nil)
}

// ListTournamentWaitlist handles GET /tournaments/{tournamentID}/waitlist:
// the organizer view with the full queue and capacity status.
func (h *WaitlistHandler) ListTournamentWaitlist(w http.ResponseWriter, r *http.Request) {
	h.listWaitlist(w, r, models.EventKindTournament, "tournamentID")
}

// ListLeagueWaitlist handles GET /leagues/{leagueID}/waitlist.
func (h *WaitlistHandler) ListLeagueWaitlist(w http.ResponseWriter, r *http.Request) {
	h.listWaitlist(w, r, models.EventKindLeague, "leagueID")
}

func (h *WaitlistHandler) listWaitlist(w http.ResponseWriter, r *http.Request, kind models.EventKind, param string) {
	eventID, err := urlParamInt(r, param)
	if err != nil {
		errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	seasonID, err := queryParamIntPtr(r, "season_id")
	if err != nil {
		errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	overview, err := h.waitlistService.GetWaitlistOverview(r.Context(), kind, eventID, seasonID)
	if err != nil {
		h.logError(r, err)
		respondServiceError(w, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, overview, nil)
}

// ProcessTournamentWaitlist handles POST /tournaments/{tournamentID}/waitlist/process:
// promotes the next entry in line, 204 when the queue is empty.
func (h *WaitlistHandler) ProcessTournamentWaitlist(w http.ResponseWriter, r *http.Request) {
	h.processWaitlist(w, r, models.EventKindTournament, "tournamentID")
}

// ProcessLeagueWaitlist handles POST /leagues/{leagueID}/waitlist/process.
func (h *WaitlistHandler) ProcessLeagueWaitlist(w http.ResponseWriter, r *http.Request) {
	h.processWaitlist(w, r, models.EventKindLeague, "leagueID")
}

func (h *WaitlistHandler) processWaitlist(w http.ResponseWriter, r *http.Request, kind models.EventKind, param string) {
	eventID, err := urlParamInt(r, param)
	if err != nil {
		errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	seasonID, err := queryParamIntPtr(r, "season_id")
	if err != nil {
		errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.waitlistService.ProcessWaitlist(r.Context(), kind, eventID, seasonID)
	if err != nil {
		h.logError(r, err)
		respondServiceError(w, err)
		return
	}
	if result == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	_ = writeJSON(w, http.StatusOK, result, nil)
}

// ReorderTournamentWaitlist handles POST /tournaments/{tournamentID}/waitlist/reorder:
// repairs position gaps after an out-of-order removal.
func (h *WaitlistHandler) ReorderTournamentWaitlist(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParamInt(r, "tournamentID")
	if err != nil {
		errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.waitlistService.ReorderWaitlistPositions(r.Context(), models.EventKindTournament, tournamentID); err != nil {
		h.logError(r, err)
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RegisterForTournament handles POST /tournaments/{tournamentID}/register:
// admit directly while room remains, otherwise queue.
func (h *WaitlistHandler) RegisterForTournament(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	tournamentID, err := urlParamInt(r, "tournamentID")
	if err != nil {
		errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var input joinWaitlistRequest
	if r.ContentLength > 0 {
		if err := readJSON(w, r, &input); err != nil {
			errorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	result, err := h.waitlistService.RegisterForTournament(r.Context(), userID, tournamentID, input.DivisionID)
	if err != nil {
		h.logError(r, err)
		respondServiceError(w, err)
		return
	}
	status := http.StatusOK
	if !result.Admitted {
		status = http.StatusAccepted
	}
	_ = writeJSON(w, status, result, nil)
}

// GetTournamentCapacity handles GET /tournaments/{tournamentID}/capacity.
func (h *WaitlistHandler) GetTournamentCapacity(w http.ResponseWriter, r *http.Request) {
	h.getCapacity(w, r, models.EventKindTournament, "tournamentID")
}

// GetLeagueCapacity handles GET /leagues/{leagueID}/capacity.
func (h *WaitlistHandler) GetLeagueCapacity(w http.ResponseWriter, r *http.Request) {
	h.getCapacity(w, r, models.EventKindLeague, "leagueID")
}

func (h *WaitlistHandler) getCapacity(w http.ResponseWriter, r *http.Request, kind models.EventKind, param string) {
	eventID, err := urlParamInt(r, param)
	if err != nil {
		errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	seasonID, err := queryParamIntPtr(r, "season_id")
	if err != nil {
		errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	status, err := h.waitlistService.IsEventFull(r.Context(), kind, eventID, seasonID)
	if err != nil {
		h.logError(r, err)
		respondServiceError(w, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, status, nil)
}

func (h *WaitlistHandler) logError(r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "waitlist handler error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err))
}
