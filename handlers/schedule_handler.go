package handlers

import (
	"log/slog"
	"net/http"

	"github.com/paddleup/pickleplay/scheduling"
	"github.com/paddleup/pickleplay/services"
)

type ScheduleHandler struct {
	scheduleService *services.ScheduleService
	logger          *slog.Logger
}

func NewScheduleHandler(scheduleService *services.ScheduleService, logger *slog.Logger) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService, logger: logger}
}

type playersScheduleRequest struct {
	Players []scheduling.Participant `json:"players"`
	Options scheduling.Options       `json:"options"`
}

type teamsScheduleRequest struct {
	Teams   []scheduling.Team  `json:"teams"`
	Options scheduling.Options `json:"options"`
}

type standingsRequest struct {
	Matches []scheduling.Match `json:"matches"`
	Teams   []scheduling.Team  `json:"teams"`
}

// GenerateSingles handles POST /schedule/round-robin/singles.
func (h *ScheduleHandler) GenerateSingles(w http.ResponseWriter, r *http.Request) {
	var input playersScheduleRequest
	if err := readJSON(w, r, &input); err != nil {
		errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	schedule, err := h.scheduleService.SinglesRoundRobin(r.Context(), input.Players, input.Options)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, schedule, nil)
}

// GenerateIndividual handles POST /schedule/round-robin/individual:
// doubles with rotating partners.
func (h *ScheduleHandler) GenerateIndividual(w http.ResponseWriter, r *http.Request) {
	var input playersScheduleRequest
	if err := readJSON(w, r, &input); err != nil {
		errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	schedule, err := h.scheduleService.IndividualRoundRobin(r.Context(), input.Players, input.Options)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, schedule, nil)
}

// GenerateTeams handles POST /schedule/round-robin/teams.
func (h *ScheduleHandler) GenerateTeams(w http.ResponseWriter, r *http.Request) {
	var input teamsScheduleRequest
	if err := readJSON(w, r, &input); err != nil {
		errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	schedule, err := h.scheduleService.TeamRoundRobin(r.Context(), input.Teams, input.Options)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, schedule, nil)
}

// CalculateStandings handles POST /schedule/standings.
func (h *ScheduleHandler) CalculateStandings(w http.ResponseWriter, r *http.Request) {
	var input standingsRequest
	if err := readJSON(w, r, &input); err != nil {
		errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	standings, err := h.scheduleService.Standings(r.Context(), input.Matches, input.Teams)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil)
}
