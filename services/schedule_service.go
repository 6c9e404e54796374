package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/paddleup/pickleplay/scheduling"
)

// ScheduleService fronts the round-robin generators with roster
// validation. Generation itself never errors on small rosters; only a
// malformed roster (blank or duplicate ids) is rejected.
type ScheduleService struct {
	logger *slog.Logger
}

func NewScheduleService(logger *slog.Logger) *ScheduleService {
	return &ScheduleService{logger: logger}
}

func (s *ScheduleService) SinglesRoundRobin(ctx context.Context, players []scheduling.Participant, opts scheduling.Options) (scheduling.Schedule, error) {
	if err := validatePlayers(players); err != nil {
		return scheduling.Schedule{}, err
	}
	schedule := scheduling.GenerateSinglesRoundRobin(players, opts)
	s.logger.InfoContext(ctx, "generated singles round robin",
		slog.Int("players", len(players)),
		slog.Int("rounds", schedule.Rounds),
		slog.Int("matches", len(schedule.Matches)))
	return schedule, nil
}

func (s *ScheduleService) IndividualRoundRobin(ctx context.Context, players []scheduling.Participant, opts scheduling.Options) (scheduling.Schedule, error) {
	if err := validatePlayers(players); err != nil {
		return scheduling.Schedule{}, err
	}
	schedule := scheduling.GenerateIndividualRoundRobin(players, opts)
	s.logger.InfoContext(ctx, "generated individual round robin",
		slog.Int("players", len(players)),
		slog.Int("rounds", schedule.Rounds),
		slog.Int("matches", len(schedule.Matches)))
	return schedule, nil
}

func (s *ScheduleService) TeamRoundRobin(ctx context.Context, teams []scheduling.Team, opts scheduling.Options) (scheduling.Schedule, error) {
	if err := validateTeams(teams); err != nil {
		return scheduling.Schedule{}, err
	}
	schedule := scheduling.GenerateTeamRoundRobin(teams, opts)
	s.logger.InfoContext(ctx, "generated team round robin",
		slog.Int("teams", len(teams)),
		slog.Int("rounds", schedule.Rounds),
		slog.Int("matches", len(schedule.Matches)))
	return schedule, nil
}

func (s *ScheduleService) Standings(ctx context.Context, matches []scheduling.Match, teams []scheduling.Team) ([]scheduling.Standing, error) {
	if err := validateTeams(teams); err != nil {
		return nil, err
	}
	return scheduling.CalculateStandings(matches, teams), nil
}

func validatePlayers(players []scheduling.Participant) error {
	seen := make(map[string]struct{}, len(players))
	for _, p := range players {
		if p.ID == "" {
			return fmt.Errorf("%w: player id must not be empty", ErrValidationFailed)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: duplicate player id %q", ErrValidationFailed, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

func validateTeams(teams []scheduling.Team) error {
	seen := make(map[string]struct{}, len(teams))
	for _, t := range teams {
		if t.ID == "" {
			return fmt.Errorf("%w: team id must not be empty", ErrValidationFailed)
		}
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("%w: duplicate team id %q", ErrValidationFailed, t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	return nil
}
