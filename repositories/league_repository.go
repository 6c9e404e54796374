package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/paddleup/pickleplay/models"
)

var (
	ErrLeagueNotFound       = errors.New("league not found")
	ErrSeasonNotFound       = errors.New("league season not found")
	ErrActiveSeasonNotFound = errors.New("no active season found for this league")
)

type LeagueRepository interface {
	GetByID(ctx context.Context, id int) (*models.League, error)
	GetSeasonByID(ctx context.Context, seasonID int) (*models.LeagueSeason, error)
	// FindActiveSeason resolves the season registration targets for a
	// league; at most one season per league is active at a time.
	FindActiveSeason(ctx context.Context, leagueID int) (*models.LeagueSeason, error)
}

type postgresLeagueRepository struct {
	db *sql.DB
}

func NewPostgresLeagueRepository(db *sql.DB) LeagueRepository {
	return &postgresLeagueRepository{db: db}
}

func (r *postgresLeagueRepository) GetByID(ctx context.Context, id int) (*models.League, error) {
	query := `SELECT id, name, description, organizer_id, created_at FROM leagues WHERE id = $1`

	l := &models.League{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&l.ID, &l.Name, &l.Description, &l.OrganizerID, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("failed to get league by id: %w", err)
	}
	return l, nil
}

func (r *postgresLeagueRepository) scanSeason(row *sql.Row) (*models.LeagueSeason, error) {
	s := &models.LeagueSeason{}
	err := row.Scan(
		&s.ID,
		&s.LeagueID,
		&s.Name,
		&s.Status,
		&s.MaxPlayers,
		&s.CurrentPlayers,
		&s.StartDate,
		&s.EndDate,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

const seasonColumns = `id, league_id, name, status, max_players, current_players, start_date, end_date`

func (r *postgresLeagueRepository) GetSeasonByID(ctx context.Context, seasonID int) (*models.LeagueSeason, error) {
	query := fmt.Sprintf(`SELECT %s FROM league_seasons WHERE id = $1`, seasonColumns)

	season, err := r.scanSeason(r.db.QueryRowContext(ctx, query, seasonID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeasonNotFound
		}
		return nil, fmt.Errorf("failed to get league season: %w", err)
	}
	return season, nil
}

func (r *postgresLeagueRepository) FindActiveSeason(ctx context.Context, leagueID int) (*models.LeagueSeason, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM league_seasons
		WHERE league_id = $1 AND status = $2
		ORDER BY start_date DESC
		LIMIT 1`, seasonColumns)

	season, err := r.scanSeason(r.db.QueryRowContext(ctx, query, leagueID, models.SeasonActive))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrActiveSeasonNotFound
		}
		return nil, fmt.Errorf("failed to find active season: %w", err)
	}
	return season, nil
}
