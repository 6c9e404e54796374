package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/paddleup/pickleplay/models"
)

var (
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrDivisionNotFound   = errors.New("tournament division not found")
	ErrTournamentFull     = errors.New("tournament is at capacity")
)

type TournamentRepository interface {
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	GetDivision(ctx context.Context, divisionID int) (*models.TournamentDivision, error)
	// IncrementParticipants bumps the participant counter, refusing to
	// pass a configured capacity ceiling.
	IncrementParticipants(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `
		SELECT id, name, description, organizer_id, venue_id, location, status,
		       max_participants, current_participants, reg_date, start_date, end_date, created_at, logo_key
		FROM tournaments
		WHERE id = $1`

	t := &models.Tournament{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID,
		&t.Name,
		&t.Description,
		&t.OrganizerID,
		&t.VenueID,
		&t.Location,
		&t.Status,
		&t.MaxParticipants,
		&t.CurrentParticipants,
		&t.RegDate,
		&t.StartDate,
		&t.EndDate,
		&t.CreatedAt,
		&t.LogoKey,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament by id: %w", err)
	}
	return t, nil
}

func (r *postgresTournamentRepository) GetDivision(ctx context.Context, divisionID int) (*models.TournamentDivision, error) {
	query := `SELECT id, tournament_id, name, skill_level FROM tournament_divisions WHERE id = $1`

	d := &models.TournamentDivision{}
	err := r.db.QueryRowContext(ctx, query, divisionID).Scan(&d.ID, &d.TournamentID, &d.Name, &d.SkillLevel)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDivisionNotFound
		}
		return nil, fmt.Errorf("failed to get tournament division: %w", err)
	}
	return d, nil
}

func (r *postgresTournamentRepository) IncrementParticipants(ctx context.Context, exec SQLExecutor, id int) error {
	query := `
		UPDATE tournaments
		SET current_participants = current_participants + 1
		WHERE id = $1
		  AND (max_participants IS NULL OR current_participants < max_participants)`

	result, err := r.getExecutor(exec).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to increment tournament participants: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for participant increment: %w", err)
	}
	if rowsAffected == 0 {
		// Either the tournament is gone or the counter is at the ceiling.
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return ErrTournamentFull
	}
	return nil
}
