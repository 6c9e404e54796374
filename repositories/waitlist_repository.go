package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/paddleup/pickleplay/models"
)

var (
	ErrWaitlistEntryNotFound   = errors.New("waitlist entry not found")
	ErrWaitlistConflict        = errors.New("user already has an active waitlist entry for this event")
	ErrWaitlistUserInvalid     = errors.New("waitlist user conflict or invalid")
	ErrWaitlistEventInvalid    = errors.New("waitlist event reference conflict or invalid")
	ErrWaitlistTargetViolation = errors.New("waitlist target violation: either tournament_id or season_id must be set, but not both")
)

type WaitlistRepository interface {
	Create(ctx context.Context, exec SQLExecutor, entry *models.WaitlistEntry) error
	MaxTournamentPosition(ctx context.Context, exec SQLExecutor, tournamentID int, divisionID *int) (int, error)
	MinSeasonRank(ctx context.Context, exec SQLExecutor, seasonID int) (int, error)
	FindActiveByUserAndTournament(ctx context.Context, exec SQLExecutor, userID, tournamentID int) (*models.WaitlistEntry, error)
	FindActiveByUserAndSeason(ctx context.Context, exec SQLExecutor, userID, seasonID int) (*models.WaitlistEntry, error)
	FindOfferedByUserAndTournament(ctx context.Context, exec SQLExecutor, userID, tournamentID int) (*models.WaitlistEntry, error)
	NextWaitlistedForTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (*models.WaitlistEntry, error)
	NextWaitlistedForSeason(ctx context.Context, exec SQLExecutor, seasonID int) (*models.WaitlistEntry, error)
	CountWaitlistedForTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error)
	CountWaitlistedForSeason(ctx context.Context, exec SQLExecutor, seasonID int) (int, error)
	MarkSpotOffered(ctx context.Context, exec SQLExecutor, id int, token uuid.UUID, offeredAt, expiresAt time.Time) error
	TransitionStatus(ctx context.Context, exec SQLExecutor, id int, from, to models.WaitlistStatus) error
	ListByTournament(ctx context.Context, tournamentID int, divisionID *int) ([]*models.WaitlistEntry, error)
	ListBySeason(ctx context.Context, seasonID int) ([]*models.WaitlistEntry, error)
	ListExpiredOffers(ctx context.Context, exec SQLExecutor, now time.Time) ([]*models.WaitlistEntry, error)
	RenumberTournamentPositions(ctx context.Context, exec SQLExecutor, tournamentID int) error
}

type postgresWaitlistRepository struct {
	db *sql.DB
}

func NewPostgresWaitlistRepository(db *sql.DB) WaitlistRepository {
	return &postgresWaitlistRepository{db: db}
}

func (r *postgresWaitlistRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const waitlistColumns = `id, event_kind, tournament_id, division_id, league_id, season_id, user_id, status, position, offer_token, spot_offered_at, spot_expires_at, registered_at`

func (r *postgresWaitlistRepository) Create(ctx context.Context, exec SQLExecutor, entry *models.WaitlistEntry) error {
	query := `
		INSERT INTO waitlist_entries (event_kind, tournament_id, division_id, league_id, season_id, user_id, status, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, registered_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		entry.EventKind,
		entry.TournamentID,
		entry.DivisionID,
		entry.LeagueID,
		entry.SeasonID,
		entry.UserID,
		entry.Status,
		entry.Position,
	).Scan(&entry.ID, &entry.RegisteredAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				return ErrWaitlistConflict
			case "23503": // foreign_key_violation
				if pqErr.Constraint == "waitlist_entries_user_id_fkey" {
					return ErrWaitlistUserInvalid
				}
				return ErrWaitlistEventInvalid
			case "23514": // check_violation
				if pqErr.Constraint == "chk_waitlist_target" {
					return ErrWaitlistTargetViolation
				}
			}
		}
		return fmt.Errorf("failed to create waitlist entry: %w", err)
	}
	return nil
}

func (r *postgresWaitlistRepository) MaxTournamentPosition(ctx context.Context, exec SQLExecutor, tournamentID int, divisionID *int) (int, error) {
	query := `
		SELECT COALESCE(MAX(position), 0)
		FROM waitlist_entries
		WHERE tournament_id = $1
		  AND division_id IS NOT DISTINCT FROM $2
		  AND status = $3`

	var maxPosition int
	err := r.getExecutor(exec).QueryRowContext(ctx, query, tournamentID, divisionID, models.WaitlistStatusWaitlisted).Scan(&maxPosition)
	if err != nil {
		return 0, fmt.Errorf("failed to read max waitlist position: %w", err)
	}
	return maxPosition, nil
}

func (r *postgresWaitlistRepository) MinSeasonRank(ctx context.Context, exec SQLExecutor, seasonID int) (int, error) {
	query := `
		SELECT COALESCE(MIN(position), 0)
		FROM waitlist_entries
		WHERE season_id = $1 AND status = $2`

	var minRank int
	err := r.getExecutor(exec).QueryRowContext(ctx, query, seasonID, models.WaitlistStatusWaitlisted).Scan(&minRank)
	if err != nil {
		return 0, fmt.Errorf("failed to read min waitlist rank: %w", err)
	}
	return minRank, nil
}

func (r *postgresWaitlistRepository) scanEntry(rowScanner interface {
	Scan(dest ...interface{}) error
}, entry *models.WaitlistEntry) error {
	return rowScanner.Scan(
		&entry.ID,
		&entry.EventKind,
		&entry.TournamentID,
		&entry.DivisionID,
		&entry.LeagueID,
		&entry.SeasonID,
		&entry.UserID,
		&entry.Status,
		&entry.Position,
		&entry.OfferToken,
		&entry.SpotOfferedAt,
		&entry.SpotExpiresAt,
		&entry.RegisteredAt,
	)
}

func (r *postgresWaitlistRepository) findOne(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) (*models.WaitlistEntry, error) {
	entry := &models.WaitlistEntry{}
	row := r.getExecutor(exec).QueryRowContext(ctx, query, args...)
	if err := r.scanEntry(row, entry); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWaitlistEntryNotFound
		}
		return nil, fmt.Errorf("failed to find waitlist entry: %w", err)
	}
	return entry, nil
}

func (r *postgresWaitlistRepository) FindActiveByUserAndTournament(ctx context.Context, exec SQLExecutor, userID, tournamentID int) (*models.WaitlistEntry, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM waitlist_entries
		WHERE user_id = $1 AND tournament_id = $2 AND status IN ($3, $4, $5)
		ORDER BY registered_at DESC
		LIMIT 1`, waitlistColumns)
	return r.findOne(ctx, exec, query, userID, tournamentID,
		models.WaitlistStatusWaitlisted, models.WaitlistStatusSpotOffered, models.WaitlistStatusConfirmed)
}

func (r *postgresWaitlistRepository) FindActiveByUserAndSeason(ctx context.Context, exec SQLExecutor, userID, seasonID int) (*models.WaitlistEntry, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM waitlist_entries
		WHERE user_id = $1 AND season_id = $2 AND status IN ($3, $4, $5)
		ORDER BY registered_at DESC
		LIMIT 1`, waitlistColumns)
	return r.findOne(ctx, exec, query, userID, seasonID,
		models.WaitlistStatusWaitlisted, models.WaitlistStatusSpotOffered, models.WaitlistStatusConfirmed)
}

func (r *postgresWaitlistRepository) FindOfferedByUserAndTournament(ctx context.Context, exec SQLExecutor, userID, tournamentID int) (*models.WaitlistEntry, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM waitlist_entries
		WHERE user_id = $1 AND tournament_id = $2 AND status = $3
		ORDER BY spot_offered_at DESC
		LIMIT 1`, waitlistColumns)
	return r.findOne(ctx, exec, query, userID, tournamentID, models.WaitlistStatusSpotOffered)
}

// NextWaitlistedForTournament returns the entry first in line: the lowest
// positive position.
func (r *postgresWaitlistRepository) NextWaitlistedForTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (*models.WaitlistEntry, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM waitlist_entries
		WHERE tournament_id = $1 AND status = $2
		ORDER BY position ASC
		LIMIT 1`, waitlistColumns)
	return r.findOne(ctx, exec, query, tournamentID, models.WaitlistStatusWaitlisted)
}

// NextWaitlistedForSeason returns the entry first in line: ranks are
// negative and decreasing, so the one closest to zero joined earliest.
func (r *postgresWaitlistRepository) NextWaitlistedForSeason(ctx context.Context, exec SQLExecutor, seasonID int) (*models.WaitlistEntry, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM waitlist_entries
		WHERE season_id = $1 AND status = $2
		ORDER BY position DESC
		LIMIT 1`, waitlistColumns)
	return r.findOne(ctx, exec, query, seasonID, models.WaitlistStatusWaitlisted)
}

func (r *postgresWaitlistRepository) countWaitlisted(ctx context.Context, exec SQLExecutor, column string, eventID int) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM waitlist_entries WHERE %s = $1 AND status = $2`, column)
	var count int
	err := r.getExecutor(exec).QueryRowContext(ctx, query, eventID, models.WaitlistStatusWaitlisted).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count waitlisted entries: %w", err)
	}
	return count, nil
}

func (r *postgresWaitlistRepository) CountWaitlistedForTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error) {
	return r.countWaitlisted(ctx, exec, "tournament_id", tournamentID)
}

func (r *postgresWaitlistRepository) CountWaitlistedForSeason(ctx context.Context, exec SQLExecutor, seasonID int) (int, error) {
	return r.countWaitlisted(ctx, exec, "season_id", seasonID)
}

func (r *postgresWaitlistRepository) MarkSpotOffered(ctx context.Context, exec SQLExecutor, id int, token uuid.UUID, offeredAt, expiresAt time.Time) error {
	query := `
		UPDATE waitlist_entries
		SET status = $1, offer_token = $2, spot_offered_at = $3, spot_expires_at = $4
		WHERE id = $5 AND status = $6`

	result, err := r.getExecutor(exec).ExecContext(ctx, query,
		models.WaitlistStatusSpotOffered, token, offeredAt, expiresAt, id, models.WaitlistStatusWaitlisted)
	if err != nil {
		return fmt.Errorf("failed to mark spot offered: %w", err)
	}
	return checkAffectedRows(result, ErrWaitlistEntryNotFound)
}

// TransitionStatus guards the mutation with the expected current status
// so a decline and the expiry sweep can never both claim one entry.
func (r *postgresWaitlistRepository) TransitionStatus(ctx context.Context, exec SQLExecutor, id int, from, to models.WaitlistStatus) error {
	query := `UPDATE waitlist_entries SET status = $1 WHERE id = $2 AND status = $3`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, to, id, from)
	if err != nil {
		return fmt.Errorf("failed to transition waitlist entry status: %w", err)
	}
	return checkAffectedRows(result, ErrWaitlistEntryNotFound)
}

func (r *postgresWaitlistRepository) listWithUsers(ctx context.Context, query string, args ...interface{}) ([]*models.WaitlistEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list waitlist entries: %w", err)
	}
	defer rows.Close()

	entries := make([]*models.WaitlistEntry, 0)
	for rows.Next() {
		var entry models.WaitlistEntry
		var user models.User
		err := rows.Scan(
			&entry.ID,
			&entry.EventKind,
			&entry.TournamentID,
			&entry.DivisionID,
			&entry.LeagueID,
			&entry.SeasonID,
			&entry.UserID,
			&entry.Status,
			&entry.Position,
			&entry.OfferToken,
			&entry.SpotOfferedAt,
			&entry.SpotExpiresAt,
			&entry.RegisteredAt,
			&user.ID,
			&user.FirstName,
			&user.LastName,
			&user.Nickname,
			&user.Email,
			&user.LogoKey,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan waitlist entry row: %w", err)
		}
		if user.ID > 0 {
			entry.User = &user
		}
		entries = append(entries, &entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating waitlist entry rows: %w", err)
	}
	return entries, nil
}

const waitlistListSelect = `
	SELECT
		w.id, w.event_kind, w.tournament_id, w.division_id, w.league_id, w.season_id,
		w.user_id, w.status, w.position, w.offer_token, w.spot_offered_at, w.spot_expires_at, w.registered_at,
		COALESCE(u.id, 0), COALESCE(u.first_name, ''), COALESCE(u.last_name, ''), u.nickname, COALESCE(u.email, ''), u.logo_key
	FROM waitlist_entries w
	LEFT JOIN users u ON w.user_id = u.id`

func (r *postgresWaitlistRepository) ListByTournament(ctx context.Context, tournamentID int, divisionID *int) ([]*models.WaitlistEntry, error) {
	query := waitlistListSelect + `
		WHERE w.tournament_id = $1 AND ($2::int IS NULL OR w.division_id = $2)
		ORDER BY w.position ASC, w.registered_at ASC`
	return r.listWithUsers(ctx, query, tournamentID, divisionID)
}

func (r *postgresWaitlistRepository) ListBySeason(ctx context.Context, seasonID int) ([]*models.WaitlistEntry, error) {
	query := waitlistListSelect + `
		WHERE w.season_id = $1
		ORDER BY w.position DESC, w.registered_at ASC`
	return r.listWithUsers(ctx, query, seasonID)
}

func (r *postgresWaitlistRepository) ListExpiredOffers(ctx context.Context, exec SQLExecutor, now time.Time) ([]*models.WaitlistEntry, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM waitlist_entries
		WHERE status = $1 AND spot_expires_at < $2
		ORDER BY spot_expires_at ASC`, waitlistColumns)

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, models.WaitlistStatusSpotOffered, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired spot offers: %w", err)
	}
	defer rows.Close()

	entries := make([]*models.WaitlistEntry, 0)
	for rows.Next() {
		entry := &models.WaitlistEntry{}
		if err := r.scanEntry(rows, entry); err != nil {
			return nil, fmt.Errorf("failed to scan expired offer row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expired offer rows: %w", err)
	}
	return entries, nil
}

// RenumberTournamentPositions rewrites the remaining waitlisted positions
// of a tournament to a contiguous 1..N sequence per division, preserving
// relative order. League ranks are self-ordering and never renumbered.
func (r *postgresWaitlistRepository) RenumberTournamentPositions(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	query := `
		UPDATE waitlist_entries w
		SET position = ranked.new_position
		FROM (
			SELECT id, ROW_NUMBER() OVER (PARTITION BY division_id ORDER BY position ASC, registered_at ASC) AS new_position
			FROM waitlist_entries
			WHERE tournament_id = $1 AND status = $2
		) ranked
		WHERE w.id = ranked.id`

	_, err := r.getExecutor(exec).ExecContext(ctx, query, tournamentID, models.WaitlistStatusWaitlisted)
	if err != nil {
		return fmt.Errorf("failed to renumber waitlist positions: %w", err)
	}
	return nil
}
