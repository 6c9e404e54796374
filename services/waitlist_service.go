package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/paddleup/pickleplay/models"
	"github.com/paddleup/pickleplay/repositories"
	"github.com/paddleup/pickleplay/storage"
)

// SpotOfferTTL is the acceptance window of a spot offer.
const SpotOfferTTL = 24 * time.Hour

// Fixed user-facing messages for accept/decline outcomes. These are
// returned as data, not errors; route handlers render them verbatim.
const (
	MsgNoSpotOffer            = "No spot offer found"
	MsgSpotOfferExpired       = "Spot offer has expired"
	MsgSpotAccepted           = "Spot accepted successfully"
	MsgSpotDeclined           = "Spot declined. The next person in line will be notified."
	MsgAcceptTournamentsOnly  = "Accept spot is only available for tournaments"
	MsgDeclineTournamentsOnly = "Decline spot is only available for tournaments"
)

// WaitlistPositionInfo is the queue view for one user. Offer timestamps
// are set only while a spot offer is pending so the caller can compute
// remaining time.
type WaitlistPositionInfo struct {
	Position        int                   `json:"position"`
	TotalWaitlisted int                   `json:"total_waitlisted"`
	Status          models.WaitlistStatus `json:"status"`
	SpotOfferedAt   *time.Time            `json:"spot_offered_at,omitempty"`
	SpotExpiresAt   *time.Time            `json:"spot_expires_at,omitempty"`
}

// PromotionResult identifies the entry promoted to spot_offered.
type PromotionResult struct {
	UserID         int `json:"user_id"`
	RegistrationID int `json:"registration_id"`
}

// SpotActionResult is the domain outcome of an accept or decline call.
// Rejections travel here rather than as errors.
type SpotActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CapacityStatus reports whether an event can still admit directly.
// MaxCount is nil when no capacity ceiling is configured, in which case
// IsFull is always false.
type CapacityStatus struct {
	IsFull       bool `json:"is_full"`
	CurrentCount int  `json:"current_count"`
	MaxCount     *int `json:"max_count"`
}

// AdmissionResult is the outcome of a registration attempt: either a
// direct admission or a freshly created waitlist entry.
type AdmissionResult struct {
	Admitted      bool                  `json:"admitted"`
	WaitlistEntry *models.WaitlistEntry `json:"waitlist_entry,omitempty"`
}

// WaitlistOverview is the organizer view: the full ordered queue plus
// the event's capacity status.
type WaitlistOverview struct {
	Entries  []*models.WaitlistEntry `json:"entries"`
	Capacity *CapacityStatus         `json:"capacity"`
}

// WaitlistService maintains the ordered waitlist per event and mediates
// admission when capacity frees up. Position assignment and offer
// transitions run inside store transactions so concurrent joiners never
// share a position and a decline and the expiry sweep never both
// promote a successor for the same vacated slot.
type WaitlistService struct {
	tx             TxRunner
	waitlistRepo   repositories.WaitlistRepository
	tournamentRepo repositories.TournamentRepository
	leagueRepo     repositories.LeagueRepository
	userRepo       repositories.UserRepository
	notifier       Notifier
	uploader       storage.FileUploader
	logger         *slog.Logger
}

func NewWaitlistService(
	tx TxRunner,
	waitlistRepo repositories.WaitlistRepository,
	tournamentRepo repositories.TournamentRepository,
	leagueRepo repositories.LeagueRepository,
	userRepo repositories.UserRepository,
	notifier Notifier,
	uploader storage.FileUploader,
	logger *slog.Logger,
) *WaitlistService {
	return &WaitlistService{
		tx:             tx,
		waitlistRepo:   waitlistRepo,
		tournamentRepo: tournamentRepo,
		leagueRepo:     leagueRepo,
		userRepo:       userRepo,
		notifier:       notifier,
		uploader:       uploader,
		logger:         logger,
	}
}

// AddToWaitlist queues a user for a tournament (optionally scoped to a
// division) or for the active season of a league. Tournament positions
// ascend from 1; league entries take the next decreasing negative rank.
func (s *WaitlistService) AddToWaitlist(ctx context.Context, userID int, kind models.EventKind, eventID int, divisionOrSeasonID *int) (*models.WaitlistEntry, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to verify user: %w", err)
	}

	switch kind {
	case models.EventKindTournament:
		return s.addToTournamentWaitlist(ctx, userID, eventID, divisionOrSeasonID)
	case models.EventKindLeague:
		return s.addToLeagueWaitlist(ctx, userID, eventID)
	default:
		return nil, fmt.Errorf("%w: unknown event kind %q", ErrValidationFailed, kind)
	}
}

func (s *WaitlistService) addToTournamentWaitlist(ctx context.Context, userID, tournamentID int, divisionID *int) (*models.WaitlistEntry, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to verify tournament: %w", err)
	}
	if divisionID != nil {
		division, err := s.tournamentRepo.GetDivision(ctx, *divisionID)
		if err != nil {
			if errors.Is(err, repositories.ErrDivisionNotFound) {
				return nil, ErrDivisionNotFound
			}
			return nil, fmt.Errorf("failed to verify division: %w", err)
		}
		if division.TournamentID != tournamentID {
			return nil, ErrDivisionNotFound
		}
	}

	existing, err := s.waitlistRepo.FindActiveByUserAndTournament(ctx, nil, userID, tournamentID)
	if err != nil && !errors.Is(err, repositories.ErrWaitlistEntryNotFound) {
		return nil, fmt.Errorf("failed to check existing waitlist entry: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyOnWaitlist
	}

	entry := &models.WaitlistEntry{
		EventKind:    models.EventKindTournament,
		TournamentID: &tournamentID,
		DivisionID:   divisionID,
		UserID:       userID,
		Status:       models.WaitlistStatusWaitlisted,
	}

	// Position read and insert share one transaction so two concurrent
	// joiners never receive the same position.
	err = s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		maxPosition, err := s.waitlistRepo.MaxTournamentPosition(ctx, exec, tournamentID, divisionID)
		if err != nil {
			return err
		}
		entry.Position = maxPosition + 1
		return s.waitlistRepo.Create(ctx, exec, entry)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrWaitlistConflict) {
			return nil, ErrAlreadyOnWaitlist
		}
		return nil, err
	}

	s.notify(ctx, userID, models.NotificationTournamentUpdate,
		"You're on the waitlist",
		fmt.Sprintf("You are number %d on the waitlist.", entry.DisplayPosition()))

	return entry, nil
}

func (s *WaitlistService) addToLeagueWaitlist(ctx context.Context, userID, leagueID int) (*models.WaitlistEntry, error) {
	if _, err := s.leagueRepo.GetByID(ctx, leagueID); err != nil {
		if errors.Is(err, repositories.ErrLeagueNotFound) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("failed to verify league: %w", err)
	}
	season, err := s.leagueRepo.FindActiveSeason(ctx, leagueID)
	if err != nil {
		if errors.Is(err, repositories.ErrActiveSeasonNotFound) {
			return nil, ErrNoActiveSeason
		}
		return nil, fmt.Errorf("failed to resolve active season: %w", err)
	}

	existing, err := s.waitlistRepo.FindActiveByUserAndSeason(ctx, nil, userID, season.ID)
	if err != nil && !errors.Is(err, repositories.ErrWaitlistEntryNotFound) {
		return nil, fmt.Errorf("failed to check existing waitlist entry: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyOnWaitlist
	}

	entry := &models.WaitlistEntry{
		EventKind: models.EventKindLeague,
		LeagueID:  &leagueID,
		SeasonID:  &season.ID,
		UserID:    userID,
		Status:    models.WaitlistStatusWaitlisted,
	}

	err = s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		minRank, err := s.waitlistRepo.MinSeasonRank(ctx, exec, season.ID)
		if err != nil {
			return err
		}
		entry.Position = minRank - 1
		return s.waitlistRepo.Create(ctx, exec, entry)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrWaitlistConflict) {
			return nil, ErrAlreadyOnWaitlist
		}
		return nil, err
	}

	s.notify(ctx, userID, models.NotificationLeagueUpdate,
		"You're on the waitlist",
		fmt.Sprintf("You are number %d on the waitlist.", entry.DisplayPosition()))

	return entry, nil
}

// GetWaitlistPosition reports the user's place in line, or nil when the
// user has no active entry. Absence is not failure.
func (s *WaitlistService) GetWaitlistPosition(ctx context.Context, userID int, kind models.EventKind, eventID int, seasonID *int) (*WaitlistPositionInfo, error) {
	var (
		entry *models.WaitlistEntry
		total int
		err   error
	)

	switch kind {
	case models.EventKindTournament:
		entry, err = s.waitlistRepo.FindActiveByUserAndTournament(ctx, nil, userID, eventID)
		if err != nil {
			if errors.Is(err, repositories.ErrWaitlistEntryNotFound) {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to look up waitlist entry: %w", err)
		}
		total, err = s.waitlistRepo.CountWaitlistedForTournament(ctx, nil, eventID)
	case models.EventKindLeague:
		resolvedSeasonID, resolveErr := s.resolveSeasonID(ctx, eventID, seasonID)
		if resolveErr != nil {
			return nil, resolveErr
		}
		entry, err = s.waitlistRepo.FindActiveByUserAndSeason(ctx, nil, userID, resolvedSeasonID)
		if err != nil {
			if errors.Is(err, repositories.ErrWaitlistEntryNotFound) {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to look up waitlist entry: %w", err)
		}
		total, err = s.waitlistRepo.CountWaitlistedForSeason(ctx, nil, resolvedSeasonID)
	default:
		return nil, fmt.Errorf("%w: unknown event kind %q", ErrValidationFailed, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to count waitlisted entries: %w", err)
	}

	info := &WaitlistPositionInfo{
		Position:        entry.DisplayPosition(),
		TotalWaitlisted: total,
		Status:          entry.Status,
	}
	if entry.Status == models.WaitlistStatusSpotOffered {
		info.SpotOfferedAt = entry.SpotOfferedAt
		info.SpotExpiresAt = entry.SpotExpiresAt
	}
	return info, nil
}

// ProcessWaitlist promotes the single highest-priority waitlisted entry
// to spot_offered, stamping a 24h acceptance window. Returns nil when
// the queue is empty; an empty queue performs no mutation.
func (s *WaitlistService) ProcessWaitlist(ctx context.Context, kind models.EventKind, eventID int, seasonID *int) (*PromotionResult, error) {
	var promoted *models.WaitlistEntry

	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		var (
			next *models.WaitlistEntry
			err  error
		)
		switch kind {
		case models.EventKindTournament:
			next, err = s.waitlistRepo.NextWaitlistedForTournament(ctx, exec, eventID)
		case models.EventKindLeague:
			resolvedSeasonID, resolveErr := s.resolveSeasonID(ctx, eventID, seasonID)
			if resolveErr != nil {
				return resolveErr
			}
			next, err = s.waitlistRepo.NextWaitlistedForSeason(ctx, exec, resolvedSeasonID)
		default:
			return fmt.Errorf("%w: unknown event kind %q", ErrValidationFailed, kind)
		}
		if err != nil {
			if errors.Is(err, repositories.ErrWaitlistEntryNotFound) {
				return nil // empty queue, nothing to promote
			}
			return fmt.Errorf("failed to find next waitlisted entry: %w", err)
		}

		now := time.Now()
		expiresAt := now.Add(SpotOfferTTL)
		if err := s.waitlistRepo.MarkSpotOffered(ctx, exec, next.ID, uuid.New(), now, expiresAt); err != nil {
			return fmt.Errorf("failed to offer spot: %w", err)
		}
		next.Status = models.WaitlistStatusSpotOffered
		next.SpotOfferedAt = &now
		next.SpotExpiresAt = &expiresAt
		promoted = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	if promoted == nil {
		return nil, nil
	}

	s.notify(ctx, promoted.UserID, notificationTypeFor(kind),
		"A spot opened up",
		"A spot opened up for you. You have 24 hours to accept it.")

	return &PromotionResult{UserID: promoted.UserID, RegistrationID: promoted.ID}, nil
}

// AcceptWaitlistSpot confirms a pending spot offer. Leagues have no
// accept flow and are rejected outright.
func (s *WaitlistService) AcceptWaitlistSpot(ctx context.Context, userID int, kind models.EventKind, eventID int) (*SpotActionResult, error) {
	if kind != models.EventKindTournament {
		return &SpotActionResult{Success: false, Message: MsgAcceptTournamentsOnly}, nil
	}

	var (
		result        *SpotActionResult
		expiredOnRead bool
	)
	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		entry, err := s.waitlistRepo.FindOfferedByUserAndTournament(ctx, exec, userID, eventID)
		if err != nil {
			if errors.Is(err, repositories.ErrWaitlistEntryNotFound) {
				result = &SpotActionResult{Success: false, Message: MsgNoSpotOffer}
				return nil
			}
			return fmt.Errorf("failed to look up spot offer: %w", err)
		}

		if entry.OfferExpired(time.Now()) {
			// Lazy expiry: the failed accept finalizes the timeout and the
			// next entry is promoted after commit.
			if err := s.waitlistRepo.TransitionStatus(ctx, exec, entry.ID, models.WaitlistStatusSpotOffered, models.WaitlistStatusExpired); err != nil {
				return fmt.Errorf("failed to expire spot offer: %w", err)
			}
			expiredOnRead = true
			result = &SpotActionResult{Success: false, Message: MsgSpotOfferExpired}
			return nil
		}

		if err := s.waitlistRepo.TransitionStatus(ctx, exec, entry.ID, models.WaitlistStatusSpotOffered, models.WaitlistStatusConfirmed); err != nil {
			return fmt.Errorf("failed to confirm spot: %w", err)
		}
		if err := s.tournamentRepo.IncrementParticipants(ctx, exec, eventID); err != nil {
			return fmt.Errorf("failed to increment participant count: %w", err)
		}
		result = &SpotActionResult{Success: true, Message: MsgSpotAccepted}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if expiredOnRead {
		if _, promoteErr := s.ProcessWaitlist(ctx, kind, eventID, nil); promoteErr != nil {
			s.logger.WarnContext(ctx, "failed to promote successor after lazy offer expiry",
				slog.Int("tournament_id", eventID), slog.Any("error", promoteErr))
		}
	}
	return result, nil
}

// DeclineWaitlistSpot withdraws a pending spot offer and promotes the
// next entry in line. Leagues have no decline flow and are rejected
// outright.
func (s *WaitlistService) DeclineWaitlistSpot(ctx context.Context, userID int, kind models.EventKind, eventID int) (*SpotActionResult, error) {
	if kind != models.EventKindTournament {
		return &SpotActionResult{Success: false, Message: MsgDeclineTournamentsOnly}, nil
	}

	var (
		result   *SpotActionResult
		declined bool
	)
	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		entry, err := s.waitlistRepo.FindOfferedByUserAndTournament(ctx, exec, userID, eventID)
		if err != nil {
			if errors.Is(err, repositories.ErrWaitlistEntryNotFound) {
				result = &SpotActionResult{Success: false, Message: MsgNoSpotOffer}
				return nil
			}
			return fmt.Errorf("failed to look up spot offer: %w", err)
		}
		if err := s.waitlistRepo.TransitionStatus(ctx, exec, entry.ID, models.WaitlistStatusSpotOffered, models.WaitlistStatusWithdrawn); err != nil {
			return fmt.Errorf("failed to withdraw spot offer: %w", err)
		}
		declined = true
		result = &SpotActionResult{Success: true, Message: MsgSpotDeclined}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if declined {
		if _, promoteErr := s.ProcessWaitlist(ctx, kind, eventID, nil); promoteErr != nil {
			s.logger.WarnContext(ctx, "failed to promote successor after decline",
				slog.Int("tournament_id", eventID), slog.Any("error", promoteErr))
		}
	}
	return result, nil
}

// ExpireOldSpotOffers sweeps every pending offer whose window has
// passed, across all events: each one is expired, its user notified, and
// that event's queue processed for the next promotion. Returns the
// number of offers expired. Intended to run on a periodic schedule.
func (s *WaitlistService) ExpireOldSpotOffers(ctx context.Context) (int, error) {
	stale, err := s.waitlistRepo.ListExpiredOffers(ctx, nil, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to list expired spot offers: %w", err)
	}

	expired := 0
	for _, entry := range stale {
		err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
			return s.waitlistRepo.TransitionStatus(ctx, exec, entry.ID, models.WaitlistStatusSpotOffered, models.WaitlistStatusExpired)
		})
		if err != nil {
			if errors.Is(err, repositories.ErrWaitlistEntryNotFound) {
				// Lost the race to an accept/decline; nothing to do.
				continue
			}
			return expired, fmt.Errorf("failed to expire spot offer %d: %w", entry.ID, err)
		}
		expired++

		s.notify(ctx, entry.UserID, notificationTypeFor(entry.EventKind),
			"Spot offer expired",
			"Your spot offer expired. You have been removed from the waitlist.")

		kind := entry.EventKind
		var eventID int
		var seasonID *int
		switch kind {
		case models.EventKindTournament:
			if entry.TournamentID == nil {
				continue
			}
			eventID = *entry.TournamentID
		case models.EventKindLeague:
			if entry.LeagueID == nil {
				continue
			}
			eventID = *entry.LeagueID
			seasonID = entry.SeasonID
		}
		if _, promoteErr := s.ProcessWaitlist(ctx, kind, eventID, seasonID); promoteErr != nil {
			s.logger.WarnContext(ctx, "failed to promote successor after offer expiry",
				slog.Int("entry_id", entry.ID), slog.Any("error", promoteErr))
		}
	}

	return expired, nil
}

// IsEventFull is the capacity oracle consulted before deciding whether
// to admit directly or route to the waitlist.
func (s *WaitlistService) IsEventFull(ctx context.Context, kind models.EventKind, eventID int, seasonID *int) (*CapacityStatus, error) {
	switch kind {
	case models.EventKindTournament:
		tournament, err := s.tournamentRepo.GetByID(ctx, eventID)
		if err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return nil, ErrTournamentNotFound
			}
			return nil, fmt.Errorf("failed to load tournament capacity: %w", err)
		}
		return capacityStatus(tournament.CurrentParticipants, tournament.MaxParticipants), nil
	case models.EventKindLeague:
		resolvedSeasonID, err := s.resolveSeasonID(ctx, eventID, seasonID)
		if err != nil {
			return nil, err
		}
		season, err := s.leagueRepo.GetSeasonByID(ctx, resolvedSeasonID)
		if err != nil {
			if errors.Is(err, repositories.ErrSeasonNotFound) {
				return nil, ErrSeasonNotFound
			}
			return nil, fmt.Errorf("failed to load season capacity: %w", err)
		}
		return capacityStatus(season.CurrentPlayers, season.MaxPlayers), nil
	default:
		return nil, fmt.Errorf("%w: unknown event kind %q", ErrValidationFailed, kind)
	}
}

// GetWaitlistEntries returns the full ordered queue with joined user
// display fields for organizer views.
func (s *WaitlistService) GetWaitlistEntries(ctx context.Context, kind models.EventKind, eventID int, seasonID *int) ([]*models.WaitlistEntry, error) {
	var (
		entries []*models.WaitlistEntry
		err     error
	)
	switch kind {
	case models.EventKindTournament:
		entries, err = s.waitlistRepo.ListByTournament(ctx, eventID, nil)
	case models.EventKindLeague:
		resolvedSeasonID, resolveErr := s.resolveSeasonID(ctx, eventID, seasonID)
		if resolveErr != nil {
			return nil, resolveErr
		}
		entries, err = s.waitlistRepo.ListBySeason(ctx, resolvedSeasonID)
	default:
		return nil, fmt.Errorf("%w: unknown event kind %q", ErrValidationFailed, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list waitlist entries: %w", err)
	}

	populateWaitlistUserDetails(entries, s.uploader)
	return entries, nil
}

// GetWaitlistOverview fetches the queue and the capacity status in
// parallel for the organizer dashboard.
func (s *WaitlistService) GetWaitlistOverview(ctx context.Context, kind models.EventKind, eventID int, seasonID *int) (*WaitlistOverview, error) {
	overview := &WaitlistOverview{}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		entries, err := s.GetWaitlistEntries(gCtx, kind, eventID, seasonID)
		if err != nil {
			return err
		}
		overview.Entries = entries
		return nil
	})
	g.Go(func() error {
		capacity, err := s.IsEventFull(gCtx, kind, eventID, seasonID)
		if err != nil {
			return err
		}
		overview.Capacity = capacity
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return overview, nil
}

// ReorderWaitlistPositions repairs gaps after an out-of-order removal by
// renumbering the remaining tournament entries to a contiguous 1..N
// sequence. League ranks are self-ordering, so this is a no-op there.
func (s *WaitlistService) ReorderWaitlistPositions(ctx context.Context, kind models.EventKind, eventID int) error {
	if kind != models.EventKindTournament {
		return nil
	}
	return s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.waitlistRepo.RenumberTournamentPositions(ctx, exec, eventID)
	})
}

// RegisterForTournament is the admission flow: consult the capacity
// oracle, admit directly while room remains, otherwise queue.
func (s *WaitlistService) RegisterForTournament(ctx context.Context, userID, tournamentID int, divisionID *int) (*AdmissionResult, error) {
	capacity, err := s.IsEventFull(ctx, models.EventKindTournament, tournamentID, nil)
	if err != nil {
		return nil, err
	}

	if !capacity.IsFull {
		err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
			return s.tournamentRepo.IncrementParticipants(ctx, exec, tournamentID)
		})
		if err == nil {
			return &AdmissionResult{Admitted: true}, nil
		}
		// Lost the last spot to a concurrent registration: fall through to
		// the waitlist.
		if !errors.Is(err, repositories.ErrTournamentFull) {
			return nil, err
		}
	}

	entry, err := s.AddToWaitlist(ctx, userID, models.EventKindTournament, tournamentID, divisionID)
	if err != nil {
		return nil, err
	}
	return &AdmissionResult{Admitted: false, WaitlistEntry: entry}, nil
}

func (s *WaitlistService) resolveSeasonID(ctx context.Context, leagueID int, seasonID *int) (int, error) {
	if seasonID != nil {
		return *seasonID, nil
	}
	season, err := s.leagueRepo.FindActiveSeason(ctx, leagueID)
	if err != nil {
		if errors.Is(err, repositories.ErrActiveSeasonNotFound) {
			return 0, ErrNoActiveSeason
		}
		return 0, fmt.Errorf("failed to resolve active season: %w", err)
	}
	return season.ID, nil
}

func (s *WaitlistService) notify(ctx context.Context, userID int, typ models.NotificationType, title, message string) {
	if s.notifier == nil {
		return
	}
	n := models.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now(),
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.logger.WarnContext(ctx, "failed to deliver waitlist notification",
			slog.Int("user_id", userID), slog.String("title", title), slog.Any("error", err))
	}
}

func notificationTypeFor(kind models.EventKind) models.NotificationType {
	if kind == models.EventKindLeague {
		return models.NotificationLeagueUpdate
	}
	return models.NotificationTournamentUpdate
}

func capacityStatus(current int, max *int) *CapacityStatus {
	status := &CapacityStatus{CurrentCount: current, MaxCount: max}
	if max != nil {
		status.IsFull = current >= *max
	}
	return status
}
