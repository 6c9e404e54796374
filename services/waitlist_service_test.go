package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/paddleup/pickleplay/models"
	"github.com/paddleup/pickleplay/repositories"
)

type fakeTxRunner struct{}

func (fakeTxRunner) RunInTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return fn(nil)
}

type fakeNotifier struct {
	sent []models.Notification
}

func (n *fakeNotifier) Notify(ctx context.Context, notification models.Notification) error {
	n.sent = append(n.sent, notification)
	return nil
}

func (n *fakeNotifier) titles() []string {
	titles := make([]string, len(n.sent))
	for i, notification := range n.sent {
		titles[i] = notification.Title
	}
	return titles
}

type fakeUserRepo struct {
	users map[int]*models.User
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) UpdateLogoKey(ctx context.Context, userID int, logoKey *string) error {
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.LogoKey = logoKey
	return nil
}

type fakeTournamentRepo struct {
	tournaments map[int]*models.Tournament
	divisions   map[int]*models.TournamentDivision
}

func (r *fakeTournamentRepo) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	t, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTournamentRepo) GetDivision(ctx context.Context, divisionID int) (*models.TournamentDivision, error) {
	d, ok := r.divisions[divisionID]
	if !ok {
		return nil, repositories.ErrDivisionNotFound
	}
	copied := *d
	return &copied, nil
}

func (r *fakeTournamentRepo) IncrementParticipants(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	if t.MaxParticipants != nil && t.CurrentParticipants >= *t.MaxParticipants {
		return repositories.ErrTournamentFull
	}
	t.CurrentParticipants++
	return nil
}

type fakeLeagueRepo struct {
	leagues map[int]*models.League
	seasons map[int]*models.LeagueSeason
}

func (r *fakeLeagueRepo) GetByID(ctx context.Context, id int) (*models.League, error) {
	l, ok := r.leagues[id]
	if !ok {
		return nil, repositories.ErrLeagueNotFound
	}
	copied := *l
	return &copied, nil
}

func (r *fakeLeagueRepo) GetSeasonByID(ctx context.Context, seasonID int) (*models.LeagueSeason, error) {
	s, ok := r.seasons[seasonID]
	if !ok {
		return nil, repositories.ErrSeasonNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *fakeLeagueRepo) FindActiveSeason(ctx context.Context, leagueID int) (*models.LeagueSeason, error) {
	for _, s := range r.seasons {
		if s.LeagueID == leagueID && s.Status == models.SeasonActive {
			copied := *s
			return &copied, nil
		}
	}
	return nil, repositories.ErrActiveSeasonNotFound
}

// fakeWaitlistRepo keeps entries in a slice and mirrors the guarded
// status transitions of the SQL implementation.
type fakeWaitlistRepo struct {
	entries []*models.WaitlistEntry
	nextID  int
}

func (r *fakeWaitlistRepo) Create(ctx context.Context, exec repositories.SQLExecutor, entry *models.WaitlistEntry) error {
	r.nextID++
	entry.ID = r.nextID
	entry.RegisteredAt = time.Now()
	stored := *entry
	r.entries = append(r.entries, &stored)
	return nil
}

func sameScope(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func activeStatus(s models.WaitlistStatus) bool {
	return s == models.WaitlistStatusWaitlisted ||
		s == models.WaitlistStatusSpotOffered ||
		s == models.WaitlistStatusConfirmed
}

func (r *fakeWaitlistRepo) MaxTournamentPosition(ctx context.Context, exec repositories.SQLExecutor, tournamentID int, divisionID *int) (int, error) {
	max := 0
	for _, e := range r.entries {
		if e.TournamentID != nil && *e.TournamentID == tournamentID && sameScope(e.DivisionID, divisionID) &&
			e.Status == models.WaitlistStatusWaitlisted && e.Position > max {
			max = e.Position
		}
	}
	return max, nil
}

func (r *fakeWaitlistRepo) MinSeasonRank(ctx context.Context, exec repositories.SQLExecutor, seasonID int) (int, error) {
	min := 0
	for _, e := range r.entries {
		if e.SeasonID != nil && *e.SeasonID == seasonID &&
			e.Status == models.WaitlistStatusWaitlisted && e.Position < min {
			min = e.Position
		}
	}
	return min, nil
}

func (r *fakeWaitlistRepo) FindActiveByUserAndTournament(ctx context.Context, exec repositories.SQLExecutor, userID, tournamentID int) (*models.WaitlistEntry, error) {
	for _, e := range r.entries {
		if e.UserID == userID && e.TournamentID != nil && *e.TournamentID == tournamentID && activeStatus(e.Status) {
			copied := *e
			return &copied, nil
		}
	}
	return nil, repositories.ErrWaitlistEntryNotFound
}

func (r *fakeWaitlistRepo) FindActiveByUserAndSeason(ctx context.Context, exec repositories.SQLExecutor, userID, seasonID int) (*models.WaitlistEntry, error) {
	for _, e := range r.entries {
		if e.UserID == userID && e.SeasonID != nil && *e.SeasonID == seasonID && activeStatus(e.Status) {
			copied := *e
			return &copied, nil
		}
	}
	return nil, repositories.ErrWaitlistEntryNotFound
}

func (r *fakeWaitlistRepo) FindOfferedByUserAndTournament(ctx context.Context, exec repositories.SQLExecutor, userID, tournamentID int) (*models.WaitlistEntry, error) {
	for _, e := range r.entries {
		if e.UserID == userID && e.TournamentID != nil && *e.TournamentID == tournamentID && e.Status == models.WaitlistStatusSpotOffered {
			copied := *e
			return &copied, nil
		}
	}
	return nil, repositories.ErrWaitlistEntryNotFound
}

func (r *fakeWaitlistRepo) NextWaitlistedForTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) (*models.WaitlistEntry, error) {
	var next *models.WaitlistEntry
	for _, e := range r.entries {
		if e.TournamentID == nil || *e.TournamentID != tournamentID || e.Status != models.WaitlistStatusWaitlisted {
			continue
		}
		if next == nil || e.Position < next.Position {
			next = e
		}
	}
	if next == nil {
		return nil, repositories.ErrWaitlistEntryNotFound
	}
	copied := *next
	return &copied, nil
}

func (r *fakeWaitlistRepo) NextWaitlistedForSeason(ctx context.Context, exec repositories.SQLExecutor, seasonID int) (*models.WaitlistEntry, error) {
	var next *models.WaitlistEntry
	for _, e := range r.entries {
		if e.SeasonID == nil || *e.SeasonID != seasonID || e.Status != models.WaitlistStatusWaitlisted {
			continue
		}
		if next == nil || e.Position > next.Position {
			next = e
		}
	}
	if next == nil {
		return nil, repositories.ErrWaitlistEntryNotFound
	}
	copied := *next
	return &copied, nil
}

func (r *fakeWaitlistRepo) CountWaitlistedForTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) (int, error) {
	count := 0
	for _, e := range r.entries {
		if e.TournamentID != nil && *e.TournamentID == tournamentID && e.Status == models.WaitlistStatusWaitlisted {
			count++
		}
	}
	return count, nil
}

func (r *fakeWaitlistRepo) CountWaitlistedForSeason(ctx context.Context, exec repositories.SQLExecutor, seasonID int) (int, error) {
	count := 0
	for _, e := range r.entries {
		if e.SeasonID != nil && *e.SeasonID == seasonID && e.Status == models.WaitlistStatusWaitlisted {
			count++
		}
	}
	return count, nil
}

func (r *fakeWaitlistRepo) MarkSpotOffered(ctx context.Context, exec repositories.SQLExecutor, id int, token uuid.UUID, offeredAt, expiresAt time.Time) error {
	for _, e := range r.entries {
		if e.ID == id && e.Status == models.WaitlistStatusWaitlisted {
			e.Status = models.WaitlistStatusSpotOffered
			e.OfferToken = &token
			e.SpotOfferedAt = &offeredAt
			e.SpotExpiresAt = &expiresAt
			return nil
		}
	}
	return repositories.ErrWaitlistEntryNotFound
}

func (r *fakeWaitlistRepo) TransitionStatus(ctx context.Context, exec repositories.SQLExecutor, id int, from, to models.WaitlistStatus) error {
	for _, e := range r.entries {
		if e.ID == id && e.Status == from {
			e.Status = to
			return nil
		}
	}
	return repositories.ErrWaitlistEntryNotFound
}

func (r *fakeWaitlistRepo) ListByTournament(ctx context.Context, tournamentID int, divisionID *int) ([]*models.WaitlistEntry, error) {
	var out []*models.WaitlistEntry
	for _, e := range r.entries {
		if e.TournamentID == nil || *e.TournamentID != tournamentID {
			continue
		}
		if divisionID != nil && !sameScope(e.DivisionID, divisionID) {
			continue
		}
		copied := *e
		out = append(out, &copied)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *fakeWaitlistRepo) ListBySeason(ctx context.Context, seasonID int) ([]*models.WaitlistEntry, error) {
	var out []*models.WaitlistEntry
	for _, e := range r.entries {
		if e.SeasonID == nil || *e.SeasonID != seasonID {
			continue
		}
		copied := *e
		out = append(out, &copied)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position > out[j].Position })
	return out, nil
}

func (r *fakeWaitlistRepo) ListExpiredOffers(ctx context.Context, exec repositories.SQLExecutor, now time.Time) ([]*models.WaitlistEntry, error) {
	var out []*models.WaitlistEntry
	for _, e := range r.entries {
		if e.Status == models.WaitlistStatusSpotOffered && e.SpotExpiresAt != nil && now.After(*e.SpotExpiresAt) {
			copied := *e
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeWaitlistRepo) RenumberTournamentPositions(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) error {
	groups := make(map[int][]*models.WaitlistEntry)
	for _, e := range r.entries {
		if e.TournamentID == nil || *e.TournamentID != tournamentID || e.Status != models.WaitlistStatusWaitlisted {
			continue
		}
		groupKey := 0
		if e.DivisionID != nil {
			groupKey = *e.DivisionID
		}
		groups[groupKey] = append(groups[groupKey], e)
	}
	for _, group := range groups {
		sort.SliceStable(group, func(i, j int) bool {
			if group[i].Position != group[j].Position {
				return group[i].Position < group[j].Position
			}
			return group[i].RegisteredAt.Before(group[j].RegisteredAt)
		})
		for i, e := range group {
			e.Position = i + 1
		}
	}
	return nil
}

func (r *fakeWaitlistRepo) byID(id int) *models.WaitlistEntry {
	for _, e := range r.entries {
		if e.ID == id {
			return e
		}
	}
	return nil
}

type serviceFixture struct {
	service  *WaitlistService
	waitlist *fakeWaitlistRepo
	tourneys *fakeTournamentRepo
	leagues  *fakeLeagueRepo
	users    *fakeUserRepo
	notifier *fakeNotifier
}

func intPtr(v int) *int { return &v }

func newFixture() *serviceFixture {
	waitlist := &fakeWaitlistRepo{}
	tourneys := &fakeTournamentRepo{
		tournaments: map[int]*models.Tournament{
			1: {ID: 1, Name: "Spring Open", MaxParticipants: intPtr(32), CurrentParticipants: 32},
			2: {ID: 2, Name: "Open Play", MaxParticipants: nil, CurrentParticipants: 100},
			3: {ID: 3, Name: "Autumn Classic", MaxParticipants: intPtr(4), CurrentParticipants: 2},
		},
		divisions: map[int]*models.TournamentDivision{
			10: {ID: 10, TournamentID: 1, Name: "3.5 Singles"},
		},
	}
	leagues := &fakeLeagueRepo{
		leagues: map[int]*models.League{
			5: {ID: 5, Name: "Monday Night League"},
			6: {ID: 6, Name: "Dormant League"},
		},
		seasons: map[int]*models.LeagueSeason{
			50: {ID: 50, LeagueID: 5, Name: "Summer 2026", Status: models.SeasonActive, MaxPlayers: intPtr(16), CurrentPlayers: 16},
		},
	}
	users := &fakeUserRepo{
		users: map[int]*models.User{
			1: {ID: 1, FirstName: "Ada", LastName: "Moreno", Email: "ada@example.com"},
			2: {ID: 2, FirstName: "Ben", LastName: "Ito", Email: "ben@example.com"},
			3: {ID: 3, FirstName: "Cal", LastName: "Reyes", Email: "cal@example.com"},
			4: {ID: 4, FirstName: "Dee", LastName: "Okafor", Email: "dee@example.com"},
		},
	}
	notifier := &fakeNotifier{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := NewWaitlistService(fakeTxRunner{}, waitlist, tourneys, leagues, users, notifier, nil, logger)
	return &serviceFixture{
		service:  service,
		waitlist: waitlist,
		tourneys: tourneys,
		leagues:  leagues,
		users:    users,
		notifier: notifier,
	}
}

func TestAddToWaitlist_TournamentPositionsAreSequential(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for i, userID := range []int{1, 2, 3} {
		entry, err := f.service.AddToWaitlist(ctx, userID, models.EventKindTournament, 1, nil)
		if err != nil {
			t.Fatalf("AddToWaitlist user %d: %v", userID, err)
		}
		if entry.Position != i+1 {
			t.Errorf("user %d position = %d, want %d", userID, entry.Position, i+1)
		}
		if entry.Status != models.WaitlistStatusWaitlisted {
			t.Errorf("user %d status = %s, want waitlisted", userID, entry.Status)
		}
	}
}

func TestAddToWaitlist_LeagueRanksDescendNegative(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.service.AddToWaitlist(ctx, 1, models.EventKindLeague, 5, nil)
	if err != nil {
		t.Fatalf("AddToWaitlist: %v", err)
	}
	second, err := f.service.AddToWaitlist(ctx, 2, models.EventKindLeague, 5, nil)
	if err != nil {
		t.Fatalf("AddToWaitlist: %v", err)
	}

	if first.Position != -1 || second.Position != -2 {
		t.Errorf("positions = %d, %d; want -1, -2", first.Position, second.Position)
	}
	if first.DisplayPosition() != 1 || second.DisplayPosition() != 2 {
		t.Errorf("display positions = %d, %d; want 1, 2", first.DisplayPosition(), second.DisplayPosition())
	}
	if first.SeasonID == nil || *first.SeasonID != 50 {
		t.Errorf("entry not bound to the active season: %v", first.SeasonID)
	}
}

func TestAddToWaitlist_Rejections(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.service.AddToWaitlist(ctx, 99, models.EventKindTournament, 1, nil); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("unknown user: err = %v, want ErrUserNotFound", err)
	}
	if _, err := f.service.AddToWaitlist(ctx, 1, models.EventKindTournament, 99, nil); !errors.Is(err, ErrTournamentNotFound) {
		t.Errorf("unknown tournament: err = %v, want ErrTournamentNotFound", err)
	}
	if _, err := f.service.AddToWaitlist(ctx, 1, models.EventKindTournament, 1, intPtr(99)); !errors.Is(err, ErrDivisionNotFound) {
		t.Errorf("unknown division: err = %v, want ErrDivisionNotFound", err)
	}
	if _, err := f.service.AddToWaitlist(ctx, 1, models.EventKindLeague, 99, nil); !errors.Is(err, ErrLeagueNotFound) {
		t.Errorf("unknown league: err = %v, want ErrLeagueNotFound", err)
	}
	if _, err := f.service.AddToWaitlist(ctx, 1, models.EventKindLeague, 6, nil); !errors.Is(err, ErrNoActiveSeason) {
		t.Errorf("dormant league: err = %v, want ErrNoActiveSeason", err)
	}

	if _, err := f.service.AddToWaitlist(ctx, 1, models.EventKindTournament, 1, nil); err != nil {
		t.Fatalf("first join: %v", err)
	}
	if _, err := f.service.AddToWaitlist(ctx, 1, models.EventKindTournament, 1, nil); !errors.Is(err, ErrAlreadyOnWaitlist) {
		t.Errorf("duplicate join: err = %v, want ErrAlreadyOnWaitlist", err)
	}
}

func TestAddToWaitlist_DivisionScopesPositionSequence(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	open, err := f.service.AddToWaitlist(ctx, 1, models.EventKindTournament, 1, nil)
	if err != nil {
		t.Fatalf("AddToWaitlist: %v", err)
	}
	scoped, err := f.service.AddToWaitlist(ctx, 2, models.EventKindTournament, 1, intPtr(10))
	if err != nil {
		t.Fatalf("AddToWaitlist: %v", err)
	}

	if open.Position != 1 || scoped.Position != 1 {
		t.Errorf("positions = %d, %d; want independent sequences both starting at 1", open.Position, scoped.Position)
	}
}

func TestGetWaitlistPosition(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	info, err := f.service.GetWaitlistPosition(ctx, 1, models.EventKindTournament, 1, nil)
	if err != nil {
		t.Fatalf("GetWaitlistPosition: %v", err)
	}
	if info != nil {
		t.Fatalf("expected nil info for absent user, got %+v", info)
	}

	for _, userID := range []int{1, 2, 3, 4} {
		if _, err := f.service.AddToWaitlist(ctx, userID, models.EventKindTournament, 1, nil); err != nil {
			t.Fatalf("AddToWaitlist user %d: %v", userID, err)
		}
	}

	info, err = f.service.GetWaitlistPosition(ctx, 4, models.EventKindTournament, 1, nil)
	if err != nil {
		t.Fatalf("GetWaitlistPosition: %v", err)
	}
	if info == nil {
		t.Fatal("expected position info")
	}
	if info.Position != 4 {
		t.Errorf("Position = %d, want 4", info.Position)
	}
	if info.TotalWaitlisted != 4 {
		t.Errorf("TotalWaitlisted = %d, want 4", info.TotalWaitlisted)
	}
	if info.Status != models.WaitlistStatusWaitlisted {
		t.Errorf("Status = %s, want waitlisted", info.Status)
	}
	if info.SpotOfferedAt != nil || info.SpotExpiresAt != nil {
		t.Error("offer timestamps should be unset before a spot offer")
	}
}

func TestGetWaitlistPosition_IncludesOfferWindowWhenOffered(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.service.AddToWaitlist(ctx, 1, models.EventKindTournament, 1, nil); err != nil {
		t.Fatalf("AddToWaitlist: %v", err)
	}
	if _, err := f.service.ProcessWaitlist(ctx, models.EventKindTournament, 1, nil); err != nil {
		t.Fatalf("ProcessWaitlist: %v", err)
	}

	info, err := f.service.GetWaitlistPosition(ctx, 1, models.EventKindTournament, 1, nil)
	if err != nil {
		t.Fatalf("GetWaitlistPosition: %v", err)
	}
	if info == nil || info.Status != models.WaitlistStatusSpotOffered {
		t.Fatalf("info = %+v, want spot_offered status", info)
	}
	if info.SpotOfferedAt == nil || info.SpotExpiresAt == nil {
		t.Fatal("offer timestamps missing while offer pending")
	}
	window := info.SpotExpiresAt.Sub(*info.SpotOfferedAt)
	if window != SpotOfferTTL {
		t.Errorf("offer window = %v, want %v", window, SpotOfferTTL)
	}
}

func TestProcessWaitlist_EmptyQueueIsNoop(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	result, err := f.service.ProcessWaitlist(ctx, models.EventKindTournament, 1, nil)
	if err != nil {
		t.Fatalf("ProcessWaitlist: %v", err)
	}
	if result != nil {
		t.Errorf("result = %+v, want nil for empty queue", result)
	}
	if len(f.waitlist.entries) != 0 {
		t.Error("empty queue processing must not mutate the store")
	}
	if len(f.notifier.sent) != 0 {
		t.Errorf("notifications sent on empty queue: %v", f.notifier.titles())
	}
}

func TestProcessWaitlist_PromotesLowestTournamentPosition(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for _, userID := range []int{1, 2, 3} {
		if _, err := f.service.AddToWaitlist(ctx, userID, models.EventKindTournament, 1, nil); err != nil {
			t.Fatalf("AddToWaitlist user %d: %v", userID, err)
		}
	}
	f.notifier.sent = nil

	result, err := f.service.ProcessWaitlist(ctx, models.EventKindTournament, 1, nil)
	if err != nil {
		t.Fatalf("ProcessWaitlist: %v", err)
	}
	if result == nil || result.UserID != 1 {
		t.Fatalf("result = %+v, want promotion of user 1", result)
	}

	promoted := f.waitlist.byID(result.RegistrationID)
	if promoted == nil || promoted.Status != models.WaitlistStatusSpotOffered {
		t.Fatalf("promoted entry = %+v, want spot_offered", promoted)
	}
	if promoted.OfferToken == nil || promoted.SpotOfferedAt == nil || promoted.SpotExpiresAt == nil {
		t.Error("offer fields not stamped")
	}
	if len(f.notifier.sent) != 1 || f.notifier.sent[0].Title != "A spot opened up" {
		t.Errorf("notifications = %v, want one spot-opened notice", f.notifier.titles())
	}
	if f.notifier.sent[0].UserID != 1 {
		t.Errorf("notification target = %d, want 1", f.notifier.sent[0].UserID)
	}
}

func TestProcessWaitlist_LeaguePromotesRankClosestToZero(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// User 1 joined first and holds rank -1; user 2 holds -2.
	for _, userID := range []int{1, 2} {
		if _, err := f.service.AddToWaitlist(ctx, userID, models.EventKindLeague, 5, nil); err != nil {
			t.Fatalf("AddToWaitlist user %d: %v", userID, err)
		}
	}

	result, err := f.service.ProcessWaitlist(ctx, models.EventKindLeague, 5, nil)
	if err != nil {
		t.Fatalf("ProcessWaitlist: %v", err)
	}
	if result == nil || result.UserID != 1 {
		t.Fatalf("result = %+v, want promotion of user 1 (rank -1)", result)
	}
}

func TestAcceptWaitlistSpot(t *testing.T) {
	t.Run("league is rejected", func(t *testing.T) {
		f := newFixture()
		result, err := f.service.AcceptWaitlistSpot(context.Background(), 1, models.EventKindLeague, 5)
		if err != nil {
			t.Fatalf("AcceptWaitlistSpot: %v", err)
		}
		if result.Success || result.Message != MsgAcceptTournamentsOnly {
			t.Errorf("result = %+v, want rejection %q", result, MsgAcceptTournamentsOnly)
		}
	})

	t.Run("no pending offer", func(t *testing.T) {
		f := newFixture()
		result, err := f.service.AcceptWaitlistSpot(context.Background(), 1, models.EventKindTournament, 1)
		if err != nil {
			t.Fatalf("AcceptWaitlistSpot: %v", err)
		}
		if result.Success || result.Message != MsgNoSpotOffer {
			t.Errorf("result = %+v, want rejection %q", result, MsgNoSpotOffer)
		}
	})

	t.Run("valid offer confirms and takes the spot", func(t *testing.T) {
		f := newFixture()
		ctx := context.Background()

		if _, err := f.service.AddToWaitlist(ctx, 1, models.EventKindTournament, 3, nil); err != nil {
			t.Fatalf("AddToWaitlist: %v", err)
		}
		if _, err := f.service.ProcessWaitlist(ctx, models.EventKindTournament, 3, nil); err != nil {
			t.Fatalf("ProcessWaitlist: %v", err)
		}

		result, err := f.service.AcceptWaitlistSpot(ctx, 1, models.EventKindTournament, 3)
		if err != nil {
			t.Fatalf("AcceptWaitlistSpot: %v", err)
		}
		if !result.Success || result.Message != MsgSpotAccepted {
			t.Errorf("result = %+v, want success %q", result, MsgSpotAccepted)
		}

		entry := f.waitlist.byID(1)
		if entry.Status != models.WaitlistStatusConfirmed {
			t.Errorf("entry status = %s, want confirmed", entry.Status)
		}
		if got := f.tourneys.tournaments[3].CurrentParticipants; got != 3 {
			t.Errorf("CurrentParticipants = %d, want 3", got)
		}
	})

	t.Run("expired offer finalizes timeout and promotes successor", func(t *testing.T) {
		f := newFixture()
		ctx := context.Background()

		for _, userID := range []int{1, 2} {
			if _, err := f.service.AddToWaitlist(ctx, userID, models.EventKindTournament, 3, nil); err != nil {
				t.Fatalf("AddToWaitlist user %d: %v", userID, err)
			}
		}
		if _, err := f.service.ProcessWaitlist(ctx, models.EventKindTournament, 3, nil); err != nil {
			t.Fatalf("ProcessWaitlist: %v", err)
		}

		// Age the offer past its window.
		offered := f.waitlist.byID(1)
		past := time.Now().Add(-time.Minute)
		offered.SpotExpiresAt = &past

		result, err := f.service.AcceptWaitlistSpot(ctx, 1, models.EventKindTournament, 3)
		if err != nil {
			t.Fatalf("AcceptWaitlistSpot: %v", err)
		}
		if result.Success || result.Message != MsgSpotOfferExpired {
			t.Errorf("result = %+v, want rejection %q", result, MsgSpotOfferExpired)
		}
		if offered.Status != models.WaitlistStatusExpired {
			t.Errorf("stale entry status = %s, want expired", offered.Status)
		}
		if got := f.tourneys.tournaments[3].CurrentParticipants; got != 2 {
			t.Errorf("CurrentParticipants = %d, want unchanged 2", got)
		}

		successor := f.waitlist.byID(2)
		if successor.Status != models.WaitlistStatusSpotOffered {
			t.Errorf("successor status = %s, want spot_offered", successor.Status)
		}
	})
}

func TestDeclineWaitlistSpot(t *testing.T) {
	t.Run("league is rejected", func(t *testing.T) {
		f := newFixture()
		result, err := f.service.DeclineWaitlistSpot(context.Background(), 1, models.EventKindLeague, 5)
		if err != nil {
			t.Fatalf("DeclineWaitlistSpot: %v", err)
		}
		if result.Success || result.Message != MsgDeclineTournamentsOnly {
			t.Errorf("result = %+v, want rejection %q", result, MsgDeclineTournamentsOnly)
		}
	})

	t.Run("no pending offer", func(t *testing.T) {
		f := newFixture()
		result, err := f.service.DeclineWaitlistSpot(context.Background(), 1, models.EventKindTournament, 1)
		if err != nil {
			t.Fatalf("DeclineWaitlistSpot: %v", err)
		}
		if result.Success || result.Message != MsgNoSpotOffer {
			t.Errorf("result = %+v, want rejection %q", result, MsgNoSpotOffer)
		}
	})

	t.Run("decline withdraws and promotes successor", func(t *testing.T) {
		f := newFixture()
		ctx := context.Background()

		for _, userID := range []int{1, 2} {
			if _, err := f.service.AddToWaitlist(ctx, userID, models.EventKindTournament, 1, nil); err != nil {
				t.Fatalf("AddToWaitlist user %d: %v", userID, err)
			}
		}
		if _, err := f.service.ProcessWaitlist(ctx, models.EventKindTournament, 1, nil); err != nil {
			t.Fatalf("ProcessWaitlist: %v", err)
		}

		result, err := f.service.DeclineWaitlistSpot(ctx, 1, models.EventKindTournament, 1)
		if err != nil {
			t.Fatalf("DeclineWaitlistSpot: %v", err)
		}
		if !result.Success || result.Message != MsgSpotDeclined {
			t.Errorf("result = %+v, want success %q", result, MsgSpotDeclined)
		}

		if got := f.waitlist.byID(1).Status; got != models.WaitlistStatusWithdrawn {
			t.Errorf("declined entry status = %s, want withdrawn", got)
		}
		if got := f.waitlist.byID(2).Status; got != models.WaitlistStatusSpotOffered {
			t.Errorf("successor status = %s, want spot_offered", got)
		}
	})
}

func TestExpireOldSpotOffers(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for _, userID := range []int{1, 2} {
		if _, err := f.service.AddToWaitlist(ctx, userID, models.EventKindTournament, 1, nil); err != nil {
			t.Fatalf("AddToWaitlist user %d: %v", userID, err)
		}
	}
	if _, err := f.service.ProcessWaitlist(ctx, models.EventKindTournament, 1, nil); err != nil {
		t.Fatalf("ProcessWaitlist: %v", err)
	}

	past := time.Now().Add(-time.Minute)
	f.waitlist.byID(1).SpotExpiresAt = &past
	f.notifier.sent = nil

	expired, err := f.service.ExpireOldSpotOffers(ctx)
	if err != nil {
		t.Fatalf("ExpireOldSpotOffers: %v", err)
	}
	if expired != 1 {
		t.Errorf("expired = %d, want 1", expired)
	}
	if got := f.waitlist.byID(1).Status; got != models.WaitlistStatusExpired {
		t.Errorf("stale entry status = %s, want expired", got)
	}
	if got := f.waitlist.byID(2).Status; got != models.WaitlistStatusSpotOffered {
		t.Errorf("successor status = %s, want spot_offered", got)
	}

	titles := f.notifier.titles()
	if len(titles) != 2 || titles[0] != "Spot offer expired" || titles[1] != "A spot opened up" {
		t.Errorf("notification titles = %v, want expiry notice then promotion notice", titles)
	}
}

func TestExpireOldSpotOffers_NothingStale(t *testing.T) {
	f := newFixture()

	expired, err := f.service.ExpireOldSpotOffers(context.Background())
	if err != nil {
		t.Fatalf("ExpireOldSpotOffers: %v", err)
	}
	if expired != 0 {
		t.Errorf("expired = %d, want 0", expired)
	}
}

func TestIsEventFull(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	full, err := f.service.IsEventFull(ctx, models.EventKindTournament, 1, nil)
	if err != nil {
		t.Fatalf("IsEventFull: %v", err)
	}
	if !full.IsFull || full.CurrentCount != 32 || full.MaxCount == nil || *full.MaxCount != 32 {
		t.Errorf("capacity = %+v, want full at 32/32", full)
	}

	unbounded, err := f.service.IsEventFull(ctx, models.EventKindTournament, 2, nil)
	if err != nil {
		t.Fatalf("IsEventFull: %v", err)
	}
	if unbounded.IsFull || unbounded.MaxCount != nil {
		t.Errorf("capacity = %+v, want never-full without a ceiling", unbounded)
	}

	season, err := f.service.IsEventFull(ctx, models.EventKindLeague, 5, nil)
	if err != nil {
		t.Fatalf("IsEventFull: %v", err)
	}
	if !season.IsFull || season.CurrentCount != 16 {
		t.Errorf("capacity = %+v, want full season at 16/16", season)
	}

	if _, err := f.service.IsEventFull(ctx, models.EventKindTournament, 99, nil); !errors.Is(err, ErrTournamentNotFound) {
		t.Errorf("unknown tournament: err = %v, want ErrTournamentNotFound", err)
	}
}

func TestRegisterForTournament(t *testing.T) {
	t.Run("admits directly while room remains", func(t *testing.T) {
		f := newFixture()
		ctx := context.Background()

		result, err := f.service.RegisterForTournament(ctx, 1, 3, nil)
		if err != nil {
			t.Fatalf("RegisterForTournament: %v", err)
		}
		if !result.Admitted || result.WaitlistEntry != nil {
			t.Errorf("result = %+v, want direct admission", result)
		}
		if got := f.tourneys.tournaments[3].CurrentParticipants; got != 3 {
			t.Errorf("CurrentParticipants = %d, want 3", got)
		}
	})

	t.Run("queues when full", func(t *testing.T) {
		f := newFixture()
		ctx := context.Background()

		result, err := f.service.RegisterForTournament(ctx, 1, 1, nil)
		if err != nil {
			t.Fatalf("RegisterForTournament: %v", err)
		}
		if result.Admitted {
			t.Error("expected waitlisting for a full tournament")
		}
		if result.WaitlistEntry == nil || result.WaitlistEntry.Position != 1 {
			t.Errorf("entry = %+v, want waitlist position 1", result.WaitlistEntry)
		}
		if got := f.tourneys.tournaments[1].CurrentParticipants; got != 32 {
			t.Errorf("CurrentParticipants = %d, want unchanged 32", got)
		}
	})

	t.Run("lost race for last spot falls through to waitlist", func(t *testing.T) {
		f := newFixture()
		ctx := context.Background()

		// Capacity reads as open, then the guarded increment refuses.
		f.tourneys.tournaments[3].CurrentParticipants = 3
		f.tourneys.tournaments[3].MaxParticipants = intPtr(4)
		raced := &racingTournamentRepo{fakeTournamentRepo: f.tourneys}
		f.service.tournamentRepo = raced

		result, err := f.service.RegisterForTournament(ctx, 1, 3, nil)
		if err != nil {
			t.Fatalf("RegisterForTournament: %v", err)
		}
		if result.Admitted {
			t.Error("expected fallthrough to waitlist after losing the race")
		}
		if result.WaitlistEntry == nil || result.WaitlistEntry.Position != 1 {
			t.Errorf("entry = %+v, want waitlist position 1", result.WaitlistEntry)
		}
	})
}

// racingTournamentRepo simulates a concurrent registration grabbing the
// last spot between the capacity read and the increment.
type racingTournamentRepo struct {
	*fakeTournamentRepo
}

func (r *racingTournamentRepo) IncrementParticipants(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	return repositories.ErrTournamentFull
}

func TestReorderWaitlistPositions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for _, userID := range []int{1, 2, 3} {
		if _, err := f.service.AddToWaitlist(ctx, userID, models.EventKindTournament, 1, nil); err != nil {
			t.Fatalf("AddToWaitlist user %d: %v", userID, err)
		}
	}
	// Simulate an out-of-order withdrawal leaving a gap at position 2.
	f.waitlist.byID(2).Status = models.WaitlistStatusWithdrawn

	if err := f.service.ReorderWaitlistPositions(ctx, models.EventKindTournament, 1); err != nil {
		t.Fatalf("ReorderWaitlistPositions: %v", err)
	}

	if got := f.waitlist.byID(1).Position; got != 1 {
		t.Errorf("entry 1 position = %d, want 1", got)
	}
	if got := f.waitlist.byID(3).Position; got != 2 {
		t.Errorf("entry 3 position = %d, want 2", got)
	}

	// League ranks are self-ordering; reorder must be a no-op.
	if err := f.service.ReorderWaitlistPositions(ctx, models.EventKindLeague, 5); err != nil {
		t.Errorf("league reorder: %v", err)
	}
}

func TestGetWaitlistOverview(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for _, userID := range []int{1, 2} {
		if _, err := f.service.AddToWaitlist(ctx, userID, models.EventKindTournament, 1, nil); err != nil {
			t.Fatalf("AddToWaitlist user %d: %v", userID, err)
		}
	}

	overview, err := f.service.GetWaitlistOverview(ctx, models.EventKindTournament, 1, nil)
	if err != nil {
		t.Fatalf("GetWaitlistOverview: %v", err)
	}
	if len(overview.Entries) != 2 {
		t.Errorf("len(Entries) = %d, want 2", len(overview.Entries))
	}
	if overview.Capacity == nil || !overview.Capacity.IsFull {
		t.Errorf("Capacity = %+v, want full", overview.Capacity)
	}
	for i, entry := range overview.Entries {
		if entry.Position != i+1 {
			t.Errorf("Entries[%d].Position = %d, want %d", i, entry.Position, i+1)
		}
	}
}
