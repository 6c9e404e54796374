package models

import (
	"time"

	"github.com/google/uuid"
)

type EventKind string

const (
	EventKindTournament EventKind = "tournament"
	EventKindLeague     EventKind = "league"
)

type WaitlistStatus string

const (
	WaitlistStatusWaitlisted  WaitlistStatus = "waitlisted"
	WaitlistStatusSpotOffered WaitlistStatus = "spot_offered"
	WaitlistStatusConfirmed   WaitlistStatus = "confirmed"
	WaitlistStatusWithdrawn   WaitlistStatus = "withdrawn"
	WaitlistStatusExpired     WaitlistStatus = "expired"
)

// WaitlistEntry is one user queued for one event. Tournament entries use
// an ascending positive position sequence starting at 1. League entries
// store a negative rank that decreases monotonically; the user-facing
// position is its absolute value, so the entry closest to zero is first
// in line and the sequence never needs renumbering after removals.
type WaitlistEntry struct {
	ID            int            `json:"id" db:"id"`
	EventKind     EventKind      `json:"event_kind" db:"event_kind"`
	TournamentID  *int           `json:"tournament_id,omitempty" db:"tournament_id"`
	DivisionID    *int           `json:"division_id,omitempty" db:"division_id"`
	LeagueID      *int           `json:"league_id,omitempty" db:"league_id"`
	SeasonID      *int           `json:"season_id,omitempty" db:"season_id"`
	UserID        int            `json:"user_id" db:"user_id"`
	Status        WaitlistStatus `json:"status" db:"status"`
	Position      int            `json:"position" db:"position"`
	OfferToken    *uuid.UUID     `json:"offer_token,omitempty" db:"offer_token"`
	SpotOfferedAt *time.Time     `json:"spot_offered_at,omitempty" db:"spot_offered_at"`
	SpotExpiresAt *time.Time     `json:"spot_expires_at,omitempty" db:"spot_expires_at"`
	RegisteredAt  time.Time      `json:"registered_at" db:"registered_at"`

	// Joined user display fields for organizer views, populated on list queries.
	User *User `json:"user,omitempty" db:"-"`
}

// DisplayPosition returns the user-facing queue position regardless of
// which numbering scheme the entry uses.
func (e *WaitlistEntry) DisplayPosition() int {
	if e.Position < 0 {
		return -e.Position
	}
	return e.Position
}

// OfferExpired reports whether the entry holds a spot offer whose
// acceptance window has passed.
func (e *WaitlistEntry) OfferExpired(now time.Time) bool {
	return e.Status == WaitlistStatusSpotOffered &&
		e.SpotExpiresAt != nil &&
		now.After(*e.SpotExpiresAt)
}
