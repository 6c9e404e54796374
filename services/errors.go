package services

import "errors"

// Shared errors used across services and for HTTP status mapping.
var (
	// Generic "resource not found"
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business-rule errors
	ErrValidationFailed  = errors.New("validation failed")
	ErrAlreadyOnWaitlist = errors.New("user already has an active waitlist entry for this event")

	// Entity-specific errors (more context than the generic ErrNotFound)
	ErrUserNotFound       = errors.New("user not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrDivisionNotFound   = errors.New("tournament division not found")
	ErrLeagueNotFound     = errors.New("league not found")
	ErrSeasonNotFound     = errors.New("league season not found")
	ErrNoActiveSeason     = errors.New("no active season found for this league")

	// Waitlist state errors
	ErrWaitlistEntryNotFound = errors.New("waitlist entry not found")
)
