package models

import "time"

type SeasonStatus string

const (
	SeasonUpcoming  SeasonStatus = "upcoming"
	SeasonActive    SeasonStatus = "active"
	SeasonCompleted SeasonStatus = "completed"
)

type League struct {
	ID          int       `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	OrganizerID int       `json:"organizer_id" db:"organizer_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// LeagueSeason is one playing period of a league. Registration and
// waitlisting always target a season, never the league itself; callers
// pass a league id and the active season is resolved first.
type LeagueSeason struct {
	ID             int          `json:"id" db:"id"`
	LeagueID       int          `json:"league_id" db:"league_id"`
	Name           string       `json:"name" db:"name"`
	Status         SeasonStatus `json:"status" db:"status"`
	MaxPlayers     *int         `json:"max_players,omitempty" db:"max_players"`
	CurrentPlayers int          `json:"current_players" db:"current_players"`
	StartDate      time.Time    `json:"start_date" db:"start_date"`
	EndDate        time.Time    `json:"end_date" db:"end_date"`
}
