package models

import "time"

// TournamentStatus represents tournament statuses, matching the ENUM in the DB.
type TournamentStatus string

const (
	StatusSoon         TournamentStatus = "soon"
	StatusRegistration TournamentStatus = "registration"
	StatusActive       TournamentStatus = "active"
	StatusCompleted    TournamentStatus = "completed"
	StatusCanceled     TournamentStatus = "canceled"
)

type Tournament struct {
	ID                  int              `json:"id" db:"id"`
	Name                string           `json:"name" db:"name"`
	Description         *string          `json:"description,omitempty" db:"description"`
	OrganizerID         int              `json:"organizer_id" db:"organizer_id"`
	VenueID             *int             `json:"venue_id,omitempty" db:"venue_id"`
	Location            *string          `json:"location,omitempty" db:"location"`
	Status              TournamentStatus `json:"status" db:"status"`
	MaxParticipants     *int             `json:"max_participants,omitempty" db:"max_participants"`
	CurrentParticipants int              `json:"current_participants" db:"current_participants"`
	RegDate             time.Time        `json:"reg_date" db:"reg_date"`
	StartDate           time.Time        `json:"start_date" db:"start_date"`
	EndDate             time.Time        `json:"end_date" db:"end_date"`
	CreatedAt           time.Time        `json:"created_at" db:"created_at"`
	LogoKey             *string          `json:"-" db:"logo_key"`
	LogoURL             *string          `json:"logo_url,omitempty" db:"-"`

	// Optional linked entities, populated by the service layer.
	Organizer *User                `json:"organizer,omitempty" db:"-"`
	Divisions []TournamentDivision `json:"divisions,omitempty" db:"-"`
}

// TournamentDivision partitions a tournament's draw by skill/age bracket.
// Waitlist position sequences are scoped per division when one is set.
type TournamentDivision struct {
	ID           int     `json:"id" db:"id"`
	TournamentID int     `json:"tournament_id" db:"tournament_id"`
	Name         string  `json:"name" db:"name"`
	SkillLevel   *string `json:"skill_level,omitempty" db:"skill_level"`
}
