package models

import "time"

type User struct {
	ID         int       `json:"id" db:"id"`
	FirstName  string    `json:"first_name" db:"first_name"`
	LastName   string    `json:"last_name" db:"last_name"`
	Nickname   *string   `json:"nickname,omitempty" db:"nickname"`
	Email      string    `json:"email" db:"email"`
	SkillLevel *string   `json:"skill_level,omitempty" db:"skill_level"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	LogoKey    *string   `json:"-" db:"logo_key"`
	LogoURL    *string   `json:"logo_url,omitempty" db:"-"`
}

// DisplayName prefers the nickname when set, falling back to first/last name.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Nickname != nil && *u.Nickname != "" {
		return *u.Nickname
	}
	name := u.FirstName
	if u.LastName != "" {
		name += " " + u.LastName
	}
	return name
}
