package entity

import "time"

// Session preuve d'authentification éphémère liée à un compte. Jamais
// modifiée après création : elle expire ou est explicitement invalidée.
type Session struct {
	ID        string // uuid opaque généré à l'émission
	AccountID int64
	IPAddress string
	UserAgent *string
	ExpiresAt time.Time
	Active    bool
	CreatedAt time.Time
}

// Valid indique si la session est utilisable à l'instant donné.
func (s Session) Valid(now time.Time) bool {
	return s.Active && now.Before(s.ExpiresAt)
}
