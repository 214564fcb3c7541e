package models

import (
	"time"

	"github.com/google/uuid"
)

type RefreshToken struct {
	Token     string
	UserID    uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time // nil if token not revoked
}

// Usable reports whether the token may still resolve its owner at the given moment
func (t RefreshToken) Usable(now time.Time) bool {
	return t.RevokedAt == nil && now.Before(t.ExpiresAt)
}

type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
}

// Token pair issued on login
type TokenPair struct {
	Access  IssuedToken
	Refresh IssuedToken
}
