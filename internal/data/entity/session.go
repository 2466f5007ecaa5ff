package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is a bearer token issued by the auth service.
type Session struct {
	Token     uuid.UUID  `db:"token"`
	UserID    int64      `db:"user_id"`
	Role      UserRole   `db:"role"`
	ExpiresAt time.Time  `db:"expires_at"`
	RevokedAt *time.Time `db:"revoked_at"`
}
