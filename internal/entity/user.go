package entity

import (
	"time"

	"github.com/google/uuid"
)

// User represents a profile row in the external store. Its ID equals the
// identity provider's subject identifier; the two records correlate 1:1.
type User struct {
	ID         uuid.UUID  `json:"id"`
	Email      string     `json:"email"`
	Name       string     `json:"name"`
	Role       string     `json:"role"`
	CreatedAt  time.Time  `json:"created_at"`
	LastSeenAt *time.Time `json:"last_seen_at,omitempty"`
}

// UserStats aggregates profile counts for the admin dashboard.
type UserStats struct {
	TotalUsers  int `json:"total_users"`
	ActiveToday int `json:"active_today"`
	NewThisWeek int `json:"new_this_week"`
}
