package dto

import "time"

// UserResponse represents user data returned to clients.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// UserStatsResponse carries the admin dashboard counters.
type UserStatsResponse struct {
	TotalUsers  int `json:"total_users"`
	ActiveToday int `json:"active_today"`
	NewThisWeek int `json:"new_this_week"`
}
