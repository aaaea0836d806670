package model

import (
	"time"
)

// AdminCredential is the stored admin login. PasswordHash never leaves the
// credential store.
type AdminCredential struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Name         string     `db:"name" json:"name"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"lastLoginAt"`
}

func (c *AdminCredential) Profile() *AdminProfile {
	return &AdminProfile{
		ID:          c.ID,
		Email:       c.Email,
		Name:        c.Name,
		LastLoginAt: c.LastLoginAt,
	}
}

type AdminProfile struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

type UpsertAdminParams struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
}

type DashboardStats struct {
	Posts   int `json:"posts"`
	Reviews int `json:"reviews"`
	Media   int `json:"media"`
}
