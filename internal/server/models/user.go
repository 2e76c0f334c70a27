package models

import "time"

// User is a registered account. PasswordHash is never serialised.
type User struct {
	ID           int64     `json:"id"`
	UserName     string    `json:"username"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"created_at"`
}

// PublicUser is the projection of a User that may leave the server.
type PublicUser struct {
	ID       int64  `json:"id"`
	UserName string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

// Public strips everything that must not be returned to clients.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, UserName: u.UserName, IsAdmin: u.IsAdmin}
}

// UserSummary is the admin listing projection of a User.
type UserSummary struct {
	ID        int64     `json:"id"`
	UserName  string    `json:"username"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, UserName: u.UserName, IsAdmin: u.IsAdmin, CreatedAt: u.CreatedAt}
}
