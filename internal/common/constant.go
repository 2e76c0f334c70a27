// Package common contains shared constants and sentinel errors used across
// linkshare components.
package common

// AuthorizationHeaderName is the HTTP header carrying the session token.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix is the case-sensitive scheme prefix expected in the
// Authorization header, including the single separating space.
const BearerPrefix = "Bearer "

// AdminUserName is the account created by the startup admin seeding.
const AdminUserName = "admin"
