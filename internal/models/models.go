package models

import "time"

// User is an identity record. The password hash never leaves the server.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	Name           *string   `json:"name"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Task is a unit of work owned by exactly one user. Serialized form is
// the wire shape for every task endpoint (timestamps UTC, RFC 3339).
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	IsCompleted bool      `json:"is_completed"`
	UserID      string    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskChanges carries the mutable task fields of an update request.
// A nil field means "leave unchanged"; at least one must be set.
type TaskChanges struct {
	Title       *string
	Description *string
	IsCompleted *bool
}

// Empty reports whether no field is set.
func (c TaskChanges) Empty() bool {
	return c.Title == nil && c.Description == nil && c.IsCompleted == nil
}

// UserPayload is the user summary returned by the auth endpoints,
// in the external auth provider's camelCase shape.
type UserPayload struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Name      *string `json:"name"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

// SessionPayload mirrors the external auth provider's session object.
// Sessions are self-contained bearer tokens; the ID is derived, not stored.
type SessionPayload struct {
	ID        string `json:"id"`
	ExpiresAt string `json:"expiresAt"`
	Token     string `json:"token"`
}

// AuthResponse is the sign-up / sign-in response body.
type AuthResponse struct {
	User    UserPayload    `json:"user"`
	Session SessionPayload `json:"session"`
	Token   string         `json:"token"`
}
