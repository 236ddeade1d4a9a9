package models

import "time"

// PostBase is the client-supplied part of a post, after validation.
type PostBase struct {
	Name      string     `json:"name"`
	Message   string     `json:"message"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// Post is a stored post as returned to clients.
type Post struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
