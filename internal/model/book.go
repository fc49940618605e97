package model

import "time"

// Field length limits enforced at validation and by the storage schema.
const (
	MaxTitleLength       = 50
	MaxDescriptionLength = 1000
)

// Book represents a book authored by a user.
type Book struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	AuthorID    string    `json:"author_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BookWithAuthor pairs a book with its author row for list and
// retrieve responses.
type BookWithAuthor struct {
	Book
	Author *User `json:"author"`
}

// IsAuthoredBy reports whether the given user authored the book.
func (b *Book) IsAuthoredBy(userID string) bool {
	return userID != "" && b.AuthorID == userID
}
