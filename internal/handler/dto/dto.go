// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/bookery/bookery/internal/model"
)

// CreateUserRequest represents the request body for registering a user.
type CreateUserRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Age       *int   `json:"age"`
}

// RegisteredResponse is the registration result. Only the identity of
// the new row comes back; the submitted fields are write-only.
type RegisteredResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// UserResponse represents a user in API responses. The credential hash
// is never part of this shape.
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	Age       *int      `json:"age,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ProfileResponse represents the caller's own profile with their books.
type ProfileResponse struct {
	User  UserResponse       `json:"user"`
	Books []BookItemResponse `json:"books"`
}

// CreateBookRequest represents the request body for creating a book.
type CreateBookRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdateBookRequest represents a partial book update. Absent fields
// stay nil and are left untouched.
type UpdateBookRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// BookItemResponse represents a book with a flat author reference,
// used inside profile responses where the full author row would be
// redundant.
type BookItemResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	AuthorID    string    `json:"author_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BookResponse represents a book with its author embedded.
type BookResponse struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Author      UserResponse `json:"author"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the session token back to the caller.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// MessageResponse is the single-message error shape used by the book
// endpoints for reachability and ownership failures.
type MessageResponse struct {
	Message string `json:"message"`
}

// ToRegisteredResponse converts a freshly created User to the trimmed
// registration shape.
func ToRegisteredResponse(user *model.User) RegisteredResponse {
	return RegisteredResponse{
		ID:       user.ID,
		Username: user.Username,
	}
}

// ToUserResponse converts a User model to UserResponse DTO.
func ToUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Age:       user.Age,
		CreatedAt: user.CreatedAt,
	}
}

// ToBookItemResponse converts a Book model to BookItemResponse DTO.
func ToBookItemResponse(book *model.Book) BookItemResponse {
	return BookItemResponse{
		ID:          book.ID,
		Title:       book.Title,
		Description: book.Description,
		AuthorID:    book.AuthorID,
		CreatedAt:   book.CreatedAt,
		UpdatedAt:   book.UpdatedAt,
	}
}

// ToBookResponse converts a BookWithAuthor model to BookResponse DTO.
func ToBookResponse(book *model.BookWithAuthor) BookResponse {
	resp := BookResponse{
		ID:          book.ID,
		Title:       book.Title,
		Description: book.Description,
		CreatedAt:   book.CreatedAt,
		UpdatedAt:   book.UpdatedAt,
	}
	if book.Author != nil {
		resp.Author = ToUserResponse(book.Author)
	}
	return resp
}

// ToBookListResponse converts a slice of BookWithAuthor models.
func ToBookListResponse(books []*model.BookWithAuthor) []BookResponse {
	responses := make([]BookResponse, len(books))
	for i, book := range books {
		responses[i] = ToBookResponse(book)
	}
	return responses
}

// ToProfileResponse converts a user and their books.
func ToProfileResponse(user *model.User, books []*model.Book) ProfileResponse {
	items := make([]BookItemResponse, len(books))
	for i, book := range books {
		items[i] = ToBookItemResponse(book)
	}
	return ProfileResponse{
		User:  ToUserResponse(user),
		Books: items,
	}
}
