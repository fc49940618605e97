package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bookery/bookery/internal/auth"
	"github.com/bookery/bookery/internal/metrics"
	"github.com/bookery/bookery/internal/model"
	"github.com/bookery/bookery/internal/repository"
)

// UserStore is the storage surface the user service depends on.
// *repository.Repository satisfies it.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	ListBooksByAuthor(ctx context.Context, authorID string) ([]*model.Book, error)
}

// UserService handles registration and profile retrieval.
type UserService struct {
	store   UserStore
	metrics metrics.Recorder
}

// NewUserService creates a new UserService.
func NewUserService(store UserStore, recorder metrics.Recorder) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserService{
		store:   store,
		metrics: recorder,
	}
}

// RegisterInput defines input for registering a user.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Age       *int
}

// Register validates the input, hashes the credential, and persists a
// new user. All field failures are collected into one FieldErrors so
// the client sees every problem at once; nothing is persisted on
// failure. Uniqueness is pre-checked here; a concurrent duplicate that
// slips past the pre-check fails on the storage constraint instead.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	fieldErrs := validateRegistration(input)

	if input.Username != "" {
		taken, err := s.store.UsernameExists(ctx, input.Username)
		if err != nil {
			return nil, fmt.Errorf("check username: %w", err)
		}
		if taken {
			fieldErrs.Add("username", msgUsernameDup)
		}
	}

	if input.Email != "" && validEmail(input.Email) {
		taken, err := s.store.EmailExists(ctx, input.Email)
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if taken {
			fieldErrs.Add("email", msgEmailDup)
		}
	}

	if fieldErrs.Any() {
		s.metrics.IncRegistrationRejected()
		return nil, fieldErrs
	}

	passwordHash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           newID(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: passwordHash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Age:          input.Age,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.metrics.IncUserRegistered()

	return user, nil
}

// Profile bundles a user with the books they authored.
type Profile struct {
	User  *model.User
	Books []*model.Book
}

// GetProfile returns the caller's own profile with every book they
// authored.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	books, err := s.store.ListBooksByAuthor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list authored books: %w", err)
	}

	return &Profile{User: user, Books: books}, nil
}
