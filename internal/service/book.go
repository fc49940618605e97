package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bookery/bookery/internal/metrics"
	"github.com/bookery/bookery/internal/model"
	"github.com/bookery/bookery/internal/repository"
)

// BookStore is the storage surface the book service depends on.
// *repository.Repository satisfies it.
type BookStore interface {
	CreateBook(ctx context.Context, book *model.Book) error
	GetBookByID(ctx context.Context, id string) (*model.BookWithAuthor, error)
	ListBooks(ctx context.Context) ([]*model.BookWithAuthor, error)
	UpdateBook(ctx context.Context, book *model.Book) error
}

// ReachChecker is the outbound probe gating book creation.
type ReachChecker interface {
	Check(ctx context.Context) error
}

// BookService handles book listing, creation, retrieval and updates.
type BookService struct {
	store   BookStore
	check   ReachChecker
	metrics metrics.Recorder
}

// NewBookService creates a new BookService.
func NewBookService(store BookStore, check ReachChecker, recorder metrics.Recorder) *BookService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &BookService{
		store:   store,
		check:   check,
		metrics: recorder,
	}
}

// CreateBookInput defines input for creating a book. AuthorID is the
// session identity, never a client-supplied value.
type CreateBookInput struct {
	Title       string
	Description string
	AuthorID    string
}

// Create persists a new book for the caller. Order of preconditions:
// the reachability check runs first and any failure rejects the whole
// request, then field validation, then the author row is confirmed and
// the insert committed in one transaction.
func (s *BookService) Create(ctx context.Context, input CreateBookInput) (*model.BookWithAuthor, error) {
	if err := s.check.Check(ctx); err != nil {
		s.metrics.IncReachCheck("failed")
		return nil, fmt.Errorf("%w: %v", ErrExternalCheck, err)
	}
	s.metrics.IncReachCheck("ok")

	if fieldErrs := validateBookFields(input.Title, input.Description); fieldErrs.Any() {
		return nil, fieldErrs
	}

	now := time.Now().UTC()
	book := &model.Book{
		ID:          newID(),
		Title:       input.Title,
		Description: input.Description,
		AuthorID:    input.AuthorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateBook(ctx, book); err != nil {
		if errors.Is(err, repository.ErrAuthorNotFound) {
			fieldErrs := FieldErrors{}
			fieldErrs.Add("author", "Author does not exist.")
			return nil, fieldErrs
		}
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.metrics.IncBookCreated()

	created, err := s.store.GetBookByID(ctx, book.ID)
	if err != nil {
		return nil, fmt.Errorf("load created book: %w", err)
	}

	return created, nil
}

// Get retrieves a book by ID. Reads are not ownership-gated.
func (s *BookService) Get(ctx context.Context, id string) (*model.BookWithAuthor, error) {
	book, err := s.store.GetBookByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("get book: %w", err)
	}

	return book, nil
}

// List retrieves all books with author information.
func (s *BookService) List(ctx context.Context) ([]*model.BookWithAuthor, error) {
	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	return books, nil
}

// UpdateBookInput defines a partial update. Nil fields are left as-is,
// so PUT and PATCH share the same semantics.
type UpdateBookInput struct {
	ID          string
	CallerID    string
	Title       *string
	Description *string
}

// Update applies the supplied fields to a book. Only the stored author
// may mutate it; any other caller gets ErrNotAuthor and the book is
// left unmodified.
func (s *BookService) Update(ctx context.Context, input UpdateBookInput) (*model.BookWithAuthor, error) {
	existing, err := s.store.GetBookByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("get book: %w", err)
	}

	if !existing.IsAuthoredBy(input.CallerID) {
		return nil, ErrNotAuthor
	}

	book := existing.Book
	if input.Title != nil {
		book.Title = *input.Title
	}
	if input.Description != nil {
		book.Description = *input.Description
	}

	if fieldErrs := validateBookFields(book.Title, book.Description); fieldErrs.Any() {
		return nil, fieldErrs
	}

	book.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateBook(ctx, &book); err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("update book: %w", err)
	}

	s.metrics.IncBookUpdated()

	return &model.BookWithAuthor{Book: book, Author: existing.Author}, nil
}
