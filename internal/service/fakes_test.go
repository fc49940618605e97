package service

import (
	"context"
	"time"

	"github.com/bookery/bookery/internal/model"
	"github.com/bookery/bookery/internal/repository"
)

// fakeStore is an in-memory UserStore/BookStore/CredentialStore used
// by the service tests.
type fakeStore struct {
	users map[string]*model.User // by ID
	books map[string]*model.Book // by ID

	createUserErr error
	createBookErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users: make(map[string]*model.User),
		books: make(map[string]*model.Book),
	}
}

func (f *fakeStore) CreateUser(_ context.Context, user *model.User) error {
	if f.createUserErr != nil {
		return f.createUserErr
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeStore) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeStore) UsernameExists(_ context.Context, username string) (bool, error) {
	for _, user := range f.users {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) EmailExists(_ context.Context, email string) (bool, error) {
	for _, user := range f.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CreateBook(_ context.Context, book *model.Book) error {
	if f.createBookErr != nil {
		return f.createBookErr
	}
	if _, ok := f.users[book.AuthorID]; !ok {
		return repository.ErrAuthorNotFound
	}
	copied := *book
	f.books[book.ID] = &copied
	return nil
}

func (f *fakeStore) GetBookByID(_ context.Context, id string) (*model.BookWithAuthor, error) {
	book, ok := f.books[id]
	if !ok {
		return nil, repository.ErrBookNotFound
	}
	return &model.BookWithAuthor{Book: *book, Author: f.users[book.AuthorID]}, nil
}

func (f *fakeStore) ListBooks(_ context.Context) ([]*model.BookWithAuthor, error) {
	var out []*model.BookWithAuthor
	for _, book := range f.books {
		out = append(out, &model.BookWithAuthor{Book: *book, Author: f.users[book.AuthorID]})
	}
	return out, nil
}

func (f *fakeStore) ListBooksByAuthor(_ context.Context, authorID string) ([]*model.Book, error) {
	var out []*model.Book
	for _, book := range f.books {
		if book.AuthorID == authorID {
			out = append(out, book)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateBook(_ context.Context, book *model.Book) error {
	if _, ok := f.books[book.ID]; !ok {
		return repository.ErrBookNotFound
	}
	copied := *book
	f.books[book.ID] = &copied
	return nil
}

// fakeChecker is a controllable ReachChecker.
type fakeChecker struct {
	err   error
	calls int
}

func (f *fakeChecker) Check(_ context.Context) error {
	f.calls++
	return f.err
}

// fakeSessionStore is an in-memory SessionStore.
type fakeSessionStore struct {
	sessions map[string]*model.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*model.Session)}
}

func (f *fakeSessionStore) GetSession(_ context.Context, digest string) (*model.Session, error) {
	session, ok := f.sessions[digest]
	if !ok || session.Expired(time.Now()) {
		return nil, nil
	}
	return session, nil
}

func (f *fakeSessionStore) SetSession(_ context.Context, digest string, session *model.Session, _ time.Duration) error {
	f.sessions[digest] = session
	return nil
}

func (f *fakeSessionStore) DeleteSession(_ context.Context, digest string) error {
	delete(f.sessions, digest)
	return nil
}
