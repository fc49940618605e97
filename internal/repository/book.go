package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bookery/bookery/internal/model"
)

// Common errors for book repository operations.
var (
	ErrBookNotFound   = errors.New("book not found")
	ErrAuthorNotFound = errors.New("author not found")
)

// CreateBook inserts a new book after confirming the author row exists.
// Both steps run in one transaction so a missing author leaves nothing
// persisted.
func (r *Repository) CreateBook(ctx context.Context, book *model.Book) error {
	return r.InTx(ctx, func(tx pgx.Tx) error {
		return createBookTx(ctx, tx, book)
	})
}

// CreateBookTx inserts a book inside an existing transaction. Exposed
// for callers composing larger atomic units.
func (r *Repository) CreateBookTx(ctx context.Context, tx pgx.Tx, book *model.Book) error {
	return createBookTx(ctx, tx, book)
}

// CreateUserTx inserts a user inside an existing transaction.
func (r *Repository) CreateUserTx(ctx context.Context, tx pgx.Tx, user *model.User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, first_name, last_name, age, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := tx.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Age,
		user.CreatedAt,
	)

	if err != nil {
		if ie := asIntegrityError(err); ie != nil {
			return ie
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func createBookTx(ctx context.Context, tx pgx.Tx, book *model.Book) error {
	var exists bool
	err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, book.AuthorID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check author existence: %w", err)
	}
	if !exists {
		return ErrAuthorNotFound
	}

	query := `
		INSERT INTO books (id, title, description, author_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = tx.Exec(ctx, query,
		book.ID,
		book.Title,
		book.Description,
		book.AuthorID,
		book.CreatedAt,
		book.UpdatedAt,
	)

	if err != nil {
		if ie := asIntegrityError(err); ie != nil {
			return ie
		}
		return fmt.Errorf("failed to create book: %w", err)
	}

	return nil
}

// GetBookByID retrieves a book together with its author row.
func (r *Repository) GetBookByID(ctx context.Context, id string) (*model.BookWithAuthor, error) {
	query := `
		SELECT b.id, b.title, b.description, b.author_id, b.created_at, b.updated_at,
		       u.id, u.username, u.email, u.password_hash, u.first_name, u.last_name, u.age, u.created_at
		FROM books b
		JOIN users u ON u.id = b.author_id
		WHERE b.id = $1
	`

	book, err := scanBookWithAuthor(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book by ID: %w", err)
	}

	return book, nil
}

// ListBooks retrieves all books with author information.
// No filtering or pagination; the whole collection is in scope.
func (r *Repository) ListBooks(ctx context.Context) ([]*model.BookWithAuthor, error) {
	query := `
		SELECT b.id, b.title, b.description, b.author_id, b.created_at, b.updated_at,
		       u.id, u.username, u.email, u.password_hash, u.first_name, u.last_name, u.age, u.created_at
		FROM books b
		JOIN users u ON u.id = b.author_id
		ORDER BY b.created_at, b.id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	var books []*model.BookWithAuthor
	for rows.Next() {
		book, err := scanBookWithAuthor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, book)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating books: %w", err)
	}

	return books, nil
}

// ListBooksByAuthor retrieves all books authored by one user.
func (r *Repository) ListBooksByAuthor(ctx context.Context, authorID string) ([]*model.Book, error) {
	query := `
		SELECT id, title, description, author_id, created_at, updated_at
		FROM books
		WHERE author_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, query, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list books by author: %w", err)
	}
	defer rows.Close()

	var books []*model.Book
	for rows.Next() {
		var book model.Book
		err := rows.Scan(
			&book.ID,
			&book.Title,
			&book.Description,
			&book.AuthorID,
			&book.CreatedAt,
			&book.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, &book)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating books: %w", err)
	}

	return books, nil
}

// UpdateBook persists a book's mutable fields (title, description).
func (r *Repository) UpdateBook(ctx context.Context, book *model.Book) error {
	query := `
		UPDATE books
		SET title = $2, description = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		book.ID,
		book.Title,
		book.Description,
		book.UpdatedAt,
	)

	if err != nil {
		if ie := asIntegrityError(err); ie != nil {
			return ie
		}
		return fmt.Errorf("failed to update book: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrBookNotFound
	}

	return nil
}

// CountBooks returns the total number of book rows.
func (r *Repository) CountBooks(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM books`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count books: %w", err)
	}
	return count, nil
}

// scanBookWithAuthor scans a joined books/users row.
func scanBookWithAuthor(row pgx.Row) (*model.BookWithAuthor, error) {
	var book model.BookWithAuthor
	var author model.User
	err := row.Scan(
		&book.ID,
		&book.Title,
		&book.Description,
		&book.AuthorID,
		&book.CreatedAt,
		&book.UpdatedAt,
		&author.ID,
		&author.Username,
		&author.Email,
		&author.PasswordHash,
		&author.FirstName,
		&author.LastName,
		&author.Age,
		&author.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	book.Author = &author
	return &book, nil
}
