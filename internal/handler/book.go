package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bookery/bookery/internal/auth"
	"github.com/bookery/bookery/internal/handler/dto"
	"github.com/bookery/bookery/internal/service"
)

// Single-message bodies the book endpoints answer with.
const (
	msgInvalidURL = "Can not create book. Invalid url"
	msgNotAllowed = "Not allowed"
)

// BookHandler handles HTTP requests for book operations.
type BookHandler struct {
	svc    *service.BookService
	logger *slog.Logger
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(svc *service.BookService, logger *slog.Logger) *BookHandler {
	return &BookHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /api/v1/books/ and /api/v1/books/create_book/.
// The author is always the session identity.
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	if session == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req dto.CreateBookRequest
	fieldErrs, err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if fieldErrs.Any() {
		writeFieldErrors(w, fieldErrs)
		return
	}

	book, err := h.svc.Create(r.Context(), service.CreateBookInput{
		Title:       req.Title,
		Description: req.Description,
		AuthorID:    session.UserID,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("book_created",
		"book_id", book.ID,
		"author_id", session.UserID,
	)

	writeJSON(w, http.StatusCreated, dto.ToBookResponse(book))
}

// List handles GET /api/v1/books/.
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.svc.List(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToBookListResponse(books))
}

// Get handles GET /api/v1/books/{id}/.
// Retrieval is not ownership gated.
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Book ID is required")
		return
	}

	book, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToBookResponse(book))
}

// Update handles PUT and PATCH /api/v1/books/{id}/. Both verbs apply
// a partial update.
func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	if session == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Book ID is required")
		return
	}

	var req dto.UpdateBookRequest
	fieldErrs, err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if fieldErrs.Any() {
		writeFieldErrors(w, fieldErrs)
		return
	}

	book, err := h.svc.Update(r.Context(), service.UpdateBookInput{
		ID:          id,
		CallerID:    session.UserID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("book_updated",
		"book_id", book.ID,
		"author_id", session.UserID,
	)

	writeJSON(w, http.StatusOK, dto.ToBookResponse(book))
}

// handleServiceError maps service errors to HTTP responses.
func (h *BookHandler) handleServiceError(w http.ResponseWriter, err error) {
	if fieldErrs, ok := service.AsFieldErrors(err); ok {
		writeFieldErrors(w, fieldErrs)
		return
	}
	switch {
	case errors.Is(err, service.ErrExternalCheck):
		writeJSON(w, http.StatusBadRequest, dto.MessageResponse{Message: msgInvalidURL})
	case errors.Is(err, service.ErrNotAuthor):
		writeJSON(w, http.StatusForbidden, dto.MessageResponse{Message: msgNotAllowed})
	case errors.Is(err, service.ErrBookNotFound):
		writeError(w, http.StatusNotFound, "BOOK_NOT_FOUND", "Book not found")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
