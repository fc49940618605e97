package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookery/bookery/internal/handler/dto"
	"github.com/bookery/bookery/internal/service"
)

func newUserHandler(store *fakeStore) *UserHandler {
	return NewUserHandler(service.NewUserService(store, nil), testLogger())
}

func TestUserHandler_Create(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	h := newUserHandler(store)

	body := `{"username":"alice","email":"alice@example.com","password":"s3cret-pass","first_name":"Alice","age":30}`
	req := httptest.NewRequest("POST", "/api/v1/users/create_user/", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.RegisteredResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "alice", resp.Username)

	// registration input beyond the identity is write-only
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "argon2id")
	assert.NotContains(t, rec.Body.String(), "alice@example.com")
	assert.NotContains(t, rec.Body.String(), "Alice")
	assert.NotContains(t, rec.Body.String(), "age")
}

func TestUserHandler_Create_FieldErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantField  string
		wantErrMsg string
	}{
		{
			name:       "missing username",
			body:       `{"email":"a@example.com","password":"s3cret-pass"}`,
			wantField:  "username",
			wantErrMsg: "This field is required.",
		},
		{
			name:       "missing password",
			body:       `{"username":"alice","email":"a@example.com"}`,
			wantField:  "password",
			wantErrMsg: "This field is required.",
		},
		{
			name:       "invalid email",
			body:       `{"username":"alice","email":"alex@authors","password":"s3cret-pass"}`,
			wantField:  "email",
			wantErrMsg: "Enter a valid email address.",
		},
		{
			name:       "age below minimum",
			body:       `{"username":"alice","email":"a@example.com","password":"s3cret-pass","age":9}`,
			wantField:  "age",
			wantErrMsg: "Age must be between 10 and 100.",
		},
		{
			name:       "age wrong type",
			body:       `{"username":"alice","email":"a@example.com","password":"s3cret-pass","age":"ten"}`,
			wantField:  "age",
			wantErrMsg: "A valid integer is required.",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newUserHandler(newFakeStore())

			req := httptest.NewRequest("POST", "/api/v1/users/create_user/", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			h.Create(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code)

			var fieldErrs map[string][]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fieldErrs))
			require.Contains(t, fieldErrs, tt.wantField)
			assert.Contains(t, fieldErrs[tt.wantField], tt.wantErrMsg)
		})
	}
}

func TestUserHandler_Create_DuplicateUsername(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.addUser(t, "u1", "alice", "alice@example.com", "s3cret-pass")
	h := newUserHandler(store)

	body := `{"username":"alice","email":"other@example.com","password":"s3cret-pass"}`
	req := httptest.NewRequest("POST", "/api/v1/users/create_user/", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var fieldErrs map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fieldErrs))
	assert.Contains(t, fieldErrs["username"], "A user with that username already exists.")

	// nothing was persisted alongside the existing row
	assert.Len(t, store.users, 1)
}

func TestUserHandler_Create_InvalidJSON(t *testing.T) {
	t.Parallel()

	h := newUserHandler(newFakeStore())

	req := httptest.NewRequest("POST", "/api/v1/users/create_user/", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserHandler_Own(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.addUser(t, "u1", "alice", "alice@example.com", "s3cret-pass")
	store.addUser(t, "u2", "bob", "bob@example.com", "s3cret-pass")
	store.addBook("b1", "Mine", "u1")
	store.addBook("b2", "Theirs", "u2")
	h := newUserHandler(store)

	req := withSession(httptest.NewRequest("GET", "/api/v1/users/own/", nil), "u1", "alice")
	rec := httptest.NewRecorder()

	h.Own(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.ProfileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp.User.Username)
	require.Len(t, resp.Books, 1)
	assert.Equal(t, "Mine", resp.Books[0].Title)
	assert.Equal(t, "u1", resp.Books[0].AuthorID)
}

func TestUserHandler_Own_NoSession(t *testing.T) {
	t.Parallel()

	h := newUserHandler(newFakeStore())

	req := httptest.NewRequest("GET", "/api/v1/users/own/", nil)
	rec := httptest.NewRecorder()

	h.Own(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
