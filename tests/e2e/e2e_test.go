//go:build e2e

// Package e2e exercises a running server end to end: register, log in,
// create and update books, and check the ownership and reachability
// rules through the real HTTP surface.
//
// Requires a server started with REACHCHECK_URL pointing at a
// reachable endpoint.
package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type bookResponse struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Author      userResponse `json:"author"`
}

type profileResponse struct {
	User  userResponse `json:"user"`
	Books []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	} `json:"books"`
}

func TestE2ESmoke(t *testing.T) {
	baseURL := envOrDefault("BOOKERY_BASE_URL", "http://localhost:8080")
	waitForServer(t, baseURL)

	suffix := time.Now().UnixNano()
	aliceName := fmt.Sprintf("alice%d", suffix)
	bobName := fmt.Sprintf("bob%d", suffix)
	password := "e2e-s3cret-pass"

	alice := registerUser(t, baseURL, aliceName, password)
	bob := registerUser(t, baseURL, bobName, password)

	aliceToken := login(t, baseURL, aliceName, password)
	bobToken := login(t, baseURL, bobName, password)

	// unauthenticated access is rejected
	var ignored any
	if status := doJSON(t, http.MethodGet, baseURL+"/api/v1/books/", "", nil, &ignored); status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous list, got %d", status)
	}

	book := createBook(t, baseURL, aliceToken, "E2E Chronicles")
	if book.Author.ID != alice.ID {
		t.Fatalf("book author = %s, want %s", book.Author.ID, alice.ID)
	}

	// bob cannot modify alice's book
	payload := map[string]any{"title": "Hijacked"}
	var msg struct {
		Message string `json:"message"`
	}
	status := doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/v1/books/%s/", baseURL, book.ID), bobToken, payload, &msg)
	if status != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign update, got %d", status)
	}
	if msg.Message != "Not allowed" {
		t.Fatalf("unexpected 403 body message: %q", msg.Message)
	}

	// alice can
	var updated bookResponse
	payload = map[string]any{"description": "written by the suite"}
	status = doJSON(t, http.MethodPatch, fmt.Sprintf("%s/api/v1/books/%s/", baseURL, book.ID), aliceToken, payload, &updated)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from update, got %d", status)
	}
	if updated.Title != "E2E Chronicles" || updated.Description != "written by the suite" {
		t.Fatalf("partial update wrong: %+v", updated)
	}

	// alice's profile holds her book; bob's does not
	aliceProfile := getProfile(t, baseURL, aliceToken)
	if !profileHasBook(aliceProfile, book.ID) {
		t.Fatalf("alice's profile missing book %s", book.ID)
	}
	bobProfile := getProfile(t, baseURL, bobToken)
	if profileHasBook(bobProfile, book.ID) {
		t.Fatalf("bob's profile should not contain alice's book")
	}
	_ = bob

	// logout revokes the session
	if status := doJSON(t, http.MethodPost, baseURL+"/auth/api/v1/logout/", aliceToken, nil, nil); status != http.StatusNoContent {
		t.Fatalf("expected 204 from logout, got %d", status)
	}
	if status := doJSON(t, http.MethodGet, baseURL+"/api/v1/users/own/", aliceToken, nil, &ignored); status != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", status)
	}
}

func TestE2EValidation(t *testing.T) {
	baseURL := envOrDefault("BOOKERY_BASE_URL", "http://localhost:8080")
	waitForServer(t, baseURL)

	// registration with missing fields returns the field error map
	var fieldErrs map[string][]string
	status := doJSON(t, http.MethodPost, baseURL+"/api/v1/users/create_user/", "", map[string]any{"email": "x@example.com"}, &fieldErrs)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for incomplete registration, got %d", status)
	}
	for _, field := range []string{"username", "password"} {
		if len(fieldErrs[field]) == 0 {
			t.Errorf("expected field error for %q, got %v", field, fieldErrs)
		}
	}

	// bad credentials are rejected
	var ignored any
	status = doJSON(t, http.MethodPost, baseURL+"/auth/api/v1/login/", "", map[string]any{"username": "nobody", "password": "nope"}, &ignored)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad credentials, got %d", status)
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func waitForServer(t *testing.T, baseURL string) {
	t.Helper()

	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(15 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := client.Get(baseURL + "/healthz")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Skipf("server at %s not reachable", baseURL)
}

func registerUser(t *testing.T, baseURL, username, password string) userResponse {
	t.Helper()

	payload := map[string]any{
		"username": username,
		"email":    username + "@example.com",
		"password": password,
	}

	var resp userResponse
	status := doJSON(t, http.MethodPost, baseURL+"/api/v1/users/create_user/", "", payload, &resp)
	if status != http.StatusCreated {
		t.Fatalf("expected 201 from register, got %d", status)
	}
	if resp.ID == "" {
		t.Fatalf("register response missing id")
	}
	return resp
}

func login(t *testing.T, baseURL, username, password string) string {
	t.Helper()

	payload := map[string]any{
		"username": username,
		"password": password,
	}

	var resp loginResponse
	status := doJSON(t, http.MethodPost, baseURL+"/auth/api/v1/login/", "", payload, &resp)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from login, got %d", status)
	}
	if resp.Token == "" {
		t.Fatalf("login response missing token")
	}
	return resp.Token
}

func createBook(t *testing.T, baseURL, token, title string) bookResponse {
	t.Helper()

	payload := map[string]any{
		"title":       title,
		"description": "created by the e2e suite",
	}

	var resp bookResponse
	status := doJSON(t, http.MethodPost, baseURL+"/api/v1/books/create_book/", token, payload, &resp)
	if status != http.StatusCreated {
		t.Fatalf("expected 201 from book create, got %d", status)
	}
	if resp.ID == "" {
		t.Fatalf("book create response missing id")
	}
	return resp
}

func getProfile(t *testing.T, baseURL, token string) profileResponse {
	t.Helper()

	var resp profileResponse
	status := doJSON(t, http.MethodGet, baseURL+"/api/v1/users/own/", token, nil, &resp)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from profile, got %d", status)
	}
	return resp
}

func profileHasBook(profile profileResponse, bookID string) bool {
	for _, book := range profile.Books {
		if book.ID == bookID {
			return true
		}
	}
	return false
}

func doJSON(t *testing.T, method, url, token string, body any, out any) int {
	t.Helper()

	var buf io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		buf = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, url, buf)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if strings.TrimSpace(token) != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request %s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	if out != nil {
		decoder := json.NewDecoder(resp.Body)
		if err := decoder.Decode(out); err != nil && err != io.EOF {
			t.Fatalf("decode response: %v", err)
		}
	}

	return resp.StatusCode
}
