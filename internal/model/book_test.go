package model

import "testing"

func TestBook_IsAuthoredBy(t *testing.T) {
	t.Parallel()

	book := &Book{ID: "book-1", Title: "Go in Practice", AuthorID: "user-1"}

	if !book.IsAuthoredBy("user-1") {
		t.Error("expected author match for user-1")
	}
	if book.IsAuthoredBy("user-2") {
		t.Error("expected no author match for user-2")
	}
	if book.IsAuthoredBy("") {
		t.Error("empty identity must never match an author")
	}
}
