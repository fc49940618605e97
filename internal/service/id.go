package service

import "github.com/oklog/ulid/v2"

// newID generates a sortable unique identifier for new rows.
func newID() string {
	return ulid.Make().String()
}
