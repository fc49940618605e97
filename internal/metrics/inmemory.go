package metrics

import "sync/atomic"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersRegistered        uint64
	RegistrationsRejected  uint64
	BooksCreated           uint64
	BooksUpdated           uint64
	LoginSuccesses         uint64
	LoginFailures          uint64
	AuthRejected           uint64
	ReachChecksOK          uint64
	ReachChecksFailed      uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	usersRegistered       uint64
	registrationsRejected uint64
	booksCreated          uint64
	booksUpdated          uint64
	loginSuccesses        uint64
	loginFailures         uint64
	authRejected          uint64
	reachChecksOK         uint64
	reachChecksFailed     uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersRegistered:       atomic.LoadUint64(&m.usersRegistered),
		RegistrationsRejected: atomic.LoadUint64(&m.registrationsRejected),
		BooksCreated:          atomic.LoadUint64(&m.booksCreated),
		BooksUpdated:          atomic.LoadUint64(&m.booksUpdated),
		LoginSuccesses:        atomic.LoadUint64(&m.loginSuccesses),
		LoginFailures:         atomic.LoadUint64(&m.loginFailures),
		AuthRejected:          atomic.LoadUint64(&m.authRejected),
		ReachChecksOK:         atomic.LoadUint64(&m.reachChecksOK),
		ReachChecksFailed:     atomic.LoadUint64(&m.reachChecksFailed),
	}
}

// IncUserRegistered increments the registered users counter.
func (m *InMemoryRecorder) IncUserRegistered() {
	atomic.AddUint64(&m.usersRegistered, 1)
}

// IncRegistrationRejected increments the rejected registrations counter.
func (m *InMemoryRecorder) IncRegistrationRejected() {
	atomic.AddUint64(&m.registrationsRejected, 1)
}

// IncBookCreated increments the created books counter.
func (m *InMemoryRecorder) IncBookCreated() {
	atomic.AddUint64(&m.booksCreated, 1)
}

// IncBookUpdated increments the updated books counter.
func (m *InMemoryRecorder) IncBookUpdated() {
	atomic.AddUint64(&m.booksUpdated, 1)
}

// IncLogin increments the login counter for the given status.
func (m *InMemoryRecorder) IncLogin(status string) {
	if status == "success" {
		atomic.AddUint64(&m.loginSuccesses, 1)
		return
	}
	atomic.AddUint64(&m.loginFailures, 1)
}

// IncAuthRejected increments the rejected requests counter.
func (m *InMemoryRecorder) IncAuthRejected() {
	atomic.AddUint64(&m.authRejected, 1)
}

// IncReachCheck increments the reachability check counter.
func (m *InMemoryRecorder) IncReachCheck(status string) {
	if status == "ok" {
		atomic.AddUint64(&m.reachChecksOK, 1)
		return
	}
	atomic.AddUint64(&m.reachChecksFailed, 1)
}
