// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Account metrics
	IncUserRegistered()
	IncRegistrationRejected()

	// Book metrics
	IncBookCreated()
	IncBookUpdated()

	// Auth metrics
	IncLogin(status string) // status: "success" or "failure"
	IncAuthRejected()

	// Reachability check metrics
	IncReachCheck(status string) // status: "ok" or "failed"
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
