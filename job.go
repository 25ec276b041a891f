package qcircuit

import "time"

// Job is one independent run scheduled on the pool. Fn must own every
// register and random source it uses.
type Job struct {
	ID        string
	Fn        func() (Counts, error)
	Shots     int
	TTL       time.Duration
	StartTime time.Time
}

// JobOption is a function type for configuring jobs
type JobOption func(*Job)

// WithTTL configures how long the result stays awaitable
func WithTTL(ttl time.Duration) JobOption {
	return func(j *Job) {
		j.TTL = ttl
	}
}

// WithShots records the shot count of the job in the pool metrics
func WithShots(shots int) JobOption {
	return func(j *Job) {
		j.Shots = shots
	}
}
