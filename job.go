package qsim

import "time"

// Job is one unit of work handed to a pool worker.
type Job struct {
	ID        string
	Fn        func() error
	StartTime time.Time

	done chan<- error
}
