package queue

import "context"

// Client sends analysis jobs to a queue backend.
type Client interface {
	Send(ctx context.Context, job Job) error
}
