// Package queue provides the work-item queue that decouples request handlers
// from background workers. Producers enqueue and return immediately; the
// outcome of a job is never reported back to the producer.
package queue

import "context"

// Handler processes one dequeued payload. A returned error fails the job and
// routes the payload to the queue's failure channel; it is never surfaced to
// the caller that enqueued the job.
type Handler func(ctx context.Context, payload []byte) error

// Queue is the job queue contract.
type Queue interface {
	// Enqueue serializes payload as JSON and appends it to the named queue.
	Enqueue(ctx context.Context, queueName string, payload any) error
	// Consume pulls jobs from the named queue and runs handler on each,
	// one at a time, until ctx is cancelled.
	Consume(ctx context.Context, queueName string, handler Handler) error
}
