package storage

import "context"

// RemoteStore replicates run documents to a durable remote location.
// Implementations live outside this core; replication is best-effort and
// a failure never fails the run.
type RemoteStore interface {
	// Put stores body under key and returns a locator URI for it.
	Put(ctx context.Context, key string, body []byte) (string, error)
}
