// Package graph provides the client used by the offline graphsync tool to
// mirror the loaded dataset into a graph database. It is never touched by
// the serving path, which is in-memory only.
package graph

import (
	"context"
	"errors"
)

// Client is the minimal contract required to push dataset batches into the
// graph database.
type Client interface {
	ExecuteWrite(ctx context.Context, cypher string, params map[string]any) error
	VerifyConnectivity(ctx context.Context) error
	Close(ctx context.Context) error
}

// Options configures a graph client implementation.
type Options struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// ErrMissingURI indicates the graph URI is not provided.
var ErrMissingURI = errors.New("graph URI is required")
