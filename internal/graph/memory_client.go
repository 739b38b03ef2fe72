package graph

import (
	"context"
	"sync"
)

// MemoryClient is an in-memory Client used to test export logic without a
// running graph database.
type MemoryClient struct {
	mu           sync.Mutex
	writeCalls   []ExecutedQuery
	err          error
	connectivity error
}

// ExecutedQuery captures a cypher statement and parameters executed against
// the graph.
type ExecutedQuery struct {
	Query  string
	Params map[string]any
}

// NewMemoryClient instantiates the in-memory client.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{}
}

// WithError configures the client to return the provided error for
// subsequent write calls.
func (m *MemoryClient) WithError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// WithConnectivityError forces VerifyConnectivity to return the supplied
// error.
func (m *MemoryClient) WithConnectivityError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectivity = err
	return m
}

func (m *MemoryClient) ExecuteWrite(_ context.Context, cypher string, params map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.writeCalls = append(m.writeCalls, ExecutedQuery{
		Query:  cypher,
		Params: cloneMap(params),
	})
	return nil
}

func (m *MemoryClient) VerifyConnectivity(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connectivity
}

func (m *MemoryClient) Close(context.Context) error {
	return nil
}

// WriteCalls returns the recorded write statements in execution order.
func (m *MemoryClient) WriteCalls() []ExecutedQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]ExecutedQuery, len(m.writeCalls))
	copy(calls, m.writeCalls)
	return calls
}

func cloneMap(params map[string]any) map[string]any {
	if params == nil {
		return nil
	}
	clone := make(map[string]any, len(params))
	for k, v := range params {
		clone[k] = v
	}
	return clone
}
