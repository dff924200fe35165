// Package backend opens the configured storage and wires the expense service
// to it, with or without event publishing.
package backend

import (
	"context"

	"riepilogo/internal/ports"
	"riepilogo/internal/services"
)

// CleanupFunc closes the store and the event publisher.
type CleanupFunc func() error

type BackendResult struct {
	Store    ports.Store
	Expenses *services.ExpenseService
	Cleanup  CleanupFunc
}

type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

type Config struct {
	Type         BackendType
	SQLiteDBPath string

	// An empty AMQPURL runs the service without events.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// BackendType selects the ports.Store implementation.
type BackendType string

const (
	MemoryBackend BackendType = "memory"
	SQLiteBackend BackendType = "sqlite"
)

func (bt BackendType) String() string { return string(bt) }

func (bt BackendType) IsValid() bool {
	return bt == MemoryBackend || bt == SQLiteBackend
}
