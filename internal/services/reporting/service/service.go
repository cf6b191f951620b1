// Package service holds the reporting workflows: parameter building, summary aggregation,
// paginated recording lists with selection, and exports
package service

import (
	"context"
	"time"
)

// Registry is the port consumed by handlers and the module
type Registry interface {
	Create(ctx context.Context) *View
	Get(ctx context.Context, id string) (*View, error)
	Delete(ctx context.Context, id string) error
	Len() int
	Sweep(idle time.Duration) int
}

var _ Registry = (*Views)(nil)
