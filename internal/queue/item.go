package queue

import (
	"context"

	"github.com/umbraco/Umbraco.AI-sub015/internal/domain"
	"github.com/umbraco/Umbraco.AI-sub015/internal/scope"
)

// Action is the deferred unit of work carried by a WorkItem.
//
// The scope is created by the consumer at execution time, never by the
// producer, so an Action must not capture request-bound resources.
type Action func(ctx context.Context, s *scope.Scope) error

// WorkItem is an immutable descriptor of one deferred unit of work.
// The zero value is not a valid item and is rejected by Enqueue.
type WorkItem struct {
	name          string
	correlationID string
	action        Action
}

// NewWorkItem builds a WorkItem. It returns ErrInvalidWorkItem when action is nil.
func NewWorkItem(name, correlationID string, action Action) (WorkItem, error) {
	if action == nil {
		return WorkItem{}, domain.ErrInvalidWorkItem
	}
	return WorkItem{name: name, correlationID: correlationID, action: action}, nil
}

// Name is the human-readable identifier used in logs and metric labels.
func (w WorkItem) Name() string { return w.name }

// CorrelationID ties the item to the request or event that produced it.
// Empty when the producer had none.
func (w WorkItem) CorrelationID() string { return w.correlationID }

// Valid reports whether the item carries an invocable action.
func (w WorkItem) Valid() bool { return w.action != nil }

// Run invokes the item's action with the given scope.
func (w WorkItem) Run(ctx context.Context, s *scope.Scope) error {
	if w.action == nil {
		return domain.ErrInvalidWorkItem
	}
	return w.action(ctx, s)
}
