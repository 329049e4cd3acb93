// Package events carries domain events out of use cases to external observers.
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"

	"publisher/internal/gateway/entity"
)

const (
	// Source is the CloudEvents source attribute for every event emitted here.
	Source = "publisher/gateway"

	TypeDeploymentCompleted = "dev.packmind.deployment.completed.v1"
)

// Event is a domain event ready for dispatch.
type Event interface {
	Type() string
	// Subject scopes the event, usually to an organization.
	Subject() string
	OccurredAt() time.Time
}

// Dispatcher delivers events. Implementations must be safe for concurrent use.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev Event) error
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(ctx context.Context, ev Event) error

func (f DispatcherFunc) Dispatch(ctx context.Context, ev Event) error { return f(ctx, ev) }

// DeploymentCompleted summarizes one publish call.
type DeploymentCompleted struct {
	UserID         entity.UserID         `json:"userId"`
	OrganizationID entity.OrganizationID `json:"organizationId"`
	TargetIDs      []entity.TargetID     `json:"targetIds"`
	RecipeCount    int                   `json:"recipeCount"`
	StandardCount  int                   `json:"standardCount"`
	// Statuses counts distributions per outcome.
	Statuses map[entity.DistributionStatus]int `json:"statuses"`
	Source   string                            `json:"source"`
	At       time.Time                         `json:"occurredAt"`
}

func (DeploymentCompleted) Type() string { return TypeDeploymentCompleted }

func (e DeploymentCompleted) Subject() string { return e.OrganizationID.String() }

func (e DeploymentCompleted) OccurredAt() time.Time { return e.At }

// DispatchAll sends every event, collecting failures.
func DispatchAll(ctx context.Context, d Dispatcher, evs []Event) error {
	if d == nil {
		return nil
	}
	var result *multierror.Error
	for _, ev := range evs {
		if err := d.Dispatch(ctx, ev); err != nil {
			result = multierror.Append(result, fmt.Errorf("dispatch %s: %w", ev.Type(), err))
		}
	}
	return result.ErrorOrNil()
}
