package events

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
)

// Fanout sends every event to all dispatchers; one failing sink does not stop the rest.
type Fanout []Dispatcher

func (f Fanout) Dispatch(ctx context.Context, ev Event) error {
	var result *multierror.Error
	for _, d := range f {
		if d == nil {
			continue
		}
		if err := d.Dispatch(ctx, ev); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// Log writes events to the logger.
type Log struct {
	Logger *zap.SugaredLogger
}

func (l Log) Dispatch(_ context.Context, ev Event) error {
	if l.Logger == nil {
		return nil
	}
	fields := []any{"type", ev.Type(), "subject", ev.Subject()}
	if dc, ok := ev.(DeploymentCompleted); ok {
		fields = append(fields,
			"userId", dc.UserID.String(),
			"targetsCount", len(dc.TargetIDs),
			"recipeCount", dc.RecipeCount,
			"standardCount", dc.StandardCount,
		)
	}
	l.Logger.Infow("event dispatched", fields...)
	return nil
}
