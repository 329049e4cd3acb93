package events

import (
	"context"
	"fmt"
	"net/http"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CloudEventsSink posts events to an HTTP CloudEvents sink.
type CloudEventsSink struct {
	client  cloudevents.Client
	target  string
	retries int
	logger  *zap.SugaredLogger
}

// NewCloudEventsSink builds an HTTP client for target. Connections are not kept alive.
func NewCloudEventsSink(target string, logger *zap.SugaredLogger) (*CloudEventsSink, error) {
	var transport http.RoundTripper = &http.Transport{DisableKeepAlives: true}
	p, err := cloudevents.NewHTTP(cloudevents.WithRoundTripper(transport))
	if err != nil {
		return nil, fmt.Errorf("create cloudevents http protocol: %w", err)
	}
	c, err := cloudevents.NewClient(p, cloudevents.WithUUIDs(), cloudevents.WithTimeNow())
	if err != nil {
		return nil, fmt.Errorf("create cloudevents client: %w", err)
	}
	return NewCloudEventsSinkWithClient(c, target, logger), nil
}

func NewCloudEventsSinkWithClient(c cloudevents.Client, target string, logger *zap.SugaredLogger) *CloudEventsSink {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &CloudEventsSink{client: c, target: target, retries: 3, logger: logger}
}

// ToCloudEvent wraps a domain event with a JSON payload.
func ToCloudEvent(ev Event) (cloudevents.Event, error) {
	out := cloudevents.NewEvent()
	out.SetID(uuid.New().String())
	out.SetSource(Source)
	out.SetType(ev.Type())
	out.SetSubject(ev.Subject())
	if at := ev.OccurredAt(); !at.IsZero() {
		out.SetTime(at)
	}
	if err := out.SetData(cloudevents.ApplicationJSON, ev); err != nil {
		return cloudevents.Event{}, fmt.Errorf("encode %s: %w", ev.Type(), err)
	}
	return out, nil
}

func (s *CloudEventsSink) Dispatch(ctx context.Context, ev Event) error {
	out, err := ToCloudEvent(ev)
	if err != nil {
		return err
	}
	if s.target != "" {
		ctx = cloudevents.ContextWithTarget(ctx, s.target)
	}
	ctx = cloudevents.ContextWithRetriesExponentialBackoff(ctx, 10*time.Millisecond, s.retries)
	s.logger.Debugw("sending cloudevent", "type", out.Type(), "id", out.ID())
	if result := s.client.Send(ctx, out); !cloudevents.IsACK(result) {
		s.logger.Warnw("failed to send cloudevent", "type", out.Type(), "error", result.Error())
		return fmt.Errorf("send cloudevent %s: %w", out.ID(), result)
	}
	return nil
}
