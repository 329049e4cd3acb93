package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Envelope is the wire form pushed to subscribers.
type Envelope struct {
	Type    string          `json:"type"`
	Subject string          `json:"subject"`
	Time    time.Time       `json:"time"`
	Data    json.RawMessage `json:"data"`
}

func NewEnvelope(ev Event) (Envelope, error) {
	raw, err := json.Marshal(ev)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s: %w", ev.Type(), err)
	}
	return Envelope{Type: ev.Type(), Subject: ev.Subject(), Time: ev.OccurredAt(), Data: raw}, nil
}

type subscriber struct {
	subject string
	out     chan Envelope
}

// Hub broadcasts events to in-process subscribers keyed by subject.
// A slow subscriber loses its oldest pending envelope, never blocks Dispatch.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]subscriber
	buffer int
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 8
	}
	return &Hub{subs: map[int]subscriber{}, buffer: buffer}
}

// Subscribe streams envelopes whose subject matches until ctx is done.
func (h *Hub) Subscribe(ctx context.Context, subject string) (<-chan Envelope, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, fmt.Errorf("organization_id is required")
	}
	out := make(chan Envelope, h.buffer)

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = subscriber{subject: subject, out: out}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs, id)
		close(out)
		h.mu.Unlock()
	}()
	return out, nil
}

// Subscribers returns the number of live subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) Dispatch(_ context.Context, ev Event) error {
	env, err := NewEnvelope(ev)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, s := range h.subs {
		if s.subject == env.Subject {
			push(s.out, env)
		}
	}
	return nil
}

func push(out chan Envelope, env Envelope) {
	select {
	case out <- env:
		return
	default:
	}
	select {
	case <-out:
	default:
	}
	select {
	case out <- env:
	default:
	}
}
