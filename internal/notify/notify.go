// Package notify delivers request lifecycle notifications. Delivery is
// fire and forget: a failed or missing notification never fails the
// operation that triggered it.
package notify

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/attenda/attenda/internal/db/models"
	"github.com/attenda/attenda/internal/workflow"
)

// Service implements workflow.Notifier. Events are handed off to a
// goroutine so the caller never blocks on delivery.
type Service struct {
	sinks []Sink
}

// Sink receives rendered notification events. Implementations must be
// safe for concurrent use.
type Sink interface {
	Deliver(event Event) error
}

// Event is a rendered notification.
type Event struct {
	MessageID   string
	RecipientID uint64
	Kind        workflow.Kind
	RequestID   uint64
	Status      models.RequestStatus
	Subject     string
}

// New creates a notification service fanning out to the given sinks.
func New(sinks ...Sink) *Service {
	return &Service{sinks: sinks}
}

// NotifyDecision implements workflow.Notifier. The recipient is resolved by
// the sink from the request id; the event itself carries the outcome.
func (s *Service) NotifyDecision(requestID uint64, kind workflow.Kind, outcome models.RequestStatus) {
	s.dispatch(Event{
		MessageID: uuid.NewString(),
		Kind:      kind,
		RequestID: requestID,
		Status:    outcome,
		Subject:   "your " + string(kind) + " request was " + string(outcome),
	})
}

// NotifyPendingApproval implements workflow.Notifier.
func (s *Service) NotifyPendingApproval(requestID uint64, kind workflow.Kind, managerID uint64) {
	s.dispatch(Event{
		MessageID:   uuid.NewString(),
		RecipientID: managerID,
		Kind:        kind,
		RequestID:   requestID,
		Status:      models.StatusPending,
		Subject:     "a " + string(kind) + " request is waiting for your decision",
	})
}

// dispatch fans the event out in the background. Sink errors are logged
// and dropped.
func (s *Service) dispatch(event Event) {
	go func() {
		for _, sink := range s.sinks {
			if err := sink.Deliver(event); err != nil {
				log.Warn().Err(err).
					Str("message_id", event.MessageID).
					Uint64("recipient_id", event.RecipientID).
					Str("kind", string(event.Kind)).
					Uint64("request_id", event.RequestID).
					Msg("notification delivery failed")
			}
		}
	}()
}

// LogSink writes notifications to the application log. It is the default
// sink when no mail transport is configured.
type LogSink struct{}

// Deliver implements Sink.
func (LogSink) Deliver(event Event) error {
	log.Info().
		Str("message_id", event.MessageID).
		Uint64("recipient_id", event.RecipientID).
		Str("kind", string(event.Kind)).
		Uint64("request_id", event.RequestID).
		Str("status", string(event.Status)).
		Msg(event.Subject)

	return nil
}
