package contact

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// DefaultSubmitDelay is how long the simulated delivery takes.
const DefaultSubmitDelay = 1500 * time.Millisecond

// Gateway delivers a validated submission. A nil error means the message was
// accepted.
type Gateway interface {
	Send(ctx context.Context, f Fields) error
}

// GatewayFunc adapts a plain function to Gateway.
type GatewayFunc func(ctx context.Context, f Fields) error

func (fn GatewayFunc) Send(ctx context.Context, f Fields) error {
	return fn(ctx, f)
}

// SimulatedGateway pretends to deliver by waiting Delay and succeeding.
type SimulatedGateway struct {
	clock clockwork.Clock
	delay time.Duration
}

func NewSimulatedGateway(clock clockwork.Clock, delay time.Duration) *SimulatedGateway {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &SimulatedGateway{clock: clock, delay: delay}
}

func (g *SimulatedGateway) Send(ctx context.Context, _ Fields) error {
	select {
	case <-g.clock.After(g.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LoggingGateway records the outcome of every delivery. Only field sizes are
// logged, never the submitted text.
type LoggingGateway struct {
	next   Gateway
	logger zerolog.Logger
}

func NewLoggingGateway(next Gateway, logger zerolog.Logger) *LoggingGateway {
	return &LoggingGateway{next: next, logger: logger.With().Str("component", "contact_gateway").Logger()}
}

func (l *LoggingGateway) Send(ctx context.Context, f Fields) error {
	err := l.next.Send(ctx, f)
	ev, msg := l.logger.Info(), "contact submission delivered"
	if err != nil {
		ev, msg = l.logger.Warn().Err(err), "contact submission failed"
	}
	ev.Int("subject_len", len(f.Subject)).
		Int("message_len", len(f.Message)).
		Msg(msg)
	return err
}
