package contact

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// DefaultResetDelay is how long Submitted or Failed is shown before the form
// returns to Idle.
const DefaultResetDelay = 5000 * time.Millisecond

var (
	ErrUnknownField     = errors.New("unknown contact field")
	ErrSubmitInProgress = errors.New("submission already in progress")
	ErrClosed           = errors.New("contact form closed")
)

// State is the submission lifecycle of a form.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateSubmitted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSubmitted:
		return "submitted"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// View is a point-in-time copy of a controller, safe to hand to templates.
type View struct {
	Fields  Fields
	Errors  Errors
	State   State
	Failure string
}

// Controller owns the state of one visitor's contact form. Every mutation,
// including the delayed ones, happens under mu so the form is observed as a
// single logical thread.
type Controller struct {
	clock      clockwork.Clock
	gateway    Gateway
	resetDelay time.Duration
	logger     zerolog.Logger

	mu      sync.Mutex
	fields  Fields
	errs    Errors
	state   State
	failure string

	// gen identifies the current submission; callbacks from older ones are
	// dropped.
	gen    uint64
	cancel context.CancelFunc
	reset  clockwork.Timer
	closed bool

	// inflight counts running deliver goroutines.
	inflight sync.WaitGroup
}

type Option func(*Controller)

func WithClock(clock clockwork.Clock) Option {
	return func(c *Controller) { c.clock = clock }
}

func WithGateway(gw Gateway) Option {
	return func(c *Controller) { c.gateway = gw }
}

func WithResetDelay(d time.Duration) Option {
	return func(c *Controller) { c.resetDelay = d }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// NewController returns an Idle form with empty fields. Without WithGateway
// submissions go through a SimulatedGateway on the controller's clock.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		resetDelay: DefaultResetDelay,
		logger:     zerolog.Nop(),
		errs:       Errors{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.clock == nil {
		c.clock = clockwork.NewRealClock()
	}
	if c.gateway == nil {
		c.gateway = NewSimulatedGateway(c.clock, DefaultSubmitDelay)
	}
	return c
}

// EditField stores value and drops any error recorded for field. The field is
// not revalidated until the next Submit.
func (c *Controller) EditField(field Field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	if !c.fields.Set(field, value) {
		return ErrUnknownField
	}
	delete(c.errs, field)
	return nil
}

// Submit validates the form and, when it is valid, starts delivery. Invalid
// input is reported through the View, not as an error.
func (c *Controller) Submit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.state == StateSubmitting {
		return ErrSubmitInProgress
	}

	c.errs = Validate(c.fields)
	if len(c.errs) > 0 {
		return nil
	}

	if c.reset != nil {
		c.reset.Stop()
		c.reset = nil
	}
	c.gen++
	c.state = StateSubmitting
	c.failure = ""

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.inflight.Add(1)
	go c.deliver(ctx, c.gen, c.fields)
	return nil
}

func (c *Controller) deliver(ctx context.Context, gen uint64, fields Fields) {
	defer c.inflight.Done()
	err := c.gateway.Send(ctx, fields)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || gen != c.gen {
		return
	}
	c.cancel()
	c.cancel = nil

	if err != nil {
		c.logger.Warn().Err(err).Msg("contact delivery failed")
		c.state = StateFailed
		c.failure = err.Error()
	} else {
		c.state = StateSubmitted
		c.fields = Fields{}
	}
	c.reset = c.clock.AfterFunc(c.resetDelay, func() { c.autoReset(gen) })
}

func (c *Controller) autoReset(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || gen != c.gen {
		return
	}
	if c.state != StateSubmitted && c.state != StateFailed {
		return
	}
	c.state = StateIdle
	c.failure = ""
	c.reset = nil
}

func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	return View{
		Fields:  c.fields,
		Errors:  c.errs.clone(),
		State:   c.state,
		Failure: c.failure,
	}
}

// Close tears the form down. A pending delivery is cancelled and no delayed
// transition runs afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.reset != nil {
		c.reset.Stop()
		c.reset = nil
	}
}
