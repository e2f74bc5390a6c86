// Package orchestrator runs one rewrite: validate the input and the
// configuration, build the prompt, dispatch it to the selected provider and
// classify the outcome.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/valpere/reword/internal"
	"github.com/valpere/reword/internal/prompt"
	"github.com/valpere/reword/internal/provider"
)

// State is a step of the rewrite state machine.
type State int32

const (
	StateIdle State = iota
	StateValidating
	StateDispatching
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateDispatching:
		return "dispatching"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

type OrchestratorConfig struct {
	// Timeout bounds a single provider call; zero leaves it unbounded.
	Timeout time.Duration
	// Observer, when set, is called on every state transition.
	Observer func(from, to State)
	Logger   *zap.Logger
}

// Outcome is the result of one Rewrite call. Exactly one of Text and
// Failure is meaningful: Failure is nil on success.
type Outcome struct {
	RequestID string
	Provider  internal.Provider
	Text      string
	Failure   *Failure
	Latency   time.Duration
}

func (o Outcome) Succeeded() bool {
	return o.Failure == nil
}

// Err returns the failure as an error, or nil on success.
func (o Outcome) Err() error {
	if o.Failure == nil {
		return nil
	}
	return o.Failure
}

// Orchestrator allows at most one rewrite in flight; a concurrent call
// fails with KindBusy instead of dispatching.
type Orchestrator struct {
	providers provider.Registry
	config    OrchestratorConfig
	log       *zap.Logger
	state     atomic.Int32
}

func New(providers provider.Registry, config OrchestratorConfig) *Orchestrator {
	log := config.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		providers: providers,
		config:    config,
		log:       log,
	}
}

// State returns the current state.
func (o *Orchestrator) State() State {
	return State(o.state.Load())
}

func (o *Orchestrator) transition(from, to State) {
	o.state.Store(int32(to))
	if o.config.Observer != nil {
		o.config.Observer(from, to)
	}
}

// Rewrite rewrites rawInput according to cfg. It never returns an error
// directly; failures are carried in the Outcome.
func (o *Orchestrator) Rewrite(ctx context.Context, rawInput string, cfg internal.Configuration) (out Outcome) {
	out = Outcome{RequestID: uuid.NewString(), Provider: cfg.SelectedProvider}

	if !o.state.CompareAndSwap(int32(StateIdle), int32(StateValidating)) {
		out.Failure = busyFailure()
		o.log.Warn("rewrite rejected", zap.String("request_id", out.RequestID), zap.String("kind", string(KindBusy)))
		return out
	}
	if o.config.Observer != nil {
		o.config.Observer(StateIdle, StateValidating)
	}

	log := o.log.With(zap.String("request_id", out.RequestID))

	// a panicking client must not leave the orchestrator busy
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		out.Text = ""
		out.Failure = &Failure{
			Kind:     KindUnclassified,
			Message:  fmt.Sprintf("rewrite aborted: %v", r),
			Provider: cfg.SelectedProvider.DisplayName(),
		}
		log.Error("rewrite panicked", zap.Any("panic", r), zap.Stack("stack"))
		from := o.State()
		o.transition(from, StateFailed)
		o.transition(StateFailed, StateIdle)
	}()

	client, credential, failure := o.validate(rawInput, cfg)
	if failure != nil {
		out.Failure = failure
		o.finish(log, StateValidating, out)
		return out
	}

	o.transition(StateValidating, StateDispatching)

	req := prompt.NewRequest(rawInput, cfg)

	log.Info("dispatching rewrite",
		zap.String("provider", client.Name()),
		zap.String("style", string(cfg.SelectedStyle)),
		zap.Bool("custom_instruction", cfg.CustomInstruction != ""),
		zap.Int("input_len", len(req.RawInput)),
		zap.Int("prompt_len", len(req.FullPrompt)))

	dispatchCtx := ctx
	if o.config.Timeout > 0 {
		var cancel context.CancelFunc
		dispatchCtx, cancel = context.WithTimeout(ctx, o.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := client.Rewrite(dispatchCtx, req.FullPrompt, credential)
	out.Latency = time.Since(start)

	if err != nil {
		out.Failure = classify(client.Name(), err, ctx.Err(), dispatchCtx.Err(), o.config.Timeout)
	} else {
		out.Text = text
	}

	o.finish(log, StateDispatching, out)
	return out
}

// validate checks, in order, the input, the provider selection and the
// credential. Only the first problem is reported.
func (o *Orchestrator) validate(rawInput string, cfg internal.Configuration) (provider.Client, string, *Failure) {
	if strings.TrimSpace(rawInput) == "" {
		return nil, "", validationFailure(ErrEmptyInput, "Please enter some text to rewrite")
	}

	if !cfg.SelectedProvider.Valid() {
		return nil, "", validationFailure(ErrUnknownProvider,
			fmt.Sprintf("Unknown provider %q", cfg.SelectedProvider))
	}

	credential := cfg.Credential(cfg.SelectedProvider)
	if credential == "" {
		return nil, "", validationFailure(ErrMissingCredential,
			fmt.Sprintf("Please set your %s API key", cfg.SelectedProvider.DisplayName()))
	}

	client, err := o.providers.Lookup(cfg.SelectedProvider)
	if err != nil {
		return nil, "", &Failure{Kind: KindUnclassified, Message: err.Error(), Cause: err}
	}

	return client, credential, nil
}

func (o *Orchestrator) finish(log *zap.Logger, from State, out Outcome) {
	terminal := StateSucceeded
	if out.Failure != nil {
		terminal = StateFailed
		log.Warn("rewrite failed",
			zap.String("kind", string(out.Failure.Kind)),
			zap.Int("status", out.Failure.Status),
			zap.Duration("latency", out.Latency))
	} else {
		log.Info("rewrite succeeded",
			zap.Int("output_len", len(out.Text)),
			zap.Duration("latency", out.Latency))
	}

	o.transition(from, terminal)
	o.transition(terminal, StateIdle)
}
