package distribution

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/handiism/distro-wizard/internal/wizard"
)

var (
	// ErrSubmissionInFlight is returned when Submit is called while a
	// previous call is still waiting for the server.
	ErrSubmissionInFlight = errors.New("a submission is already in progress")

	// ErrAlreadySubmitted is returned after a successful submission until
	// Reset is called.
	ErrAlreadySubmitted = errors.New("release already submitted")

	// ErrNotFinalStep is returned when Submit is called before the last
	// wizard step.
	ErrNotFinalStep = errors.New("submit is only available on the last step")

	// ErrValidation means the last step has field errors; they are stored
	// in the session.
	ErrValidation = errors.New("please fix the highlighted fields")

	// ErrNotSubmitting is returned by Finish without a matching Prepare.
	ErrNotSubmitting = errors.New("no submission in progress")

	// ErrSubmissionFailed means the submission ended in the failed state.
	// The user-facing reason is available from Message.
	ErrSubmissionFailed = errors.New("submission failed")
)

// Creator sends a distribution request to the platform.
type Creator interface {
	CreateDistributionRequest(ctx context.Context, p *Payload) error
}

// ProgressLevel indicates the kind of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent is a human-readable update about a submission.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Orchestrator runs the submit action of a wizard session: it re-validates
// the last step, assembles the payload, calls the Creator and records the
// outcome.
//
// At most one submission is in flight per Orchestrator. Orchestrator is
// safe to query from another goroutine while Submit runs.
type Orchestrator struct {
	session    *wizard.Session
	creator    Creator
	logger     *log.Logger
	onProgress func(ProgressEvent)

	mu      sync.Mutex
	busy    bool
	machine *submissionMachine
	message string
}

// NewOrchestrator creates an Orchestrator for session.
//
// logger and onProgress may be nil.
func NewOrchestrator(session *wizard.Session, creator Creator, logger *log.Logger, onProgress func(ProgressEvent)) (*Orchestrator, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	machine, err := newSubmissionMachine()
	if err != nil {
		return nil, err
	}
	return &Orchestrator{
		session:    session,
		creator:    creator,
		logger:     logger,
		onProgress: onProgress,
		machine:    machine,
	}, nil
}

// Status returns the current submission status.
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.machine.status()
}

// Message returns the failure message of the last submission, if any.
func (o *Orchestrator) Message() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.message
}

// Busy reports whether a submission is waiting for the server.
func (o *Orchestrator) Busy() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.busy
}

// Submit sends the release. It is Prepare, Send and Finish in one call.
//
// It returns nil on success. On failure the session's fields and step are
// left as they were so the user can fix them and call Submit again.
func (o *Orchestrator) Submit(ctx context.Context) error {
	payload, err := o.Prepare()
	if err != nil {
		return err
	}
	return o.Finish(payload, o.Send(ctx, payload))
}

// Prepare re-validates the last step, assembles the payload and moves to
// submitting. It reads and writes the session, so it must run on the
// goroutine that owns the session.
func (o *Orchestrator) Prepare() (*Payload, error) {
	payload, event, err := o.begin()
	o.progress(event)
	if err != nil {
		return nil, err
	}
	o.progress(ProgressEvent{Message: "Submitting distribution request...", Level: LevelInfo})
	return payload, nil
}

// Send calls the Creator with a prepared payload. It does not touch the
// session and may run on any goroutine.
func (o *Orchestrator) Send(ctx context.Context, p *Payload) error {
	return o.creator.CreateDistributionRequest(ctx, p)
}

// Finish records the result of Send. Like Prepare, it runs on the
// goroutine that owns the session.
func (o *Orchestrator) Finish(p *Payload, callErr error) error {
	event, err := o.finish(p, callErr)
	o.progress(event)
	return err
}

// begin runs the synchronous checks of Submit and moves to submitting.
func (o *Orchestrator) begin() (*Payload, ProgressEvent, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.busy {
		return nil, ProgressEvent{}, ErrSubmissionInFlight
	}
	if o.machine.done() {
		return nil, ProgressEvent{}, ErrAlreadySubmitted
	}
	if !o.session.IsLastStep() {
		return nil, ProgressEvent{}, ErrNotFinalStep
	}

	if errs := o.session.Validate(); !errs.Empty() {
		return nil, ProgressEvent{Message: ErrValidation.Error(), Level: LevelWarning}, ErrValidation
	}

	payload, err := Assemble(o.session.Fields())
	if err != nil {
		o.message = MsgNoAudioFile
		o.machine.send(EventReject)
		o.logger.Warn("submission rejected", "session", o.session.ID(), "err", err)
		return nil, ProgressEvent{Message: o.message, Level: LevelError}, ErrSubmissionFailed
	}

	o.busy = true
	o.message = ""
	o.machine.send(EventSubmit)
	o.logger.Debug("submission started", "session", o.session.ID(), "status", o.machine.status())
	return payload, ProgressEvent{}, nil
}

// finish records the outcome of the create call.
func (o *Orchestrator) finish(payload *Payload, callErr error) (ProgressEvent, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.busy {
		return ProgressEvent{}, ErrNotSubmitting
	}
	o.busy = false

	if callErr != nil {
		o.message = userMessage(callErr)
		o.machine.send(EventFail)
		o.logger.Warn("distribution request failed", "session", o.session.ID(), "err", callErr)
		return ProgressEvent{Message: o.message, Level: LevelError}, ErrSubmissionFailed
	}

	o.message = ""
	o.machine.send(EventSucceed)
	o.logger.Info("distribution request created", "session", o.session.ID(), "caption", payload.Caption)
	return ProgressEvent{Message: "Distribution request submitted", Level: LevelSuccess}, nil
}

// Reset clears the session and returns the orchestrator to idle. It fails
// while a submission is in flight.
func (o *Orchestrator) Reset(now time.Time) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.busy {
		return ErrSubmissionInFlight
	}
	machine, err := newSubmissionMachine()
	if err != nil {
		return err
	}
	o.machine = machine
	o.message = ""
	o.session.Reset(now)
	return nil
}

func (o *Orchestrator) progress(event ProgressEvent) {
	if o.onProgress != nil && event.Message != "" {
		o.onProgress(event)
	}
}

// userMessager is implemented by errors that carry text meant for the
// user rather than for logs.
type userMessager interface {
	UserMessage() string
}

func userMessage(err error) string {
	var um userMessager
	if errors.As(err, &um) {
		return um.UserMessage()
	}
	return err.Error()
}
