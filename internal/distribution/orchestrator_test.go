package distribution

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/distro-wizard/internal/model"
	"github.com/handiism/distro-wizard/internal/wizard"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fakeCreator struct {
	mu       sync.Mutex
	calls    int
	err      error
	payloads []*Payload
	block    chan struct{}
	started  chan struct{}
}

func (f *fakeCreator) CreateDistributionRequest(ctx context.Context, p *Payload) error {
	f.mu.Lock()
	f.calls++
	f.payloads = append(f.payloads, p)
	f.mu.Unlock()

	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	return f.err
}

type messageError struct{ msg string }

func (e *messageError) Error() string       { return "status 409: " + e.msg }
func (e *messageError) UserMessage() string { return e.msg }

// readySession returns a session on the last step with every field valid.
func readySession(t *testing.T) *wizard.Session {
	t.Helper()
	s := wizard.NewSession(testNow, nil)

	s.SetHasDistributed(model.DistributedNo)
	s.SetArtistName("Nova")
	require.True(t, s.GoNext())
	s.SetTitle("Sunrise")
	require.True(t, s.GoNext())
	s.SetCoverArt(file("cover.jpg"))
	s.SetAudioFile(file("sunrise.mp3"))
	require.True(t, s.GoNext())
	s.SetGenre("Afrobeats")
	s.SetReleaseDate("2025-07-01")
	s.SetCopyrightOwner("Nova")
	s.SetSongwriterAt(0, "Nova")
	s.SetLyrics("words")
	require.True(t, s.GoNext())
	for _, name := range model.KnownAgreements {
		s.SetAgreement(name, true)
	}
	return s
}

func TestOrchestrator_Success(t *testing.T) {
	s := readySession(t)
	before := s.Fields().Clone()
	creator := &fakeCreator{}

	var events []ProgressEvent
	o, err := NewOrchestrator(s, creator, nil, func(e ProgressEvent) { events = append(events, e) })
	require.NoError(t, err)
	assert.Equal(t, StatusIdle, o.Status())

	require.NoError(t, o.Submit(context.Background()))

	assert.Equal(t, StatusSucceeded, o.Status())
	assert.Equal(t, 1, creator.calls)
	assert.Equal(t, "Sunrise", creator.payloads[0].Caption)
	assert.Equal(t, before, s.Fields(), "success must not touch fields")
	require.NotEmpty(t, events)
	assert.Equal(t, LevelSuccess, events[len(events)-1].Level)

	assert.ErrorIs(t, o.Submit(context.Background()), ErrAlreadySubmitted)
	assert.Equal(t, 1, creator.calls)
}

func TestOrchestrator_SubmittingStatusWhileInFlight(t *testing.T) {
	s := readySession(t)
	creator := &fakeCreator{block: make(chan struct{}), started: make(chan struct{}, 1)}
	o, err := NewOrchestrator(s, creator, nil, nil)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- o.Submit(context.Background()) }()

	<-creator.started
	assert.Equal(t, StatusSubmitting, o.Status())
	assert.True(t, o.Busy())
	assert.ErrorIs(t, o.Submit(context.Background()), ErrSubmissionInFlight)
	assert.ErrorIs(t, o.Reset(testNow), ErrSubmissionInFlight)

	close(creator.block)
	require.NoError(t, <-done)
	assert.Equal(t, StatusSucceeded, o.Status())
	assert.Equal(t, 1, creator.calls)
}

func TestOrchestrator_CallFailureKeepsData(t *testing.T) {
	s := readySession(t)
	before := s.Fields().Clone()
	creator := &fakeCreator{err: &messageError{msg: "Insufficient funds"}}
	o, err := NewOrchestrator(s, creator, nil, nil)
	require.NoError(t, err)

	err = o.Submit(context.Background())

	assert.ErrorIs(t, err, ErrSubmissionFailed)
	assert.Equal(t, StatusFailed, o.Status())
	assert.Equal(t, "Insufficient funds", o.Message())
	assert.Equal(t, before, s.Fields())
	assert.Equal(t, wizard.StepDistribution, s.Step())

	creator.err = nil
	require.NoError(t, o.Submit(context.Background()), "retry from failed")
	assert.Equal(t, StatusSucceeded, o.Status())
	assert.Empty(t, o.Message())
}

func TestOrchestrator_PlainErrorMessage(t *testing.T) {
	s := readySession(t)
	o, err := NewOrchestrator(s, &fakeCreator{err: errors.New("boom")}, nil, nil)
	require.NoError(t, err)

	assert.ErrorIs(t, o.Submit(context.Background()), ErrSubmissionFailed)
	assert.Equal(t, "boom", o.Message())
}

func TestOrchestrator_ValidationErrorsStayIdle(t *testing.T) {
	s := readySession(t)
	s.SetAgreement(model.AgreementTerms, false)
	creator := &fakeCreator{}
	o, err := NewOrchestrator(s, creator, nil, nil)
	require.NoError(t, err)

	assert.ErrorIs(t, o.Submit(context.Background()), ErrValidation)
	assert.Equal(t, StatusIdle, o.Status())
	assert.True(t, s.Errors().Has("agreements.terms"))
	assert.Zero(t, creator.calls)
}

func TestOrchestrator_NoAudioRejectedBeforeCall(t *testing.T) {
	s := readySession(t)
	s.SetAudioFile(nil)
	creator := &fakeCreator{}
	o, err := NewOrchestrator(s, creator, nil, nil)
	require.NoError(t, err)

	assert.ErrorIs(t, o.Submit(context.Background()), ErrSubmissionFailed)
	assert.Equal(t, StatusFailed, o.Status())
	assert.Equal(t, MsgNoAudioFile, o.Message())
	assert.Zero(t, creator.calls)
}

func TestOrchestrator_NotOnLastStep(t *testing.T) {
	s := wizard.NewSession(testNow, nil)
	o, err := NewOrchestrator(s, &fakeCreator{}, nil, nil)
	require.NoError(t, err)

	assert.ErrorIs(t, o.Submit(context.Background()), ErrNotFinalStep)
	assert.Equal(t, StatusIdle, o.Status())
}

func TestOrchestrator_ResetAfterSuccess(t *testing.T) {
	s := readySession(t)
	o, err := NewOrchestrator(s, &fakeCreator{}, nil, nil)
	require.NoError(t, err)
	require.NoError(t, o.Submit(context.Background()))

	require.NoError(t, o.Reset(testNow))

	assert.Equal(t, StatusIdle, o.Status())
	assert.Equal(t, wizard.StepArtistProfile, s.Step())
	assert.Equal(t, "", s.Fields().Title)
}

func TestOrchestrator_PrepareSendFinish(t *testing.T) {
	s := readySession(t)
	creator := &fakeCreator{}
	var events []ProgressEvent
	o, err := NewOrchestrator(s, creator, nil, func(e ProgressEvent) { events = append(events, e) })
	require.NoError(t, err)

	payload, err := o.Prepare()
	require.NoError(t, err)
	require.NotNil(t, payload)
	assert.Equal(t, StatusSubmitting, o.Status())
	assert.True(t, o.Busy())
	assert.Zero(t, creator.calls, "prepare does not call the server")

	_, err = o.Prepare()
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	require.NoError(t, o.Finish(payload, o.Send(context.Background(), payload)))
	assert.Equal(t, StatusSucceeded, o.Status())
	assert.False(t, o.Busy())
	assert.Equal(t, 1, creator.calls)
	assert.Same(t, payload, creator.payloads[0])
	require.NotEmpty(t, events)
	assert.Equal(t, LevelSuccess, events[len(events)-1].Level)
}

func TestOrchestrator_FinishRecordsFailure(t *testing.T) {
	s := readySession(t)
	o, err := NewOrchestrator(s, &fakeCreator{}, nil, nil)
	require.NoError(t, err)

	payload, err := o.Prepare()
	require.NoError(t, err)

	err = o.Finish(payload, &messageError{msg: "Insufficient funds"})
	assert.ErrorIs(t, err, ErrSubmissionFailed)
	assert.Equal(t, StatusFailed, o.Status())
	assert.Equal(t, "Insufficient funds", o.Message())
}

func TestOrchestrator_FinishWithoutPrepare(t *testing.T) {
	o, err := NewOrchestrator(readySession(t), &fakeCreator{}, nil, nil)
	require.NoError(t, err)

	assert.ErrorIs(t, o.Finish(nil, nil), ErrNotSubmitting)
	assert.Equal(t, StatusIdle, o.Status())
}

func TestExportXStateJSON(t *testing.T) {
	data, err := ExportXStateJSON()
	require.NoError(t, err)

	var x XStateJSON
	require.NoError(t, json.Unmarshal(data, &x))
	assert.Equal(t, "idle", x.Initial)
	assert.Len(t, x.States, 4)
	assert.Equal(t, "final", x.States["succeeded"].Type)
}
