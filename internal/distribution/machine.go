package distribution

import (
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// Status is the state of a submission.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusSubmitting Status = "submitting"
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
)

// Event names for the submission machine.
const (
	EventSubmit  statekit.EventType = "SUBMIT"
	EventReject  statekit.EventType = "REJECT"
	EventSucceed statekit.EventType = "SUCCEED"
	EventFail    statekit.EventType = "FAIL"
)

// machineContext carries nothing; all guards are evaluated by the
// orchestrator before an event is sent.
type machineContext struct{}

// submissionMachine wraps the statekit interpreter for one submission.
type submissionMachine struct {
	interpreter *statekit.Interpreter[machineContext]
}

func newSubmissionMachine() (*submissionMachine, error) {
	machine, err := statekit.NewMachine[machineContext]("distribution-submission").
		WithInitial(statekit.StateID(StatusIdle)).
		State(statekit.StateID(StatusIdle)).
		On(EventSubmit).Target(statekit.StateID(StatusSubmitting)).
		On(EventReject).Target(statekit.StateID(StatusFailed)).
		Done().
		State(statekit.StateID(StatusSubmitting)).
		On(EventSucceed).Target(statekit.StateID(StatusSucceeded)).
		On(EventFail).Target(statekit.StateID(StatusFailed)).
		Done().
		State(statekit.StateID(StatusSucceeded)).
		Final().
		Done().
		State(statekit.StateID(StatusFailed)).
		On(EventSubmit).Target(statekit.StateID(StatusSubmitting)).
		On(EventReject).Target(statekit.StateID(StatusFailed)).
		Done().
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build submission machine: %w", err)
	}

	interp := statekit.NewInterpreter(machine)
	interp.Start()

	return &submissionMachine{interpreter: interp}, nil
}

func (m *submissionMachine) send(event statekit.EventType) {
	m.interpreter.Send(statekit.Event{Type: event})
}

func (m *submissionMachine) status() Status {
	return Status(m.interpreter.State().Value)
}

func (m *submissionMachine) done() bool {
	return m.interpreter.Done()
}

// XStateJSON is the XState representation of the submission machine.
type XStateJSON struct {
	ID      string                     `json:"id"`
	Initial string                     `json:"initial"`
	States  map[string]XStateStateJSON `json:"states"`
}

// XStateStateJSON is one state in XState JSON.
type XStateStateJSON struct {
	Type string            `json:"type,omitempty"`
	On   map[string]string `json:"on,omitempty"`
}

// ExportXStateJSON describes the submission machine in XState JSON, for
// visualisation tools.
func ExportXStateJSON() ([]byte, error) {
	x := XStateJSON{
		ID:      "distribution-submission",
		Initial: string(StatusIdle),
		States: map[string]XStateStateJSON{
			string(StatusIdle): {On: map[string]string{
				string(EventSubmit): string(StatusSubmitting),
				string(EventReject): string(StatusFailed),
			}},
			string(StatusSubmitting): {On: map[string]string{
				string(EventSucceed): string(StatusSucceeded),
				string(EventFail):    string(StatusFailed),
			}},
			string(StatusSucceeded): {Type: "final"},
			string(StatusFailed): {On: map[string]string{
				string(EventSubmit): string(StatusSubmitting),
				string(EventReject): string(StatusFailed),
			}},
		},
	}
	return json.MarshalIndent(x, "", "  ")
}
