// Package distribution turns a completed wizard session into a
// distribution request.
//
// # Payload
//
// Assemble derives the request body from the field store. The primary
// audio file is the single's audio file, or the first album track that has
// one:
//
//	p, err := distribution.Assemble(session.Fields())
//	if errors.Is(err, distribution.ErrNoAudioFile) {
//	    // nothing to upload
//	}
//
// # Orchestrator
//
// Orchestrator owns the submit action and its state machine:
//
//	idle ──SUBMIT──▶ submitting ──SUCCEED──▶ succeeded (final)
//	  │                  │
//	REJECT              FAIL
//	  ▼                  ▼
//	failed ◀─────────────┘   failed ──SUBMIT──▶ submitting
//
// Only one submission can be in flight. Failures keep the entered data;
// Reset starts a fresh session after a success.
package distribution
