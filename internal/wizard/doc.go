// Package wizard implements the five-step release distribution form:
// the session state, the per-field setters, the step validator and the
// step navigator.
//
// # Session
//
// A Session owns the field store, the current step and the visible errors:
//
//	s := wizard.NewSession(time.Now(), logger)
//	s.SetHasDistributed(model.DistributedNo)
//	s.SetArtistName("Nova")
//	if !s.GoNext() {
//	    fmt.Println(s.Errors())
//	}
//
// Every setter writes one field and clears the error stored under that
// field's path, so an edited field stops showing its old message.
//
// # Validation
//
// Validate(step, release) is a pure function returning every problem on one
// step, keyed by field path ("copyright.owner", "agreements.terms",
// "track0Title"). Field errors are data; they are never returned as Go
// errors.
//
// # Navigation
//
// GoNext is gated by the validator; GoPrev is not. There is no way to jump
// between steps.
package wizard
