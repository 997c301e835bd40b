package wizard

// Step returns the current page.
func (s *Session) Step() Step { return s.step }

// Validate runs the step validator for the current page and replaces the
// stored errors with the result.
func (s *Session) Validate() Errors {
	s.errors = Validate(s.step, s.fields)
	if !s.errors.Empty() {
		s.logger.Debug("step has errors", "session", s.id, "step", int(s.step), "errors", len(s.errors))
	}
	return s.Errors()
}

// GoNext validates the current page and moves forward when it is clean.
// It reports whether the step changed; on the last page it never does.
func (s *Session) GoNext() bool {
	if !s.Validate().Empty() {
		return false
	}
	if s.step >= LastStep {
		return false
	}
	s.step++
	s.logger.Debug("step advanced", "session", s.id, "step", int(s.step))
	return true
}

// GoPrev moves one page back without validating. Stored errors are kept.
func (s *Session) GoPrev() bool {
	if s.step <= FirstStep {
		return false
	}
	s.step--
	s.logger.Debug("step back", "session", s.id, "step", int(s.step))
	return true
}

// IsLastStep reports whether the session is on the submit page.
func (s *Session) IsLastStep() bool {
	return s.step == LastStep
}
