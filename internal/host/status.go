// Package host drives the core for the two user surfaces: the Composer
// renders a template into the active draft and the Editor maintains the
// stored collection. Collaborator failures are logged and turned into
// status text; they never escape as errors.
package host

import (
	"errors"

	"template-composer/internal/validate"
)

// Status is the user-visible outcome of a host action.
type Status struct {
	Message string
	Failed  bool
}

func ok(msg string) Status     { return Status{Message: msg} }
func failed(msg string) Status { return Status{Message: msg, Failed: true} }

func (s Status) String() string { return s.Message }

// validationStatus reports a validation failure by its own message and
// anything else by fallback.
func validationStatus(err error, fallback string) Status {
	var verr *validate.ValidationError
	if errors.As(err, &verr) {
		return failed(verr.Error())
	}
	return failed(fallback)
}
