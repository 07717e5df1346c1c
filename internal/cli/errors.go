package cli

import (
	"errors"
	"fmt"

	"threadcut/internal/extract"
	"threadcut/internal/mutate"
	"threadcut/internal/script"
)

// describeErr prefixes err with its kind so scripts can tell user mistakes
// from broken input.
func describeErr(err error) string {
	var se script.StepError
	if errors.As(err, &se) {
		return fmt.Sprintf("step %d (%s) failed: %s", se.Index+1, se.Op, describeErr(se.Err))
	}
	var pe extract.ParseError
	if errors.As(err, &pe) {
		return pe.Error()
	}
	var ve mutate.ValidationError
	if errors.As(err, &ve) {
		return "invalid: " + ve.Error()
	}
	return "error: " + err.Error()
}

func errMissingFlag(name string) error {
	return fmt.Errorf("missing --%s", name)
}
