package mutate

import "fmt"

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// ValidationError means a mutation's precondition failed. The store is left
// untouched and the message is meant for the user.
type ValidationError struct {
	Op     string
	Reason string
	Err    error
}

func (e ValidationError) Error() string {
	msg := e.Reason
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	if e.Op == "" {
		return msg
	}
	return e.Op + ": " + msg
}

func (e ValidationError) Unwrap() error {
	return e.Err
}

func invalid(op, reason string) error {
	return ValidationError{Op: op, Reason: reason}
}

func notFound(op, id string) error {
	return ValidationError{Op: op, Err: NotFoundError{Kind: "element", ID: id}}
}
