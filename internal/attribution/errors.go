package attribution

import (
	"errors"
	"fmt"
)

// MissingArgumentError marks a required parameter absent at a stage
// boundary. It fails the enclosing operation fast instead of degrading;
// a missing user id or account id is a caller-configuration error, not
// a data-quality issue.
type MissingArgumentError struct {
	Op  string
	Arg string
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("%s: missing %s", e.Op, e.Arg)
}

func missingArg(op, arg string) error {
	return &MissingArgumentError{Op: op, Arg: arg}
}

// IsMissingArgument reports whether err is a MissingArgumentError.
func IsMissingArgument(err error) bool {
	var m *MissingArgumentError
	return errors.As(err, &m)
}
