package workflow

import (
	"errors"
	"fmt"
	"strings"
)

// ErrWorkflowNotFound indicates no workflow is registered under the name.
var ErrWorkflowNotFound = errors.New("workflow not found")

// MissingParamsError reports the required parameters absent from an Init
// call.
type MissingParamsError struct {
	Workflow string
	Missing  []string
}

func (e *MissingParamsError) Error() string {
	return fmt.Sprintf("workflow %s: missing required parameters: %s",
		e.Workflow, strings.Join(e.Missing, ", "))
}
