package agent

import (
	"errors"
	"fmt"

	"github.com/alexander-akhmetov/codeagent/internal/protocol"
)

var (
	// ErrMissingParam is matched by every *MissingParamError.
	ErrMissingParam = errors.New("missing required parameter")
	// ErrNoAction is returned when an executor runs without a decided record.
	ErrNoAction = errors.New("no action to execute")
)

// MissingParamError reports a required tool parameter the model left out.
type MissingParamError struct {
	Tool  protocol.Tool
	Param string
}

func (e *MissingParamError) Error() string {
	return fmt.Sprintf("%s: %s requires %q", ErrMissingParam, e.Tool, e.Param)
}

// Is makes errors.Is(err, ErrMissingParam) hold.
func (e *MissingParamError) Is(target error) bool { return target == ErrMissingParam }
