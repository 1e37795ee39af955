package contract

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig is matched by every configuration error.
	ErrConfig = errors.New("configuration error")
	// ErrSealed is returned by Annotate once the contract has been described.
	ErrSealed = errors.New("contract already described")
)

// ConfigError reports a contract shape that cannot be bound.  It is raised
// when a contract is described, classified or its resolver is built, never
// when an operation is called.
type ConfigError struct {
	Contract  string
	Operation string
	Message   string
	Err       error
}

func (e *ConfigError) Error() string {
	where := e.Contract
	if e.Operation != "" {
		where += "." + e.Operation
	}
	if e.Err != nil {
		return fmt.Sprintf("configuration error in %s: %s: %v", where, e.Message, e.Err)
	}
	return fmt.Sprintf("configuration error in %s: %s", where, e.Message)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// OpError returns a configuration error naming op and its contract.
func OpError(op *Operation, format string, args ...any) *ConfigError {
	return &ConfigError{
		Contract:  op.Contract.Name,
		Operation: op.Name,
		Message:   fmt.Sprintf(format, args...),
	}
}
