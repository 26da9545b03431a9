package play

import "fmt"

// userFacing errors are turned into a corrective reply instead of failing
// the update.
type userFacing interface {
	error
	UserMessage() string
}

// ValidationError reports malformed user input. It never mutates state.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s", e.Field)
}

// UserMessage is the corrective text shown to the user.
func (e *ValidationError) UserMessage() string { return e.Message }

// Code is used as err_code in handler logs.
func (e *ValidationError) Code() string { return "VALIDATION" }

// ExpiredStateError reports an action that refers to a session that is gone.
type ExpiredStateError struct {
	Action Action
}

func (e *ExpiredStateError) Error() string {
	return fmt.Sprintf("no active session for action %q", e.Action.Token())
}

// UserMessage is the corrective text shown to the user.
func (e *ExpiredStateError) UserMessage() string { return msgQuizExpired }

// Code is used as err_code in handler logs.
func (e *ExpiredStateError) Code() string { return "EXPIRED_STATE" }

// ComputationError reports an expression that passed the character filter
// but could not be evaluated.
type ComputationError struct {
	Expr string
	Err  error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("evaluate %q: %v", e.Expr, e.Err)
}

func (e *ComputationError) Unwrap() error { return e.Err }

// UserMessage is the corrective text shown to the user.
func (e *ComputationError) UserMessage() string { return msgMathFailed }

// Code is used as err_code in handler logs.
func (e *ComputationError) Code() string { return "COMPUTATION" }

// DeliveryError wraps a transport failure while replying. It is logged and
// never surfaced to the user flow.
type DeliveryError struct {
	Op  string
	Err error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver %s: %v", e.Op, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// Code is used as err_code in handler logs.
func (e *DeliveryError) Code() string { return "DELIVERY" }
