package service

import (
	"errors"
	"fmt"
)

// ErrNothingToConfirm is returned when a confirm request contains no
// entries that reference a ledger expense.
var ErrNothingToConfirm = errors.New("no matched entries to confirm")

// ConsistencyError reports a batch confirm or undo that could not
// complete atomically. The caller must treat the batch state as
// unchanged and retry the operation as a whole.
type ConsistencyError struct {
	Op  string
	Err error
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("%s did not complete atomically: %v", e.Op, e.Err)
}

func (e *ConsistencyError) Unwrap() error {
	return e.Err
}
