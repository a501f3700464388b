package execution

import "github.com/muhammadchandra19/exchange/pkg/errors"

// ErrDuplicateExecution is returned by Save when the exec id was already stored.
var ErrDuplicateExecution = errors.NewErrorDetails("duplicate execution", string(errors.ValidationError), "execId")

// DuplicateConstraint is the unique constraint backing ErrDuplicateExecution.
const DuplicateConstraint = "uq_executions_exec_id"
