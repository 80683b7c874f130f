package metrics

import (
	"context"
	"sync"
)

// Operation labels that are not root field names.
const (
	OperationOther   = "other"
	OperationInvalid = "invalid"
)

// knownOperations bounds the operation label to the schema's root fields.
var knownOperations = map[string]bool{
	"events":      true,
	"users":       true,
	"createEvent": true,
	"createUser":  true,
}

func operationLabel(field string) string {
	if knownOperations[field] {
		return field
	}
	return OperationOther
}

type operationKey struct{}

// Operation collects the root fields resolved while one GraphQL request executes.
type Operation struct {
	mu     sync.Mutex
	fields []string
}

// TrackOperation returns a context under which RecordRootField calls are
// collected into the returned Operation.
func TrackOperation(ctx context.Context) (context.Context, *Operation) {
	op := &Operation{}
	return context.WithValue(ctx, operationKey{}, op), op
}

// RecordRootField notes that field was resolved on a root type. It does
// nothing when ctx is not tracked.
func RecordRootField(ctx context.Context, field string) {
	if op, ok := ctx.Value(operationKey{}).(*Operation); ok {
		op.mu.Lock()
		op.fields = append(op.fields, field)
		op.mu.Unlock()
	}
}

// Label names the operation after its root field. Several distinct root
// fields give "other"; none at all means the request never got past parsing
// or validation.
func (o *Operation) Label() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.fields) == 0 {
		return OperationInvalid
	}
	first := o.fields[0]
	for _, f := range o.fields[1:] {
		if f != first {
			return OperationOther
		}
	}
	return operationLabel(first)
}

// Observe records the outcome of the tracked operation.
func (o *Operation) Observe(err error) {
	label := o.Label()
	if label == OperationInvalid && err == nil {
		label = OperationOther
	}
	ObserveOperation(label, err)
}
