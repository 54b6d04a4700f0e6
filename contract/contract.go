//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"board-lab/domain/event"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker is a long running loop of the session. It returns nil once ctx is done and
// relies on the supervisor to be restarted after a panic.
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName is the type name of w, used in supervision logs and restart telemetry.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink consumes domain events outside the critical path (history, search index).
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}
