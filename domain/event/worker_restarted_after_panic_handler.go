package event

import "log/slog"

// WorkerRestartedAfterPanicHandler counts the restarts performed by the supervisor.
type WorkerRestartedAfterPanicHandler struct {
	log     *slog.Logger
	counter *Counter
}

func NewWorkerRestartedAfterPanicHandler(log *slog.Logger, counter *Counter) *WorkerRestartedAfterPanicHandler {
	return &WorkerRestartedAfterPanicHandler{log: log, counter: counter}
}

func (h *WorkerRestartedAfterPanicHandler) Handle(evt Event) {
	restarted, ok := payloadOf[WorkerRestartedAfterPanic](h.log, evt, RestartedAfterPanicType)
	if !ok {
		return
	}
	h.counter.Increment(evt.Type)
	h.log.Warn("Worker restarted", "worker", restarted.WorkerName, "restarts", h.counter.Get(evt.Type))
}
