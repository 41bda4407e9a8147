package audit

import "github.com/sirupsen/logrus"

// Lifecycle actions recorded against pickups.
const (
	ActionPickupCreated    = "pickup_created"
	ActionPickupReserved   = "pickup_reserved"
	ActionLoadingStarted   = "loading_started"
	ActionLoadingConfirmed = "loading_confirmed"
	ActionPickupCompleted  = "pickup_completed"
	ActionDocumentCreated  = "document_generated"
	ActionCalendarSynced   = "calendar_synced"
)

type Event struct {
	UserID   *uint
	Action   string
	Entity   string
	EntityID string
	Metadata any
}

type Dispatcher struct {
	logger *Logger
	queue  chan Event
}

func NewDispatcher(logger *Logger) *Dispatcher {
	d := &Dispatcher{
		logger: logger,
		queue:  make(chan Event, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		if err := d.logger.Log(
			ev.UserID,
			ev.Action,
			ev.Entity,
			ev.EntityID,
			ev.Metadata,
		); err != nil {
			logrus.WithError(err).Warn("audit write failed")
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		// full queue never blocks the API; the event is dropped
		logrus.Warn("audit queue full, dropping event")
	}
}
