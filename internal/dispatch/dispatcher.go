package dispatch

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"ppewatch-backend/internal/bus"
	"ppewatch-backend/internal/compliance"
	"ppewatch-backend/internal/monitor"
)

// AlarmSignal triggers the physical alarm for an alarm id. Implementations
// own their retry/offline behavior; Fire is fire-and-forget from the
// dispatcher's point of view.
type AlarmSignal interface {
	Fire(cameraID, alarmID string) error
}

// EventSink receives every alarm event, debounced or not.
type EventSink interface {
	Emit(ev bus.AlarmEvent) error
}

type Result struct {
	EventID string
	Emitted bool
	Fired   bool
}

type alarmGate struct {
	mu          sync.Mutex
	lastFiredAt time.Time
}

// Dispatcher decides per verdict whether to sound the physical alarm and
// always emits an alarm event for non-compliant verdicts. The debounce gate
// is lazy: state is re-evaluated on arrival, never by a timer. State lives
// for the process lifetime only; a restart may re-fire an alarm that fired
// just before shutdown.
type Dispatcher struct {
	signal   AlarmSignal
	sink     EventSink
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time

	mu    sync.Mutex
	gates map[string]*alarmGate
}

func New(signal AlarmSignal, sink EventSink, interval time.Duration, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		signal:   signal,
		sink:     sink,
		interval: interval,
		logger:   logger,
		now:      time.Now,
		gates:    map[string]*alarmGate{},
	}
}

// Dispatch handles one verdict. Compliant verdicts are a no-op. Concurrent
// non-compliant verdicts for the same alarm id are serialized on that
// alarm's gate so at most one of them can fire inside a debounce window.
func (d *Dispatcher) Dispatch(cameraID, alarmID string, ts time.Time, img []byte, v compliance.Verdict) Result {
	if v.Compliant {
		return Result{}
	}

	gate := d.gate(alarmID)
	gate.mu.Lock()
	now := d.now()
	fire := !monitor.WithinCooldown(gate.lastFiredAt, now, d.interval)
	if fire {
		gate.lastFiredAt = now
	}
	gate.mu.Unlock()

	res := Result{EventID: uuid.NewString(), Fired: fire}

	if fire {
		if err := d.signal.Fire(cameraID, alarmID); err != nil {
			d.logger.Warn("alarm signal publish failed",
				slog.String("alarmId", alarmID),
				slog.String("error", err.Error()))
		}
	} else {
		d.logger.Debug("alarm signal suppressed by debounce", slog.String("alarmId", alarmID))
	}

	ev := bus.AlarmEvent{
		EventID:   res.EventID,
		CameraID:  cameraID,
		AlarmID:   alarmID,
		Timestamp: ts,
		Image:     img,
		Compliant: v.Compliant,
		Labels:    v.Labels,
	}
	if err := d.sink.Emit(ev); err != nil {
		d.logger.Error("alarm event emit failed",
			slog.String("alarmId", alarmID),
			slog.String("eventId", res.EventID),
			slog.String("error", err.Error()))
	} else {
		res.Emitted = true
	}
	return res
}

func (d *Dispatcher) gate(alarmID string) *alarmGate {
	d.mu.Lock()
	defer d.mu.Unlock()
	g, ok := d.gates[alarmID]
	if !ok {
		g = &alarmGate{}
		d.gates[alarmID] = g
	}
	return g
}
