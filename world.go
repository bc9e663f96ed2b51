package corosim

import kitlog "github.com/go-kit/kit/log"

// World composes the four subsystems into the single
// object an embedding application constructs once per simulation
// session: handle allocation, the component store, the query service,
// and the position buffer, plus the Clock and Scheduler that drive them
// each frame.
type World struct {
	Clock     *Clock
	Handles   *HandleAllocator
	Store     *Store
	Query     *QueryService
	Positions *PositionBuffer
	Scheduler *Scheduler

	logger kitlog.Logger
}

// WorldConfig configures a new World.
type WorldConfig struct {
	MaxLiveHandles   int
	PositionCapacity int
	SimTimeMS0       float64
	Logger           kitlog.Logger
	Metrics          MetricsSink
}

// NewWorld constructs every subsystem and wires a Scheduler's Host to
// them.
func NewWorld(cfg WorldConfig) *World {
	logger := cfg.Logger
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	clock := NewClock(cfg.SimTimeMS0)
	store := NewStore(logger)
	query := NewQueryService(store)
	positions := NewPositionBuffer(cfg.PositionCapacity)

	host := &Host{
		Clock:     clock,
		Store:     store,
		Query:     query,
		Positions: positions,
		Logger:    logger,
		Metrics:   cfg.Metrics,
	}

	return &World{
		Clock:     clock,
		Handles:   NewHandleAllocator(cfg.MaxLiveHandles),
		Store:     store,
		Query:     query,
		Positions: positions,
		Scheduler: NewScheduler(host),
		logger:    logger,
	}
}

// CreateEntity allocates a new, empty handle.
func (w *World) CreateEntity() (Handle, error) {
	return w.Handles.Create()
}

// Pause gates both the Clock and the Scheduler together: while paused,
// the scheduler runs no systems and does not advance time, but the
// frame loop continues and invokes the renderer hook so the
// last-published positions remain visible and interactive. A bare
// Clock.Pause() alone would stop time but leave the Scheduler running
// systems against a frozen clock; Pause stops both so last-published
// positions truly freeze.
func (w *World) Pause() {
	w.Clock.Pause()
	w.Scheduler.Stop()
}

// Play resumes both the Clock and the Scheduler after Pause.
func (w *World) Play() {
	w.Clock.Play()
	w.Scheduler.Start()
}

// DestroyEntity removes every component row attached to h, releases its
// position-buffer slot (if any), and returns the handle to the
// allocator's free list. This is the only way a handle is ever
// reissued.
func (w *World) DestroyEntity(h Handle) {
	w.Store.DestroyEntity(h)
	w.Positions.Release(h)
	w.Handles.Destroy(h)
}
