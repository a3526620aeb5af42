// Package game implements the snek simulation: a snake that grows by eating
// food, loses tail bites when it crosses its own body, and dies on walls,
// mines or an exhausted tail-bite budget.
//
// The engine is synchronous and holds no timers. The presentation layer owns
// pacing and calls Tick at a fixed interval; input may arrive from any
// goroutine and is applied at the next tick boundary.
package game

import (
	"fmt"
	"io"
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/snek/internal/config"
	"github.com/vovakirdan/snek/internal/core"
)

// Engine owns the state of one run.
type Engine struct {
	mu        sync.Mutex
	cfg       config.SnekConfig
	seed      int64
	startDir  core.Direction
	spawner   *Spawner
	ctrl      *Controller
	logger    *log.Logger
	observers []func(Event)

	// Run state. Collections are replaced wholesale, never mutated in place.
	status      Status
	pauseToggle bool // Applied at the next tick boundary
	tick        uint64
	body        []Segment
	occupancy   Occupancy
	foods       []Food
	hazards     []Hazard
	prog        Progression
	termination *Termination
}

// Option configures an Engine.
type Option func(*Engine)

// WithSeed fixes the RNG seed for reproducible runs.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.seed = seed
	}
}

// WithLogger sets the logger used for level and termination messages.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithObserver registers fn to receive every event. Observers run on the
// ticking goroutine after the engine lock is released.
func WithObserver(fn func(Event)) Option {
	return func(e *Engine) {
		if fn != nil {
			e.observers = append(e.observers, fn)
		}
	}
}

// New creates an engine in its initial Running state.
// It fails with config.ErrInvalidConfig if cfg cannot produce a playable run.
func New(cfg config.SnekConfig, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	startDir, err := core.ParseDirection(cfg.Snake.Direction)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}

	e := &Engine{
		cfg:      cfg,
		seed:     time.Now().UnixNano(),
		startDir: startDir,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.spawner = NewSpawner(cfg.Grid, rand.New(rand.NewSource(e.seed)))
	e.ctrl = NewController(startDir)
	e.reset()
	return e, nil
}

// Seed returns the RNG seed of this engine.
func (e *Engine) Seed() int64 {
	return e.seed
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() config.SnekConfig {
	return e.cfg
}

// Status returns the current run state.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// SetDirectionIntent buffers a direction change for the next tick.
// Reversals of the committed direction are ignored and report false.
func (e *Engine) SetDirectionIntent(d core.Direction) bool {
	return e.ctrl.SetIntent(d)
}

// TogglePause requests a flip between Running and Paused, applied at the
// start of the next tick. Two requests before a tick cancel out. It has no
// effect once terminated. The returned status is the one the next tick will
// run under.
func (e *Engine) TogglePause() Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status == StatusTerminated {
		return e.status
	}
	e.pauseToggle = !e.pauseToggle
	return e.pendingStatus()
}

func (e *Engine) pendingStatus() Status {
	if !e.pauseToggle {
		return e.status
	}
	if e.status == StatusRunning {
		return StatusPaused
	}
	return StatusRunning
}

// Reset discards all run state and starts over. It waits for an in-flight
// tick to finish first.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reset()
	e.logger.Debug("run reset")
}

func (e *Engine) reset() {
	e.ctrl.Reset(e.startDir)
	start := core.V(e.cfg.Snake.StartX, e.cfg.Snake.StartY)
	e.body = []Segment{{Pos: start, Head: true}}
	e.occupancy = Occupancy{}
	e.foods = nil
	e.hazards = nil
	e.prog = NewProgression(e.cfg)
	e.status = StatusRunning
	e.pauseToggle = false
	e.tick = 0
	e.termination = nil
}

// Snapshot returns a consistent copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

func (e *Engine) snapshot() Snapshot {
	s := Snapshot{
		Progression: e.prog,
		Tick:        e.tick,
		Status:      e.status,
		Direction:   e.ctrl.Direction(),
		HazardLevel: e.cfg.Spawn.HazardLevel,
		Segments:    slices.Clone(e.body),
		Foods:       slices.Clone(e.foods),
		Hazards:     slices.Clone(e.hazards),
	}
	if e.termination != nil {
		t := *e.termination
		s.Termination = &t
	}
	return s
}

// Tick applies a pending pause toggle, then advances the simulation by one
// step when Running and is a no-op otherwise. A non-nil error is a configuration error raised at a level
// boundary; the engine is left Terminated and must be Reset.
func (e *Engine) Tick() (TickResult, error) {
	e.mu.Lock()
	events, err := e.step()
	res := TickResult{Snapshot: e.snapshot(), Events: events}
	e.mu.Unlock()

	for _, ev := range events {
		for _, fn := range e.observers {
			fn(ev)
		}
	}
	return res, err
}

func (e *Engine) step() ([]Event, error) {
	if e.status != StatusTerminated {
		e.status = e.pendingStatus()
	}
	e.pauseToggle = false
	if e.status != StatusRunning {
		return nil, nil
	}
	e.tick++

	var events []Event
	if len(e.foods) == 0 {
		if err := e.replenish(); err != nil {
			e.status = StatusTerminated
			e.logger.Error("level replenishment failed", "level", e.prog.Level+1, "error", err)
			return nil, err
		}
		events = append(events, Event{Kind: EventProgress, Progression: e.prog})
	}

	dir := e.ctrl.Commit()
	head := e.body[len(e.body)-1].Pos.Step(dir, e.cfg.Grid.SquareSize)
	e.advance(head)

	// Collisions, food and tail bites count only from the third segment on.
	if len(e.body) < 3 {
		return events, nil
	}

	if cause := e.failure(head); cause != CauseNone {
		e.status = StatusTerminated
		e.termination = &Termination{
			Cause:      cause,
			FinalScore: e.prog.Score,
			Level:      e.prog.Level,
			Ticks:      e.tick,
		}
		e.logger.Info("run ended", "cause", cause, "score", e.prog.Score, "level", e.prog.Level, "ticks", e.tick)
		return append(events, Event{Kind: EventTerminated, Progression: e.prog, Termination: *e.termination}), nil
	}

	if e.consume(head) {
		events = append(events, Event{Kind: EventScore, Progression: e.prog})
	}
	return events, nil
}

// replenish handles a level boundary.
func (e *Engine) replenish() error {
	level := e.prog.Level + 1

	foods, err := e.spawner.ReplenishFood(level, e.prog.FoodQuota)
	if err != nil {
		return fmt.Errorf("game: level %d: %w", level, err)
	}

	hazards := e.hazards
	withHazards := level >= e.cfg.Spawn.HazardLevel
	if withHazards {
		hazards, err = e.spawner.ReplenishHazards(level, e.prog.HazardQuota, foods)
		if err != nil {
			return fmt.Errorf("game: level %d: %w", level, err)
		}
	}

	e.prog.Level = level
	e.prog.TailBites = e.cfg.Scoring.DefaultTailBites
	e.foods = foods
	e.hazards = hazards
	e.prog.FoodQuota += e.cfg.Spawn.FoodIncrement
	if withHazards {
		e.prog.HazardQuota += e.cfg.Spawn.HazardIncrement
	}

	e.logger.Debug("level up", "level", level, "food", len(foods), "hazards", len(hazards))
	return nil
}

// advance trims the body to the legal length, appends head and rebuilds occupancy.
func (e *Engine) advance(head core.Vec) {
	kept := e.body
	if over := len(kept) - e.prog.LegalLength; over > 0 {
		kept = kept[over:]
	}

	body := make([]Segment, 0, len(kept)+1)
	for _, s := range kept {
		s.Head = false
		body = append(body, s)
	}
	body = append(body, Segment{Pos: head, Head: true})

	e.body = body
	e.occupancy = BuildOccupancy(body)
}

// failure evaluates terminal conditions for the new head. Boundary wins over
// hazard, hazard over exhaustion. A hit hazard is detonated even when another
// cause is reported.
func (e *Engine) failure(head core.Vec) Cause {
	g := e.cfg.Grid
	boundary := head.X < 0 || head.X >= g.HorizontalBound || head.Y < 0 || head.Y >= g.VerticalBound
	hazard := e.prog.Level >= e.cfg.Spawn.HazardLevel && e.detonate(head)
	exhausted := e.prog.TailBites <= 0

	switch {
	case boundary:
		return CauseBoundary
	case hazard:
		return CauseHazard
	case exhausted:
		return CauseExhaustion
	default:
		return CauseNone
	}
}

// detonate marks live hazards at v as detonated and reports whether any were.
func (e *Engine) detonate(v core.Vec) bool {
	hit := false
	hazards := make([]Hazard, len(e.hazards))
	for i, h := range e.hazards {
		if h.Pos == v && !h.Detonated {
			h.Detonated = true
			hit = true
		}
		hazards[i] = h
	}
	if hit {
		e.hazards = hazards
	}
	return hit
}

// consume applies food and tail-bite effects. It reports whether the
// progression changed.
func (e *Engine) consume(head core.Vec) bool {
	if i := slices.IndexFunc(e.foods, func(f Food) bool { return f.Pos == head }); i >= 0 {
		foods := make([]Food, 0, len(e.foods)-1)
		foods = append(foods, e.foods[:i]...)
		e.foods = append(foods, e.foods[i+1:]...)
		e.prog.LegalLength++
		e.prog.Score += e.cfg.Scoring.ScoreIncrement
		return true
	}

	if e.occupancy.Has(head) {
		e.prog.TailBites--
		return true
	}
	return false
}
