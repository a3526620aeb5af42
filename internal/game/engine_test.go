package game

import (
	"errors"
	"math/rand"
	"reflect"
	"sync"
	"testing"

	"github.com/vovakirdan/snek/internal/config"
	"github.com/vovakirdan/snek/internal/core"
)

// farFood keeps a level from ending while a test steers the snake elsewhere.
var farFood = core.V(400, 400)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := New(config.DefaultSnekConfig(), append([]Option{WithSeed(1)}, opts...)...)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return e
}

// arrange puts the engine mid-level with body given oldest first.
func arrange(e *Engine, level int, body ...core.Vec) {
	e.prog.Level = level
	e.body = make([]Segment, len(body))
	for i, p := range body {
		e.body[i] = Segment{Pos: p, Head: i == len(body)-1}
	}
	e.foods = []Food{{Pos: farFood, Level: level}}
	e.hazards = nil
}

func mustTick(t *testing.T, e *Engine) TickResult {
	t.Helper()
	res, err := e.Tick()
	if err != nil {
		t.Fatalf("Tick() failed: %v", err)
	}
	return res
}

func hasEvent(res TickResult, kind EventKind) bool {
	for _, ev := range res.Events {
		if ev.Kind == kind {
			return true
		}
	}
	return false
}

func TestFreshEngineDefaults(t *testing.T) {
	s := newTestEngine(t).Snapshot()

	if s.Status != StatusRunning {
		t.Errorf("Status = %v, expected running", s.Status)
	}
	if s.Level != 0 || s.Score != 80 || s.TailBites != 5 || s.LegalLength != 10 {
		t.Errorf("unexpected fresh progression: %+v", s.Progression)
	}
	if len(s.Segments) != 1 || s.Segments[0].Pos != core.V(8, 8) {
		t.Errorf("fresh snake should be one segment at (8, 8), got %v", s.Segments)
	}
	if s.Direction != core.DirRight {
		t.Errorf("Direction = %v, expected right", s.Direction)
	}
}

func TestFirstLevelBoundary(t *testing.T) {
	e := newTestEngine(t)

	res := mustTick(t, e)
	s := res.Snapshot

	if s.Level != 1 {
		t.Errorf("Level = %d, expected 1", s.Level)
	}
	if s.FoodQuota != 3 {
		t.Errorf("FoodQuota = %d, expected default+2 = 3", s.FoodQuota)
	}
	if s.TailBites != 5 {
		t.Errorf("TailBites = %d, expected 5", s.TailBites)
	}
	if len(s.Foods) != 1 {
		t.Errorf("expected 1 food at level 1, got %d", len(s.Foods))
	}
	if len(s.Hazards) != 0 {
		t.Errorf("no hazards before the hazard level, got %d", len(s.Hazards))
	}
	if len(s.Segments) != 2 || s.Segments[1].Pos != core.V(16, 8) {
		t.Errorf("expected snake [(8,8) (16,8)], got %v", s.Segments)
	}
	if !s.Segments[1].Head || s.Segments[0].Head {
		t.Error("only the newest segment should be flagged as head")
	}
	if !hasEvent(res, EventProgress) {
		t.Error("expected a progress event on the level boundary")
	}
	if got := s.HUD(); got != "Apples go monch!  Level: 1  Score: 80  Remaining Tail Bites: 5" {
		t.Errorf("HUD() = %q", got)
	}
}

func TestHazardsSpawnFromHazardLevel(t *testing.T) {
	e := newTestEngine(t)
	arrange(e, 5, core.V(40, 40))
	e.foods = nil
	e.prog.FoodQuota = 3

	s := mustTick(t, e).Snapshot

	if s.Level != 6 {
		t.Fatalf("Level = %d, expected 6", s.Level)
	}
	if len(s.Hazards) != 1 {
		t.Errorf("expected 1 hazard at level 6, got %d", len(s.Hazards))
	}
	if s.HazardQuota != 2 {
		t.Errorf("HazardQuota = %d, expected 2", s.HazardQuota)
	}
	if s.FoodQuota != 5 {
		t.Errorf("FoodQuota = %d, expected 5", s.FoodQuota)
	}
	for _, h := range s.Hazards {
		for _, f := range s.Foods {
			if h.Pos == f.Pos {
				t.Errorf("hazard overlaps food at %v", h.Pos)
			}
		}
	}
}

func TestEatingFood(t *testing.T) {
	e := newTestEngine(t)
	arrange(e, 1, core.V(40, 40), core.V(48, 40), core.V(56, 40))
	e.foods = []Food{{Pos: core.V(64, 40), Level: 1}, {Pos: farFood, Level: 1}}

	res := mustTick(t, e)
	s := res.Snapshot

	if s.LegalLength != 11 {
		t.Errorf("LegalLength = %d, expected 11", s.LegalLength)
	}
	if s.Score != 88 {
		t.Errorf("Score = %d, expected 88", s.Score)
	}
	if len(s.Foods) != 1 || s.Foods[0].Pos != farFood {
		t.Errorf("only the eaten food should be removed, got %v", s.Foods)
	}
	if !hasEvent(res, EventScore) {
		t.Error("expected a score event")
	}
}

func TestTailBiteDecrementsBudget(t *testing.T) {
	e := newTestEngine(t)
	// Square loop: moving up from (40,48) lands on the oldest cell (40,40).
	arrange(e, 1, core.V(40, 40), core.V(48, 40), core.V(48, 48), core.V(40, 48))
	if !e.SetDirectionIntent(core.DirUp) {
		t.Fatal("Up should be accepted while heading right")
	}

	res := mustTick(t, e)
	s := res.Snapshot

	if s.TailBites != 4 {
		t.Errorf("TailBites = %d, expected 4", s.TailBites)
	}
	if s.Status != StatusRunning {
		t.Errorf("a tail bite is not fatal, status = %v", s.Status)
	}
	if !hasEvent(res, EventScore) {
		t.Error("expected a score event for the tail bite")
	}
	if s.Score != 80 {
		t.Errorf("tail bite should not change score, got %d", s.Score)
	}
}

func TestTailBiteIgnoresNewestCell(t *testing.T) {
	e := newTestEngine(t)
	arrange(e, 1, core.V(40, 40), core.V(48, 40), core.V(56, 40))

	s := mustTick(t, e).Snapshot
	if s.TailBites != 5 {
		t.Errorf("moving forward must not count as a tail bite, TailBites = %d", s.TailBites)
	}
}

func TestExhaustionFiresOnTheFollowingTick(t *testing.T) {
	e := newTestEngine(t)
	arrange(e, 1, core.V(40, 40), core.V(48, 40), core.V(48, 48), core.V(40, 48))
	e.prog.TailBites = 1
	e.SetDirectionIntent(core.DirUp)

	s := mustTick(t, e).Snapshot
	if s.TailBites != 0 {
		t.Fatalf("TailBites = %d, expected 0", s.TailBites)
	}
	if s.Status != StatusRunning {
		t.Fatalf("exhaustion must not fire on the biting tick, status = %v", s.Status)
	}

	res := mustTick(t, e)
	term, ok := res.Terminated()
	if !ok {
		t.Fatal("expected termination once the budget is spent")
	}
	if term.Cause != CauseExhaustion {
		t.Errorf("Cause = %v, expected chomp", term.Cause)
	}
	if term.FinalScore != 80 {
		t.Errorf("FinalScore = %d, expected 80", term.FinalScore)
	}
	if res.Snapshot.TailBites < 0 {
		t.Errorf("TailBites went negative: %d", res.Snapshot.TailBites)
	}
}

func TestFailureRequiresThreeSegments(t *testing.T) {
	e := newTestEngine(t)
	arrange(e, 1, core.V(40, 40))
	e.prog.TailBites = 0

	if s := mustTick(t, e).Snapshot; s.Status != StatusRunning {
		t.Fatalf("two segments should not be evaluated for failure, status = %v", s.Status)
	}

	res := mustTick(t, e)
	if term, ok := res.Terminated(); !ok || term.Cause != CauseExhaustion {
		t.Errorf("expected chomp on the third segment, got %+v (terminated=%v)", term, ok)
	}
}

func TestShortSnakeDoesNotEat(t *testing.T) {
	e := newTestEngine(t)
	arrange(e, 1, core.V(8, 8))
	e.foods = []Food{{Pos: core.V(16, 8), Level: 1}, {Pos: farFood, Level: 1}}

	res := mustTick(t, e)
	s := res.Snapshot
	if len(s.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(s.Segments))
	}
	if len(s.Foods) != 2 || s.Score != 80 || s.LegalLength != 10 {
		t.Errorf("food eaten by a two-segment snake: foods=%v score=%d length=%d", s.Foods, s.Score, s.LegalLength)
	}
	if hasEvent(res, EventScore) {
		t.Error("no score event expected before the third segment")
	}
}

func TestMinimumLengthStillCollides(t *testing.T) {
	cfg := config.DefaultSnekConfig()
	cfg.Snake.DefaultLength = 2
	cfg.Snake.StartX = 560
	e, err := New(cfg, WithSeed(1))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	mustTick(t, e)
	res := mustTick(t, e)
	term, ok := res.Terminated()
	if !ok || term.Cause != CauseBoundary {
		t.Fatalf("expected bonk on the second tick, got %+v (terminated=%v)", term, ok)
	}
	if n := len(res.Snapshot.Segments); n != 3 {
		t.Errorf("expected 3 segments at the wall, got %d", n)
	}
}

func TestHazardDetonation(t *testing.T) {
	e := newTestEngine(t)
	arrange(e, 6, core.V(40, 40), core.V(48, 40), core.V(56, 40))
	e.hazards = []Hazard{{Pos: core.V(64, 40), Level: 6}, {Pos: core.V(200, 200), Level: 6}}

	res := mustTick(t, e)
	term, ok := res.Terminated()
	if !ok {
		t.Fatal("expected termination on a live hazard")
	}
	if term.Cause != CauseHazard {
		t.Errorf("Cause = %v, expected boom", term.Cause)
	}

	s := res.Snapshot
	if !s.Hazards[0].Detonated {
		t.Error("hit hazard should be detonated")
	}
	if s.Hazards[1].Detonated {
		t.Error("other hazards should stay live")
	}
	if s.Status != StatusTerminated || s.Termination == nil || s.Termination.Cause != CauseHazard {
		t.Errorf("snapshot should report the termination, got status %v term %v", s.Status, s.Termination)
	}
}

func TestHazardIgnoredBelowHazardLevel(t *testing.T) {
	e := newTestEngine(t)
	arrange(e, 5, core.V(40, 40), core.V(48, 40), core.V(56, 40))
	e.hazards = []Hazard{{Pos: core.V(64, 40), Level: 5}}

	s := mustTick(t, e).Snapshot
	if s.Status != StatusRunning {
		t.Errorf("hazards are inert below the hazard level, status = %v", s.Status)
	}
	if s.Hazards[0].Detonated {
		t.Error("hazard should not detonate below the hazard level")
	}
}

func TestBoundaryTermination(t *testing.T) {
	tests := []struct {
		name string
		dir  core.Direction
		body []core.Vec
	}{
		{"right edge", core.DirRight, []core.Vec{core.V(552, 40), core.V(560, 40), core.V(568, 40)}},
		{"bottom edge", core.DirDown, []core.Vec{core.V(40, 504), core.V(40, 512), core.V(40, 520)}},
		{"left edge", core.DirLeft, []core.Vec{core.V(16, 40), core.V(8, 40), core.V(0, 40)}},
		{"top edge", core.DirUp, []core.Vec{core.V(40, 16), core.V(40, 8), core.V(40, 0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t)
			arrange(e, 1, tt.body...)
			e.ctrl.Reset(tt.dir)
			e.prog.TailBites = 0 // Boundary wins over exhaustion

			res := mustTick(t, e)
			term, ok := res.Terminated()
			if !ok {
				t.Fatal("expected termination")
			}
			if term.Cause != CauseBoundary {
				t.Errorf("Cause = %v, expected bonk", term.Cause)
			}
		})
	}
}

func TestDyingBeatsEating(t *testing.T) {
	e := newTestEngine(t)
	arrange(e, 1, core.V(40, 40), core.V(48, 40), core.V(56, 40))
	e.foods = []Food{{Pos: core.V(64, 40), Level: 1}}
	e.prog.TailBites = 0

	s := mustTick(t, e).Snapshot
	if s.Status != StatusTerminated {
		t.Fatalf("expected termination, got %v", s.Status)
	}
	if len(s.Foods) != 1 || s.Score != 80 || s.LegalLength != 10 {
		t.Errorf("a dying head must not eat: foods=%v score=%d length=%d", s.Foods, s.Score, s.LegalLength)
	}
}

func TestTerminatedIgnoresTicksAndPause(t *testing.T) {
	e := newTestEngine(t)
	arrange(e, 1, core.V(552, 40), core.V(560, 40), core.V(568, 40))
	mustTick(t, e)

	before := e.Snapshot()
	res := mustTick(t, e)
	if len(res.Events) != 0 || res.Snapshot.Tick != before.Tick {
		t.Error("Tick should be a no-op once terminated")
	}
	if got := e.TogglePause(); got != StatusTerminated {
		t.Errorf("TogglePause() while terminated = %v", got)
	}
}

func TestPauseToggle(t *testing.T) {
	e := newTestEngine(t)

	if got := e.TogglePause(); got != StatusPaused {
		t.Fatalf("TogglePause() = %v, expected paused", got)
	}
	if got := e.Status(); got != StatusRunning {
		t.Errorf("pause applied before the tick boundary, status = %v", got)
	}

	res := mustTick(t, e)
	if res.Snapshot.Status != StatusPaused {
		t.Fatalf("Status = %v after the tick, expected paused", res.Snapshot.Status)
	}
	if res.Snapshot.Tick != 0 || len(res.Events) != 0 {
		t.Error("paused engine should not advance")
	}
	if res := mustTick(t, e); res.Snapshot.Tick != 0 {
		t.Error("paused engine should stay put")
	}

	if got := e.TogglePause(); got != StatusRunning {
		t.Fatalf("TogglePause() = %v, expected running", got)
	}
	res = mustTick(t, e)
	if res.Snapshot.Status != StatusRunning || res.Snapshot.Tick != 1 {
		t.Errorf("after resuming: status=%v tick=%d, expected running at 1", res.Snapshot.Status, res.Snapshot.Tick)
	}
}

func TestPauseTogglesCancelBetweenTicks(t *testing.T) {
	e := newTestEngine(t)

	e.TogglePause()
	if got := e.TogglePause(); got != StatusRunning {
		t.Fatalf("second TogglePause() = %v, expected running", got)
	}
	res := mustTick(t, e)
	if res.Snapshot.Status != StatusRunning || res.Snapshot.Tick != 1 {
		t.Errorf("status=%v tick=%d, expected running at 1", res.Snapshot.Status, res.Snapshot.Tick)
	}
}

func TestResetDiscardsPendingPause(t *testing.T) {
	e := newTestEngine(t)

	e.TogglePause()
	e.Reset()
	if res := mustTick(t, e); res.Snapshot.Status != StatusRunning {
		t.Errorf("Status = %v, a pause requested before Reset must be dropped", res.Snapshot.Status)
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	e := newTestEngine(t)
	arrange(e, 9, core.V(552, 40), core.V(560, 40), core.V(568, 40))
	e.prog.Score = 500
	e.prog.TailBites = 1
	e.prog.LegalLength = 30
	mustTick(t, e)
	if e.Status() != StatusTerminated {
		t.Fatal("setup should terminate the run")
	}
	e.ctrl.Reset(core.DirUp)

	e.Reset()
	s := e.Snapshot()

	if s.Status != StatusRunning {
		t.Errorf("Status = %v, expected running", s.Status)
	}
	if s.Progression != NewProgression(config.DefaultSnekConfig()) {
		t.Errorf("progression not reset: %+v", s.Progression)
	}
	if len(s.Segments) != 1 || len(s.Foods) != 0 || len(s.Hazards) != 0 {
		t.Errorf("collections not reset: %d segments, %d foods, %d hazards", len(s.Segments), len(s.Foods), len(s.Hazards))
	}
	if s.Termination != nil || s.Tick != 0 {
		t.Error("termination and tick counter should be cleared")
	}
	if got := e.ctrl.Commit(); got != core.DirRight {
		t.Errorf("direction after reset = %v, expected right", got)
	}
}

func TestBodyLengthInvariant(t *testing.T) {
	e := newTestEngine(t, WithSeed(2024))
	rng := rand.New(rand.NewSource(7))
	dirs := []core.Direction{core.DirUp, core.DirDown, core.DirLeft, core.DirRight}

	for i := 0; i < 5000; i++ {
		if i%5 == 0 {
			e.SetDirectionIntent(dirs[rng.Intn(len(dirs))])
		}
		s := mustTick(t, e).Snapshot

		if len(s.Segments) < 1 || len(s.Segments) > s.LegalLength+1 {
			t.Fatalf("tick %d: body length %d outside [1, %d]", i, len(s.Segments), s.LegalLength+1)
		}
		if s.Status == StatusRunning && s.TailBites < 0 {
			t.Fatalf("tick %d: TailBites = %d while running", i, s.TailBites)
		}
		if s.Status == StatusTerminated {
			e.Reset()
		}
	}
}

func TestSnapshotIsIsolated(t *testing.T) {
	e := newTestEngine(t)
	mustTick(t, e)

	s := e.Snapshot()
	s.Segments[0].Pos = core.V(-100, -100)
	s.Foods[0].Pos = core.V(-100, -100)

	again := e.Snapshot()
	if again.Segments[0].Pos == core.V(-100, -100) || again.Foods[0].Pos == core.V(-100, -100) {
		t.Error("mutating a snapshot must not affect engine state")
	}
}

func TestObserverReceivesEvents(t *testing.T) {
	var kinds []EventKind
	e := newTestEngine(t, WithObserver(func(ev Event) {
		kinds = append(kinds, ev.Kind)
	}))

	mustTick(t, e)
	if len(kinds) != 1 || kinds[0] != EventProgress {
		t.Errorf("observer got %v, expected [progress]", kinds)
	}
}

func TestDeterministicRuns(t *testing.T) {
	run := func() Snapshot {
		e := newTestEngine(t, WithSeed(5))
		for i := 0; i < 300; i++ {
			switch i {
			case 40:
				e.SetDirectionIntent(core.DirDown)
			case 90:
				e.SetDirectionIntent(core.DirRight)
			}
			mustTick(t, e)
		}
		return e.Snapshot()
	}

	a, b := run(), run()
	if !reflect.DeepEqual(a, b) {
		t.Errorf("same seed and inputs produced different snapshots:\n%+v\n%+v", a, b)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultSnekConfig()
	cfg.Grid.SquareSize = 0

	if _, err := New(cfg); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestSpawnCapacityErrorTerminates(t *testing.T) {
	cfg := config.DefaultSnekConfig()
	cfg.Grid = config.GridConfig{HorizontalBound: 24, VerticalBound: 24, SquareSize: 8}
	cfg.Spawn.DefaultFoodQuota = 5 // Level 1 window holds 4 cells

	e, err := New(cfg, WithSeed(1))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	res, err := e.Tick()
	if !errors.Is(err, ErrSpawnCapacity) {
		t.Fatalf("expected ErrSpawnCapacity, got %v", err)
	}
	if res.Snapshot.Status != StatusTerminated {
		t.Errorf("Status = %v, expected terminated", res.Snapshot.Status)
	}
	if _, ok := res.Terminated(); ok {
		t.Error("configuration errors are not reported as terminations")
	}
}

func TestConcurrentAccess(t *testing.T) {
	e := newTestEngine(t)
	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			if _, err := e.Tick(); err != nil {
				t.Errorf("Tick() failed: %v", err)
				return
			}
			if i%100 == 99 {
				e.Reset()
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			s := e.Snapshot()
			if len(s.Segments) == 0 {
				t.Error("snapshot with empty body")
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		dirs := []core.Direction{core.DirDown, core.DirRight, core.DirUp, core.DirRight}
		for i := 0; i < 500; i++ {
			e.SetDirectionIntent(dirs[i%len(dirs)])
			if i%50 == 0 {
				e.TogglePause()
			}
		}
	}()
	wg.Wait()
}
