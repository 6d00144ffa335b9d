package session

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/claude/setlog/internal/models"
	"github.com/google/uuid"
)

// State is the tracker's lifecycle phase.
type State int

const (
	StateLoading State = iota
	StateActive
	StateSummary
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateActive:
		return "active"
	case StateSummary:
		return "summary"
	default:
		return "unknown"
	}
}

// DefaultRestSeconds is the rest countdown started when a set is completed.
const DefaultRestSeconds = 60

// SetLog is one set's in-progress entry. Reps and Weight stay as entered
// text until submission, when they are numeric-coerced.
type SetLog struct {
	SetNumber int
	Reps      string
	Weight    string
	Completed bool
}

// ExerciseLog pairs a workout exercise with its set entries.
type ExerciseLog struct {
	Exercise models.WorkoutExercise
	Sets     []SetLog
}

// Summary holds the figures computed when a session finishes.
type Summary struct {
	DurationSeconds int
	TotalVolume     float64
	SetsCompleted   int
	TotalSets       int
}

// Tracker drives one workout attempt from start to finish. All state lives
// in memory; nothing is persisted until the session is submitted. Both
// timers are scheduled through the injected Scheduler and stopping either
// is idempotent.
type Tracker struct {
	mu    sync.Mutex
	id    uuid.UUID
	sched Scheduler

	state     State
	workoutID int
	workout   *models.Workout
	exercises []ExerciseLog

	elapsed      int
	paused       bool
	durGen       int
	stopDuration func()

	resting       bool
	restRemaining int
	restOwner     [2]int
	restGen       int
	stopRest      func()
}

// New creates a tracker for the given workout id, in the Loading state.
func New(workoutID int, sched Scheduler) *Tracker {
	return &Tracker{
		id:        uuid.New(),
		sched:     sched,
		state:     StateLoading,
		workoutID: workoutID,
	}
}

// ID is the session's local identity, used for outbox bookkeeping.
func (t *Tracker) ID() uuid.UUID { return t.id }

// Begin transitions Loading -> Active and starts the duration timer.
// Each exercise gets default_sets entries prefilled with default_reps and
// zero weight, all incomplete. A nil exercise list is allowed: when the
// catalog fetch failed the session still starts, just empty.
func (t *Tracker) Begin(workout *models.Workout, exercises []models.WorkoutExercise) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateLoading {
		return
	}

	t.workout = workout
	t.exercises = make([]ExerciseLog, 0, len(exercises))
	for _, ex := range exercises {
		sets := make([]SetLog, ex.DefaultSets)
		for i := range sets {
			sets[i] = SetLog{
				SetNumber: i + 1,
				Reps:      strconv.Itoa(ex.DefaultReps),
				Weight:    "0",
			}
		}
		t.exercises = append(t.exercises, ExerciseLog{Exercise: ex, Sets: sets})
	}

	t.state = StateActive
	t.startDurationTimer()
}

// State returns the current lifecycle phase.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Elapsed returns the running duration in seconds.
func (t *Tracker) Elapsed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.elapsed
}

// Paused reports whether the duration timer is paused.
func (t *Tracker) Paused() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.paused
}

// Resting returns the rest countdown state.
func (t *Tracker) Resting() (bool, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.resting, t.restRemaining
}

// Exercises returns a snapshot of the per-exercise set logs.
func (t *Tracker) Exercises() []ExerciseLog {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]ExerciseLog, len(t.exercises))
	for i, ex := range t.exercises {
		out[i] = ExerciseLog{Exercise: ex.Exercise, Sets: append([]SetLog(nil), ex.Sets...)}
	}
	return out
}

// TogglePause pauses or resumes the duration timer without resetting
// elapsed time. The rest countdown is unaffected. Returns the new state.
func (t *Tracker) TogglePause() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateActive {
		return t.paused
	}

	if t.paused {
		t.paused = false
		t.startDurationTimer()
	} else {
		t.paused = true
		t.stopDurationTimer()
	}
	return t.paused
}

// UpdateSet overwrites the entered reps/weight text for one set.
func (t *Tracker) UpdateSet(exIdx, setIdx int, reps, weight string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.checkIndex(exIdx, setIdx); err != nil {
		return err
	}
	set := &t.exercises[exIdx].Sets[setIdx]
	if reps != "" {
		set.Reps = reps
	}
	if weight != "" {
		set.Weight = weight
	}
	return nil
}

// ToggleSet flips a set's completed flag. Completing a set starts the rest
// countdown at DefaultRestSeconds; un-completing the set that started an
// active countdown cancels it.
func (t *Tracker) ToggleSet(exIdx, setIdx int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateActive {
		return fmt.Errorf("session is %s", t.state)
	}
	if err := t.checkIndex(exIdx, setIdx); err != nil {
		return err
	}

	set := &t.exercises[exIdx].Sets[setIdx]
	set.Completed = !set.Completed

	if set.Completed {
		t.resting = true
		t.restRemaining = DefaultRestSeconds
		t.restOwner = [2]int{exIdx, setIdx}
		t.startRestTimer()
	} else if t.resting && t.restOwner == [2]int{exIdx, setIdx} {
		t.stopRestCountdown()
	}
	return nil
}

// SkipRest cancels an active rest countdown immediately.
func (t *Tracker) SkipRest() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopRestCountdown()
}

// AdjustRest adds delta seconds to an active rest countdown, floored at zero.
func (t *Tracker) AdjustRest(delta int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.resting {
		return
	}
	t.restRemaining += delta
	if t.restRemaining <= 0 {
		t.stopRestCountdown()
	}
}

// Finish freezes both timers, computes the summary, and transitions to
// Summary. Volume sums reps x weight over completed sets only; entered text
// that fails numeric coercion counts as zero.
func (t *Tracker) Finish() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == StateActive {
		t.stopDurationTimer()
		t.stopRestCountdown()
		t.state = StateSummary
	}

	sum := Summary{DurationSeconds: t.elapsed}
	for _, ex := range t.exercises {
		for _, set := range ex.Sets {
			sum.TotalSets++
			if set.Completed {
				sum.SetsCompleted++
				sum.TotalVolume += float64(coerceInt(set.Reps)) * coerceFloat(set.Weight)
			}
		}
	}
	return sum
}

// Submission serializes the session for the log endpoint: completed sets
// only, numeric-coerced, grouped per exercise.
func (t *Tracker) Submission() models.LogSubmission {
	t.mu.Lock()
	defer t.mu.Unlock()

	sub := models.LogSubmission{
		WorkoutID:       t.workoutID,
		DurationSeconds: t.elapsed,
	}
	for _, ex := range t.exercises {
		entry := models.ExerciseSubmission{
			ExerciseID: ex.Exercise.ExerciseID,
			Sets:       []models.SetSubmission{},
		}
		for _, set := range ex.Sets {
			if !set.Completed {
				continue
			}
			entry.Sets = append(entry.Sets, models.SetSubmission{
				SetNumber: set.SetNumber,
				Reps:      coerceInt(set.Reps),
				Weight:    coerceFloat(set.Weight),
			})
		}
		sub.Exercises = append(sub.Exercises, entry)
	}
	return sub
}

// Stop clears both timers. Safe to call in any state, any number of times;
// the caller defers it so no scheduled callbacks outlive the session view.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopDurationTimer()
	t.stopRestCountdown()
}

func (t *Tracker) checkIndex(exIdx, setIdx int) error {
	if exIdx < 0 || exIdx >= len(t.exercises) {
		return fmt.Errorf("no exercise at index %d", exIdx)
	}
	if setIdx < 0 || setIdx >= len(t.exercises[exIdx].Sets) {
		return fmt.Errorf("no set at index %d", setIdx)
	}
	return nil
}

// startDurationTimer (re)arms the duration tick. Caller holds the lock.
func (t *Tracker) startDurationTimer() {
	t.stopDurationTimer()
	t.durGen++
	gen := t.durGen
	t.stopDuration = t.sched.Every(func() { t.durationTick(gen) })
}

func (t *Tracker) stopDurationTimer() {
	t.durGen++
	if t.stopDuration != nil {
		t.stopDuration()
		t.stopDuration = nil
	}
}

func (t *Tracker) durationTick(gen int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.durGen || t.state != StateActive || t.paused {
		return
	}
	t.elapsed++
}

// startRestTimer (re)arms the rest tick. Caller holds the lock.
func (t *Tracker) startRestTimer() {
	if t.stopRest != nil {
		t.stopRest()
		t.stopRest = nil
	}
	t.restGen++
	gen := t.restGen
	t.stopRest = t.sched.Every(func() { t.restTick(gen) })
}

func (t *Tracker) stopRestCountdown() {
	t.restGen++
	t.resting = false
	t.restRemaining = 0
	if t.stopRest != nil {
		t.stopRest()
		t.stopRest = nil
	}
}

func (t *Tracker) restTick(gen int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.restGen || !t.resting {
		return
	}
	t.restRemaining--
	if t.restRemaining <= 0 {
		t.stopRestCountdown()
	}
}

func coerceInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func coerceFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}
