package workout

import (
	"context"
	"errors"
	"time"

	"github.com/fakeyudi/fitflex/internal/api"
	"github.com/fakeyudi/fitflex/internal/guard"
	"github.com/fakeyudi/fitflex/internal/notice"
	"github.com/fakeyudi/fitflex/internal/session"
	log "github.com/sirupsen/logrus"
)

// Session is what the composer and editor need from session.Manager.
type Session interface {
	Token() string
	Invalidate(reason session.Reason) error
}

// WorkoutCreator is the slice of the API client used to submit workouts.
type WorkoutCreator interface {
	CreateWorkout(ctx context.Context, p api.WorkoutPayload) (*api.WorkoutRecord, error)
}

// State is the composer's lifecycle.
type State int

const (
	StateEmpty State = iota
	StateEditing
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	default:
		return "empty"
	}
}

// SelectedExercise is one exercise chosen for a new workout.
type SelectedExercise struct {
	ExerciseID int
	Duration   Minutes
}

// Composer builds one new workout at a time and submits it.
type Composer struct {
	catalog         *Catalog
	creator         WorkoutCreator
	session         Session
	board           *notice.Board
	defaultDuration int
	now             func() time.Time

	name     string
	date     string
	selected []SelectedExercise
	parked   map[int]Minutes // durations of exercises toggled off
	state    State
}

// NewComposer returns an empty composer. defaultDuration is the duration
// presets assign to each exercise.
func NewComposer(catalog *Catalog, creator WorkoutCreator, sess Session, board *notice.Board, defaultDuration int) *Composer {
	if catalog == nil {
		catalog = NewCatalog(nil)
	}
	return &Composer{
		catalog:         catalog,
		creator:         creator,
		session:         sess,
		board:           board,
		defaultDuration: defaultDuration,
		now:             time.Now,
	}
}

// WithClock replaces the clock used for the session guard.
func (c *Composer) WithClock(now func() time.Time) *Composer {
	c.now = now
	return c
}

// SetCatalog swaps the catalog, e.g. once the async load completes.
// Selections no longer in the catalog are dropped.
func (c *Composer) SetCatalog(catalog *Catalog) {
	c.catalog = catalog
	kept := c.selected[:0]
	for _, s := range c.selected {
		if _, ok := catalog.Lookup(s.ExerciseID); ok {
			kept = append(kept, s)
		}
	}
	c.selected = kept
}

func (c *Composer) Catalog() *Catalog { return c.catalog }
func (c *Composer) Name() string      { return c.name }
func (c *Composer) Date() string      { return c.date }
func (c *Composer) State() State      { return c.state }

// Selected returns a copy of the selection in insertion order.
func (c *Composer) Selected() []SelectedExercise {
	out := make([]SelectedExercise, len(c.selected))
	copy(out, c.selected)
	return out
}

// IsSelected reports whether id is part of the draft.
func (c *Composer) IsSelected(id int) bool {
	return c.index(id) >= 0
}

// Duration returns the duration entered for id.
func (c *Composer) Duration(id int) (Minutes, bool) {
	i := c.index(id)
	if i < 0 {
		return Minutes{}, false
	}
	return c.selected[i].Duration, true
}

func (c *Composer) index(id int) int {
	for i, s := range c.selected {
		if s.ExerciseID == id {
			return i
		}
	}
	return -1
}

func (c *Composer) touch() {
	if c.state == StateEmpty {
		c.state = StateEditing
	}
}

// SelectPreset replaces the selection with the preset's exercises found in
// the catalog, each at the default duration, and names the draft after it.
func (c *Composer) SelectPreset(label string) error {
	p, ok := FindPreset(label)
	if !ok {
		return ErrUnknownPreset
	}
	found, missing := c.catalog.matching(p.Exercises)
	for _, name := range missing {
		log.WithFields(log.Fields{"preset": label, "exercise": name}).Warn("preset exercise not in catalog")
	}
	c.selected = make([]SelectedExercise, 0, len(found))
	for _, e := range found {
		c.selected = append(c.selected, SelectedExercise{ExerciseID: e.ID, Duration: MinutesOf(c.defaultDuration)})
	}
	c.parked = nil
	c.name = label
	c.touch()
	return nil
}

func (c *Composer) SetName(v string) {
	c.name = v
	c.touch()
}

func (c *Composer) SetDate(v string) {
	c.date = v
	c.touch()
}

// ToggleExercise removes id if selected, otherwise appends it. A re-added
// exercise gets back the duration it had when toggled off, or no duration.
// Unknown ids are ignored.
func (c *Composer) ToggleExercise(id int) {
	if _, ok := c.catalog.Lookup(id); !ok {
		return
	}
	if i := c.index(id); i >= 0 {
		if c.parked == nil {
			c.parked = make(map[int]Minutes)
		}
		c.parked[id] = c.selected[i].Duration
		c.selected = append(c.selected[:i], c.selected[i+1:]...)
	} else {
		c.selected = append(c.selected, SelectedExercise{ExerciseID: id, Duration: c.parked[id]})
		delete(c.parked, id)
	}
	c.touch()
}

// SetDuration stores raw as the duration of the selected exercise id. It
// reports false if id is not selected.
func (c *Composer) SetDuration(id int, raw string) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	c.selected[i].Duration = ParseMinutes(raw)
	c.touch()
	return true
}

// Reset clears the draft.
func (c *Composer) Reset() {
	c.name, c.date = "", ""
	c.selected = nil
	c.parked = nil
	c.state = StateEmpty
}

// Payload validates the draft and builds the request body.
func (c *Composer) Payload() (api.WorkoutPayload, error) {
	verr := &ValidationError{}
	if c.name == "" {
		verr.add("name is required")
	}
	if c.date == "" {
		verr.add("date is required")
	} else if _, err := time.Parse(dateLayout, c.date); err != nil {
		verr.add("date must be YYYY-MM-DD")
	}
	if len(c.selected) == 0 {
		verr.add("select at least one exercise")
	}
	entries := make([]api.ExerciseEntry, 0, len(c.selected))
	for _, s := range c.selected {
		d, err := s.Duration.Int()
		if err != nil {
			verr.add(c.catalog.Name(s.ExerciseID) + ": " + err.Error())
			continue
		}
		entries = append(entries, api.ExerciseEntry{ExerciseID: s.ExerciseID, Duration: d})
	}
	if err := verr.orNil(); err != nil {
		return api.WorkoutPayload{}, err
	}
	return api.WorkoutPayload{Name: c.name, Date: c.date, Exercises: entries}, nil
}

// BeginSubmit runs the session guard and validation and moves to
// submitting. The caller sends the payload and reports back through
// FinishSubmit. An expired session is invalidated here.
func (c *Composer) BeginSubmit() (api.WorkoutPayload, error) {
	if c.state == StateSubmitting {
		return api.WorkoutPayload{}, ErrBusy
	}
	if guard.Check(c.session.Token(), c.now()) == guard.Expired {
		log.Warn("session expired before submitting workout")
		if err := c.session.Invalidate(session.ReasonExpired); err != nil {
			log.WithError(err).Error("failed to clear expired session")
		}
		return api.WorkoutPayload{}, ErrSessionExpired
	}
	p, err := c.Payload()
	if err != nil {
		return api.WorkoutPayload{}, err
	}
	c.state = StateSubmitting
	return p, nil
}

// FinishSubmit applies the outcome of the create request.
func (c *Composer) FinishSubmit(err error) {
	if err != nil {
		c.state = StateEditing
		log.WithError(err).Error("failed to save workout")
		c.board.Post(notice.Failure, "Failed to save workout: "+api.DetailOf(err))
		if errors.Is(err, api.ErrUnauthorized) {
			if ierr := c.session.Invalidate(session.ReasonUnauthorized); ierr != nil {
				log.WithError(ierr).Error("failed to clear rejected session")
			}
		}
		return
	}
	c.Reset()
	c.board.Post(notice.Success, "Workout saved successfully!")
}

// Submit validates and sends the draft in one call.
func (c *Composer) Submit(ctx context.Context) (*api.WorkoutRecord, error) {
	p, err := c.BeginSubmit()
	if err != nil {
		return nil, err
	}
	rec, err := c.creator.CreateWorkout(ctx, p)
	c.FinishSubmit(err)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"name": p.Name, "exercises": len(p.Exercises)}).Info("workout saved")
	return rec, nil
}
