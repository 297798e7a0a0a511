package workout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fakeyudi/fitflex/internal/api"
	"github.com/fakeyudi/fitflex/internal/guard"
	"github.com/fakeyudi/fitflex/internal/notice"
	"github.com/fakeyudi/fitflex/internal/session"
	log "github.com/sirupsen/logrus"
)

// DeletePrompt is the question shown before a workout is deleted.
const DeletePrompt = "Are you sure you want to delete this workout?"

// WorkoutService is the slice of the API client the editor uses.
type WorkoutService interface {
	Workouts(ctx context.Context) ([]api.WorkoutRecord, error)
	UpdateWorkout(ctx context.Context, id int, p api.WorkoutPayload) (*api.WorkoutRecord, error)
	DeleteWorkout(ctx context.Context, id int) error
}

// EditState is either Closed or Editing.
type EditState interface {
	editState()
}

// Closed means no workout is being edited.
type Closed struct{}

// Editing holds the draft of the one record being edited.
type Editing struct {
	RecordID int
	Draft    *EditDraft
}

func (Closed) editState()  {}
func (Editing) editState() {}

// DraftExercise is one exercise line of an edit draft.
type DraftExercise struct {
	ExerciseID int
	Name       string
	Duration   Minutes
}

// EditDraft is a mutable copy of a stored workout.
type EditDraft struct {
	Name      string
	Date      string
	Exercises []DraftExercise
}

func draftOf(r api.WorkoutRecord) *EditDraft {
	d := &EditDraft{Name: r.Name, Date: r.Date, Exercises: make([]DraftExercise, len(r.Exercises))}
	for i, e := range r.Exercises {
		d.Exercises[i] = DraftExercise{ExerciseID: e.ExerciseID, Name: e.Name, Duration: MinutesOf(e.Duration)}
	}
	return d
}

// Payload validates the draft and builds the update body.
func (d *EditDraft) Payload() (api.WorkoutPayload, error) {
	verr := &ValidationError{}
	if d.Name == "" {
		verr.add("name is required")
	}
	date, err := NormalizeDate(d.Date)
	if err != nil {
		verr.add(err.Error())
	}
	entries := make([]api.ExerciseEntry, 0, len(d.Exercises))
	for _, e := range d.Exercises {
		n, err := e.Duration.Int()
		if err != nil {
			verr.add(e.Name + ": " + err.Error())
			continue
		}
		entries = append(entries, api.ExerciseEntry{ExerciseID: e.ExerciseID, Duration: n})
	}
	if err := verr.orNil(); err != nil {
		return api.WorkoutPayload{}, err
	}
	return api.WorkoutPayload{Name: d.Name, Date: date, Exercises: entries}, nil
}

// Editor manages the workout history and at most one open edit.
type Editor struct {
	svc     WorkoutService
	session Session
	board   *notice.Board
	now     func() time.Time

	records []api.WorkoutRecord
	state   EditState
	saving  bool
}

func NewEditor(svc WorkoutService, sess Session, board *notice.Board) *Editor {
	return &Editor{svc: svc, session: sess, board: board, now: time.Now, state: Closed{}}
}

// WithClock replaces the clock used for the session guard.
func (e *Editor) WithClock(now func() time.Time) *Editor {
	e.now = now
	return e
}

// Records returns a copy of the loaded history.
func (e *Editor) Records() []api.WorkoutRecord {
	out := make([]api.WorkoutRecord, len(e.records))
	copy(out, e.records)
	return out
}

// Record finds a loaded record by id.
func (e *Editor) Record(id int) (api.WorkoutRecord, bool) {
	for _, r := range e.records {
		if r.ID == id {
			return r, true
		}
	}
	return api.WorkoutRecord{}, false
}

func (e *Editor) State() EditState { return e.state }

// Load fetches the history and replaces the held list.
func (e *Editor) Load(ctx context.Context) error {
	records, err := e.svc.Workouts(ctx)
	e.ApplyLoad(records, err)
	return err
}

// ApplyLoad stores the result of a history fetch. On error the list is
// kept as is.
func (e *Editor) ApplyLoad(records []api.WorkoutRecord, err error) {
	if err != nil {
		log.WithError(err).Error("failed to load workouts")
		e.board.Post(notice.Failure, "Failed to load workouts: "+api.DetailOf(err))
		e.handleUnauthorized(err)
		return
	}
	e.records = records
}

// BeginEdit opens a draft for record. Any other open draft is discarded.
func (e *Editor) BeginEdit(record api.WorkoutRecord) {
	if cur, ok := e.state.(Editing); ok && cur.RecordID != record.ID {
		log.WithFields(log.Fields{"discarded": cur.RecordID, "opened": record.ID}).Debug("switching edited workout")
	}
	e.state = Editing{RecordID: record.ID, Draft: draftOf(record)}
}

func (e *Editor) draft() (*EditDraft, error) {
	cur, ok := e.state.(Editing)
	if !ok {
		return nil, ErrNotEditing
	}
	return cur.Draft, nil
}

func (e *Editor) UpdateName(v string) error {
	d, err := e.draft()
	if err != nil {
		return err
	}
	d.Name = v
	return nil
}

func (e *Editor) UpdateDate(v string) error {
	d, err := e.draft()
	if err != nil {
		return err
	}
	d.Date = v
	return nil
}

// UpdateExerciseDuration sets the duration of the exercise at index.
func (e *Editor) UpdateExerciseDuration(index int, raw string) error {
	d, err := e.draft()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(d.Exercises) {
		return fmt.Errorf("exercise index %d out of range [0,%d)", index, len(d.Exercises))
	}
	d.Exercises[index].Duration = ParseMinutes(raw)
	return nil
}

// Cancel discards the open draft.
func (e *Editor) Cancel() {
	e.state = Closed{}
}

func (e *Editor) checkSession() error {
	if guard.Check(e.session.Token(), e.now()) == guard.Valid {
		return nil
	}
	log.Warn("session expired before changing workout")
	if err := e.session.Invalidate(session.ReasonExpired); err != nil {
		log.WithError(err).Error("failed to clear expired session")
	}
	return ErrSessionExpired
}

func (e *Editor) handleUnauthorized(err error) {
	if !errors.Is(err, api.ErrUnauthorized) {
		return
	}
	if ierr := e.session.Invalidate(session.ReasonUnauthorized); ierr != nil {
		log.WithError(ierr).Error("failed to clear rejected session")
	}
}

// BeginSave checks the session, validates the open draft for id and
// returns the update body. The caller sends it and reports back through
// FinishSave.
func (e *Editor) BeginSave(id int) (api.WorkoutPayload, error) {
	if e.saving {
		return api.WorkoutPayload{}, ErrBusy
	}
	cur, ok := e.state.(Editing)
	if !ok || cur.RecordID != id {
		return api.WorkoutPayload{}, ErrNotEditing
	}
	if err := e.checkSession(); err != nil {
		return api.WorkoutPayload{}, err
	}
	p, err := cur.Draft.Payload()
	if err != nil {
		return api.WorkoutPayload{}, err
	}
	e.saving = true
	return p, nil
}

// FinishSave applies the outcome of updating id. A draft opened for another
// record in the meantime stays open. It reports whether the history should
// be reloaded.
func (e *Editor) FinishSave(id int, err error) bool {
	e.saving = false
	if err != nil {
		log.WithError(err).WithField("id", id).Error("failed to update workout")
		e.board.Post(notice.Failure, "Failed to update workout: "+api.DetailOf(err))
		e.handleUnauthorized(err)
		return false
	}
	if cur, ok := e.state.(Editing); ok && cur.RecordID == id {
		e.state = Closed{}
	}
	e.board.Post(notice.Success, "Workout updated!")
	return true
}

// Save sends the open draft for id, then reloads the history. A failed
// reload keeps the current list and the success notice.
func (e *Editor) Save(ctx context.Context, id int) error {
	p, err := e.BeginSave(id)
	if err != nil {
		return err
	}
	_, err = e.svc.UpdateWorkout(ctx, id, p)
	if !e.FinishSave(id, err) {
		return err
	}
	log.WithField("id", id).Info("workout updated")
	records, lerr := e.svc.Workouts(ctx)
	if lerr != nil {
		log.WithError(lerr).Warn("workout updated but history reload failed")
		e.handleUnauthorized(lerr)
		return nil
	}
	e.records = records
	return nil
}

// BeginDelete checks the session before a delete request is sent.
func (e *Editor) BeginDelete() error {
	return e.checkSession()
}

// FinishDelete applies the outcome of deleting id.
func (e *Editor) FinishDelete(id int, err error) {
	if err != nil {
		log.WithError(err).WithField("id", id).Error("failed to delete workout")
		e.board.Post(notice.Failure, "Failed to delete workout: "+api.DetailOf(err))
		e.handleUnauthorized(err)
		return
	}
	kept := e.records[:0]
	for _, r := range e.records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	e.records = kept
	if cur, ok := e.state.(Editing); ok && cur.RecordID == id {
		e.state = Closed{}
	}
	e.board.Post(notice.Success, "Workout deleted!")
}

// Delete asks confirm first and sends nothing unless it returns true. It
// reports whether the workout was deleted.
func (e *Editor) Delete(ctx context.Context, id int, confirm func(prompt string) bool) (bool, error) {
	if !confirm(DeletePrompt) {
		return false, nil
	}
	if err := e.BeginDelete(); err != nil {
		return false, err
	}
	err := e.svc.DeleteWorkout(ctx, id)
	e.FinishDelete(id, err)
	if err != nil {
		return false, err
	}
	log.WithField("id", id).Info("workout deleted")
	return true, nil
}
