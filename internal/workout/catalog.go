package workout

import (
	"context"
	"strconv"
	"strings"

	"github.com/fakeyudi/fitflex/internal/api"
	log "github.com/sirupsen/logrus"
)

// ExerciseFetcher is the slice of the API client the catalog loader needs.
type ExerciseFetcher interface {
	Exercises(ctx context.Context) ([]api.Exercise, error)
}

// Catalog is the server's exercise list, kept in server order.
type Catalog struct {
	exercises []api.Exercise
	byID      map[int]int
}

// NewCatalog indexes exercises. A later duplicate id is ignored.
func NewCatalog(exercises []api.Exercise) *Catalog {
	c := &Catalog{byID: make(map[int]int, len(exercises))}
	for _, e := range exercises {
		if _, dup := c.byID[e.ID]; dup {
			continue
		}
		c.byID[e.ID] = len(c.exercises)
		c.exercises = append(c.exercises, e)
	}
	return c
}

// LoadCatalog fetches the catalog once. A failed fetch is logged and yields
// an empty catalog; there is no retry.
func LoadCatalog(ctx context.Context, f ExerciseFetcher) *Catalog {
	exercises, err := f.Exercises(ctx)
	if err != nil {
		log.WithError(err).Error("failed to load exercise catalog")
		return NewCatalog(nil)
	}
	log.WithField("count", len(exercises)).Debug("exercise catalog loaded")
	return NewCatalog(exercises)
}

// All returns a copy of the catalog in server order.
func (c *Catalog) All() []api.Exercise {
	out := make([]api.Exercise, len(c.exercises))
	copy(out, c.exercises)
	return out
}

// Len returns the number of exercises.
func (c *Catalog) Len() int { return len(c.exercises) }

// Lookup finds an exercise by id.
func (c *Catalog) Lookup(id int) (api.Exercise, bool) {
	i, ok := c.byID[id]
	if !ok {
		return api.Exercise{}, false
	}
	return c.exercises[i], true
}

// Name returns the exercise name for id, or "" if unknown.
func (c *Catalog) Name(id int) string {
	e, _ := c.Lookup(id)
	return e.Name
}

// matching returns every catalog entry whose name is in names, in catalog
// order, plus the names that matched nothing.
func (c *Catalog) matching(names []string) (found []api.Exercise, missing []string) {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = false
	}
	for _, e := range c.exercises {
		if _, ok := want[e.Name]; ok {
			want[e.Name] = true
			found = append(found, e)
		}
	}
	for _, n := range names {
		if !want[n] {
			missing = append(missing, n)
		}
	}
	return found, missing
}

// Missing returns the names that have no catalog entry.
func (c *Catalog) Missing(names []string) []string {
	_, missing := c.matching(names)
	return missing
}

// Find resolves an exercise by id or, failing that, by case-insensitive name.
func (c *Catalog) Find(ref string) (api.Exercise, bool) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.Atoi(ref); err == nil {
		return c.Lookup(id)
	}
	for _, e := range c.exercises {
		if strings.EqualFold(e.Name, ref) {
			return e, true
		}
	}
	return api.Exercise{}, false
}
