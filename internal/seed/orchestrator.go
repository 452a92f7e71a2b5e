package seed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/johnwards/takeout/internal/domain"
)

// Orchestrator runs a dependency-ordered selection of seeders.
type Orchestrator struct {
	seeders []Seeder
	index   map[string]int
	logger  *slog.Logger
}

// NewOrchestrator registers seeders. Registration order breaks ties in the
// execution order, so the same selection always runs the same way.
func NewOrchestrator(seeders []Seeder, opts ...Option) (*Orchestrator, error) {
	cfg := newSettings(opts)
	o := &Orchestrator{
		seeders: make([]Seeder, 0, len(seeders)),
		index:   make(map[string]int, len(seeders)),
		logger:  cfg.logger,
	}
	for _, s := range seeders {
		dt := s.DataType()
		if _, ok := o.index[dt]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateDataType, dt)
		}
		o.index[dt] = len(o.seeders)
		o.seeders = append(o.seeders, s)
	}
	return o, nil
}

// DataTypes returns the registered data types in registration order.
func (o *Orchestrator) DataTypes() []string {
	out := make([]string, len(o.seeders))
	for i, s := range o.seeders {
		out[i] = s.DataType()
	}
	return out
}

// Resolve returns the seeders to run for types minus skip, in execution
// order. An empty types selects everything registered. Dependencies outside
// the selection, skipped or simply not requested, count as already
// satisfied; a dependency that was neither requested nor skipped is logged
// as a warning. Dependencies on unregistered types are rejected.
func (o *Orchestrator) Resolve(types, skip []string) ([]Seeder, error) {
	if len(types) == 0 {
		types = o.DataTypes()
	}
	for _, dt := range append(append([]string(nil), types...), skip...) {
		if _, ok := o.index[dt]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownDataType, dt)
		}
	}

	skipped := make(map[string]bool, len(skip))
	for _, dt := range skip {
		skipped[dt] = true
	}
	selected := make([]bool, len(o.seeders))
	for _, dt := range types {
		if !skipped[dt] {
			selected[o.index[dt]] = true
		}
	}

	// indegree[i] counts selected dependencies of seeder i not yet emitted.
	indegree := make([]int, len(o.seeders))
	dependents := make([][]int, len(o.seeders))
	for i, s := range o.seeders {
		if !selected[i] {
			continue
		}
		for _, dep := range s.Dependencies() {
			j, ok := o.index[dep]
			if !ok {
				return nil, fmt.Errorf("%w: %s depends on %s", ErrUnknownDataType, s.DataType(), dep)
			}
			switch {
			case selected[j]:
				indegree[i]++
				dependents[j] = append(dependents[j], i)
			case !skipped[dep]:
				o.logger.Warn("dependency not selected, assuming it is already seeded",
					"type", s.DataType(), "dependency", dep)
			}
		}
	}

	var order []Seeder
	emitted := make([]bool, len(o.seeders))
	for {
		next := -1
		for i := range o.seeders {
			if selected[i] && !emitted[i] && indegree[i] == 0 {
				next = i
				break
			}
		}
		if next < 0 {
			break
		}
		emitted[next] = true
		order = append(order, o.seeders[next])
		for _, d := range dependents[next] {
			indegree[d]--
		}
	}

	var stuck []string
	for i, s := range o.seeders {
		if selected[i] && !emitted[i] {
			stuck = append(stuck, s.DataType())
		}
	}
	if len(stuck) > 0 {
		return nil, fmt.Errorf("%w among %s", ErrDependencyCycle, strings.Join(stuck, ", "))
	}
	return order, nil
}

// Run resolves the selection and executes it stage by stage on db. Stages
// never overlap: a stage may read rows the previous one just wrote.
//
// Configuration errors are returned before any stage runs. If a stage fails
// fatally, Run stops and returns the results of the stages that completed
// together with a *StageError.
func (o *Orchestrator) Run(ctx context.Context, db *sql.DB, bundle *domain.Bundle, types, skip []string, progress Progress) (map[string]Result, error) {
	if db == nil {
		return nil, ErrDatabaseRequired
	}
	plan, err := o.Resolve(types, skip)
	if err != nil {
		return nil, err
	}
	if bundle == nil {
		bundle = &domain.Bundle{}
	}

	start := time.Now()
	results := make(map[string]Result, len(plan))
	for _, s := range plan {
		o.logger.Debug("starting stage", "type", s.DataType(), "depends_on", s.Dependencies())

		res, err := s.Seed(ctx, db, bundle, progress)
		if err != nil {
			o.logger.Error("stage aborted", "type", s.DataType(), "error", err)
			return results, &StageError{DataType: s.DataType(), Partial: res, Err: err}
		}
		results[s.DataType()] = res
	}

	total := Total(results, o.DataTypes())
	o.logger.Info("seeding finished",
		"stages", len(plan),
		"created", total.Created,
		"updated", total.Updated,
		"failed", total.Failed,
		"duration", time.Since(start),
	)
	return results, nil
}
