package scenario

import (
	"fmt"

	"cpsim/internal"
	"cpsim/station"
)

// Step is one scripted action against the station, optionally followed by a
// check on the resulting state.
type Step struct {
	Name   string
	Do     func(e *station.Engine) error
	Expect func(e *station.Engine) error
}

type Scenario struct {
	Name  string
	Steps []Step
}

// Runner executes scenarios sequentially, stopping at the first failing step.
type Runner struct {
	logger internal.LogHandler
}

func NewRunner(logger internal.LogHandler) *Runner {
	return &Runner{logger: logger}
}

func (r *Runner) Run(engine *station.Engine, sc Scenario) error {
	for i, step := range sc.Steps {
		r.logger.FeatureEvent(sc.Name, engine.StationId(), fmt.Sprintf("step %d: %s", i+1, step.Name))
		if step.Do != nil {
			if err := step.Do(engine); err != nil {
				return fmt.Errorf("%s: step %q: %w", sc.Name, step.Name, err)
			}
		}
		if step.Expect != nil {
			if err := step.Expect(engine); err != nil {
				return fmt.Errorf("%s: step %q: %w", sc.Name, step.Name, err)
			}
		}
	}
	return nil
}
