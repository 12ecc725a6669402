package store

import (
	"context"
	"fmt"
	"time"

	"github.com/cognicore/bdi/pkg/bdi/agent"
	"github.com/cognicore/bdi/pkg/bdi/internalerr"
	"github.com/cognicore/bdi/pkg/bdi/logic"
)

// Recorder saves every agent cycle to a Store.
type Recorder struct {
	Store Store
	RunID string
	// Offset is added to cycle numbers, so a resumed run continues its
	// numbering.
	Offset int
	Now    func() time.Time
}

var _ agent.Recorder = (*Recorder)(nil)

// RecordCycle implements agent.Recorder.
func (r *Recorder) RecordCycle(ctx context.Context, report agent.CycleReport) error {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	c := FromReport(r.RunID, report, now())
	c.Number += r.Offset
	return r.Store.SaveCycle(ctx, c)
}

// FromReport converts an agent report into its stored form.
func FromReport(runID string, report agent.CycleReport, at time.Time) Cycle {
	c := Cycle{
		RunID:   runID,
		Number:  report.Number,
		Outcome: report.Result.String(),
		At:      at.UTC(),
	}
	if report.HasAction {
		c.Action = report.Action.String()
	}
	if report.State != nil {
		c.Believes = report.State.Believes.Strings()
		c.Desires = report.State.Desires.Strings()
		c.Intentions = report.State.Intentions.Strings()
	}
	return c
}

// Restore rebuilds the mental state stored in c.
func Restore(c Cycle) (*agent.MentalState, error) {
	m := agent.NewMentalState()
	for _, part := range []struct {
		name string
		src  []string
		dst  *logic.KB
	}{
		{"believes", c.Believes, m.Believes},
		{"desires", c.Desires, m.Desires},
		{"intentions", c.Intentions, m.Intentions},
	} {
		for _, line := range part.src {
			s, err := logic.ParseSentence(line)
			if err != nil {
				return nil, fmt.Errorf("restore %s of cycle %d: %w", part.name, c.Number, err)
			}
			part.dst.Add(s)
		}
	}
	return m, nil
}

// Resume loads the latest snapshot of runID.
func Resume(ctx context.Context, s Store, runID string) (*agent.MentalState, Cycle, error) {
	c, found, err := s.LatestCycle(ctx, runID)
	if err != nil {
		return nil, Cycle{}, err
	}
	if !found {
		return nil, Cycle{}, fmt.Errorf("run %s: %w", runID, internalerr.ErrNotFound)
	}
	m, err := Restore(c)
	if err != nil {
		return nil, Cycle{}, err
	}
	return m, c, nil
}
