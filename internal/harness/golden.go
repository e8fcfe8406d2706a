package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/recipebox/internal/model"
)

// TraceSnapshot is the part of a run compared against golden files.
type TraceSnapshot struct {
	ScenarioName string
	SessionID    string
	Trace        []TraceEvent
	Navigation   []string
	Recipes      []RecipeState
}

// Snapshot extracts the golden snapshot of a result.
func Snapshot(name string, result *Result) TraceSnapshot {
	return TraceSnapshot{
		ScenarioName: name,
		SessionID:    result.SessionID,
		Trace:        result.Trace,
		Navigation:   result.Navigation,
		Recipes:      result.Recipes,
	}
}

// toCanonicalMap converts the snapshot to the plain values
// model.MarshalCanonical accepts.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	trace := make([]any, len(s.Trace))
	for i, ev := range s.Trace {
		m := map[string]any{
			"seq":     ev.Seq,
			"action":  ev.Action,
			"outcome": ev.Outcome,
			"errors":  append([]string{}, ev.Errors...),
			"dirty":   ev.Dirty,
		}
		if ev.Args != nil {
			m["args"] = ev.Args
		}
		trace[i] = m
	}
	recipes := make([]any, len(s.Recipes))
	for i, r := range s.Recipes {
		recipes[i] = map[string]any{
			"id":       r.ID,
			"name":     r.Name,
			"category": r.Category,
		}
	}
	return map[string]any{
		"scenario_name": s.ScenarioName,
		"session_id":    s.SessionID,
		"trace":         trace,
		"navigation":    append([]string{}, s.Navigation...),
		"recipes":       recipes,
	}
}

// MarshalCanonical renders the snapshot as canonical JSON.
func (s *TraceSnapshot) MarshalCanonical() ([]byte, error) {
	return model.MarshalCanonical(s.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares its trace against
// testdata/golden/{scenario.Name}.golden. Regenerate with
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot := Snapshot(scenarioName, result)
	data, err := snapshot.MarshalCanonical()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}
