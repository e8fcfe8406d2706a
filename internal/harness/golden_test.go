package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden(t *testing.T) {
	for _, name := range []string{
		"add_valid_recipe",
		"edit_then_discard",
		"invalid_save_then_fix",
	} {
		t.Run(name, func(t *testing.T) {
			result, err := RunWithGolden(t, load(t, name))
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestTraceSnapshot_CanonicalShape(t *testing.T) {
	snap := TraceSnapshot{
		ScenarioName: "shape",
		SessionID:    "s",
		Trace: []TraceEvent{
			{Seq: 1, Action: ActionRemoveStep, Args: map[string]any{"index": 0}, Outcome: OutcomeProgrammerError},
		},
	}
	data, err := snap.MarshalCanonical()
	require.NoError(t, err)
	assert.Equal(t,
		`{"navigation":[],"recipes":[],"scenario_name":"shape","session_id":"s","trace":[{"action":"remove_step","args":{"index":0},"dirty":false,"errors":[],"outcome":"programmer_error","seq":1}]}`,
		string(data))
}
