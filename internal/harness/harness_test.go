package harness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/recipebox/internal/model"
)

func load(t *testing.T, name string) *Scenario {
	t.Helper()
	s, err := LoadScenario("testdata/scenarios/" + name + ".yaml")
	require.NoError(t, err)
	return s
}

func TestRun_Fixtures(t *testing.T) {
	for _, name := range []string{
		"add_valid_recipe",
		"edit_then_discard",
		"invalid_save_then_fix",
		"close_untouched",
		"stale_category",
	} {
		t.Run(name, func(t *testing.T) {
			result, err := Run(context.Background(), load(t, name))
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRun_AddValidRecipe(t *testing.T) {
	result, err := Run(context.Background(), load(t, "add_valid_recipe"))
	require.NoError(t, err)

	assert.Equal(t, "test-session", result.SessionID)
	assert.True(t, result.Saved)
	assert.Equal(t, []string{"back"}, result.Navigation)
	assert.Equal(t, []RecipeState{{ID: 1, Name: "Soup", Category: 2}}, result.Recipes)
	require.Len(t, result.Trace, 6)
	for i, ev := range result.Trace {
		assert.Equal(t, int64(i+1), ev.Seq)
	}
}

func TestRun_StaleCategory(t *testing.T) {
	result, err := Run(context.Background(), load(t, "stale_category"))
	require.NoError(t, err)

	last := result.Trace[len(result.Trace)-1]
	assert.Equal(t, OutcomeProgrammerError, last.Outcome)
	assert.Equal(t, []string{"EMPTY_CATEGORY"}, last.Errors)
	assert.Empty(t, result.Recipes)
}

func TestRun_ReportsUnmetExpectations(t *testing.T) {
	saved := true
	s := &Scenario{
		Name:       "unmet",
		Categories: []model.Category{{ID: 1, Name: "Breakfast"}},
		Session:    SessionSpec{Mode: ModeAdd},
		Steps: []Step{
			{Action: ActionSave, Expect: OutcomeSaved},
		},
		Expect: Expect{
			Saved:      &saved,
			Navigation: []string{"back"},
		},
	}

	result, err := Run(context.Background(), s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[0], "expected outcome saved, got invalid")
	assert.Contains(t, result.Errors[1], "expectation failed: saved")
	assert.Contains(t, result.Errors[2], "expectation failed: navigation")
}

func TestRun_EditMissingRecipeStartsEmpty(t *testing.T) {
	dirty := false
	s := &Scenario{
		Name:    "edit_missing",
		Session: SessionSpec{Mode: ModeEdit, RecipeID: 42},
		Steps:   []Step{{Action: ActionRequestClose, Expect: OutcomeCloseNow}},
		Expect:  Expect{Dirty: &dirty, Navigation: []string{"back"}},
	}

	result, err := Run(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_FixedSessionID(t *testing.T) {
	s := load(t, "close_untouched")
	s.SessionID = "session-abc"

	result, err := Run(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, "session-abc", result.SessionID)
}

func TestRun_Deterministic(t *testing.T) {
	s := load(t, "invalid_save_then_fix")

	r1, err := Run(context.Background(), s)
	require.NoError(t, err)
	r2, err := Run(context.Background(), s)
	require.NoError(t, err)

	snap1 := Snapshot(s.Name, r1)
	snap2 := Snapshot(s.Name, r2)
	b1, err := snap1.MarshalCanonical()
	require.NoError(t, err)
	b2, err := snap2.MarshalCanonical()
	require.NoError(t, err)
	assert.Equal(t, string(b1), string(b2))
}
