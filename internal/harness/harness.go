package harness

import (
	"context"
	"errors"
	"fmt"

	"pkt.systems/pslog"

	"github.com/roach88/recipebox/internal/category"
	"github.com/roach88/recipebox/internal/editor"
	"github.com/roach88/recipebox/internal/model"
	"github.com/roach88/recipebox/internal/navigation"
	"github.com/roach88/recipebox/internal/repository"
	"github.com/roach88/recipebox/internal/store"
	"github.com/roach88/recipebox/internal/testutil"
	"github.com/roach88/recipebox/internal/validate"
)

// Harness drives one scenario run.
type Harness struct {
	scenario *Scenario
	repo     *repository.Repository
	nav      *navigation.Bus
	session  *editor.Session
	clock    *testutil.DeterministicClock
	log      pslog.Logger
}

// Run executes a scenario against a fresh in-memory store and returns the
// result. An error means the scenario could not be set up; unmet
// expectations are reported in Result.Errors.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	log := pslog.Ctx(ctx).With("scenario", scenario.Name)
	repo := repository.New(ctx, st, category.Static(scenario.Categories...), repository.WithLogger(log))
	defer repo.Close()

	nav := navigation.NewBus(navigation.WithLogger(log))
	defer nav.Close()

	h := &Harness{
		scenario: scenario,
		repo:     repo,
		nav:      nav,
		clock:    testutil.NewDeterministicClock(),
		log:      log,
	}
	if err := h.seed(ctx); err != nil {
		return nil, fmt.Errorf("failed to seed: %w", err)
	}
	if err := h.open(ctx); err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	defer h.session.Close()

	result := NewResult()
	result.SessionID = h.session.ID()
	for i, step := range scenario.Steps {
		ev, err := h.apply(ctx, step)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, step.Action, err)
		}
		if ev.Outcome == OutcomeSaved {
			result.Saved = true
		}
		if step.Expect != "" && step.Expect != ev.Outcome {
			result.AddError(fmt.Sprintf("step %d (%s): expected outcome %s, got %s", i, step.Action, step.Expect, ev.Outcome))
		}
		result.AddTrace(ev)
	}

	for _, e := range nav.ClearEvents() {
		result.Navigation = append(result.Navigation, e.String())
	}
	snap := h.session.Snapshot()
	result.Codes = codes(snap.Errors)
	result.Dirty = snap.Dirty()

	recipes, err := repo.Snapshot(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read final recipes: %w", err)
	}
	for _, r := range recipes {
		result.Recipes = append(result.Recipes, RecipeState{
			ID:       int64(r.ID),
			Name:     r.Name,
			Category: int64(r.CategoryID),
		})
	}

	for _, msg := range EvaluateExpect(result, scenario.Expect) {
		result.AddError(msg)
	}
	return result, nil
}

func (h *Harness) seed(ctx context.Context) error {
	for i, s := range h.scenario.Seed {
		rec := model.Recipe{
			Image:       s.Image,
			Name:        s.Name,
			CategoryID:  model.CategoryID(s.Category),
			Ingredients: s.Ingredients,
			Steps:       s.Steps,
		}
		if c, ok := h.findCategory(rec.CategoryID); ok {
			rec.CategoryName = c.Name
		}
		if _, err := h.repo.Upsert(ctx, rec); err != nil {
			return fmt.Errorf("seed %d: %w", i, err)
		}
	}
	return nil
}

func (h *Harness) open(ctx context.Context) error {
	opts := []editor.Option{
		editor.WithLogger(h.log),
		editor.WithIDGenerator(testutil.NewFixedSessionGenerator(h.scenario.SessionID)),
	}
	if h.scenario.Session.Mode == ModeAdd {
		h.session = editor.NewAdd(h.repo, h.nav, opts...)
		return nil
	}
	h.session = editor.NewEdit(ctx, h.repo, h.nav, model.RecipeID(h.scenario.Session.RecipeID), opts...)
	return h.session.WaitReady(ctx)
}

// apply runs one step and records it. A ProgrammerError panic becomes the
// programmer_error outcome.
func (h *Harness) apply(ctx context.Context, step Step) (ev TraceEvent, err error) {
	ev = TraceEvent{
		Seq:    h.clock.Next(),
		Action: step.Action,
		Args:   stepArgs(step),
	}
	defer func() {
		if r := recover(); r != nil {
			perr, ok := r.(*model.ProgrammerError)
			if !ok {
				panic(r)
			}
			h.log.Debug("programmer error", "err", perr.Error())
			ev.Outcome = OutcomeProgrammerError
		}
		snap := h.session.Snapshot()
		ev.Errors = codes(snap.Errors)
		ev.Dirty = snap.Dirty()
	}()

	ev.Outcome, err = h.dispatch(ctx, step)
	return ev, err
}

func (h *Harness) dispatch(ctx context.Context, step Step) (string, error) {
	s := h.session
	switch step.Action {
	case ActionSetImage:
		return mutation(s.SetImage(step.Value))
	case ActionSetName:
		return mutation(s.SetName(step.Value))
	case ActionSetCategory:
		c, ok := h.findCategory(model.CategoryID(step.Category))
		if !ok {
			c = model.Category{ID: model.CategoryID(step.Category)}
		}
		return mutation(s.SetCategory(c))
	case ActionAddIngredient:
		return mutation(s.AddIngredient(step.Value))
	case ActionReplaceIngredient:
		return mutation(s.ReplaceIngredient(step.Index, step.Value))
	case ActionRemoveIngredient:
		return mutation(s.RemoveIngredient(step.Index))
	case ActionAddStep:
		return mutation(s.AddStep(step.Value))
	case ActionReplaceStep:
		return mutation(s.ReplaceStep(step.Index, step.Value))
	case ActionRemoveStep:
		return mutation(s.RemoveStep(step.Index))
	case ActionSave:
		res, err := s.Save(ctx)
		switch {
		case model.IsStorageError(err):
			return OutcomeStorageError, nil
		case err != nil:
			return mutation(err)
		case res.Saved():
			return OutcomeSaved, nil
		default:
			return OutcomeInvalid, nil
		}
	case ActionRequestClose:
		if s.RequestClose() == editor.ConfirmDiscard {
			return OutcomeConfirmDiscard, nil
		}
		return OutcomeCloseNow, nil
	case ActionDiscard:
		s.Discard()
		return OutcomeDiscarded, nil
	}
	return "", fmt.Errorf("unknown action %q", step.Action)
}

func (h *Harness) findCategory(id model.CategoryID) (model.Category, bool) {
	return model.FindCategory(h.scenario.Categories, id)
}

func mutation(err error) (string, error) {
	switch {
	case err == nil:
		return OutcomeOK, nil
	case errors.Is(err, editor.ErrNotReady):
		return OutcomeNotReady, nil
	case errors.Is(err, editor.ErrClosed):
		return OutcomeClosed, nil
	}
	return "", err
}

func stepArgs(step Step) map[string]any {
	switch step.Action {
	case ActionSetImage, ActionSetName, ActionAddIngredient, ActionAddStep:
		return map[string]any{"value": step.Value}
	case ActionSetCategory:
		return map[string]any{"category": step.Category}
	case ActionReplaceIngredient, ActionReplaceStep:
		return map[string]any{"index": step.Index, "value": step.Value}
	case ActionRemoveIngredient, ActionRemoveStep:
		return map[string]any{"index": step.Index}
	}
	return nil
}

func codes(r validate.Result) []string {
	out := []string{}
	for _, e := range r.Errors() {
		out = append(out, string(e.Code))
	}
	return out
}
