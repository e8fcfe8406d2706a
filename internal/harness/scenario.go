package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/recipebox/internal/model"
)

// Scenario defines an edit-session scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Categories is the category source for the run.
	Categories []model.Category `yaml:"categories"`

	// Seed recipes are stored before the session opens. They receive ids
	// 1, 2, ... in order.
	Seed []SeedRecipe `yaml:"seed,omitempty"`

	Session SessionSpec `yaml:"session"`

	Steps []Step `yaml:"steps"`

	Expect Expect `yaml:"expect"`

	// SessionID is an optional fixed session id.
	SessionID string `yaml:"session_id,omitempty"`
}

// SeedRecipe is a recipe stored before the session opens.
type SeedRecipe struct {
	Image       string   `yaml:"image"`
	Name        string   `yaml:"name"`
	Category    int64    `yaml:"category"`
	Ingredients []string `yaml:"ingredients"`
	Steps       []string `yaml:"steps"`
}

// SessionSpec says how the session is opened.
type SessionSpec struct {
	Mode     string `yaml:"mode"`
	RecipeID int64  `yaml:"recipe_id,omitempty"`
}

// Step is one user intent.
type Step struct {
	Action   string `yaml:"action"`
	Value    string `yaml:"value,omitempty"`
	Index    int    `yaml:"index,omitempty"`
	Category int64  `yaml:"category,omitempty"`

	// Expect is the expected outcome. Empty means unchecked.
	Expect string `yaml:"expect,omitempty"`
}

// Expect holds checks on the final state. Nil fields are unchecked.
type Expect struct {
	// Saved reports whether any save step persisted the draft.
	Saved *bool `yaml:"saved,omitempty"`

	// Errors lists the validation codes visible at the end, in field order.
	Errors []string `yaml:"errors,omitempty"`

	// Navigation lists the emitted navigation events, in order.
	Navigation []string `yaml:"navigation,omitempty"`

	Dirty *bool `yaml:"dirty,omitempty"`

	// Recipes is the number of stored recipes at the end.
	Recipes *int `yaml:"recipes,omitempty"`
}

// Session modes.
const (
	ModeAdd  = "add"
	ModeEdit = "edit"
)

// Step actions.
const (
	ActionSetImage          = "set_image"
	ActionSetName           = "set_name"
	ActionSetCategory       = "set_category"
	ActionAddIngredient     = "add_ingredient"
	ActionReplaceIngredient = "replace_ingredient"
	ActionRemoveIngredient  = "remove_ingredient"
	ActionAddStep           = "add_step"
	ActionReplaceStep       = "replace_step"
	ActionRemoveStep        = "remove_step"
	ActionSave              = "save"
	ActionRequestClose      = "request_close"
	ActionDiscard           = "discard"
)

var knownActions = map[string]bool{
	ActionSetImage:          true,
	ActionSetName:           true,
	ActionSetCategory:       true,
	ActionAddIngredient:     true,
	ActionReplaceIngredient: true,
	ActionRemoveIngredient:  true,
	ActionAddStep:           true,
	ActionReplaceStep:       true,
	ActionRemoveStep:        true,
	ActionSave:              true,
	ActionRequestClose:      true,
	ActionDiscard:           true,
}

// LoadScenario reads and parses a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML. Unknown fields are rejected so typos
// surface as errors.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	switch s.Session.Mode {
	case ModeAdd:
		if s.Session.RecipeID != 0 {
			return fmt.Errorf("session.recipe_id is only valid in edit mode")
		}
	case ModeEdit:
		if s.Session.RecipeID <= 0 {
			return fmt.Errorf("session.recipe_id is required in edit mode")
		}
	default:
		return fmt.Errorf("session.mode must be %q or %q, got %q", ModeAdd, ModeEdit, s.Session.Mode)
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("at least one step is required")
	}
	for i, step := range s.Steps {
		if !knownActions[step.Action] {
			return fmt.Errorf("step %d: unknown action %q", i, step.Action)
		}
	}
	return nil
}
