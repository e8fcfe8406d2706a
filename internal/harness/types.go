package harness

// Step outcomes recorded in the trace.
const (
	OutcomeOK              = "ok"
	OutcomeNotReady        = "not_ready"
	OutcomeClosed          = "closed"
	OutcomeInvalid         = "invalid"
	OutcomeSaved           = "saved"
	OutcomeStorageError    = "storage_error"
	OutcomeCloseNow        = "close_now"
	OutcomeConfirmDiscard  = "confirm_discard"
	OutcomeDiscarded       = "discarded"
	OutcomeProgrammerError = "programmer_error"
)

// TraceEvent records one applied step.
type TraceEvent struct {
	Seq     int64          `json:"seq"`
	Action  string         `json:"action"`
	Args    map[string]any `json:"args,omitempty"`
	Outcome string         `json:"outcome"`
	// Errors are the validation codes visible after the step.
	Errors []string `json:"errors"`
	Dirty  bool     `json:"dirty"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every expectation held.
	Pass bool `json:"pass"`

	SessionID string `json:"session_id"`

	Trace []TraceEvent `json:"trace"`

	// Navigation lists the events drained from the bus, in order.
	Navigation []string `json:"navigation"`

	// Saved is true when any save step persisted the draft.
	Saved bool `json:"saved"`

	// Errors contains expectation failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Codes are the validation codes visible at the end.
	Codes []string `json:"codes"`

	Dirty bool `json:"dirty"`

	// Recipes is the store content at the end, in id order.
	Recipes []RecipeState `json:"recipes"`
}

// RecipeState is a stored recipe as seen at the end of a run.
type RecipeState struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category int64  `json:"category"`
}

// NewResult creates a passing result.
func NewResult() *Result {
	return &Result{
		Pass:       true,
		Trace:      []TraceEvent{},
		Navigation: []string{},
		Errors:     []string{},
		Codes:      []string{},
		Recipes:    []RecipeState{},
	}
}

// AddError adds an expectation failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a step record.
func (r *Result) AddTrace(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
}
