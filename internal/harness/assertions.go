package harness

import (
	"fmt"
	"slices"
	"strings"
)

// AssertionError describes an unmet expectation with the trace that led
// to it.
type AssertionError struct {
	Field    string
	Expected string
	Actual   string
	Trace    []TraceEvent
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "expectation failed: %s\n", e.Field)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, ev := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s %v -> %s\n", ev.Seq, ev.Action, ev.Args, ev.Outcome)
		}
	}
	return buf.String()
}

// EvaluateExpect checks the final state of result against expect and
// returns one message per unmet expectation.
func EvaluateExpect(result *Result, expect Expect) []string {
	var errs []string
	fail := func(field, expected, actual string) {
		errs = append(errs, (&AssertionError{
			Field:    field,
			Expected: expected,
			Actual:   actual,
			Trace:    result.Trace,
		}).Error())
	}

	if expect.Saved != nil && *expect.Saved != result.Saved {
		fail("saved", fmt.Sprint(*expect.Saved), fmt.Sprint(result.Saved))
	}
	if expect.Errors != nil && !slices.Equal(expect.Errors, result.Codes) {
		fail("errors", formatList(expect.Errors), formatList(result.Codes))
	}
	if expect.Navigation != nil && !slices.Equal(expect.Navigation, result.Navigation) {
		fail("navigation", formatList(expect.Navigation), formatList(result.Navigation))
	}
	if expect.Dirty != nil && *expect.Dirty != result.Dirty {
		fail("dirty", fmt.Sprint(*expect.Dirty), fmt.Sprint(result.Dirty))
	}
	if expect.Recipes != nil && *expect.Recipes != len(result.Recipes) {
		fail("recipes", fmt.Sprint(*expect.Recipes), fmt.Sprint(len(result.Recipes)))
	}
	return errs
}

func formatList(items []string) string {
	return "[" + strings.Join(items, ", ") + "]"
}
