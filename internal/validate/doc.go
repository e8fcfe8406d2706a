// Package validate implements the recipe field validation pipeline.
//
// Five independent checks cover image, name, category, ingredients and
// steps. Each check is pure: given the same inputs it always returns the
// same result, and no check depends on another. Validation failures are
// returned as values, never as Go errors.
package validate
