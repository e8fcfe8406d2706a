package validate

import (
	"fmt"
	"strings"

	"github.com/roach88/recipebox/internal/model"
)

// Field names a validated recipe attribute.
type Field string

const (
	FieldImage       Field = "image"
	FieldName        Field = "name"
	FieldCategory    Field = "category"
	FieldIngredients Field = "ingredients"
	FieldSteps       Field = "steps"
)

// Fields lists every validated field in display order.
var Fields = []Field{FieldImage, FieldName, FieldCategory, FieldIngredients, FieldSteps}

// Code identifies a validation failure.
type Code string

const (
	CodeEmptyImage       Code = "EMPTY_IMAGE"
	CodeEmptyName        Code = "EMPTY_NAME"
	CodeEmptyCategory    Code = "EMPTY_CATEGORY"
	CodeEmptyIngredients Code = "EMPTY_INGREDIENTS"
	CodeEmptySteps       Code = "EMPTY_STEPS"
)

// Error is a single field validation failure.
type Error struct {
	Field Field
	Code  Code
}

// Error implements the error interface so failures can be logged and
// wrapped; validators still return *Error values rather than raising them.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Code)
}

// Image fails with EMPTY_IMAGE when image is empty or whitespace.
func Image(image string) *Error {
	if isBlank(image) {
		return &Error{Field: FieldImage, Code: CodeEmptyImage}
	}
	return nil
}

// Name fails with EMPTY_NAME when name is empty or whitespace.
func Name(name string) *Error {
	if isBlank(name) {
		return &Error{Field: FieldName, Code: CodeEmptyName}
	}
	return nil
}

// Category fails with EMPTY_CATEGORY when id is unset or names no category
// in cats.
func Category(id model.CategoryID, cats []model.Category) *Error {
	if _, ok := model.FindCategory(cats, id); !ok {
		return &Error{Field: FieldCategory, Code: CodeEmptyCategory}
	}
	return nil
}

// Ingredients fails with EMPTY_INGREDIENTS when the list has no elements.
// Blank entries are accepted.
func Ingredients(ingredients []string) *Error {
	if len(ingredients) == 0 {
		return &Error{Field: FieldIngredients, Code: CodeEmptyIngredients}
	}
	return nil
}

// Steps fails with EMPTY_STEPS when the list has no elements.
func Steps(steps []string) *Error {
	if len(steps) == 0 {
		return &Error{Field: FieldSteps, Code: CodeEmptySteps}
	}
	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
