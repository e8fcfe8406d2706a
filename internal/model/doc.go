// Package model defines the recipe domain types shared by every layer:
// recipes, categories, selectable chooser entries and the error taxonomy.
//
// A Recipe with ID == Unsaved has never been persisted. Empty returns the
// blank draft an add session starts from; two recipes are compared with
// Equal, which treats nil and empty lists as the same value.
package model
