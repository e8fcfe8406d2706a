// Package category loads the list of valid recipe categories.
//
// Category assets are UTF-8 lists of {id, name} records in JSON, CUE or
// YAML. Every asset is checked against a CUE schema: ids must be positive
// and unique, names non-empty. A Source reports malformed or unreadable
// assets as errors; the repository decides to degrade to an empty list.
package category
