// Package harness runs edit-session scenarios written in YAML.
//
// A scenario seeds an in-memory recipe store, opens one edit session, applies
// a list of user intents and checks the outcome. Every step is recorded in a
// trace that can be compared against a golden file.
//
// # Scenario Format
//
//	name: add_soup
//	description: "Adding a valid recipe saves it and navigates back"
//	categories:
//	  - { id: 1, name: Breakfast }
//	seed:
//	  - { image: file://a.jpg, name: Toast, category: 1, ingredients: [bread], steps: [toast] }
//	session:
//	  mode: edit        # add or edit
//	  recipe_id: 1      # edit only
//	steps:
//	  - action: set_name
//	    value: Soup
//	  - action: replace_ingredient
//	    index: 0
//	    value: water
//	  - action: set_category
//	    category: 1
//	  - action: save
//	    expect: saved
//	expect:
//	  saved: true
//	  errors: []
//	  navigation: [back]
//	  dirty: false
//	  recipes: 2
//
// # Actions
//
//   - set_image, set_name: value
//   - set_category: category id; an unknown id is set with an empty name
//   - add_ingredient, add_step: value
//   - replace_ingredient, replace_step: index and value
//   - remove_ingredient, remove_step: index
//   - save, request_close, discard
//
// A step may name its expected outcome with expect. Outcomes are ok,
// not_ready, closed, invalid, saved, storage_error, close_now,
// confirm_discard, discarded and programmer_error.
//
// # Deterministic Runs
//
// Each run uses a fresh in-memory store, a fixed session id (session_id, or
// testutil.DefaultSessionID) and a step clock starting at 1, so the same
// scenario always produces the same trace.
package harness
