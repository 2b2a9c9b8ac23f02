// Package handlers implements the HTTP endpoints of the rule engine API.
//
// Request and response bodies are JSON. Errors always have the shape
//
//	{"message": "Error creating rule", "error": "...", "details": {...}}
//
// where details is present for rule parse, combine and evaluation errors and
// points at the offending condition. Status codes: 400 for malformed bodies
// and rule text, 404 for unknown rule IDs, 409 for taken rule names, 413 for
// oversized bodies, 422 for trees the evaluator rejects and 500 otherwise.
package handlers
