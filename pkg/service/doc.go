// Package service implements the rule operations behind the HTTP API and
// the CLI: creating rules from text, combining stored rules, evaluating
// stored or ad-hoc rules against data records, and listing, fetching and
// deleting stored rules.
//
// Every operation records metrics, opens a trace span for the rule core
// call it makes (rules.parse, rules.combine, rules.evaluate) and logs
// through the structured logger. Record values are redacted from logs
// unless the logger is configured otherwise.
package service
