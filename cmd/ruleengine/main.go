// Ruleengine parses, combines and evaluates attribute-comparison rules.
//
// Rules are plain text such as
//
//	age > 30 AND department == 'Sales' OR salary >= 50000
//
// and are stored as trees that can be combined into larger rules and
// evaluated against JSON data records.
//
// Usage:
//
//	# Start the HTTP API with the default configuration
//	ruleengine serve
//
//	# Start with a configuration file
//	ruleengine serve --config /etc/ruleengine/config.yaml
//
//	# Show the tree for a rule
//	ruleengine parse "age > 30 AND department == 'Sales'"
//
//	# Evaluate ad-hoc rule text against a record
//	ruleengine eval --rule "age > 30" --data '{"age": 42}'
//
//	# Manage stored rules
//	ruleengine rules create --name seniors --rule "age >= 65"
//	ruleengine rules list
//	ruleengine combine --name seniors-and-vip <id1> <id2>
package main

func main() {
	Execute()
}
