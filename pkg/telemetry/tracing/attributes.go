package tracing

import (
	"go.opentelemetry.io/otel/attribute"
)

// Span attribute keys. Rule attributes use the "rule." namespace.
const (
	AttrRuleID         = attribute.Key("rule.id")
	AttrRuleName       = attribute.Key("rule.name")
	AttrRuleConditions = attribute.Key("rule.conditions")
	AttrRuleCount      = attribute.Key("rule.count")
	AttrResult         = attribute.Key("rule.result")
	AttrRecordSize     = attribute.Key("record.attributes")
	AttrErrorType      = attribute.Key("error.type")

	AttrHTTPMethod = attribute.Key("http.method")
	AttrHTTPTarget = attribute.Key("http.target")
)

// RuleAttributes describes a stored rule on a span.
func RuleAttributes(id, name string, conditions int) []attribute.KeyValue {
	attrs := []attribute.KeyValue{AttrRuleConditions.Int(conditions)}
	if id != "" {
		attrs = append(attrs, AttrRuleID.String(id))
	}
	if name != "" {
		attrs = append(attrs, AttrRuleName.String(name))
	}
	return attrs
}
