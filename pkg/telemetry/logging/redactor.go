package logging

import (
	"log/slog"
	"maps"
	"reflect"
	"regexp"
	"slices"
	"strings"
)

// Attribute keys whose values are data records or values taken from them.
// Records can hold personal data (health metrics, salaries), so they are
// redacted unless explicitly allowed.
var recordKeys = []string{"record", "user_data", "actual"}

// Key fragments that always mark a secret.
var sensitiveKeys = []string{
	"password", "passwd", "secret", "token",
	"api_key", "apikey", "authorization",
}

var bearerPattern = regexp.MustCompile(`Bearer\s+[a-zA-Z0-9\-._~+/]+=*`)

// Redactor rewrites sensitive log attributes.
type Redactor struct {
	logRecordValues bool
}

// NewRedactor creates a Redactor. When logRecordValues is true, data records
// are written as-is; secrets are always redacted.
func NewRedactor(logRecordValues bool) *Redactor {
	return &Redactor{logRecordValues: logRecordValues}
}

// ReplaceAttr is a slog.HandlerOptions.ReplaceAttr hook.
func (r *Redactor) ReplaceAttr(_ []string, a slog.Attr) slog.Attr {
	key := strings.ToLower(a.Key)

	if isSensitiveKey(key) {
		return slog.String(a.Key, "***")
	}

	if !r.logRecordValues && slices.Contains(recordKeys, key) {
		return slog.Any(a.Key, redactRecord(a.Value.Any()))
	}

	if a.Value.Kind() == slog.KindString {
		if s := a.Value.String(); strings.Contains(s, "Bearer") {
			return slog.String(a.Key, bearerPattern.ReplaceAllString(s, "Bearer ***"))
		}
	}

	return a
}

// isSensitiveKey reports whether a lower-cased key names a secret.
func isSensitiveKey(key string) bool {
	for _, sensitive := range sensitiveKeys {
		if strings.Contains(key, sensitive) {
			return true
		}
	}
	return false
}

// redactRecord replaces a record with its sorted attribute names so logs
// still show which attributes were supplied.
func redactRecord(v any) any {
	if m, ok := v.(map[string]any); ok {
		return RecordKeys(m)
	}

	// Named map types such as evaluator.Record.
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		slices.Sort(keys)
		return keys
	}

	return "***"
}

// RecordKeys returns the sorted attribute names of a data record.
func RecordKeys(record map[string]any) []string {
	return slices.Sorted(maps.Keys(record))
}
