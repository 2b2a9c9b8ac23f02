// Package logging provides structured logging on top of log/slog.
//
// # Usage
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json"})
//	if err != nil {
//		return err
//	}
//
//	ctx = logging.WithRequestID(ctx, "req-123")
//	logger.InfoContext(ctx, "rule created", "rule_id", id) // includes request_id
//
// # Redaction
//
// Data records evaluated against rules may contain personal data. Attributes
// named record, user_data or actual are replaced by the record's attribute
// names (or "***" for scalars) unless LogRecordValues is set. Attributes
// whose names mark secrets (password, token, authorization, ...) are always
// replaced by "***", and bearer tokens inside string values are masked.
//
// Redaction runs in the slog handler, so loggers obtained through Slog or
// With redact the same way.
package logging
