package audit

// RedactionToken replaces sensitive metadata values before storage.
const RedactionToken = "[REDACTED]"

// sensitiveKeys is the fixed denylist of metadata keys whose values never
// reach storage. Redaction is shallow: only top-level keys of the metadata
// mapping are inspected. Nested structures under a non-sensitive key pass
// through unchanged; broadening this would silently change audit fidelity.
var sensitiveKeys = map[string]bool{
	"note":        true,
	"notes":       true,
	"review_note": true,
	"payload":     true,
	"secret":      true,
	"token":       true,
}

// RedactMetadata returns a copy of metadata with sensitive values replaced
// by the redaction token. The input map is never mutated. Nil input yields
// nil so empty events stay empty.
func RedactMetadata(metadata map[string]any) map[string]any {
	if metadata == nil {
		return nil
	}
	redacted := make(map[string]any, len(metadata))
	for key, value := range metadata {
		if sensitiveKeys[key] {
			redacted[key] = RedactionToken
			continue
		}
		redacted[key] = value
	}
	return redacted
}
