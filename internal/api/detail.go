package api

import (
	"encoding/json"
	"fmt"

	jmespath "github.com/jmespath-community/go-jmespath"
)

// detailExpr picks the server error text out of the known backend error shapes:
// {"error": ...}, {"detail": ...} (DRF) and {"message": ...}.
const detailExpr = "error || detail || message"

// detailExtractor pulls a human-readable detail and any structured validation
// messages out of an arbitrary error body.
type detailExtractor struct {
	expr jmespath.JMESPath
}

func newDetailExtractor() (*detailExtractor, error) {
	expr, err := jmespath.Compile(detailExpr)
	if err != nil {
		return nil, fmt.Errorf("api: compile detail expression: %w", err)
	}
	return &detailExtractor{expr: expr}, nil
}

// extract returns the best-effort detail string and, for DRF-style validation
// payloads, the field/message map. Both are zero when the body is not JSON.
func (d *detailExtractor) extract(body []byte) (string, map[string][]string) {
	if len(body) == 0 || !json.Valid(body) {
		return "", nil
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", nil
	}

	detail := ""
	if found, err := d.expr.Search(decoded); err == nil {
		if s, ok := found.(string); ok {
			detail = s
		}
	}

	fields := fieldMessages(decoded)
	if detail == "" && len(fields) > 0 {
		detail = (&Error{Fields: fields}).FieldSummary()
	}
	if detail == "" {
		// Last resort: re-serialize the whole payload, matching the original
		// frontend behavior of JSON.stringify on unknown error objects.
		if raw, err := json.Marshal(decoded); err == nil && string(raw) != "null" {
			detail = string(raw)
		}
	}
	return detail, fields
}

// fieldMessages interprets a decoded error body as a DRF validation map:
// {"field": ["msg", ...], "non_field_errors": ["msg"]}. Keys whose values are
// not strings or string arrays are ignored; known detail keys are skipped.
func fieldMessages(decoded any) map[string][]string {
	obj, ok := decoded.(map[string]any)
	if !ok {
		return nil
	}

	fields := make(map[string][]string)
	for key, val := range obj {
		switch key {
		case "error", "detail", "message", "code", "status":
			continue
		}
		switch v := val.(type) {
		case string:
			fields[key] = []string{v}
		case []any:
			msgs := make([]string, 0, len(v))
			for _, item := range v {
				if s, ok := item.(string); ok {
					msgs = append(msgs, s)
				}
			}
			if len(msgs) > 0 {
				fields[key] = msgs
			}
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
