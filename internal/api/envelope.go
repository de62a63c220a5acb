package api

import "encoding/json"

// Envelope is the normalized shape for every "get many" call. List endpoints
// may answer with a bare array or a paginated {count, results} object; both
// normalize to this.
type Envelope struct {
	Count   int               `json:"count"`
	Results []json.RawMessage `json:"results"`
}

// NormalizeList converts any list payload into an Envelope. Absent or
// malformed input yields an empty envelope, never an error: list consumers
// render an empty table instead of failing.
//
// An explicit non-zero count from a paginated backend is preserved as-is (it
// may exceed len(results) when the server pages); a missing or zero count is
// recomputed from the results.
func NormalizeList(raw json.RawMessage) Envelope {
	if len(raw) == 0 {
		return Envelope{Results: []json.RawMessage{}}
	}

	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err == nil {
		if arr == nil {
			arr = []json.RawMessage{}
		}
		return Envelope{Count: len(arr), Results: arr}
	}

	var paged struct {
		Count   *int              `json:"count"`
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(raw, &paged); err == nil && paged.Results != nil {
		count := len(paged.Results)
		if paged.Count != nil && *paged.Count != 0 {
			count = *paged.Count
		}
		return Envelope{Count: count, Results: paged.Results}
	}

	return Envelope{Results: []json.RawMessage{}}
}

// List is the typed counterpart of Envelope used by resource clients.
type List[T any] struct {
	Count   int
	Results []T
}

// DecodeList normalizes a list payload and decodes each element into T.
// Elements that fail to decode surface as a malformed-response failure.
func DecodeList[T any](raw json.RawMessage) (List[T], error) {
	env := NormalizeList(raw)
	out := List[T]{Count: env.Count, Results: make([]T, 0, len(env.Results))}
	for _, item := range env.Results {
		var v T
		if err := DecodeInto(item, &v); err != nil {
			return List[T]{Results: []T{}}, err
		}
		out.Results = append(out.Results, v)
	}
	return out, nil
}
