package ingest

// containerKeys are the top-level object keys that may wrap the actual array
// of leads in API-style payloads.
var containerKeys = []string{"leads", "data", "results"}

// ParseJSON converts an already-decoded JSON value into records. It accepts
// a top-level array of objects, an object wrapping such an array under one of
// the container keys, or a single bare object. Shape mismatches degrade to an
// empty result, never an error.
func ParseJSON(data any) []Record {
	return parseJSONValue(data, 0)
}

func parseJSONValue(data any, depth int) []Record {
	switch v := data.(type) {
	case []any:
		var records []Record
		for _, item := range v {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			rec := Record{}
			for key, value := range obj {
				rec.AddEntry(key, value)
			}
			if rec.HasIdentity() {
				records = append(records, rec)
			}
		}
		return records
	case map[string]any:
		if depth == 0 {
			for _, key := range containerKeys {
				if inner, ok := v[key]; ok && inner != nil {
					return parseJSONValue(inner, depth+1)
				}
			}
		}
		return parseJSONValue([]any{data}, depth+1)
	default:
		return nil
	}
}
