package models

import "encoding/json"

// decodeFields decodes a JSON object into the named targets. A value that
// does not fit its target is not an error: its raw JSON text is returned in
// mistyped so validation can report it as a failure of that field's rule.
// Only a body that is not a JSON object fails.
func decodeFields(data []byte, targets map[string]any) (mistyped map[string]string, err error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	for name, target := range targets {
		value, ok := raw[name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(value, target); err != nil {
			if mistyped == nil {
				mistyped = make(map[string]string)
			}
			mistyped[name] = string(value)
		}
	}
	return mistyped, nil
}
