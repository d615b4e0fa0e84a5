package engine

import (
	"sort"
	"strings"
)

const previousResultKey = "{previous_result}"

// Substitute resolves {key} placeholders in text against the context's
// variables.
//
// Two conventions layer on top of literal keys: a variable stored as
// "<stepId>_response" also resolves {<stepId>} and {<stepId>_result}, and a
// variable stored as "<stepId>_result" also resolves {<stepId>}. The special
// {previous_result} placeholder resolves to the "most recent producer"
// heuristic described on lastResult.
//
// Substitution is literal string replacement per candidate placeholder;
// there is no tokenizer, so a key that is a prefix or substring of another
// key can interact unexpectedly. Keys are applied in ascending order to keep
// the outcome reproducible.
func (c *Context) Substitute(text string) string {
	result := text

	if strings.Contains(result, previousResultKey) {
		if last, ok := c.lastResult(); ok {
			result = strings.ReplaceAll(result, previousResultKey, last)
		}
	}

	vars := c.Variables()
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := vars[key]
		result = strings.ReplaceAll(result, "{"+key+"}", value)

		if stem, ok := strings.CutSuffix(key, "_response"); ok {
			result = strings.ReplaceAll(result, "{"+stem+"}", value)
			result = strings.ReplaceAll(result, "{"+stem+"_result}", value)
		}
		if stem, ok := strings.CutSuffix(key, "_result"); ok {
			result = strings.ReplaceAll(result, "{"+stem+"}", value)
		}
	}

	return result
}

// SubstituteValue walks a structured value and applies Substitute to every
// string leaf, so step parameters of arbitrary nesting receive variable
// injection before being handed to capability handlers. Numbers, booleans
// and nil pass through untouched. The input is never mutated.
func (c *Context) SubstituteValue(v any) any {
	switch val := v.(type) {
	case string:
		return c.Substitute(val)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = c.SubstituteValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = c.SubstituteValue(item)
		}
		return out
	default:
		return v
	}
}

// SubstituteParameters applies SubstituteValue to a parameter map.
func (c *Context) SubstituteParameters(params map[string]any) map[string]any {
	if params == nil {
		return nil
	}
	return c.SubstituteValue(params).(map[string]any)
}

// lastResult resolves {previous_result}: among variables whose key ends in
// _response or _result, prefer _response keys over _result keys, breaking
// remaining ties by ascending key name. This is a heuristic "most recent
// producer" lookup by key suffix, not a true chronological pointer.
func (c *Context) lastResult() (string, bool) {
	vars := c.Variables()
	candidates := make([]string, 0, len(vars))
	for k := range vars {
		if strings.HasSuffix(k, "_response") || strings.HasSuffix(k, "_result") {
			candidates = append(candidates, k)
		}
	}
	if len(candidates) == 0 {
		return "", false
	}

	sort.Slice(candidates, func(i, j int) bool {
		ri := strings.HasSuffix(candidates[i], "_response")
		rj := strings.HasSuffix(candidates[j], "_response")
		if ri != rj {
			return ri
		}
		return candidates[i] < candidates[j]
	})

	return vars[candidates[0]], true
}
