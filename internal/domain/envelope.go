package domain

import "encoding/json"

// rawTextLimit caps how much of a malformed body is carried around.
const rawTextLimit = 500

// Envelope is the normalized form of every platform response. The platform
// occasionally answers with empty bodies or HTML error pages; normalization
// absorbs those into NonStructured instead of failing, so every consumer can
// treat the result uniformly as a mapping.
type Envelope struct {
	StatusCode    int
	Body          map[string]any
	NonStructured bool
	RawText       string // first 500 chars of the body, set when NonStructured
}

// NewEnvelope decodes a response body into an Envelope. It never fails:
// anything that is not a JSON object becomes a NonStructured envelope.
func NewEnvelope(statusCode int, body []byte) *Envelope {
	env := &Envelope{StatusCode: statusCode}

	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		env.NonStructured = true
		env.RawText = truncate(string(body), rawTextLimit)
		return env
	}

	env.Body = decoded
	return env
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// OK reports a 2xx status.
func (e *Envelope) OK() bool {
	return e.StatusCode >= 200 && e.StatusCode < 300
}

// Str returns a top-level string field, or "" when absent.
func (e *Envelope) Str(key string) string {
	if v, ok := e.Body[key].(string); ok {
		return v
	}
	return ""
}

// Data returns the platform's list payload ("data" field) as a slice of
// mappings. List endpoints wrap results this way.
func (e *Envelope) Data() []map[string]any {
	raw, ok := e.Body["data"].([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// ErrorDescriptions collects the description of every entry in the
// platform's "errors" list.
func (e *Envelope) ErrorDescriptions() []string {
	raw, ok := e.Body["errors"].([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			if desc, ok := m["description"].(string); ok {
				out = append(out, desc)
			}
		}
	}
	return out
}

// FirstErrorDescription returns the first validation error description,
// or "" when the error list is absent or malformed.
func (e *Envelope) FirstErrorDescription() string {
	if descs := e.ErrorDescriptions(); len(descs) > 0 {
		return descs[0]
	}
	return ""
}
