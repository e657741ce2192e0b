/*
Package server implements msgpack IPC for the suggestion index.

Clients write msgpack maps to stdin back to back and read one response map per
request from stdout. The first frame written is always:

	{"status": "ready"}

Every request carries an id, echoed in the response, and an action "a".
An empty action is a suggestion query:

	{"id": "q1", "q": "helo"}

The response lists values best first with their weight and 1-based rank,
plus the count and the lookup time in microseconds:

	{"id": "q1", "s": [{"v": "hello", "w": 12, "r": 1}, {"v": "help", "w": 3, "r": 2}], "c": 2, "t": 41}

Mutations report whether the index changed:

	{"id": "m1", "a": "insert", "text": "hello", "weight": 5}
	{"id": "m2", "a": "insert_many", "records": [{"text": "hi"}, {"text": "hey", "weight": 2}]}
	{"id": "m3", "a": "delete", "text": "hi"}
	{"id": "m4", "a": "clear"}
	{"id": "m5", "a": "set_options", "max_suggestion": 5, "allowed_mismatch_count": 1}

	{"id": "m3", "status": "ok", "ok": true}

"stats" returns index counters and "health" returns {"status": "ok"}.
Failures come back as {"id": ..., "e": message, "c": code}.

Values are strings; a record without a value uses its text.
The config file, when known, is re-read every server.reload_every requests.
*/
package server

// Request is the union of every request shape. Fields not used by an action
// are ignored.
type Request struct {
	ID     string `msgpack:"id"`
	Action string `msgpack:"a,omitempty"`
	Query  string `msgpack:"q,omitempty"`

	Text    string          `msgpack:"text,omitempty"`
	Value   string          `msgpack:"value,omitempty"`
	Weight  int             `msgpack:"weight,omitempty"`
	Records []RecordPayload `msgpack:"records,omitempty"`

	MaxSuggestion        *int `msgpack:"max_suggestion,omitempty"`
	AllowedMismatchCount *int `msgpack:"allowed_mismatch_count,omitempty"`
}

// RecordPayload is one record of an insert_many request.
type RecordPayload struct {
	Text   string `msgpack:"text"`
	Value  string `msgpack:"value,omitempty"`
	Weight int    `msgpack:"weight,omitempty"`
}

// SuggestionPayload is a single suggestion in a response.
type SuggestionPayload struct {
	Value  string `msgpack:"v"`
	Weight int    `msgpack:"w"`
	Rank   uint16 `msgpack:"r"`
}

// SuggestResponse answers a query.
type SuggestResponse struct {
	ID          string              `msgpack:"id"`
	Suggestions []SuggestionPayload `msgpack:"s"`
	Count       int                 `msgpack:"c"`
	TimeTaken   int64               `msgpack:"t"`
}

// MutationResponse answers insert, insert_many, delete, clear and set_options.
type MutationResponse struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
	OK     bool   `msgpack:"ok"`
}

// StatsResponse carries index counters.
type StatsResponse struct {
	ID    string         `msgpack:"id"`
	Stats map[string]int `msgpack:"stats"`
}

// StatusResponse is used for the ready frame and health checks.
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Status string `msgpack:"status"`
}

// ErrorResponse holds basic error information
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
