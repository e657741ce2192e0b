package server

import (
	"bufio"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// ResponseError is an ErrorResponse frame surfaced as a Go error.
type ResponseError struct {
	ID      string
	Message string
	Code    int
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.Code, e.Message)
}

// Client speaks the msgpack protocol to a running server, for example over
// the pipes of a child process. Calls are synchronous and not safe for
// concurrent use.
type Client struct {
	encoder *msgpack.Encoder
	decoder *msgpack.Decoder
	nextID  int
}

// NewClient writes requests to w and reads responses from r.
func NewClient(w io.Writer, r io.Reader) *Client {
	return &Client{
		encoder: msgpack.NewEncoder(w),
		decoder: msgpack.NewDecoder(bufio.NewReader(r)),
	}
}

// WaitReady consumes the ready frame the server sends on start.
func (c *Client) WaitReady() error {
	var status StatusResponse
	if err := c.decoder.Decode(&status); err != nil {
		return fmt.Errorf("reading ready frame: %w", err)
	}
	if status.Status != "ready" {
		return fmt.Errorf("unexpected first frame status %q", status.Status)
	}
	return nil
}

// Do sends req, assigning an id when it has none, and decodes the reply into
// resp. An error frame is returned as *ResponseError.
func (c *Client) Do(req Request, resp any) error {
	if req.ID == "" {
		c.nextID++
		req.ID = fmt.Sprintf("c%d", c.nextID)
	}
	if err := c.encoder.Encode(req); err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	raw, err := c.decoder.DecodeRaw()
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	var probe struct {
		ID    string  `msgpack:"id"`
		Error *string `msgpack:"e"`
		Code  int     `msgpack:"c"`
	}
	if err := msgpack.Unmarshal(raw, &probe); err == nil && probe.Error != nil {
		return &ResponseError{ID: probe.ID, Message: *probe.Error, Code: probe.Code}
	}
	if err := msgpack.Unmarshal(raw, resp); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// Suggest queries the index.
func (c *Client) Suggest(query string) (SuggestResponse, error) {
	var resp SuggestResponse
	err := c.Do(Request{Query: query}, &resp)
	return resp, err
}

// Insert adds or reinforces text. An empty value means the text itself.
func (c *Client) Insert(text, value string, weight int) (bool, error) {
	var resp MutationResponse
	err := c.Do(Request{Action: "insert", Text: text, Value: value, Weight: weight}, &resp)
	return resp.OK, err
}

// Delete removes text from the index.
func (c *Client) Delete(text string) (bool, error) {
	var resp MutationResponse
	err := c.Do(Request{Action: "delete", Text: text}, &resp)
	return resp.OK, err
}

// Stats returns index counters.
func (c *Client) Stats() (map[string]int, error) {
	var resp StatsResponse
	err := c.Do(Request{Action: "stats"}, &resp)
	return resp.Stats, err
}
