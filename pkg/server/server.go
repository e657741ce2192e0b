package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/trieserve/internal/logger"
	"github.com/bastiangx/trieserve/pkg/config"
	"github.com/bastiangx/trieserve/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles msgpack IPC for one suggestion index.
type Server struct {
	index        suggest.ISuggester[string]
	config       *config.Config
	configPath   string
	decoder      *msgpack.Decoder
	encoder      *msgpack.Encoder
	requestCount int
	overrides    func(*config.Config)
	logger       *log.Logger
}

// NewServer creates a server using stdin/stdout for IPC.
func NewServer(index suggest.ISuggester[string], cfg *config.Config, configPath string) *Server {
	return NewServerWithIO(index, cfg, configPath, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a server reading requests from r and writing
// responses to w. An empty configPath disables reloading and saving.
func NewServerWithIO(index suggest.ISuggester[string], cfg *config.Config, configPath string, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s := &Server{
		index:      index,
		config:     cfg,
		configPath: configPath,
		decoder:    msgpack.NewDecoder(bufio.NewReader(r)),
		encoder:    msgpack.NewEncoder(w),
		logger:     logger.New("server"),
	}
	index.OnUpdate(func(e suggest.Entry[string]) {
		s.logger.Debugf("Reinforced %q: weight=%d id=%s", e.Text, e.Weight, e.ID)
	})
	return s
}

// SetOverrides registers fn to run on every reloaded config before its index
// limits are applied, so command line overrides outlive reloads.
func (s *Server) SetOverrides(fn func(*config.Config)) {
	s.overrides = fn
}

// Start writes the ready frame and serves requests until the input ends.
func (s *Server) Start() error {
	s.logger.Debug("Starting server")
	if err := s.send(StatusResponse{Status: "ready"}); err != nil {
		return err
	}

	for {
		raw, err := s.decoder.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Debug("Input closed, stopping server")
				return nil
			}
			s.logger.Errorf("Reading request: %v", err)
			return fmt.Errorf("reading request: %w", err)
		}

		var req Request
		if err := msgpack.Unmarshal(raw, &req); err != nil {
			s.logger.Warnf("Malformed request: %v", err)
			s.sendError("", "invalid request", 400)
			continue
		}

		s.handleRequest(req)
		s.maybeReload()
	}
}

// handleRequest dispatches one decoded request by action.
func (s *Server) handleRequest(req Request) {
	switch req.Action {
	case "", "suggest":
		s.handleSuggest(req)
	case "insert":
		ok := s.index.Insert(toRecord(req.Text, req.Value, req.Weight))
		s.sendMutation(req.ID, ok)
	case "insert_many":
		records := make([]suggest.Record[string], len(req.Records))
		for i, r := range req.Records {
			records[i] = toRecord(r.Text, r.Value, r.Weight)
		}
		s.sendMutation(req.ID, s.index.InsertMany(records))
	case "delete":
		s.sendMutation(req.ID, s.index.Delete(req.Text))
	case "clear":
		s.index.Clear()
		s.sendMutation(req.ID, true)
	case "set_options":
		s.handleSetOptions(req)
	case "stats":
		s.send(StatsResponse{ID: req.ID, Stats: s.index.Stats()})
	case "health":
		s.send(StatusResponse{ID: req.ID, Status: "ok"})
	default:
		s.sendError(req.ID, fmt.Sprintf("unknown action: %s", req.Action), 400)
	}
}

func (s *Server) handleSuggest(req Request) {
	if maxLen := s.config.Server.MaxQueryLen; maxLen > 0 && utf8.RuneCountInString(req.Query) > maxLen {
		s.sendError(req.ID, fmt.Sprintf("query exceeds maximum length of %d characters", maxLen), 400)
		return
	}

	start := time.Now()
	ranked := s.index.SuggestRanked(req.Query)
	elapsed := time.Since(start)

	suggestions := make([]SuggestionPayload, len(ranked))
	for i, r := range ranked {
		suggestions[i] = SuggestionPayload{
			Value:  r.Value,
			Weight: r.Weight,
			Rank:   uint16(i + 1),
		}
	}

	s.send(SuggestResponse{
		ID:          req.ID,
		Suggestions: suggestions,
		Count:       len(suggestions),
		TimeTaken:   elapsed.Microseconds(),
	})
}

func (s *Server) handleSetOptions(req Request) {
	opts := s.index.Options()
	if req.MaxSuggestion != nil {
		opts.MaxSuggestion = *req.MaxSuggestion
	}
	if req.AllowedMismatchCount != nil {
		opts.AllowedMismatchCount = *req.AllowedMismatchCount
	}
	s.index.UpdateOptions(opts)

	applied := s.index.Options()
	if err := s.config.Update(s.configPath, &applied.MaxSuggestion, &applied.AllowedMismatchCount); err != nil {
		s.logger.Errorf("Saving config: %v", err)
		s.sendError(req.ID, "options applied but config could not be saved", 500)
		return
	}
	s.sendMutation(req.ID, true)
}

// maybeReload re-reads the config file every ReloadEvery requests and
// re-applies the index limits from it.
func (s *Server) maybeReload() {
	s.requestCount++
	every := s.config.Server.ReloadEvery
	if every <= 0 || s.configPath == "" || s.requestCount%every != 0 {
		return
	}

	cfg, err := config.LoadConfig(s.configPath)
	if err != nil {
		s.logger.Warnf("Config reload failed, keeping current settings: %v", err)
		return
	}
	if s.overrides != nil {
		s.overrides(cfg)
	}
	s.config = cfg
	s.index.UpdateOptions(cfg.IndexOptions())
	s.logger.Debugf("Config reloaded after %d requests", s.requestCount)
}

// toRecord builds a string record; an empty value falls back to the text.
func toRecord(text, value string, weight int) suggest.Record[string] {
	if value == "" {
		value = text
	}
	return suggest.Record[string]{Text: text, Value: value, Weight: weight}
}

func (s *Server) sendMutation(id string, ok bool) {
	s.send(MutationResponse{ID: id, Status: "ok", OK: ok})
}

// send encodes one response frame.
func (s *Server) send(response any) error {
	if err := s.encoder.Encode(response); err != nil {
		s.logger.Errorf("Encoding response: %v", err)
		return err
	}
	return nil
}

func (s *Server) sendError(id, message string, code int) {
	s.send(ErrorResponse{ID: id, Error: message, Code: code})
}
