// Package cli is a line based shell over the suggestion index, for testing and debugging.
package cli

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/trieserve/internal/logger"
	"github.com/bastiangx/trieserve/internal/utils"
	"github.com/bastiangx/trieserve/pkg/config"
	"github.com/bastiangx/trieserve/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))

// InputHandler reads commands line by line:
//
//	+text [weight]  insert or reinforce text
//	-text           delete text
//	?               print index stats
//	!clear          drop every entry
//	anything else   suggestion query
type InputHandler struct {
	index         suggest.ISuggester[string]
	maxQueryLen   int
	showWeights   bool
	defaultWeight int
	in            io.Reader
	out           *log.Logger
}

// NewInputHandler creates a handler on stdin/stderr.
func NewInputHandler(index suggest.ISuggester[string], cfg *config.Config) *InputHandler {
	return NewInputHandlerWithIO(index, cfg, os.Stdin, os.Stderr)
}

// NewInputHandlerWithIO creates a handler with custom input and output.
// Query length, weight display and the default insert weight come from cfg.
func NewInputHandlerWithIO(index suggest.ISuggester[string], cfg *config.Config, r io.Reader, w io.Writer) *InputHandler {
	out := logger.NewWithWriter(w, "")
	out.SetLevel(log.InfoLevel)
	out.SetReportTimestamp(false)
	return &InputHandler{
		index:         index,
		maxQueryLen:   cfg.Server.MaxQueryLen,
		showWeights:   cfg.CLI.ShowWeights,
		defaultWeight: cfg.Dict.DefaultWeight,
		in:            r,
		out:           out,
	}
}

// Start runs the loop until the input ends.
func (h *InputHandler) Start() error {
	h.out.Print("trieserve CLI")
	h.out.Print("+text [weight] inserts, -text deletes, ? shows stats, !clear empties (Ctrl+C to exit)")

	reader := bufio.NewReader(h.in)
	for {
		line, err := reader.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			h.handleInput(line)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// handleInput dispatches a single trimmed line.
func (h *InputHandler) handleInput(line string) {
	switch {
	case line == "?":
		h.printStats()
	case line == "!clear":
		h.index.Clear()
		h.out.Print("index cleared")
	case strings.HasPrefix(line, "+"):
		text, weight := utils.SplitWeight(line[1:], h.defaultWeight)
		if !h.index.Insert(suggest.Record[string]{Text: text, Value: text, Weight: weight}) {
			h.out.Errorf("Could not insert '%s'", line[1:])
			return
		}
		h.out.Printf("inserted '%s'", text)
	case strings.HasPrefix(line, "-") && len(line) > 1:
		text := line[1:]
		if !h.index.Delete(text) {
			h.out.Warnf("'%s' is not in the index", text)
			return
		}
		h.out.Printf("deleted '%s'", text)
	default:
		h.query(line)
	}
}

func (h *InputHandler) query(q string) {
	if h.maxQueryLen > 0 && utf8.RuneCountInString(q) > h.maxQueryLen {
		h.out.Errorf("Query too long: %s", utils.Truncate(q, h.maxQueryLen))
		return
	}

	start := time.Now()
	suggestions := h.index.SuggestRanked(q)
	log.Debugf("Took [ %v ] for query '%s'", time.Since(start), q)

	if len(suggestions) == 0 {
		h.out.Warnf("No suggestions found for '%s'", q)
		return
	}

	h.out.Printf("Found %d suggestions for '%s':", len(suggestions), q)
	for i, s := range suggestions {
		value := valueStyle.Render(s.Value)
		if h.showWeights {
			h.out.Printf("%2d. %-40s (weight: %8s)", i+1, value, utils.FormatWithCommas(s.Weight))
		} else {
			h.out.Printf("%2d. %s", i+1, value)
		}
	}
}

func (h *InputHandler) printStats() {
	stats := h.index.Stats()
	h.out.Printf("entries=%d nodes=%d maxSuggestion=%d allowedMismatchCount=%d",
		stats["entries"], stats["nodes"], stats["maxSuggestion"], stats["allowedMismatchCount"])
}
