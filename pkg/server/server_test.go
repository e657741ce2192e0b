package server

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/bastiangx/trieserve/pkg/config"
	"github.com/bastiangx/trieserve/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func intPtr(n int) *int { return &n }

// run feeds frames to a fresh server and returns a decoder over its output,
// positioned after the ready frame.
func run(t *testing.T, idx *suggest.Index[string], cfg *config.Config, configPath string, frames ...any) *msgpack.Decoder {
	t.Helper()
	var in, out bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, f := range frames {
		require.NoError(t, enc.Encode(f))
	}

	srv := NewServerWithIO(idx, cfg, configPath, &in, &out)
	require.NoError(t, srv.Start())

	dec := msgpack.NewDecoder(&out)
	var ready StatusResponse
	require.NoError(t, dec.Decode(&ready))
	assert.Equal(t, "ready", ready.Status)
	return dec
}

func TestServerSuggest(t *testing.T) {
	idx := suggest.New[string](suggest.Options{AllowedMismatchCount: 1})
	idx.InsertMany([]suggest.Record[string]{
		{Text: "cat", Value: "cat", Weight: 5},
		{Text: "car", Value: "car", Weight: 3},
		{Text: "dog", Value: "dog", Weight: 9},
	})

	dec := run(t, idx, nil, "",
		Request{ID: "q1", Query: "cat"},
		Request{ID: "q2", Action: "suggest", Query: "zzz"},
		Request{ID: "q3"},
	)

	var first SuggestResponse
	require.NoError(t, dec.Decode(&first))
	assert.Equal(t, "q1", first.ID)
	assert.Equal(t, 2, first.Count)
	assert.Equal(t, []SuggestionPayload{
		{Value: "cat", Weight: 5, Rank: 1},
		{Value: "car", Weight: 3, Rank: 2},
	}, first.Suggestions)
	assert.GreaterOrEqual(t, first.TimeTaken, int64(0))

	var miss SuggestResponse
	require.NoError(t, dec.Decode(&miss))
	assert.Equal(t, "q2", miss.ID)
	assert.Equal(t, 0, miss.Count)
	assert.Empty(t, miss.Suggestions)

	var top SuggestResponse
	require.NoError(t, dec.Decode(&top))
	assert.Equal(t, "q3", top.ID)
	require.Equal(t, 3, top.Count)
	assert.Equal(t, "dog", top.Suggestions[0].Value)
}

func TestServerMutations(t *testing.T) {
	idx := suggest.New[string](suggest.Options{})

	dec := run(t, idx, nil, "",
		Request{ID: "1", Action: "insert", Text: "hello", Weight: 5},
		Request{ID: "2", Action: "insert", Text: "  "},
		Request{ID: "3", Action: "insert_many", Records: []RecordPayload{
			{Text: "help", Value: "HELP", Weight: 2},
			{Text: "helm"},
		}},
		Request{ID: "4", Action: "delete", Text: "helm"},
		Request{ID: "5", Action: "delete", Text: "helm"},
		Request{ID: "6", Query: "hel"},
		Request{ID: "7", Action: "clear"},
		Request{ID: "8", Action: "stats"},
	)

	expected := []MutationResponse{
		{ID: "1", Status: "ok", OK: true},
		{ID: "2", Status: "ok", OK: false},
		{ID: "3", Status: "ok", OK: true},
		{ID: "4", Status: "ok", OK: true},
		{ID: "5", Status: "ok", OK: false},
	}
	for _, want := range expected {
		var got MutationResponse
		require.NoError(t, dec.Decode(&got))
		assert.Equal(t, want, got)
	}

	var resp SuggestResponse
	require.NoError(t, dec.Decode(&resp))
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, "hello", resp.Suggestions[0].Value)
	assert.Equal(t, "HELP", resp.Suggestions[1].Value)

	var cleared MutationResponse
	require.NoError(t, dec.Decode(&cleared))
	assert.True(t, cleared.OK)

	var stats StatsResponse
	require.NoError(t, dec.Decode(&stats))
	assert.Equal(t, "8", stats.ID)
	assert.Equal(t, 0, stats.Stats["entries"])
	assert.Equal(t, 0, stats.Stats["nodes"])
}

func TestServerErrors(t *testing.T) {
	idx := suggest.New[string](suggest.Options{})
	cfg := config.DefaultConfig()
	cfg.Server.MaxQueryLen = 4

	dec := run(t, idx, cfg, "",
		Request{ID: "a", Action: "explode"},
		Request{ID: "b", Query: "toolong"},
		42,
		Request{ID: "c", Action: "health"},
	)

	var errResp ErrorResponse
	require.NoError(t, dec.Decode(&errResp))
	assert.Equal(t, "a", errResp.ID)
	assert.Equal(t, 400, errResp.Code)
	assert.Contains(t, errResp.Error, "explode")

	require.NoError(t, dec.Decode(&errResp))
	assert.Equal(t, "b", errResp.ID)
	assert.Equal(t, 400, errResp.Code)

	require.NoError(t, dec.Decode(&errResp))
	assert.Equal(t, 400, errResp.Code)

	var health StatusResponse
	require.NoError(t, dec.Decode(&health))
	assert.Equal(t, StatusResponse{ID: "c", Status: "ok"}, health)
}

func TestServerSetOptionsSavesConfig(t *testing.T) {
	idx := suggest.New[string](suggest.Options{})
	for _, w := range []string{"aa", "ab", "ac"} {
		idx.Insert(suggest.Record[string]{Text: w, Value: w, Weight: 1})
	}
	configPath := filepath.Join(t.TempDir(), "config.toml")
	cfg := config.DefaultConfig()
	cfg.Server.ReloadEvery = 0

	dec := run(t, idx, cfg, configPath,
		Request{ID: "o", Action: "set_options", MaxSuggestion: intPtr(2), AllowedMismatchCount: intPtr(9)},
		Request{ID: "q", Query: "a"},
	)

	var mutation MutationResponse
	require.NoError(t, dec.Decode(&mutation))
	assert.True(t, mutation.OK)

	var resp SuggestResponse
	require.NoError(t, dec.Decode(&resp))
	assert.Equal(t, 2, resp.Count)

	assert.Equal(t, 2, idx.Options().MaxSuggestion)
	assert.Equal(t, suggest.DefaultAllowedMismatchCount, idx.Options().AllowedMismatchCount)

	saved, err := config.LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, 2, saved.Index.MaxSuggestion)
	assert.Equal(t, suggest.DefaultAllowedMismatchCount, saved.Index.AllowedMismatchCount)
}

func TestServerReloadsConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	onDisk := config.DefaultConfig()
	onDisk.Index.MaxSuggestion = 1
	require.NoError(t, config.SaveConfig(onDisk, configPath))

	cfg := config.DefaultConfig()
	cfg.Server.ReloadEvery = 2
	idx := suggest.New[string](cfg.IndexOptions())

	dec := run(t, idx, cfg, configPath,
		Request{ID: "1", Action: "health"},
		Request{ID: "2", Action: "health"},
	)
	for i := 0; i < 2; i++ {
		var health StatusResponse
		require.NoError(t, dec.Decode(&health))
	}

	assert.Equal(t, 1, idx.Options().MaxSuggestion)
}

func TestServerReloadKeepsOverrides(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	onDisk := config.DefaultConfig()
	onDisk.Index.MaxSuggestion = 1
	onDisk.Index.AllowedMismatchCount = 1
	require.NoError(t, config.SaveConfig(onDisk, configPath))

	cfg := config.DefaultConfig()
	cfg.Server.ReloadEvery = 1
	idx := suggest.New[string](cfg.IndexOptions())

	var in, out bytes.Buffer
	require.NoError(t, msgpack.NewEncoder(&in).Encode(Request{ID: "1", Action: "health"}))

	srv := NewServerWithIO(idx, cfg, configPath, &in, &out)
	srv.SetOverrides(func(c *config.Config) {
		c.Index.MaxSuggestion = 7
	})
	require.NoError(t, srv.Start())

	assert.Equal(t, 7, idx.Options().MaxSuggestion)
	assert.Equal(t, 1, idx.Options().AllowedMismatchCount)
}

func TestToRecord(t *testing.T) {
	assert.Equal(t, suggest.Record[string]{Text: "a", Value: "a", Weight: 0}, toRecord("a", "", 0))
	assert.Equal(t, suggest.Record[string]{Text: "a", Value: "b", Weight: 3}, toRecord("a", "b", 3))
}
