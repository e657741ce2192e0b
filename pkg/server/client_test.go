package server

import (
	"io"
	"testing"

	"github.com/bastiangx/trieserve/pkg/config"
	"github.com/bastiangx/trieserve/pkg/suggest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startPiped runs a server on in-memory pipes and returns a connected client.
func startPiped(t *testing.T, idx *suggest.Index[string], cfg *config.Config) *Client {
	t.Helper()
	reqR, reqW := io.Pipe()
	respR, respW := io.Pipe()

	srv := NewServerWithIO(idx, cfg, "", reqR, respW)
	done := make(chan error, 1)
	go func() {
		err := srv.Start()
		respW.Close()
		done <- err
	}()
	t.Cleanup(func() {
		reqW.Close()
		assert.NoError(t, <-done)
	})

	client := NewClient(reqW, respR)
	require.NoError(t, client.WaitReady())
	return client
}

func TestClientRoundTrip(t *testing.T) {
	client := startPiped(t, suggest.New[string](suggest.Options{AllowedMismatchCount: 1}), nil)

	ok, err := client.Insert("hello", "", 4)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.Insert("jello", "JELLO", 2)
	require.NoError(t, err)
	assert.True(t, ok)

	resp, err := client.Suggest("hello")
	require.NoError(t, err)
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, "hello", resp.Suggestions[0].Value)
	assert.Equal(t, "JELLO", resp.Suggestions[1].Value)

	ok, err = client.Delete("jello")
	require.NoError(t, err)
	assert.True(t, ok)

	stats, err := client.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats["entries"])
}

func TestClientErrorFrame(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.MaxQueryLen = 3
	client := startPiped(t, suggest.New[string](suggest.Options{}), cfg)

	_, err := client.Suggest("abcdef")
	var respErr *ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, 400, respErr.Code)

	var resp MutationResponse
	err = client.Do(Request{Action: "nope"}, &resp)
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, "c2", respErr.ID)
}
