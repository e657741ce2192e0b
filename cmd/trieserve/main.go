// Copyright 2025 The TrieServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the trieserve suggestion server and CLI [DBG] application.

trieserve keeps weighted text entries in an in-memory trie where every node
caches the best entries of its subtree. Queries return the highest weighted
entries whose text matches the query position by position, allowing a small
number of substituted characters.

# Usage

Start the server with a seed corpus:

	trieserve -data words.txt

Enable debug logging and use a custom config:

	trieserve -d -config ./config.toml

Run in CLI mode for interactive testing:

	trieserve -c -limit 5 -mismatch 1

The seed corpus is a text file of "text [weight]" lines, a dict_NNNN.bin
chunk, or a directory holding either.

# Configuration

Runtime configuration is a TOML file created with defaults when missing:

	[index]
	max_suggestion = 10
	allowed_mismatch_count = 3
	ignore_case = true
	store = "map"

	[server]
	max_query_len = 60
	reload_every = 100

	[dict]
	path = ""
	default_weight = 1

	[cli]
	show_weights = true

Server mode re-reads the file every reload_every requests.

# Server Mode

The default mode speaks msgpack over stdin/stdout, see package server for the
protocol. Logs go to stderr.

# CLI Mode

CLI mode reads commands from stdin: "+text [weight]" inserts, "-text"
deletes, "?" prints stats, "!clear" empties the index and any other line is
a query.

# Command Line Flags

	-version
	    Show current version
	-rebuild-config
	    Overwrite the default config file with defaults and exit
	-config string
	    Path to a config file
	-data string
	    Seed corpus file or directory (default from config)
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-limit int
	    Max suggestions per query (0 keeps config value)
	-mismatch int
	    Allowed mismatched characters, 1 to 3 (0 keeps config value)
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/trieserve/internal/cli"
	"github.com/bastiangx/trieserve/internal/logger"
	"github.com/bastiangx/trieserve/internal/utils"
	"github.com/bastiangx/trieserve/pkg/config"
	"github.com/bastiangx/trieserve/pkg/dictionary"
	"github.com/bastiangx/trieserve/pkg/server"
	"github.com/bastiangx/trieserve/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.1.0"
	AppName = "trieserve"
	gh      = "https://github.com/bastiangx/trieserve"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main wires config, seed data and the chosen front end together.
func main() {
	sigHandler()

	showVersion := flag.Bool("version", false, "Show current version")
	rebuildConfig := flag.Bool("rebuild-config", false, "Overwrite the default config file with defaults and exit")
	configPathFlag := flag.String("config", "", "Path to a config file")
	dataPath := flag.String("data", "", "Seed corpus file or directory (default from config)")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	limit := flag.Int("limit", 0, "Max suggestions per query (0 keeps config value)")
	mismatch := flag.Int("mismatch", 0, "Allowed mismatched characters, 1 to 3 (0 keeps config value)")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *rebuildConfig {
		if err := config.RebuildConfigFile(); err != nil {
			log.Fatalf("Failed to rebuild config: %v", err)
		}
		fmt.Fprintf(os.Stderr, "Config rebuilt at %s\n", config.GetActiveConfigPath(""))
		os.Exit(0)
	}

	log.SetOutput(os.Stderr)
	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	appConfig, configPath, err := config.LoadConfigWithPriority(*configPathFlag)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(configPath))

	applyFlags := func(cfg *config.Config) {
		if *limit > 0 {
			cfg.Index.MaxSuggestion = *limit
		}
		if *mismatch > 0 {
			cfg.Index.AllowedMismatchCount = *mismatch
		}
	}
	applyFlags(appConfig)

	index := appConfig.NewIndex()

	seedPath := *dataPath
	if seedPath == "" {
		seedPath = appConfig.Dict.Path
	}
	resolved := seed(index, seedPath, appConfig.Dict.DefaultWeight)

	// CLI is mainly for testing and dbg purposes.
	if *cliMode {
		log.SetReportTimestamp(false)
		opts := index.Options()
		log.Debug("Index options:",
			"maxSuggestion", opts.MaxSuggestion,
			"allowedMismatchCount", opts.AllowedMismatchCount,
			"ignoreCase", opts.IgnoreCase())

		inputHandler := cli.NewInputHandler(index, appConfig)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(index, appConfig, configPath)
	srv.SetOverrides(applyFlags)

	showStartupInfo(resolved, index.Len())

	if err := srv.Start(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

// seed loads the corpus at path into index and returns the resolved path.
// A missing corpus is not fatal, the index starts empty.
func seed(index *suggest.Index[string], path string, defaultWeight int) string {
	configDir, err := config.GetConfigDir()
	if err != nil {
		configDir = ""
	}
	pathResolver, err := utils.NewPathResolver(configDir)
	if err != nil {
		log.Warnf("Failed to initialize path resolver: %v", err)
		return ""
	}

	resolved, ok := pathResolver.ResolveData(path)
	if !ok {
		if path != "" {
			log.Warnf("No dictionary found at %s, running with empty index...", path)
		} else {
			log.Debug("No seed corpus configured, running with empty index")
		}
		return ""
	}

	words, err := dictionary.Load(resolved, defaultWeight)
	if err != nil {
		log.Warnf("Failed to load dictionary %s: %v", resolved, err)
		return ""
	}
	index.InsertMany(dictionary.Records(words))
	log.Debugf("Seeded %s entries from %s", utils.FormatWithCommas(index.Len()), resolved)
	return resolved
}

// printVersion prints a styled version banner.
func printVersion() {
	banner := logger.NewWithConfig("", log.InfoLevel, false, false, log.TextFormatter)

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	banner.SetStyles(styles)

	banner.Print("")
	banner.Print("[ TrieServe ] weighted suggestions with typo tolerance")
	banner.Print("", "version", Version)
	banner.Print("")
	banner.Print("use -h or --help to see available options")
	banner.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process on stderr.
func showStartupInfo(dataPath string, entries int) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	fmt.Fprintln(os.Stderr, "===========")
	fmt.Fprintln(os.Stderr, " "+AppName)
	fmt.Fprintln(os.Stderr, "===========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	if dataPath != "" {
		log.Infof("data: ( %s )", dataPath)
	}
	log.Infof("entries: %s", utils.FormatWithCommas(entries))
	log.Info("status: ready")
	fmt.Fprintln(os.Stderr, "===========")
	fmt.Fprintln(os.Stderr, "Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
