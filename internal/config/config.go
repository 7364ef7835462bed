// Package config defines the tournament configuration and how it is
// loaded, resolved and validated before any match runs.
//
// Conventions:
//   - New returns a Config holding every default.
//   - Load layers a file, the environment and CLI overrides on top.
//   - Errors wrap ErrLoadConfig or ErrInvalidConfig for errors.Is.
package config

import (
	"fmt"
	"strconv"
	"time"
)

// Bounds on the number of seats in one game.
const (
	MinPlayersPerGame = 2
	MaxPlayersPerGame = 4
)

// Default configuration constants.
const (
	defaultGamesPerMatchup = 1
	defaultPlayersPerGame  = 2
	defaultBatches         = 20
	defaultPause           = 100 * time.Millisecond
	defaultLogLevel        = "info"
)

// Config contains everything a tournament run needs.
type Config struct {
	Referee   Referee   `koanf:"referee"`
	Players   []Player  `koanf:"players"`
	Game      Game      `koanf:"game"`
	Execution Execution `koanf:"execution"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Quiet hides the per-match progress lines.
	Quiet bool `koanf:"quiet"`

	// MetricsAddr serves Prometheus metrics during the run when set, e.g. ":9090".
	MetricsAddr string `koanf:"metrics_addr"`

	// Resolved by Load.
	Dir         string   `koanf:"-"` // directory of the config file
	RefereeArgs []string `koanf:"-"` // referee command split into argv
}

// Referee describes the judging process.
type Referee struct {
	Command string `koanf:"command"`
}

// Player is one competing agent.
type Player struct {
	Name    string `koanf:"name"`
	Command string `koanf:"command"`
}

// Game shapes the schedule.
type Game struct {
	// Seed 0 draws a random seed per repetition.
	Seed            int64 `koanf:"seed"`
	GamesPerMatchup int   `koanf:"games_per_matchup"`
	PlayersPerGame  int   `koanf:"players_per_game"`
	SwapPositions   bool  `koanf:"swap_positions"`
}

// Execution controls how matches are driven.
type Execution struct {
	// Batches is the number of matches run concurrently.
	Batches int `koanf:"batches"`
	// Pause is how long a worker waits between two matches.
	Pause time.Duration `koanf:"pause"`
	// MatchTimeout bounds one referee run; 0 means no limit.
	MatchTimeout time.Duration `koanf:"match_timeout"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		Game: Game{
			GamesPerMatchup: defaultGamesPerMatchup,
			PlayersPerGame:  defaultPlayersPerGame,
		},
		Execution: Execution{
			Batches: defaultBatches,
			Pause:   defaultPause,
		},
		LogLevel: defaultLogLevel,
	}
}

// PlayerCommands returns the player commands indexed by agent.
func (c *Config) PlayerCommands() []string {
	out := make([]string, len(c.Players))
	for i, p := range c.Players {
		out[i] = p.Command
	}
	return out
}

// PlayerNames returns the display names indexed by agent. Unnamed
// players are called P1, P2, ...
func (c *Config) PlayerNames() []string {
	out := make([]string, len(c.Players))
	for i, p := range c.Players {
		out[i] = p.Name
		if out[i] == "" {
			out[i] = "P" + strconv.Itoa(i+1)
		}
	}
	return out
}

// Validate rejects settings the tournament cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Referee.Command == "":
		return fmt.Errorf("%w: referee command is mandatory", ErrInvalidConfig)
	case len(c.Players) < 2:
		return fmt.Errorf("%w: at least two players must be specified, got %d", ErrInvalidConfig, len(c.Players))
	case c.Game.GamesPerMatchup < 1:
		return fmt.Errorf("%w: number of games must be positive, got %d", ErrInvalidConfig, c.Game.GamesPerMatchup)
	case c.Execution.Batches < 1:
		return fmt.Errorf("%w: number of batches must be positive, got %d", ErrInvalidConfig, c.Execution.Batches)
	case c.Game.PlayersPerGame < MinPlayersPerGame || c.Game.PlayersPerGame > MaxPlayersPerGame:
		return fmt.Errorf("%w: players per game must be in the range %d-%d, got %d",
			ErrInvalidConfig, MinPlayersPerGame, MaxPlayersPerGame, c.Game.PlayersPerGame)
	case c.Game.PlayersPerGame > len(c.Players):
		return fmt.Errorf("%w: players per game (%d) exceeds the number of players (%d)",
			ErrInvalidConfig, c.Game.PlayersPerGame, len(c.Players))
	case c.Execution.Pause < 0:
		return fmt.Errorf("%w: pause must not be negative", ErrInvalidConfig)
	case c.Execution.MatchTimeout < 0:
		return fmt.Errorf("%w: match timeout must not be negative", ErrInvalidConfig)
	}

	for i, p := range c.Players {
		if p.Command == "" {
			return fmt.Errorf("%w: player %d command can't be empty", ErrInvalidConfig, i+1)
		}
	}
	return nil
}
