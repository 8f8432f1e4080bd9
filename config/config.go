package config

import (
	"encoding/json"
	"log"
	"os"
	"strconv"
)

// Config holds all configurable server-level parameters. None of these
// affect Board semantics — a Board only ever sees the dimensions and
// labels handed to it by whoever constructs it — they govern the ambient
// server that hosts one or more boards.
type Config struct {
	// BoardRows and BoardCols size the board cmd/server constructs when
	// BOARD_FILE is unset, and the one cmd/simulate constructs when no
	// -board flag is given.
	BoardRows int `json:"board_rows"`
	BoardCols int `json:"board_cols"`

	// WSPort is the port the websocket transport listens on.
	WSPort int `json:"ws_port"`

	// MaxNameLength bounds the opaque player-id string cmd/server accepts
	// on a websocket connection; the core places no bound on player ids
	// itself.
	MaxNameLength int `json:"max_name_length"`

	// SimulatedPlayers is the default player count for the simulate
	// driver when not overridden on the command line.
	SimulatedPlayers int `json:"simulated_players"`
}

// Defaults returns a Config with the module's built-in default values.
func Defaults() *Config {
	return &Config{
		BoardRows:        4,
		BoardCols:        4,
		WSPort:           8080,
		MaxNameLength:    24,
		SimulatedPlayers: 4,
	}
}

// Load reads configuration from an optional config.json file, then applies
// environment variable overrides. Fields not set in either source retain
// their default values.
func Load() *Config {
	cfg := Defaults()

	// Try to load from config.json
	if f, err := os.Open("config.json"); err == nil {
		defer f.Close()
		if err := json.NewDecoder(f).Decode(cfg); err != nil {
			log.Printf("Warning: failed to parse config.json: %v", err)
		}
	}

	// Environment variable overrides
	overrideInt(&cfg.BoardRows, "BOARD_ROWS")
	overrideInt(&cfg.BoardCols, "BOARD_COLS")
	overrideInt(&cfg.WSPort, "WS_PORT")
	overrideInt(&cfg.MaxNameLength, "MAX_NAME_LENGTH")
	overrideInt(&cfg.SimulatedPlayers, "SIMULATED_PLAYERS")

	return cfg
}

func overrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*field = n
		} else {
			log.Printf("Warning: invalid value for %s: %q", envKey, val)
		}
	}
}
