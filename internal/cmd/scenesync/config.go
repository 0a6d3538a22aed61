// Package scenesync parses daemon flags and composes the synchronized
// scene session entrypoint.
package scenesync

import (
	"flag"
	"time"

	entrypoint "github.com/louisbranch/scenesync/internal/platform/cmd"
)

// Config holds scenesync daemon configuration.
type Config struct {
	Origin            string        `env:"SCENESYNC_ORIGIN"             envDefault:"http://localhost"`
	AuthorityPort     int           `env:"SCENESYNC_AUTHORITY_PORT"     envDefault:"8080"`
	AuthorityPath     string        `env:"SCENESYNC_AUTHORITY_PATH"     envDefault:"/sync"`
	ReconnectDelay    time.Duration `env:"SCENESYNC_RECONNECT_DELAY"    envDefault:"3s"`
	AnimationDuration time.Duration `env:"SCENESYNC_ANIMATION_DURATION" envDefault:"500ms"`
	TickInterval      time.Duration `env:"SCENESYNC_TICK_INTERVAL"      envDefault:"16ms"`
	ScenePath         string        `env:"SCENESYNC_SCENE_PATH"         envDefault:"sceneData.json"`
	SnapshotDBPath    string        `env:"SCENESYNC_SNAPSHOT_DB"`
	MCP               bool          `env:"SCENESYNC_MCP"                envDefault:"false"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Origin, "origin", cfg.Origin, "client origin the authority endpoint is derived from")
	fs.IntVar(&cfg.AuthorityPort, "authority-port", cfg.AuthorityPort, "authority WebSocket port")
	fs.StringVar(&cfg.AuthorityPath, "authority-path", cfg.AuthorityPath, "authority WebSocket path")
	fs.DurationVar(&cfg.ReconnectDelay, "reconnect-delay", cfg.ReconnectDelay, "backoff between reconnect attempts")
	fs.DurationVar(&cfg.AnimationDuration, "animation-duration", cfg.AnimationDuration, "duration of reconciled transform animations")
	fs.DurationVar(&cfg.TickInterval, "tick-interval", cfg.TickInterval, "render tick interval for the headless loop")
	fs.StringVar(&cfg.ScenePath, "scene", cfg.ScenePath, "path to the declarative scene document")
	fs.StringVar(&cfg.SnapshotDBPath, "snapshot-db", cfg.SnapshotDBPath, "path to the local snapshot archive (empty disables archiving)")
	fs.BoolVar(&cfg.MCP, "mcp", cfg.MCP, "serve the scene MCP tool surface on stdio")

	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
