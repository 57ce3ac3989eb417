// Package config holds the YAML-loadable configuration for a paratree
// container, its statistical harness, its logger, and its optional HTTP
// admin surface.
package config

import "time"

// Config is the root configuration structure.
type Config struct {
	Logger    LoggerConfig    `yaml:"logger" validate:"required"`
	Container ContainerConfig `yaml:"container" validate:"required"`
	Harness   HarnessConfig   `yaml:"harness" validate:"required"`
	HTTP      HTTPConfig      `yaml:"http" validate:"required"`
}

// LoggerConfig configures the global slog handler.
type LoggerConfig struct {
	Level string `yaml:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`
	JSON  bool   `yaml:"json"`
}

// ContainerConfig mirrors paratree.Config's construction options:
// num_shards, routing_strategy, virtual_nodes_per_shard, hotspot_factor,
// hotspot_min_abs, max_consecutive_redirects, redirect_cooldown,
// refresh_period.
type ContainerConfig struct {
	NumShards               int           `yaml:"num_shards" validate:"required,min=1"`
	RoutingStrategy         string        `yaml:"routing_strategy" validate:"required"`
	VirtualNodesPerShard    int           `yaml:"virtual_nodes_per_shard" validate:"min=1"`
	HotspotFactor           float64       `yaml:"hotspot_factor" validate:"gt=0"`
	HotspotMinAbs           int           `yaml:"hotspot_min_abs" validate:"min=0"`
	MaxConsecutiveRedirects int           `yaml:"max_consecutive_redirects" validate:"min=1"`
	RedirectCooldown        time.Duration `yaml:"redirect_cooldown"`
	RefreshPeriod           time.Duration `yaml:"refresh_period"`
}

// HarnessConfig controls the statistical benchmark harness.
type HarnessConfig struct {
	Rounds      int `yaml:"rounds" validate:"required,min=1"`
	WarmupOps   int `yaml:"warmup_ops" validate:"min=0"`
	OpsPerRound int `yaml:"ops_per_round" validate:"required,min=1"`
}

// HTTPConfig controls the optional admin/demo HTTP surface.
type HTTPConfig struct {
	Port int `yaml:"port" validate:"required,min=1,max=65535"`
}

// Default returns a baseline configuration suitable for local
// development and the demo/benchmark commands.
func Default() Config {
	return Config{
		Logger: LoggerConfig{Level: "INFO", JSON: false},
		Container: ContainerConfig{
			NumShards:               16,
			RoutingStrategy:         "INTELLIGENT",
			VirtualNodesPerShard:    16,
			HotspotFactor:           1.5,
			HotspotMinAbs:           16,
			MaxConsecutiveRedirects: 3,
			RedirectCooldown:        100 * time.Millisecond,
			RefreshPeriod:           time.Millisecond,
		},
		Harness: HarnessConfig{
			Rounds:      10,
			WarmupOps:   1000,
			OpsPerRound: 10000,
		},
		HTTP: HTTPConfig{Port: 8080},
	}
}
