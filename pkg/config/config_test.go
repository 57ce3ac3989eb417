package config

import "testing"

func TestDefault_IsInternallyConsistent(t *testing.T) {
	cfg := Default()

	if cfg.Container.NumShards < 1 {
		t.Fatalf("NumShards = %d, want >= 1", cfg.Container.NumShards)
	}
	if cfg.Container.RoutingStrategy == "" {
		t.Fatal("RoutingStrategy must not be empty")
	}
	if cfg.Harness.Rounds < 1 {
		t.Fatalf("Rounds = %d, want >= 1", cfg.Harness.Rounds)
	}
	if cfg.HTTP.Port <= 0 || cfg.HTTP.Port > 65535 {
		t.Fatalf("Port = %d, out of range", cfg.HTTP.Port)
	}
}
