package config

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestResolve_SortedOrder(t *testing.T) {
	cfg := &Config{
		Version: "1",
		Modules: map[string]yaml.Node{
			"source.archive":   {},
			"channel.telegram": {},
			"mirror":           {},
			"gateway.http":     {},
		},
	}

	got := Resolve(cfg)
	want := []string{"channel.telegram", "gateway.http", "mirror", "source.archive"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestResolve_Empty(t *testing.T) {
	if got := Resolve(&Config{}); len(got) != 0 {
		t.Errorf("Resolve(empty) = %v, want empty", got)
	}
}
