package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct{ Depth int }

type sampleConf struct {
	Depth int `json:"max_depth"`
}

// Test registry registration and instantiation using Decode.
func TestRegistry_Create(t *testing.T) {
	reg := NewRegistry[*sample]()
	if err := reg.Register("tree", func(conf map[string]any) (*sample, error) {
		var c sampleConf
		if err := Decode(conf, &c); err != nil {
			return nil, err
		}
		return &sample{Depth: c.Depth}, nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	inst, err := reg.Create(ModuleConfig{Type: "tree", Conf: map[string]any{"max_depth": 5}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if inst.Depth != 5 {
		t.Fatalf("expected 5 got %d", inst.Depth)
	}
}

// Test duplicate registration and unknown type errors.
func TestRegistry_Errors(t *testing.T) {
	reg := NewRegistry[int]()
	if err := reg.Register("x", func(map[string]any) (int, error) { return 1, nil }); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register("x", func(map[string]any) (int, error) { return 2, nil }); err == nil {
		t.Fatal("expected duplicate error")
	}
	if err := reg.Register("nil", nil); err == nil {
		t.Fatal("expected nil factory error")
	}
	if _, err := reg.Create(ModuleConfig{Type: "y"}); err == nil {
		t.Fatal("expected unknown type error")
	}
	assert.Equal(t, []string{"x"}, reg.Names())
}

func TestDecode_WeakTyping(t *testing.T) {
	var c sampleConf
	if err := Decode(map[string]any{"max_depth": "7"}, &c); err != nil {
		t.Fatalf("decode: %v", err)
	}
	assert.Equal(t, 7, c.Depth)
}

func TestModuleConfig_WithDefaults(t *testing.T) {
	cfg := ModuleConfig{Type: "random_forest", Conf: map[string]any{"max_depth": 3}}
	out := cfg.WithDefaults(map[string]any{"max_depth": 5, "n_estimators": 10})
	assert.Equal(t, "random_forest", out.Type)
	assert.Equal(t, 3, out.Conf["max_depth"])
	assert.Equal(t, 10, out.Conf["n_estimators"])
	assert.Len(t, cfg.Conf, 1, "original config must not be mutated")
}
