package factory

import (
	"errors"
	"testing"
)

type widget struct {
	Size int `json:"size"`
}

func TestRegistryCreate(t *testing.T) {
	r := NewRegistry[*widget]()
	err := r.Register("widget", func(conf map[string]any) (*widget, error) {
		var w widget
		if err := Decode(conf, &w); err != nil {
			return nil, err
		}
		return &w, nil
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	w, err := r.Create(ModuleConfig{Type: "widget", Conf: map[string]any{"size": 3}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if w.Size != 3 {
		t.Fatalf("size %d", w.Size)
	}
}

func TestRegistryDuplicateAndNil(t *testing.T) {
	r := NewRegistry[*widget]()
	f := func(map[string]any) (*widget, error) { return &widget{}, nil }
	if err := r.Register("widget", f); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.Register("widget", f); err == nil {
		t.Fatal("duplicate registration accepted")
	}
	if err := r.Register("other", nil); err == nil {
		t.Fatal("nil factory accepted")
	}
}

func TestRegistryUnknownType(t *testing.T) {
	r := NewRegistry[*widget]()
	if _, err := r.Create(ModuleConfig{Type: "missing"}); err == nil {
		t.Fatal("unknown type accepted")
	}
}

func TestRegistryPropagatesFactoryError(t *testing.T) {
	r := NewRegistry[*widget]()
	boom := errors.New("boom")
	_ = r.Register("widget", func(map[string]any) (*widget, error) { return nil, boom })
	if _, err := r.Create(ModuleConfig{Type: "widget"}); !errors.Is(err, boom) {
		t.Fatalf("expected factory error, got %v", err)
	}
}

func TestDecodeUsesJSONTags(t *testing.T) {
	var w widget
	if err := Decode(map[string]any{"size": 7}, &w); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if w.Size != 7 {
		t.Fatalf("size %d", w.Size)
	}
}
