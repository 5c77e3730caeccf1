// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"reflect"
	"testing"
)

func TestMarshalDeterministic(t *testing.T) {
	value := map[string]any{"zeta": 1, "alpha": []string{"a", "b"}, "mid": "x"}
	first, err := Marshal(value)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for range 20 {
		again, err := Marshal(value)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatal("Marshal produced different bytes for the same map")
		}
	}
}

func TestUnmarshalAnyMapsUseStringKeys(t *testing.T) {
	data, err := Marshal(map[string]any{"nested": map[string]any{"k": "v"}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	top, ok := decoded.(map[string]any)
	if !ok {
		t.Fatalf("decoded type = %T, want map[string]any", decoded)
	}
	if _, ok := top["nested"].(map[string]any); !ok {
		t.Errorf("nested type = %T, want map[string]any", top["nested"])
	}
}

func TestStrings(t *testing.T) {
	t.Run("order preserved", func(t *testing.T) {
		data, err := MarshalStrings([]string{"backend", "security", "api"})
		if err != nil {
			t.Fatalf("MarshalStrings: %v", err)
		}
		got, err := UnmarshalStrings(data)
		if err != nil {
			t.Fatalf("UnmarshalStrings: %v", err)
		}
		want := []string{"backend", "security", "api"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("nil encodes as empty", func(t *testing.T) {
		fromNil, err := MarshalStrings(nil)
		if err != nil {
			t.Fatalf("MarshalStrings(nil): %v", err)
		}
		fromEmpty, err := MarshalStrings([]string{})
		if err != nil {
			t.Fatalf("MarshalStrings(empty): %v", err)
		}
		if !bytes.Equal(fromNil, fromEmpty) {
			t.Errorf("nil and empty encodings differ: %x vs %x", fromNil, fromEmpty)
		}
	})

	t.Run("empty input decodes to empty slice", func(t *testing.T) {
		got, err := UnmarshalStrings(nil)
		if err != nil {
			t.Fatalf("UnmarshalStrings: %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("got %#v, want empty non-nil slice", got)
		}
	})
}
