package pool

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/utkarsh5026/turbit/internal/wire"
)

func expectPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	fn()
}

func TestDefine_Validation(t *testing.T) {
	expectPanic(t, "empty name", func() {
		DefineSimple("", func(context.Context) (int, error) { return 0, nil })
	})

	expectPanic(t, "no handler", func() {
		Define[int, int]("test.registry.none", nil, nil)
	})

	expectPanic(t, "duplicate name", func() {
		DefineSimple(answerTask.Name(), func(context.Context) (int, error) { return 0, nil })
	})
}

func TestDefine_Lookup(t *testing.T) {
	tests := []struct {
		name     string
		task     string
		simple   bool
		extended bool
	}{
		{"simple only", answerTask.Name(), true, false},
		{"extended only", doubleTask.Name(), false, true},
		{"both modes", boomTask.Name(), true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, ok := lookupTask(tt.task)
			if !ok {
				t.Fatalf("task %q not registered", tt.task)
			}
			if got := h.supports(Simple); got != tt.simple {
				t.Errorf("supports(Simple) = %v, want %v", got, tt.simple)
			}
			if got := h.supports(Extended); got != tt.extended {
				t.Errorf("supports(Extended) = %v, want %v", got, tt.extended)
			}
			if h.supports(ExecutionType("bogus")) {
				t.Error("supports(bogus) = true, want false")
			}
		})
	}

	if _, ok := lookupTask("test.registry.missing"); ok {
		t.Error("lookup of an unknown task succeeded")
	}
}

func TestDefine_ChunkHandler(t *testing.T) {
	h, _ := lookupTask(nilOutputTask.Name())
	out, err := h.chunk(context.Background(), wire.ChunkArgs{Data: json.RawMessage(`[1,2]`)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != "[]" {
		t.Errorf("nil chunk output encoded as %s, want []", out)
	}

	h, _ = lookupTask(doubleTask.Name())
	if _, err := h.chunk(context.Background(), wire.ChunkArgs{Data: json.RawMessage(`["x"]`)}); err == nil {
		t.Error("expected an error decoding a mistyped chunk")
	}
}

func TestArgs_Decode(t *testing.T) {
	args := Args{
		"threshold": json.RawMessage(`0.75`),
		"name":      json.RawMessage(`"turbit"`),
	}

	threshold, err := Arg[float64](args, "threshold")
	if err != nil || threshold != 0.75 {
		t.Errorf("Arg threshold = %v, %v; want 0.75, nil", threshold, err)
	}

	if _, err := Arg[int](args, "name"); err == nil {
		t.Error("expected a type error decoding a string as int")
	}

	if _, err := Arg[string](args, "missing"); err == nil {
		t.Error("expected an error for a missing argument")
	}
}
