package pool

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/utkarsh5026/turbit/internal/wire"
)

// serveFrames runs the worker loop over the given requests and returns every
// frame it wrote.
func serveFrames(t *testing.T, reqs ...wire.Request) []wire.Response {
	t.Helper()

	var in bytes.Buffer
	enc := wire.NewEncoder(&in)
	for _, r := range reqs {
		if err := enc.Encode(r); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}

	var out bytes.Buffer
	if err := serve(context.Background(), &in, &out); err != nil {
		t.Fatalf("serve returned %v, want nil at end of input", err)
	}

	var frames []wire.Response
	dec := wire.NewDecoder(&out)
	for {
		var resp wire.Response
		err := dec.Decode(&resp)
		if errors.Is(err, io.EOF) {
			return frames
		}
		if err != nil {
			t.Fatalf("decode response: %v", err)
		}
		frames = append(frames, resp)
	}
}

func chunkPayload(t *testing.T, data any, args map[string]any) json.RawMessage {
	t.Helper()
	items, err := json.Marshal(data)
	if err != nil {
		t.Fatal(err)
	}
	encoded, err := encodeArgs(args)
	if err != nil {
		t.Fatal(err)
	}
	raw, err := json.Marshal(wire.ChunkArgs{Data: items, Args: encoded})
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

func TestServe_ReadyFrameFirst(t *testing.T) {
	frames := serveFrames(t)
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want only the ready frame", len(frames))
	}
	if frames[0].ID != wire.ReadyID || !frames[0].Ready || frames[0].PID == 0 {
		t.Errorf("unexpected ready frame %+v", frames[0])
	}
}

func TestServe_Requests(t *testing.T) {
	frames := serveFrames(t,
		wire.Request{ID: 1, Task: answerTask.Name()},
		wire.Request{ID: 2, Task: doubleTask.Name(), Args: chunkPayload(t, []int{1, 2, 3}, nil)},
		wire.Request{ID: 3, Task: scaleTask.Name(), Args: chunkPayload(t, []float64{1, 2}, map[string]any{"factor": 2.5})},
		wire.Request{ID: 4, Task: boomTask.Name()},
	)

	if len(frames) != 5 {
		t.Fatalf("got %d frames, want 5", len(frames))
	}

	want := []struct {
		id     uint64
		result string
		err    string
	}{
		{1, "42", ""},
		{2, "[2,4,6]", ""},
		{3, "[2.5,5]", ""},
		{4, "", "boom"},
	}
	for i, w := range want {
		got := frames[i+1]
		if got.ID != w.id {
			t.Errorf("frame %d: id = %d, want %d", i, got.ID, w.id)
		}
		if string(got.Result) != w.result {
			t.Errorf("frame %d: result = %s, want %s", i, got.Result, w.result)
		}
		if got.Error != w.err {
			t.Errorf("frame %d: error = %q, want %q", i, got.Error, w.err)
		}
	}
}

func TestExecute_Failures(t *testing.T) {
	tests := []struct {
		name    string
		req     wire.Request
		wantErr string
	}{
		{"unknown task", wire.Request{ID: 1, Task: "test.nope"}, "not registered"},
		{"panic is recovered", wire.Request{ID: 2, Task: panicTask.Name()}, "worker panic: kaboom"},
		{"simple call of extended-only task", wire.Request{ID: 3, Task: doubleTask.Name()}, "no simple handler"},
		{"extended call of simple-only task", wire.Request{ID: 4, Task: answerTask.Name(), Args: json.RawMessage(`{"data":[1]}`)}, "no extended handler"},
		{"malformed args", wire.Request{ID: 5, Task: doubleTask.Name(), Args: json.RawMessage(`[1]`)}, "decode args"},
		{"missing argument", wire.Request{ID: 6, Task: scaleTask.Name(), Args: json.RawMessage(`{"data":[1]}`)}, `argument "factor" not provided`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := execute(context.Background(), tt.req)
			if resp.ID != tt.req.ID {
				t.Errorf("id = %d, want %d", resp.ID, tt.req.ID)
			}
			if resp.Result != nil {
				t.Errorf("result = %s, want none", resp.Result)
			}
			if !strings.Contains(resp.Error, tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", resp.Error, tt.wantErr)
			}
		})
	}
}

func TestServe_MalformedFrame(t *testing.T) {
	in := strings.NewReader("{not json}\n")
	var out bytes.Buffer
	if err := serve(context.Background(), in, &out); err == nil {
		t.Error("expected an error for a malformed request frame")
	}
}

func TestServe_OversizedResultIsATaskError(t *testing.T) {
	prev := frameLimit
	frameLimit = 256
	t.Cleanup(func() { frameLimit = prev })

	frames := serveFrames(t,
		wire.Request{ID: 1, Task: doubleTask.Name(), Args: chunkPayload(t, intRange(1, 200), nil)},
		wire.Request{ID: 2, Task: answerTask.Name()},
	)

	if len(frames) != 3 {
		t.Fatalf("got %d frames, want ready plus 2 responses", len(frames))
	}
	if frames[1].ID != 1 || frames[1].Error != errResultTooLarge || frames[1].Result != nil {
		t.Errorf("oversized result frame = %+v", frames[1])
	}
	if frames[2].ID != 2 || string(frames[2].Result) != "42" {
		t.Errorf("worker stopped serving after an oversized result: %+v", frames[2])
	}
}
