package dispatch

import (
	"sync"
	"testing"
)

func TestLoopVisitsEveryIndexExactlyOnce(t *testing.T) {
	const n = 10000
	seen := make([]int32, n)
	var mu sync.Mutex

	Loop(n, func(i int) {
		mu.Lock()
		seen[i]++
		mu.Unlock()
	})

	for i, c := range seen {
		if c != 1 {
			t.Fatalf("index %d visited %d times, want 1", i, c)
		}
	}
}

func TestLoopHandlesSmallN(t *testing.T) {
	visited := make([]bool, 3)
	Loop(3, func(i int) { visited[i] = true })
	for i, v := range visited {
		if !v {
			t.Errorf("index %d not visited", i)
		}
	}
}

func TestLoopHandlesZeroN(t *testing.T) {
	Loop(0, func(i int) { t.Fatalf("fn should not be called for n=0") })
}

func TestAddFloat64AccumulatesUnderConcurrency(t *testing.T) {
	var total float64
	const n = 100000
	Loop(n, func(i int) {
		AddFloat64(&total, 1.0)
	})
	if total != float64(n) {
		t.Errorf("expected %v, got %v", float64(n), total)
	}
}

func TestManagerDefaultsToAutoWithNoGPU(t *testing.T) {
	m := NewManager()
	if m.Mode() != ModeAuto {
		t.Errorf("expected ModeAuto, got %v", m.Mode())
	}
	if m.UseGPU() {
		t.Errorf("expected UseGPU false with no GPU path registered")
	}
}

func TestManagerSetModeGPUStillFallsBackWithoutHardware(t *testing.T) {
	m := NewManager()
	m.SetMode(ModeGPU)
	if m.UseGPU() {
		t.Errorf("expected UseGPU false: no GPU kernel is registered")
	}
}

func TestComputeModeString(t *testing.T) {
	cases := map[ComputeMode]string{ModeAuto: "Auto", ModeCPU: "CPU", ModeGPU: "GPU"}
	for mode, want := range cases {
		if got := mode.String(); got != want {
			t.Errorf("mode %d: expected %q, got %q", mode, want, got)
		}
	}
}
