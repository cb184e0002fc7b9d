package scenes

import "testing"

func TestLoop_Advance(t *testing.T) {
	var fixed, updates, ticks int
	l := &Loop{
		FixedStep:   0.01,
		MaxSubSteps: 8,
		NetInterval: 0.05,
		FixedUpdate: func(dt float64) { fixed++ },
		Update:      func(dt float64) { updates++ },
		NetworkTick: func() { ticks++ },
	}

	if steps := l.Advance(0.035); steps != 3 {
		t.Errorf("steps = %d, want 3", steps)
	}
	if steps := l.Advance(0.035); steps != 4 {
		t.Errorf("steps with carried time = %d, want 4", steps)
	}
	if updates != 2 {
		t.Errorf("updates = %d, want 2", updates)
	}
	if ticks != 1 {
		t.Errorf("network ticks = %d, want 1", ticks)
	}
}

func TestLoop_CapsSubSteps(t *testing.T) {
	var fixed int
	l := &Loop{
		FixedStep:   0.01,
		MaxSubSteps: 8,
		FixedUpdate: func(dt float64) { fixed++ },
	}

	if steps := l.Advance(1); steps != 8 {
		t.Errorf("steps after stall = %d, want 8", steps)
	}
	// The backlog was dropped, not carried.
	if steps := l.Advance(0.005); steps != 0 {
		t.Errorf("steps after backlog = %d, want 0", steps)
	}
}

func TestLoop_NetworkTickAtSendRate(t *testing.T) {
	var ticks int
	l := &Loop{
		FixedStep:   1.0 / 60,
		MaxSubSteps: 8,
		NetInterval: 1.0 / 20,
		NetworkTick: func() { ticks++ },
	}

	for i := 0; i < 100; i++ {
		l.Advance(0.01)
	}
	if ticks < 19 || ticks > 20 {
		t.Errorf("ticks over one second = %d, want 20", ticks)
	}
}
