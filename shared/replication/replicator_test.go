package replication

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tinychicken/tanks-mp/shared/gamemath"
	"github.com/tinychicken/tanks-mp/shared/netconfig"
)

// scalarField is a one-float extension, shaped like a turret yaw.
type scalarField struct {
	value float64
}

func (f *scalarField) Encode(w *Writer) error {
	return w.WriteFloat64(f.value)
}

func (f *scalarField) Decode(r *Reader) error {
	v, err := r.ReadFloat64()
	if err != nil {
		return err
	}
	f.value = v
	return nil
}

func newTestReplicator(exts ...Extension) *Replicator {
	return NewReplicator(NewReconciler(testSnapDistance, testLerpRate), exts...)
}

func yawed(x, z, yaw float64) gamemath.Transform {
	return gamemath.Transform{
		Position: mgl64.Vec3{x, 0, z},
		Rotation: mgl64.QuatRotate(yaw, gamemath.Up),
	}
}

func TestReplicator_RoundTrip(t *testing.T) {
	owner := newTestReplicator(&scalarField{value: 1.25})
	turret := &scalarField{}
	mirror := newTestReplicator(turret)

	sent := yawed(3, -2, math.Pi/3)
	snap, err := owner.Encode(sent)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if snap.Seq != 1 {
		t.Errorf("first seq = %d, want 1", snap.Seq)
	}

	applied, err := mirror.Decode(snap)
	if err != nil || !applied {
		t.Fatalf("Decode = %v, %v; want true, nil", applied, err)
	}
	got, ok := mirror.Reconciler().Target()
	if !ok {
		t.Fatal("reconciler still uninitialized after decode")
	}
	if !got.Position.ApproxEqual(sent.Position) || !got.Rotation.ApproxEqual(sent.Rotation) {
		t.Errorf("target = %v, want %v", got, sent)
	}
	if turret.value != 1.25 {
		t.Errorf("turret = %f, want 1.25", turret.value)
	}
}

func TestReplicator_BaseOnlyConsumerIgnoresExtensions(t *testing.T) {
	tank := newTestReplicator(&scalarField{value: 9}, &scalarField{value: -4})
	baseOnly := newTestReplicator()

	sent := yawed(1, 1, 0.5)
	snap, err := tank.Encode(sent)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := baseOnly.Decode(snap); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	got, _ := baseOnly.Reconciler().Target()
	if !got.Position.ApproxEqual(sent.Position) || !got.Rotation.ApproxEqual(sent.Rotation) {
		t.Errorf("target = %v, want %v", got, sent)
	}
}

func TestReplicator_MissingExtensionKeepsLastValue(t *testing.T) {
	baseOnly := newTestReplicator()
	turret := &scalarField{value: 0.75}
	tank := newTestReplicator(turret)

	snap, err := baseOnly.Encode(yawed(2, 0, 0))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	applied, err := tank.Decode(snap)
	if err != nil || !applied {
		t.Fatalf("Decode = %v, %v; want true, nil", applied, err)
	}
	if turret.value != 0.75 {
		t.Errorf("turret = %f, want unchanged 0.75", turret.value)
	}
}

func TestReplicator_TruncatedBaseLeavesStateUntouched(t *testing.T) {
	sender := newTestReplicator()
	mirror := newTestReplicator()

	first, _ := sender.Encode(yawed(1, 0, 0))
	if _, err := mirror.Decode(first); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	second, _ := sender.Encode(yawed(2, 0, 0))
	truncated := Snapshot{Seq: second.Seq, Payload: second.Payload[:len(second.Payload)-3]}
	applied, err := mirror.Decode(truncated)
	if !errors.Is(err, ErrShortPayload) {
		t.Fatalf("err = %v, want ErrShortPayload", err)
	}
	if applied {
		t.Error("truncated snapshot reported as applied")
	}

	got, _ := mirror.Reconciler().Target()
	if !got.Position.ApproxEqual(mgl64.Vec3{1, 0, 0}) {
		t.Errorf("target moved to %v on a truncated payload", got.Position)
	}

	// The truncated seq was not consumed, so a complete copy still applies.
	if applied, err := mirror.Decode(second); err != nil || !applied {
		t.Errorf("Decode(second) = %v, %v; want true, nil", applied, err)
	}
}

func TestReplicator_RejectsNonFiniteBase(t *testing.T) {
	tests := []struct {
		name string
		sent gamemath.Transform
	}{
		{"nan position", gamemath.Transform{Position: mgl64.Vec3{math.NaN(), 0, 0}, Rotation: mgl64.QuatIdent()}},
		{"infinite position", gamemath.Transform{Position: mgl64.Vec3{0, 0, math.Inf(1)}, Rotation: mgl64.QuatIdent()}},
		{"nan rotation", gamemath.Transform{Rotation: mgl64.Quat{W: math.NaN()}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := newTestReplicator()
			mirror := newTestReplicator()

			first, _ := sender.Encode(yawed(1, 0, 0))
			if _, err := mirror.Decode(first); err != nil {
				t.Fatalf("Decode: %v", err)
			}
			bad, err := sender.Encode(tt.sent)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}

			applied, err := mirror.Decode(bad)
			if !errors.Is(err, ErrNonFinite) || applied {
				t.Fatalf("Decode = %v, %v; want false, ErrNonFinite", applied, err)
			}

			displayed := yawed(1, 0, 0)
			mirror.Reconciler().Step(&displayed, 0.1)
			if !displayed.Position.ApproxEqual(mgl64.Vec3{1, 0, 0}) {
				t.Errorf("displayed moved to %v after a non-finite snapshot", displayed.Position)
			}
		})
	}
}

func TestReplicator_SkipsEmptyAndStale(t *testing.T) {
	sender := newTestReplicator()
	mirror := newTestReplicator()

	first, _ := sender.Encode(yawed(1, 0, 0))
	second, _ := sender.Encode(yawed(2, 0, 0))

	tests := []struct {
		name    string
		in      Snapshot
		applied bool
		wantX   float64
	}{
		{name: "empty before any data", in: Snapshot{}, applied: false, wantX: 0},
		{name: "newer snapshot", in: second, applied: true, wantX: 2},
		{name: "older snapshot", in: first, applied: false, wantX: 2},
		{name: "same snapshot again", in: second, applied: false, wantX: 2},
		{name: "empty after data", in: Snapshot{Seq: 9}, applied: false, wantX: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			applied, err := mirror.Decode(tt.in)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if applied != tt.applied {
				t.Errorf("applied = %v, want %v", applied, tt.applied)
			}
			got, _ := mirror.Reconciler().Target()
			if got.Position.X() != tt.wantX {
				t.Errorf("target x = %f, want %f", got.Position.X(), tt.wantX)
			}
		})
	}
}

func TestReplicator_Tick(t *testing.T) {
	const (
		alice netconfig.ParticipantID = 1
		bob   netconfig.ParticipantID = 2
	)
	current := yawed(5, 5, 1)

	onAlice := newTestReplicator()
	out, err := onAlice.Tick(alice, alice, current, Snapshot{})
	if err != nil {
		t.Fatalf("owner Tick: %v", err)
	}
	if out.Empty() {
		t.Fatal("owner Tick produced no payload")
	}
	if _, ok := onAlice.Reconciler().Target(); ok {
		t.Error("owner side started reconciling its own entity")
	}

	onBob := newTestReplicator()
	echo, err := onBob.Tick(alice, bob, gamemath.NewTransform(mgl64.Vec3{}), out)
	if err != nil {
		t.Fatalf("receiver Tick: %v", err)
	}
	if !echo.Empty() {
		t.Error("receiver Tick produced a payload")
	}
	got, ok := onBob.Reconciler().Target()
	if !ok || !got.Position.ApproxEqual(current.Position) {
		t.Errorf("receiver target = %v (ok=%v), want %v", got.Position, ok, current.Position)
	}
}

func TestReplicator_TickUnownedNeverEncodes(t *testing.T) {
	r := newTestReplicator()
	out, err := r.Tick(netconfig.NoParticipant, netconfig.NoParticipant, yawed(1, 1, 1), Snapshot{})
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if !out.Empty() {
		t.Error("entity without an owner was encoded")
	}
}

func TestReplicator_Reset(t *testing.T) {
	sender := newTestReplicator()
	mirror := newTestReplicator()

	snap, _ := sender.Encode(yawed(1, 0, 0))
	if _, err := mirror.Decode(snap); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	mirror.Reset()

	if mirror.Reconciler().Phase() != PhaseUninitialized {
		t.Error("Reset kept the tracking phase")
	}
	if applied, _ := mirror.Decode(snap); !applied {
		t.Error("snapshot seq was still remembered after Reset")
	}
}
