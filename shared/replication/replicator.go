package replication

import (
	"errors"
	"fmt"
	"math"

	"github.com/tinychicken/tanks-mp/shared/gamemath"
	"github.com/tinychicken/tanks-mp/shared/netconfig"
)

// Snapshot is one network tick's worth of state for one entity. The entity id
// travels in the surrounding message.
type Snapshot struct {
	Seq     uint32
	Payload []byte
}

// Empty reports whether the snapshot carries no data.
func (s Snapshot) Empty() bool {
	return len(s.Payload) == 0
}

// Extension is a group of fields a composite entity appends after the base
// transform. Decode must leave its state untouched unless every field it
// needs was read.
type Extension interface {
	Encode(w *Writer) error
	Decode(r *Reader) error
}

// Replicator serializes one entity's state each network tick. The base fields
// are position then rotation; extensions follow in registration order.
type Replicator struct {
	recon      *Reconciler
	extensions []Extension

	seq     uint32 // last sequence written
	lastSeq uint32 // last sequence consumed
}

func NewReplicator(recon *Reconciler, extensions ...Extension) *Replicator {
	return &Replicator{
		recon:      recon,
		extensions: extensions,
	}
}

func (r *Replicator) Reconciler() *Reconciler {
	return r.recon
}

// Tick runs one network serialization tick. When local owns the entity the
// current transform is encoded and returned for transmission; otherwise in is
// consumed and an empty snapshot is returned.
func (r *Replicator) Tick(owner, local netconfig.ParticipantID, current gamemath.Transform, in Snapshot) (Snapshot, error) {
	if IsAuthoritative(owner, local) {
		return r.Encode(current)
	}
	_, err := r.Decode(in)
	return Snapshot{}, err
}

// Encode writes the base fields and every extension into a new snapshot.
func (r *Replicator) Encode(current gamemath.Transform) (Snapshot, error) {
	w := NewWriter()
	if err := w.WriteVec3(current.Position); err != nil {
		return Snapshot{}, fmt.Errorf("encode position: %w", err)
	}
	if err := w.WriteQuat(current.Rotation); err != nil {
		return Snapshot{}, fmt.Errorf("encode rotation: %w", err)
	}
	for i, ext := range r.extensions {
		if err := ext.Encode(w); err != nil {
			return Snapshot{}, fmt.Errorf("encode extension %d: %w", i, err)
		}
	}

	r.seq++
	return Snapshot{Seq: r.seq, Payload: w.Bytes()}, nil
}

// Decode consumes an incoming snapshot. It reports false without error when
// the snapshot is empty or not newer than the last one consumed. A payload
// that ends inside the base fields is rejected before any state changes; a
// payload that ends before the extensions leaves them at their last values.
// Non-finite base fields are rejected the same way as a truncated base.
func (r *Replicator) Decode(in Snapshot) (bool, error) {
	if in.Empty() || in.Seq <= r.lastSeq {
		return false, nil
	}

	rd := NewReader(in.Payload)
	pos, err := rd.ReadVec3()
	if err != nil {
		return false, fmt.Errorf("decode position: %w", err)
	}
	rot, err := rd.ReadQuat()
	if err != nil {
		return false, fmt.Errorf("decode rotation: %w", err)
	}

	if !finite(pos.X(), pos.Y(), pos.Z(), rot.W, rot.V.X(), rot.V.Y(), rot.V.Z()) {
		return false, fmt.Errorf("decode seq %d: %w", in.Seq, ErrNonFinite)
	}

	r.lastSeq = in.Seq
	r.recon.Receive(gamemath.Transform{Position: pos, Rotation: rot.Normalize()})

	for i, ext := range r.extensions {
		if err := ext.Decode(rd); err != nil {
			if errors.Is(err, ErrShortPayload) {
				break
			}
			return true, fmt.Errorf("decode extension %d: %w", i, err)
		}
	}
	return true, nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Reset forgets consumed sequence numbers and the reconciliation target.
func (r *Replicator) Reset() {
	r.lastSeq = 0
	r.recon.Reset()
}
