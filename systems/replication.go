package systems

import (
	"log"

	"github.com/tinychicken/tanks-mp/components"
	"github.com/tinychicken/tanks-mp/shared/messages"
	"github.com/tinychicken/tanks-mp/shared/replication"
	"github.com/tinychicken/tanks-mp/systems/factory"
	"github.com/tinychicken/tanks-mp/tags"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

var mirrors = donburi.NewQuery(filter.Contains(tags.Mirror, components.Networked))

// NewNetworkTick returns the network serialization tick. Entities this
// participant owns are encoded and sent; mirrors consume the latest state the
// server relayed for them.
func NewNetworkTick(s *Session) func(w donburi.World) {
	return func(w donburi.World) {
		components.Networked.Each(w, func(entry *donburi.Entry) {
			net := components.Networked.Get(entry)
			if net.Replicator == nil || spentBullet(entry) {
				return
			}
			current := *components.Transform.Get(entry)

			if replication.IsAuthoritative(net.Owner, s.Local) {
				if !net.Acknowledged() {
					return
				}
				out, err := net.Replicator.Tick(net.Owner, s.Local, current, replication.Snapshot{})
				if err != nil {
					log.Printf("[sim] encode %s %d: %v", net.Kind, net.NetworkID, err)
					return
				}
				s.Send(messages.StateUpdate{NetworkID: net.NetworkID, Seq: out.Seq, Payload: out.Payload})
				return
			}

			in := net.Inbound
			net.Inbound = replication.Snapshot{}
			if _, err := net.Replicator.Tick(net.Owner, s.Local, current, in); err != nil {
				log.Printf("[sim] decode %s %d: %v", net.Kind, net.NetworkID, err)
			}
		})
	}
}

// UpdateReconciliation moves every mirror toward its owner's latest state and
// keeps its collision body in step.
func UpdateReconciliation(w donburi.World, dt float64) {
	mirrors.Each(w, func(entry *donburi.Entry) {
		if spentBullet(entry) {
			return
		}
		net := components.Networked.Get(entry)
		if net.Replicator == nil {
			return
		}
		transform := components.Transform.Get(entry)
		_, factor := net.Replicator.Reconciler().Step(transform, dt)

		if entry.HasComponent(components.Tank) {
			components.Tank.Get(entry).Turret.Blend(factor)
		}
		if obj := components.Object.Get(entry).Object; obj != nil {
			factory.PlaceBody(obj, transform.Position)
		}
	})
}

func spentBullet(entry *donburi.Entry) bool {
	return entry.HasComponent(components.Bullet) && components.Bullet.Get(entry).Exploding
}
