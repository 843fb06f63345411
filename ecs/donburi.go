package ecs

import (
	"github.com/showroom3d/showroom"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType is the Donburi event type for showroom interaction
// events. Subscribe to it in ECS systems to receive pointer, hover and click
// events.
var InteractionEventType = events.NewEventType[showroom.InteractionEvent]()

// PartData links an entity to the scene node it stands for.
type PartData struct {
	Node *showroom.Node
}

// PartRef is the component created by DonburiStore.Bind.
var PartRef = donburi.NewComponentType[PartData]()

// DonburiStore is a showroom.EntityStore backed by a Donburi world.
type DonburiStore struct {
	world    donburi.World
	entities map[uint32]donburi.Entity
	nextID   uint32
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Interaction events are published to InteractionEventType and can be
// consumed with events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) *DonburiStore {
	return &DonburiStore{world: world, entities: make(map[uint32]donburi.Entity)}
}

// EmitEvent publishes event to the world.
func (s *DonburiStore) EmitEvent(event showroom.InteractionEvent) {
	InteractionEventType.Publish(s.world, event)
}

// Bind creates an entity with a PartRef for n and sets n.EntityID so hover
// and click events on n are forwarded. Binding a node twice returns the
// entity it already has.
func (s *DonburiStore) Bind(n *showroom.Node) donburi.Entity {
	if e, ok := s.entities[n.EntityID]; ok && n.EntityID != 0 && s.world.Valid(e) {
		return e
	}
	e := s.world.Create(PartRef)
	PartRef.SetValue(s.world.Entry(e), PartData{Node: n})
	s.nextID++
	n.EntityID = s.nextID
	s.entities[n.EntityID] = e
	return e
}

// Entity returns the entity bound to an InteractionEvent EntityID.
func (s *DonburiStore) Entity(id uint32) (donburi.Entity, bool) {
	e, ok := s.entities[id]
	if !ok || !s.world.Valid(e) {
		return 0, false
	}
	return e, true
}

// Node returns the scene node bound to an InteractionEvent EntityID.
func (s *DonburiStore) Node(id uint32) (*showroom.Node, bool) {
	e, ok := s.Entity(id)
	if !ok {
		return nil, false
	}
	return PartRef.Get(s.world.Entry(e)).Node, true
}

// Unbind removes the entity for n and clears n.EntityID.
func (s *DonburiStore) Unbind(n *showroom.Node) {
	e, ok := s.entities[n.EntityID]
	if !ok {
		return
	}
	delete(s.entities, n.EntityID)
	n.EntityID = 0
	if s.world.Valid(e) {
		s.world.Remove(e)
	}
}
