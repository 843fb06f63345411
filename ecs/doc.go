// Package ecs bridges showroom interaction events into an ECS world.
//
// [NewDonburiStore] publishes every forwarded pointer, resize, hover and
// click event to a [Donburi] world as [InteractionEventType]. Hover and
// click events are only forwarded for nodes that carry an EntityID, which
// [DonburiStore.Bind] assigns while creating an entity with a [PartRef]
// component pointing back at the node.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	scene.SetEntityStore(store)
//	door, _ := car.Part("door_left")
//	store.Bind(door)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
