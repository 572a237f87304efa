// Package ecs bridges bota map events into a [Donburi] world.
//
// [NewDonburiSink] publishes every [bota.MapEvent] (entity click, enter and
// leave, pan and zoom) as a typed Donburi event. Subscribe to [MapEventType]
// in your ECS systems to receive them:
//
//	m.SetEventSink(ecs.NewDonburiSink(world))
//	ecs.MapEventType.Subscribe(world, func(w donburi.World, e bota.MapEvent) { ... })
//
// Events are queued until events.ProcessAllEvents runs.
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
