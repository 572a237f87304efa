package ecs

import (
	"github.com/eltonkola/bota"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// MapEventType is the Donburi event type for bota map events.
var MapEventType = events.NewEventType[bota.MapEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Map events
// are published to MapEventType and delivered by ProcessEvents.
func NewDonburiSink(world donburi.World) bota.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event bota.MapEvent) {
	MapEventType.Publish(s.world, event)
}

// ToggleOnClick subscribes a handler that toggles the clicked entity in sel.
// It is the ECS counterpart of WorldMap.OnEntityClick with Selection.Toggle.
func ToggleOnClick(world donburi.World, sel *bota.Selection) {
	MapEventType.Subscribe(world, func(_ donburi.World, e bota.MapEvent) {
		if e.Type == bota.EventEntityClick && e.EntityID != "" {
			sel.Toggle(e.EntityID)
		}
	})
}
