package ws

import (
	"encoding/json"
	"log"

	"vespawatch/pkg/proximity"
)

const (
	EventObject        = "object"
	EventObjects       = "objects"
	EventNestDestroyed = "nest_destroyed"
)

// Event is a live map message.
type Event struct {
	Type    string                `json:"type"`
	Object  *proximity.MapObject  `json:"object,omitempty"`
	Objects []proximity.MapObject `json:"objects,omitempty"`
	NestID  uint                  `json:"nest_id,omitempty"`
}

// SnapshotFunc returns the objects a freshly connected map should draw.
type SnapshotFunc func() ([]proximity.MapObject, error)

// MapHub fans new and changed reports out to every open map.
type MapHub struct {
	*Hub
	snapshot SnapshotFunc
}

func NewMapHub(snapshot SnapshotFunc) *MapHub {
	return &MapHub{Hub: NewHub(), snapshot: snapshot}
}

// Publish broadcasts a created or updated map object.
func (m *MapHub) Publish(obj proximity.MapObject) {
	m.BroadcastAll(Event{Type: EventObject, Object: &obj})
}

// NestDestroyed tells every map about the new nest state and notifies the reporter directly.
func (m *MapHub) NestDestroyed(obj proximity.MapObject, reporterID uint) {
	m.Publish(obj)
	if reporterID != 0 {
		m.BroadcastToUser(reporterID, Event{Type: EventNestDestroyed, NestID: obj.ID})
	}
}

// SendSnapshot queues the initial objects message on c.
func (m *MapHub) SendSnapshot(c *Client) {
	var objs []proximity.MapObject
	if m.snapshot != nil {
		var err error
		if objs, err = m.snapshot(); err != nil {
			log.Printf("[ws] map snapshot failed: %v", err)
		}
	}
	if objs == nil {
		objs = []proximity.MapObject{}
	}
	data, err := json.Marshal(struct {
		Type    string                `json:"type"`
		Objects []proximity.MapObject `json:"objects"`
	}{EventObjects, objs})
	if err != nil {
		return
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	trySend(c, data)
}
