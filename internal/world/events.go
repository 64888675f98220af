package world

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/annel0/grove-world/internal/eventbus"
)

// Типы событий жизненного цикла зон
const (
	EventZoneLoaded   = "ZoneLoaded"
	EventZoneUnloaded = "ZoneUnloaded"
)

// ZoneLifecyclePayload — полезная нагрузка события загрузки/выгрузки зоны
type ZoneLifecyclePayload struct {
	ZoneID   string `json:"zone_id"`
	ZoneType string `json:"zone_type"`
	Entities int    `json:"entities"`
}

// publishZoneEvent отправляет событие жизненного цикла зоны в шину.
// Отсутствие шины и ошибки публикации не мешают работе мира.
func publishZoneEvent(bus eventbus.EventBus, eventType string, payload ZoneLifecyclePayload) {
	if bus == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	_ = bus.Publish(context.Background(), &eventbus.Envelope{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Source:    "world",
		EventType: eventType,
		Version:   1,
		Priority:  3,
		Payload:   data,
	})
}
