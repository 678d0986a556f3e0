package handlers

import (
	"sync"
	"time"

	"ids-dashboard/backend/system"

	"github.com/gofiber/fiber/v2"
)

// SystemEvent is one operator-visible event (logins, monitoring toggles,
// uploads). Distinct from the prediction ring, which lives in the stats
// aggregator.
type SystemEvent struct {
	Time    string `json:"time"`
	Type    string `json:"type"` // info, warning, error, success
	Message string `json:"message"`
}

const eventLogCapacity = 100

var (
	eventLog   []SystemEvent
	eventMutex sync.RWMutex
)

// AddEvent adds a new event to the log, newest first.
func AddEvent(eventType, message string) {
	eventMutex.Lock()

	event := SystemEvent{
		Time:    time.Now().Format("15:04:05"),
		Type:    eventType,
		Message: message,
	}
	eventLog = append([]SystemEvent{event}, eventLog...)
	if len(eventLog) > eventLogCapacity {
		eventLog = eventLog[:eventLogCapacity]
	}
	eventMutex.Unlock()

	switch eventType {
	case "error":
		system.Error("%s", message)
	case "warning":
		system.Warn("%s", message)
	default:
		system.Info("%s", message)
	}
}

// GetEventLog returns a copy of the event log.
func GetEventLog() []SystemEvent {
	eventMutex.RLock()
	defer eventMutex.RUnlock()

	result := make([]SystemEvent, len(eventLog))
	copy(result, eventLog)
	return result
}

// GetEvents returns recent operator events
func (h *Handler) GetEvents(c *fiber.Ctx) error {
	return c.JSON(GetEventLog())
}
