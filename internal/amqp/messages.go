package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"riepilogo/internal/core"
)

// EventType names the change that happened to an expense.
type EventType string

const (
	EventCreated EventType = "expense.created"
	EventUpdated EventType = "expense.updated"
	EventDeleted EventType = "expense.deleted"
)

func (t EventType) valid() bool {
	switch t {
	case EventCreated, EventUpdated, EventDeleted:
		return true
	}
	return false
}

// ExpenseEvent tells consumers which month's summary is stale. It carries no
// amounts; consumers re-read the month from storage.
type ExpenseEvent struct {
	Type      EventType `json:"type"`
	ID        int64     `json:"id"`
	Year      int       `json:"year"`
	Month     int       `json:"month"`
	Timestamp time.Time `json:"timestamp"`
}

// NewExpenseEvent builds an event for e, dated now.
func NewExpenseEvent(t EventType, e core.Expense) ExpenseEvent {
	return ExpenseEvent{
		Type:      t,
		ID:        e.ID,
		Year:      e.Date.Year(),
		Month:     e.Date.Month(),
		Timestamp: time.Now().UTC(),
	}
}

// Validate rejects events no consumer could act on.
func (e ExpenseEvent) Validate() error {
	if !e.Type.valid() {
		return fmt.Errorf("%w: unknown event type %q", core.ErrInvalidInput, e.Type)
	}
	return core.ValidateMonth(e.Month)
}

// ToJSON converts the event to JSON bytes
func (e ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ExpenseEventFromJSON decodes and validates an event.
func ExpenseEventFromJSON(data []byte) (ExpenseEvent, error) {
	var ev ExpenseEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return ExpenseEvent{}, err
	}
	if err := ev.Validate(); err != nil {
		return ExpenseEvent{}, err
	}
	return ev, nil
}
