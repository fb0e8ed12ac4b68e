package service

import (
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
)

type ChangeType string

const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
	ChangeDeleted ChangeType = "deleted"
	ChangeMoved   ChangeType = "moved"
	ChangeShifted ChangeType = "shifted"
)

// ChangeEvent describes one successful mutation. TimelineID names the tree
// the entity belongs to after the change.
type ChangeEvent struct {
	Type       ChangeType
	Level      domain.Level
	EntityID   string
	TimelineID string
	At         time.Time
}

// Topic is the dotted event name, e.g. "task.moved".
func (e ChangeEvent) Topic() string {
	return string(e.Level) + "." + string(e.Type)
}

// ChangeSink receives change events after the store lock is released.
// Publish must not block.
type ChangeSink interface {
	Publish(e ChangeEvent)
}

type noopSink struct{}

func (noopSink) Publish(ChangeEvent) {}

// ChangeSinks fans one event out to several sinks.
type ChangeSinks []ChangeSink

func (s ChangeSinks) Publish(e ChangeEvent) {
	for _, sink := range s {
		sink.Publish(e)
	}
}
