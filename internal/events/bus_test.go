package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusPublishSubscribe(t *testing.T) {
	bus := NewBus()

	var got []Notification
	unsubscribe := bus.Subscribe(func(n Notification) {
		got = append(got, n)
	})

	bus.Publish(Notification{Level: LevelSuccess, Message: "recomendación lista"})
	assert.Len(t, got, 1)
	assert.Equal(t, LevelSuccess, got[0].Level)

	unsubscribe()
	bus.Publish(Notification{Level: LevelError, Message: "no disponible"})
	assert.Len(t, got, 1, "unsubscribed listener must not receive")
}

func TestBusMultipleListeners(t *testing.T) {
	bus := NewBus()

	count := 0
	bus.Subscribe(func(Notification) { count++ })
	bus.Subscribe(func(Notification) { count++ })

	bus.Publish(Notification{Level: LevelInfo, Message: "hola"})
	assert.Equal(t, 2, count)
}

func TestBusNoListeners(t *testing.T) {
	bus := NewBus()
	// Must not panic.
	bus.Publish(Notification{Level: LevelInfo, Message: "nadie escucha"})
}
