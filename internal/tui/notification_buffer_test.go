package tui

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/cardwallet/internal/core/notify"
)

func TestNotificationBuffer_DrainEmpty(t *testing.T) {
	b := NewNotificationBuffer(0)
	items, dropped := b.Drain()
	assert.Nil(t, items)
	assert.Zero(t, dropped)
}

func TestNotificationBuffer_KeepsOrderAndClears(t *testing.T) {
	b := NewNotificationBuffer(0)
	b.Push(notify.Notification{Level: notify.LevelInfo, Message: "points added", CardID: "loyalty"})
	b.Push(notify.Notification{Level: notify.LevelWarning, Message: "handler timed out", Source: "action"})

	items, _ := b.Drain()
	require.Len(t, items, 2)
	assert.Equal(t, "points added", items[0].Message)
	assert.Equal(t, "loyalty", items[0].CardID)
	assert.Equal(t, "handler timed out", items[1].Message)
	assert.False(t, items[0].CreatedAt.IsZero())

	items, _ = b.Drain()
	assert.Nil(t, items)
}

func TestNotificationBuffer_EvictsOldest(t *testing.T) {
	b := NewNotificationBuffer(3)
	for i := range 5 {
		b.Push(notify.Notification{Message: fmt.Sprint(i)})
	}

	items, dropped := b.Drain()
	assert.Equal(t, 2, dropped)
	require.Len(t, items, 3)
	assert.Equal(t, "2", items[0].Message)
	assert.Equal(t, "4", items[2].Message)

	_, dropped = b.Drain()
	assert.Zero(t, dropped, "drop count resets after a drain")
}

func TestNotificationBuffer_SingleWakeForBurst(t *testing.T) {
	b := NewNotificationBuffer(0)
	b.Push(notify.Notification{Message: "one"})
	b.Push(notify.Notification{Message: "two"})

	msg := b.WaitForSignal(context.Background())()
	require.IsType(t, drainNotificationsMsg{}, msg)

	items, _ := b.Drain()
	assert.Len(t, items, 2)
}

func TestNotificationBuffer_WaitEndsWithContext(t *testing.T) {
	b := NewNotificationBuffer(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Nil(t, b.WaitForSignal(ctx)())
}

func TestNotificationBuffer_ConcurrentPush(t *testing.T) {
	const count = 200
	b := NewNotificationBuffer(count)

	var wg sync.WaitGroup
	for i := range count {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b.Push(notify.Notification{Level: notify.LevelInfo, Message: fmt.Sprint(i)})
		}(i)
	}
	wg.Wait()

	items, dropped := b.Drain()
	assert.Len(t, items, count)
	assert.Zero(t, dropped)
}
