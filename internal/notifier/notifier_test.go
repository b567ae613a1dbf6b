package notifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotifier_Broadcast(t *testing.T) {
	n := New()
	a := n.Subscribe()
	b := n.Subscribe()
	assert.Equal(t, 2, n.Len())

	n.Broadcast()
	n.Broadcast() // coalesced

	for _, ch := range []chan struct{}{a, b} {
		select {
		case <-ch:
		default:
			t.Fatal("expected a ping")
		}
		select {
		case <-ch:
			t.Fatal("pings should coalesce")
		default:
		}
	}
}

func TestNotifier_Unsubscribe(t *testing.T) {
	n := New()
	ch := n.Subscribe()
	n.Unsubscribe(ch)
	assert.Equal(t, 0, n.Len())

	_, open := <-ch
	assert.False(t, open)

	// A second unsubscribe must not panic on the closed channel.
	assert.NotPanics(t, func() { n.Unsubscribe(ch) })
	assert.NotPanics(t, n.Broadcast)
}
