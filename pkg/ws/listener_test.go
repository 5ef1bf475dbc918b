package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListenerRelease(t *testing.T) {
	var calls []eventKind
	var set listenerSet
	for k := eventOpen; k < numEvents; k++ {
		set.attach(k, func(ev event) { calls = append(calls, ev.kind) })
	}

	assert.True(t, set.fire(event{kind: eventOpen}))
	assert.True(t, set.fire(event{kind: eventMessage}))
	assert.False(t, set.fire(event{kind: numEvents}))

	set.releaseAll()
	for _, l := range set {
		assert.False(t, l.attached())
	}
	assert.False(t, set.fire(event{kind: eventClose}))
	assert.Equal(t, []eventKind{eventOpen, eventMessage}, calls)
}

func TestEmptyListenerSet(t *testing.T) {
	var set listenerSet
	assert.False(t, set.fire(event{kind: eventError}))
	assert.NotPanics(t, set.releaseAll)
	assert.Equal(t, "message", eventMessage.String())
}
