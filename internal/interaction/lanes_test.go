package interaction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLanes_GrantsInArrivalOrder(t *testing.T) {
	l := newLanes()
	never := make(chan struct{})

	release, ok := l.acquire(never, "k")
	require.True(t, ok)

	order := make(chan int, 3)
	for i := 1; i <= 3; i++ {
		i := i
		go func() {
			rel, ok := l.acquire(never, "k")
			if ok {
				order <- i
				rel()
			}
		}()
		require.Eventually(t, func() bool { return l.pending("k") == i+1 }, time.Second, time.Millisecond)
	}

	release()
	release()
	assert.Equal(t, 1, <-order)
	assert.Equal(t, 2, <-order)
	assert.Equal(t, 3, <-order)
	require.Eventually(t, func() bool { return l.pending("k") == 0 }, time.Second, time.Millisecond)
}

func TestLanes_AbandonedWaiterIsSkipped(t *testing.T) {
	l := newLanes()
	never := make(chan struct{})

	release, ok := l.acquire(never, "k")
	require.True(t, ok)

	giveUp := make(chan struct{})
	result := make(chan bool, 1)
	go func() {
		_, ok := l.acquire(giveUp, "k")
		result <- ok
	}()
	require.Eventually(t, func() bool { return l.pending("k") == 2 }, time.Second, time.Millisecond)

	close(giveUp)
	assert.False(t, <-result)
	assert.Equal(t, 1, l.pending("k"))

	release()
	assert.Zero(t, l.pending("k"))

	_, ok = l.acquire(never, "k")
	assert.True(t, ok)
}

func TestLanes_KeysAreIndependent(t *testing.T) {
	l := newLanes()
	never := make(chan struct{})

	_, ok := l.acquire(never, "a")
	require.True(t, ok)
	_, ok = l.acquire(never, "b")
	assert.True(t, ok)
}
