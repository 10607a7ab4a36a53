package auth

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoginLimiterSerializesSameUsername(t *testing.T) {
	l := NewLoginLimiter()

	active := 0
	maxActive := 0
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.Lock("admin")
			defer unlock()
			mu.Lock()
			active++
			if active > maxActive {
				maxActive = active
			}
			mu.Unlock()
			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()
	require.Equal(t, 1, maxActive)
}

func TestLoginLimiterIndependentUsernames(t *testing.T) {
	l := NewLoginLimiter()
	unlockA := l.Lock("a")
	// другой логин не должен ждать
	unlockB := l.Lock("b")
	unlockB()
	unlockA()
}
