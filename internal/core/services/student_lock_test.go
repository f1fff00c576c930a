package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shulepay/shulepay_backend/internal/core/domain"
)

func TestStudentLockRegistry_AcquireAndRelease(t *testing.T) {
	locks := newStudentLockRegistry()

	assert.True(t, locks.TryAcquire(domain.StudentID("student-1")))
	assert.False(t, locks.TryAcquire(domain.StudentID("student-1")), "second acquire for same student must fail")
	assert.True(t, locks.TryAcquire(domain.StudentID("student-2")), "different student must not contend")

	locks.Release(domain.StudentID("student-1"))
	assert.True(t, locks.TryAcquire(domain.StudentID("student-1")), "released lock must be acquirable again")
}

func TestStudentLockRegistry_SingleWinnerUnderContention(t *testing.T) {
	locks := newStudentLockRegistry()
	const goroutines = 50

	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if locks.TryAcquire(domain.StudentID("student-1")) {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners, "exactly one goroutine must win the lock")
}
