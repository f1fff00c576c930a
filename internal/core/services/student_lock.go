package services

import (
	"sync"

	"github.com/shulepay/shulepay_backend/internal/core/domain"
)

// studentLockRegistry serializes allocation per student. Two confirmations
// for the same student must never read balances concurrently, or both will
// believe the same balance is available and double-allocate.
//
// Acquisition is non-blocking: a contended acquire fails so the dispatcher
// can retry the whole job with backoff instead of queueing goroutines on a
// mutex while holding stale reads.
type studentLockRegistry struct {
	mu   sync.Mutex
	held map[domain.StudentID]struct{}
}

func newStudentLockRegistry() *studentLockRegistry {
	return &studentLockRegistry{held: make(map[domain.StudentID]struct{})}
}

// TryAcquire takes the student's lock if it is free and reports whether it
// was taken.
func (r *studentLockRegistry) TryAcquire(studentID domain.StudentID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.held[studentID]; taken {
		return false
	}
	r.held[studentID] = struct{}{}
	return true
}

// Release frees the student's lock. Safe to call only after a successful
// TryAcquire.
func (r *studentLockRegistry) Release(studentID domain.StudentID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.held, studentID)
}
