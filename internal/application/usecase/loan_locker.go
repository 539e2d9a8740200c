package usecase

import "sync"

// LoanLocker serializes payment allocation per loan. The waterfall reads
// installment state and then writes it, so two concurrent payments against
// the same loan are a real race; the optimistic version check in the
// repository guards multi-instance deployments, while this mutex avoids
// burning retries inside a single process.
type LoanLocker struct {
	mu    sync.Mutex
	locks map[string]*loanLock
}

type loanLock struct {
	mu   sync.Mutex
	refs int
}

func NewLoanLocker() *LoanLocker {
	return &LoanLocker{locks: make(map[string]*loanLock)}
}

// Lock acquires the mutex for the given loan and returns the release
// function. Entries are dropped once the last holder releases.
func (l *LoanLocker) Lock(loanID string) func() {
	l.mu.Lock()
	lk, ok := l.locks[loanID]
	if !ok {
		lk = &loanLock{}
		l.locks[loanID] = lk
	}
	lk.refs++
	l.mu.Unlock()

	lk.mu.Lock()
	return func() {
		lk.mu.Unlock()
		l.mu.Lock()
		lk.refs--
		if lk.refs == 0 {
			delete(l.locks, loanID)
		}
		l.mu.Unlock()
	}
}
