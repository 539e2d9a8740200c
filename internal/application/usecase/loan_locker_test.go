package usecase_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prestasur/loan-service/internal/application/usecase"
)

func TestLoanLocker_SerializesPerLoan(t *testing.T) {
	locker := usecase.NewLoanLocker()

	const workers = 16
	const iterations = 100
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				unlock := locker.Lock("loan-1")
				counter++
				unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, workers*iterations, counter,
		"increments under the loan lock must not race")
}

func TestLoanLocker_IndependentLoans(t *testing.T) {
	locker := usecase.NewLoanLocker()

	unlockA := locker.Lock("loan-a")
	done := make(chan struct{})
	go func() {
		unlockB := locker.Lock("loan-b")
		unlockB()
		close(done)
	}()
	<-done // locking a different loan must not block
	unlockA()
}
