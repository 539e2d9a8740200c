package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prestasur/loan-service/internal/application/dto"
	"github.com/prestasur/loan-service/internal/application/usecase"
	"github.com/prestasur/loan-service/internal/domain/model"
	"github.com/prestasur/loan-service/internal/domain/valueobject"
)

func pendingPayment(t *testing.T, loanID string, amount int64) model.Payment {
	t.Helper()
	p, err := model.NewPayment(loanID, "", decimal.NewFromInt(amount),
		time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		"bank_transfer", "", "", "cust-001", time.Now().UTC())
	require.NoError(t, err)
	return p
}

func TestApprovePayment_Execute(t *testing.T) {
	t.Run("approves and allocates a pending payment", func(t *testing.T) {
		loan := testLoan(t)
		payment := pendingPayment(t, loan.ID(), 150)

		loanRepo := &mockLoanRepository{
			findByIDFunc: func(ctx context.Context, id string) (model.Loan, error) {
				return loan, nil
			},
		}
		paymentRepo := &mockPaymentRepository{
			findByIDFunc: func(ctx context.Context, id string) (model.Payment, error) {
				return payment, nil
			},
		}
		publisher := &mockEventPublisher{}

		uc := usecase.NewApprovePaymentUseCase(loanRepo, paymentRepo, publisher, usecase.NewLoanLocker())

		resp, err := uc.Execute(context.Background(), dto.ApprovePaymentRequest{PaymentID: payment.ID()})

		require.NoError(t, err)
		assert.Equal(t, "APPROVED", resp.Status)
		require.Len(t, loanRepo.savedLoans, 1)
		assert.True(t, loanRepo.savedLoans[0].PaidAmount().Equal(decimal.NewFromInt(150)))
		require.Len(t, loanRepo.savedPayments, 1)
		assert.True(t, loanRepo.savedPayments[0].Status().Equal(valueobject.PaymentStatusApproved))
	})

	t.Run("fails when payment is already processed", func(t *testing.T) {
		loan := testLoan(t)
		payment := pendingPayment(t, loan.ID(), 150)
		approved, err := payment.Approve(model.PaymentAllocation{}, time.Now().UTC())
		require.NoError(t, err)

		loanRepo := &mockLoanRepository{}
		paymentRepo := &mockPaymentRepository{
			findByIDFunc: func(ctx context.Context, id string) (model.Payment, error) {
				return approved, nil
			},
		}

		uc := usecase.NewApprovePaymentUseCase(loanRepo, paymentRepo, &mockEventPublisher{}, usecase.NewLoanLocker())

		_, err = uc.Execute(context.Background(), dto.ApprovePaymentRequest{PaymentID: approved.ID()})
		assert.ErrorIs(t, err, valueobject.ErrPaymentProcessed)
		assert.Empty(t, loanRepo.savedLoans)
	})

	t.Run("fails when the payment settles between the initial read and the lock", func(t *testing.T) {
		loan := testLoan(t)
		payment := pendingPayment(t, loan.ID(), 150)
		approved, err := payment.Approve(model.PaymentAllocation{}, time.Now().UTC())
		require.NoError(t, err)

		loanRepo := &mockLoanRepository{
			findByIDFunc: func(ctx context.Context, id string) (model.Loan, error) {
				return loan, nil
			},
		}
		var reads int
		paymentRepo := &mockPaymentRepository{
			findByIDFunc: func(ctx context.Context, id string) (model.Payment, error) {
				reads++
				if reads == 1 {
					return payment, nil
				}
				return approved, nil
			},
		}

		uc := usecase.NewApprovePaymentUseCase(loanRepo, paymentRepo, &mockEventPublisher{}, usecase.NewLoanLocker())

		_, err = uc.Execute(context.Background(), dto.ApprovePaymentRequest{PaymentID: payment.ID()})
		assert.ErrorIs(t, err, valueobject.ErrPaymentProcessed)
		assert.Empty(t, loanRepo.savedLoans, "a settled payment must not be reallocated")
		assert.GreaterOrEqual(t, reads, 2, "status must be re-read once the loan lock is held")
	})

	t.Run("concurrent approvals allocate the payment exactly once", func(t *testing.T) {
		loan := testLoan(t)
		payment := pendingPayment(t, loan.ID(), 150)

		var mu sync.Mutex
		current := payment
		loanRepo := &mockLoanRepository{}
		loanRepo.findByIDFunc = func(ctx context.Context, id string) (model.Loan, error) {
			mu.Lock()
			defer mu.Unlock()
			return loan, nil
		}
		loanRepo.saveWithPaymentFunc = func(ctx context.Context, l model.Loan, p model.Payment) error {
			mu.Lock()
			defer mu.Unlock()
			loan = l
			current = p
			loanRepo.savedLoans = append(loanRepo.savedLoans, l)
			loanRepo.savedPayments = append(loanRepo.savedPayments, p)
			return nil
		}
		paymentRepo := &mockPaymentRepository{
			findByIDFunc: func(ctx context.Context, id string) (model.Payment, error) {
				mu.Lock()
				defer mu.Unlock()
				return current, nil
			},
		}

		uc := usecase.NewApprovePaymentUseCase(loanRepo, paymentRepo, &mockEventPublisher{}, usecase.NewLoanLocker())

		errs := make(chan error, 2)
		var wg sync.WaitGroup
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := uc.Execute(context.Background(), dto.ApprovePaymentRequest{PaymentID: payment.ID()})
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		var ok, processed int
		for err := range errs {
			switch {
			case err == nil:
				ok++
			case errors.Is(err, valueobject.ErrPaymentProcessed):
				processed++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		assert.Equal(t, 1, ok, "exactly one approval must succeed")
		assert.Equal(t, 1, processed, "the loser must see the payment as processed")
		require.Len(t, loanRepo.savedLoans, 1)
		assert.True(t, loanRepo.savedLoans[0].PaidAmount().Equal(decimal.NewFromInt(150)),
			"the loan must absorb the payment once, not per approval attempt")
	})
}

func TestRejectPayment_Execute(t *testing.T) {
	t.Run("rejects a pending payment without touching the loan", func(t *testing.T) {
		loan := testLoan(t)
		payment := pendingPayment(t, loan.ID(), 150)

		loanRepo := &mockLoanRepository{
			findByIDFunc: func(ctx context.Context, id string) (model.Loan, error) {
				return loan, nil
			},
		}
		paymentRepo := &mockPaymentRepository{
			findByIDFunc: func(ctx context.Context, id string) (model.Payment, error) {
				return payment, nil
			},
		}
		publisher := &mockEventPublisher{}

		uc := usecase.NewRejectPaymentUseCase(loanRepo, paymentRepo, publisher)

		resp, err := uc.Execute(context.Background(), dto.RejectPaymentRequest{PaymentID: payment.ID()})

		require.NoError(t, err)
		assert.Equal(t, "REJECTED", resp.Status)
		assert.Empty(t, loanRepo.savedLoans, "rejection must not mutate the loan")
		require.Len(t, paymentRepo.savedPayments, 1)
		assert.NotEmpty(t, publisher.publishedEvents)
	})

	t.Run("fails on a processed payment", func(t *testing.T) {
		payment := pendingPayment(t, "loan-001", 150)
		rejected, err := payment.Reject(time.Now().UTC())
		require.NoError(t, err)

		paymentRepo := &mockPaymentRepository{
			findByIDFunc: func(ctx context.Context, id string) (model.Payment, error) {
				return rejected, nil
			},
		}

		uc := usecase.NewRejectPaymentUseCase(&mockLoanRepository{}, paymentRepo, &mockEventPublisher{})

		_, err = uc.Execute(context.Background(), dto.RejectPaymentRequest{PaymentID: rejected.ID()})
		assert.ErrorIs(t, err, valueobject.ErrPaymentProcessed)
	})
}
