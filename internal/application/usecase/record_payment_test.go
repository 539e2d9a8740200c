package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prestasur/loan-service/internal/application/dto"
	"github.com/prestasur/loan-service/internal/application/usecase"
	"github.com/prestasur/loan-service/internal/domain/model"
	"github.com/prestasur/loan-service/internal/domain/port"
	"github.com/prestasur/loan-service/internal/domain/valueobject"
)

func testLoan(t *testing.T) model.Loan {
	t.Helper()
	loan, err := model.NewActiveLoan("cust-001", "LN-TEST0001", model.LoanTerms{
		Principal:         decimal.NewFromInt(1200),
		AnnualRatePercent: decimal.NewFromInt(12),
		TermMonths:        12,
		Method:            valueobject.AmortizationMethodFixedPrincipal,
		DisbursementDate:  time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC),
		FirstPaymentDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}, decimal.Zero, time.Now().UTC())
	require.NoError(t, err)
	return loan.ClearEvents()
}

func TestRecordPayment_Execute(t *testing.T) {
	paymentDate := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	t.Run("allocates a free payment across installments", func(t *testing.T) {
		loan := testLoan(t)
		loanRepo := &mockLoanRepository{
			findByIDFunc: func(ctx context.Context, id string) (model.Loan, error) {
				return loan, nil
			},
		}
		publisher := &mockEventPublisher{}

		uc := usecase.NewRecordPaymentUseCase(loanRepo, publisher, usecase.NewLoanLocker())

		resp, err := uc.Execute(context.Background(), dto.RecordPaymentRequest{
			LoanID:      loan.ID(),
			Amount:      decimal.NewFromInt(150),
			PaymentDate: paymentDate,
			Method:      "bank_transfer",
			CreatedBy:   "admin-001",
		})

		require.NoError(t, err)
		assert.Equal(t, "APPROVED", resp.Status)
		assert.True(t, decimal.NewFromInt(150).Equal(resp.Amount))
		assert.True(t, decimal.NewFromInt(1128).Equal(resp.OutstandingBalance),
			"outstanding should be 1278-150, got %s", resp.OutstandingBalance)

		require.Len(t, loanRepo.savedLoans, 1)
		require.Len(t, loanRepo.savedPayments, 1)
		saved := loanRepo.savedLoans[0].Schedule()
		assert.True(t, saved[0].Status.Equal(valueobject.InstallmentStatusPaid))
		assert.True(t, saved[1].Status.Equal(valueobject.InstallmentStatusPartial))
		assert.NotEmpty(t, publisher.publishedEvents)
	})

	t.Run("settles a targeted installment", func(t *testing.T) {
		loan := testLoan(t)
		target := loan.Schedule()[0]
		loanRepo := &mockLoanRepository{
			findByIDFunc: func(ctx context.Context, id string) (model.Loan, error) {
				return loan, nil
			},
		}
		publisher := &mockEventPublisher{}

		uc := usecase.NewRecordPaymentUseCase(loanRepo, publisher, usecase.NewLoanLocker())

		resp, err := uc.Execute(context.Background(), dto.RecordPaymentRequest{
			LoanID:        loan.ID(),
			InstallmentID: target.ID,
			Amount:        decimal.NewFromInt(112),
			PaymentDate:   paymentDate,
			Method:        "cash",
			CreatedBy:     "admin-001",
		})

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(100).Equal(resp.PrincipalPaid))
		assert.True(t, decimal.NewFromInt(12).Equal(resp.InterestPaid))
	})

	t.Run("rejects a targeted amount mismatch without saving", func(t *testing.T) {
		loan := testLoan(t)
		target := loan.Schedule()[0]
		loanRepo := &mockLoanRepository{
			findByIDFunc: func(ctx context.Context, id string) (model.Loan, error) {
				return loan, nil
			},
		}
		publisher := &mockEventPublisher{}

		uc := usecase.NewRecordPaymentUseCase(loanRepo, publisher, usecase.NewLoanLocker())

		_, err := uc.Execute(context.Background(), dto.RecordPaymentRequest{
			LoanID:        loan.ID(),
			InstallmentID: target.ID,
			Amount:        decimal.NewFromInt(50),
			PaymentDate:   paymentDate,
			CreatedBy:     "admin-001",
		})

		require.ErrorIs(t, err, valueobject.ErrAmountMismatch)
		assert.Empty(t, loanRepo.savedLoans)
		assert.Empty(t, loanRepo.savedPayments)
		assert.Empty(t, publisher.publishedEvents)
	})

	t.Run("retries on a version conflict", func(t *testing.T) {
		loan := testLoan(t)
		conflicts := 1
		loanRepo := &mockLoanRepository{
			findByIDFunc: func(ctx context.Context, id string) (model.Loan, error) {
				return loan, nil
			},
		}
		loanRepo.saveWithPaymentFunc = func(ctx context.Context, l model.Loan, p model.Payment) error {
			if conflicts > 0 {
				conflicts--
				return port.ErrVersionConflict
			}
			loanRepo.savedLoans = append(loanRepo.savedLoans, l)
			loanRepo.savedPayments = append(loanRepo.savedPayments, p)
			return nil
		}
		publisher := &mockEventPublisher{}

		uc := usecase.NewRecordPaymentUseCase(loanRepo, publisher, usecase.NewLoanLocker())

		_, err := uc.Execute(context.Background(), dto.RecordPaymentRequest{
			LoanID:      loan.ID(),
			Amount:      decimal.NewFromInt(100),
			PaymentDate: paymentDate,
			CreatedBy:   "admin-001",
		})

		require.NoError(t, err)
		assert.Equal(t, 0, conflicts, "conflicted save should have been retried")
		require.Len(t, loanRepo.savedLoans, 1)
	})

	t.Run("fails when loan not found", func(t *testing.T) {
		loanRepo := &mockLoanRepository{}
		publisher := &mockEventPublisher{}

		uc := usecase.NewRecordPaymentUseCase(loanRepo, publisher, usecase.NewLoanLocker())

		_, err := uc.Execute(context.Background(), dto.RecordPaymentRequest{
			LoanID:      "missing",
			Amount:      decimal.NewFromInt(100),
			PaymentDate: paymentDate,
			CreatedBy:   "admin-001",
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, port.ErrNotFound)
	})
}
