package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/prestasur/loan-service/internal/application/dto"
	"github.com/prestasur/loan-service/internal/domain/port"
	"github.com/prestasur/loan-service/internal/domain/valueobject"
)

// ApprovePaymentUseCase approves a pending payment, running the same
// allocation path as the immediate flow.
type ApprovePaymentUseCase struct {
	paymentRepo port.PaymentRepository
	processor   paymentProcessor
}

// NewApprovePaymentUseCase wires dependencies.
func NewApprovePaymentUseCase(
	loanRepo port.LoanRepository,
	paymentRepo port.PaymentRepository,
	publisher port.EventPublisher,
	locker *LoanLocker,
) *ApprovePaymentUseCase {
	return &ApprovePaymentUseCase{
		paymentRepo: paymentRepo,
		processor:   paymentProcessor{loanRepo: loanRepo, paymentRepo: paymentRepo, publisher: publisher, locker: locker},
	}
}

// Execute allocates the payment and flips it to APPROVED.
func (uc *ApprovePaymentUseCase) Execute(
	ctx context.Context,
	req dto.ApprovePaymentRequest,
) (dto.PaymentResponse, error) {
	now := time.Now().UTC()

	payment, err := uc.paymentRepo.FindByID(ctx, req.PaymentID)
	if err != nil {
		return dto.PaymentResponse{}, fmt.Errorf("find payment: %w", err)
	}
	// Fast-path rejection only; the authoritative status check re-reads the
	// payment inside the processor once the per-loan lock is held.
	if !payment.Status().Equal(valueobject.PaymentStatusPending) {
		return dto.PaymentResponse{}, valueobject.ErrPaymentProcessed
	}

	loan, approved, err := uc.processor.approve(ctx, payment, now)
	if err != nil {
		return dto.PaymentResponse{}, err
	}

	return paymentResponse(approved, loan), nil
}
