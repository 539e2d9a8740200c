package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prestasur/loan-service/internal/domain/model"
	"github.com/prestasur/loan-service/internal/domain/port"
	"github.com/prestasur/loan-service/internal/domain/valueobject"
)

// versionRetries bounds the optimistic-lock retry loop. The per-loan mutex
// makes in-process conflicts impossible, so retries only fire when another
// instance wrote the same loan.
const versionRetries = 3

// paymentProcessor is the single allocation path shared by the immediate
// and deferred approval flows. Both must produce identical installment and
// aggregate mutations for the same payment. paymentRepo is set only on the
// deferred flow, where the payment already exists as a PENDING row; the
// immediate flow allocates a payment that was created in-flight and has no
// stored state to re-read.
type paymentProcessor struct {
	loanRepo    port.LoanRepository
	paymentRepo port.PaymentRepository
	publisher   port.EventPublisher
	locker      *LoanLocker
}

// approve allocates a pending payment against its loan and persists loan,
// installments and payment record as one unit.
func (p paymentProcessor) approve(ctx context.Context, payment model.Payment, now time.Time) (model.Loan, model.Payment, error) {
	unlock := p.locker.Lock(payment.LoanID())
	defer unlock()

	var lastErr error
	for attempt := 0; attempt < versionRetries; attempt++ {
		// A stored payment must be re-read once the lock is held: a
		// concurrent approval or rejection may have settled it after the
		// caller's pre-check, and allocating a stale PENDING copy would
		// apply the same payment to the loan twice.
		if p.paymentRepo != nil {
			fresh, err := p.paymentRepo.FindByID(ctx, payment.ID())
			if err != nil {
				return model.Loan{}, model.Payment{}, fmt.Errorf("find payment: %w", err)
			}
			if !fresh.Status().Equal(valueobject.PaymentStatusPending) {
				return model.Loan{}, model.Payment{}, valueobject.ErrPaymentProcessed
			}
			payment = fresh
		}

		loan, err := p.loanRepo.FindByID(ctx, payment.LoanID())
		if err != nil {
			return model.Loan{}, model.Payment{}, fmt.Errorf("find loan: %w", err)
		}

		loan, alloc, err := loan.ApplyPayment(payment.ID(), payment.Amount(), payment.InstallmentID(), payment.PaymentDate())
		if err != nil {
			return model.Loan{}, model.Payment{}, fmt.Errorf("apply payment: %w", err)
		}

		approved, err := payment.Approve(alloc, now)
		if err != nil {
			return model.Loan{}, model.Payment{}, fmt.Errorf("approve payment: %w", err)
		}

		if err := p.loanRepo.SaveWithPayment(ctx, loan, approved); err != nil {
			if errors.Is(err, port.ErrVersionConflict) {
				lastErr = err
				continue
			}
			return model.Loan{}, model.Payment{}, fmt.Errorf("save loan: %w", err)
		}

		if err := p.publisher.Publish(ctx, loan.DomainEvents()...); err != nil {
			return model.Loan{}, model.Payment{}, fmt.Errorf("publish events: %w", err)
		}
		return loan, approved, nil
	}
	return model.Loan{}, model.Payment{}, fmt.Errorf("save loan: %w", lastErr)
}
