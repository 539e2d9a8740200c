package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/prestasur/loan-service/internal/domain/model"
	"github.com/prestasur/loan-service/internal/domain/port"
	"github.com/prestasur/loan-service/internal/domain/valueobject"
)

// PaymentRepo implements port.PaymentRepository.
type PaymentRepo struct {
	pool *pgxpool.Pool
}

// NewPaymentRepo creates a new PostgreSQL-backed payment repository.
func NewPaymentRepo(pool *pgxpool.Pool) *PaymentRepo {
	return &PaymentRepo{pool: pool}
}

// Save persists a payment record.
func (r *PaymentRepo) Save(ctx context.Context, p model.Payment) error {
	return savePaymentTx(ctx, r.pool, p)
}

func savePaymentTx(ctx context.Context, q querier, p model.Payment) error {
	query := `
		INSERT INTO payments (
			id, loan_id, installment_id, amount, payment_date,
			principal_paid, interest_paid, late_fee_paid, late_interest_paid,
			method, reference, notes, status, created_by,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		ON CONFLICT (id) DO UPDATE SET
			principal_paid     = EXCLUDED.principal_paid,
			interest_paid      = EXCLUDED.interest_paid,
			late_fee_paid      = EXCLUDED.late_fee_paid,
			late_interest_paid = EXCLUDED.late_interest_paid,
			status             = EXCLUDED.status,
			updated_at         = EXCLUDED.updated_at
		WHERE payments.status = $17
	`
	var installmentID *string
	if p.InstallmentID() != "" {
		v := p.InstallmentID()
		installmentID = &v
	}
	tag, err := q.Exec(ctx, query,
		p.ID(), p.LoanID(), installmentID, p.Amount(), p.PaymentDate(),
		p.PrincipalPaid(), p.InterestPaid(), p.LateFeePaid(), p.LateInterestPaid(),
		p.Method(), p.Reference(), p.Notes(), p.Status().String(), p.CreatedBy(),
		p.CreatedAt(), p.UpdatedAt(),
		valueobject.PaymentStatusPending.String(),
	)
	if err != nil {
		return fmt.Errorf("save payment: %w", err)
	}
	// An existing row only leaves PENDING once. A conflicting update that
	// matches nothing means another request already settled this payment.
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("save payment: %w", valueobject.ErrPaymentProcessed)
	}
	return nil
}

// FindByID retrieves a payment by ID.
func (r *PaymentRepo) FindByID(ctx context.Context, id string) (model.Payment, error) {
	row := r.pool.QueryRow(ctx, selectPayment+` WHERE id = $1`, id)
	p, err := scanPaymentRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Payment{}, fmt.Errorf("payment: %w", port.ErrNotFound)
	}
	return p, err
}

// FindByLoanID retrieves all payments recorded against a loan, newest first.
func (r *PaymentRepo) FindByLoanID(ctx context.Context, loanID string) ([]model.Payment, error) {
	return r.queryPayments(ctx, selectPayment+` WHERE loan_id = $1 ORDER BY created_at DESC`, loanID)
}

// FindPending retrieves all payments awaiting approval, oldest first.
func (r *PaymentRepo) FindPending(ctx context.Context) ([]model.Payment, error) {
	return r.queryPayments(ctx, selectPayment+` WHERE status = $1 ORDER BY created_at`, valueobject.PaymentStatusPending.String())
}

// ---------------------------------------------------------------------------
// internal helpers
// ---------------------------------------------------------------------------

const selectPayment = `
	SELECT id, loan_id, installment_id, amount, payment_date,
	       principal_paid, interest_paid, late_fee_paid, late_interest_paid,
	       method, reference, notes, status, created_by,
	       created_at, updated_at
	FROM payments`

func (r *PaymentRepo) queryPayments(ctx context.Context, query string, args ...any) ([]model.Payment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	var payments []model.Payment
	for rows.Next() {
		p, err := scanPaymentRow(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func scanPaymentRow(s scannable) (model.Payment, error) {
	var (
		id, loanID                                                 string
		installmentID                                              *string
		amount                                                     decimal.Decimal
		paymentDate                                                time.Time
		principalPaid, interestPaid, lateFeePaid, lateInterestPaid decimal.Decimal
		method, reference, notes, statusStr, createdBy             string
		createdAt, updatedAt                                       time.Time
	)

	err := s.Scan(
		&id, &loanID, &installmentID, &amount, &paymentDate,
		&principalPaid, &interestPaid, &lateFeePaid, &lateInterestPaid,
		&method, &reference, &notes, &statusStr, &createdBy,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Payment{}, err
		}
		return model.Payment{}, fmt.Errorf("scan payment: %w", err)
	}

	status, err := valueobject.NewPaymentStatus(statusStr)
	if err != nil {
		return model.Payment{}, fmt.Errorf("parse payment status: %w", err)
	}

	instID := ""
	if installmentID != nil {
		instID = *installmentID
	}
	return model.ReconstructPayment(
		id, loanID, instID, amount, paymentDate,
		principalPaid, interestPaid, lateFeePaid, lateInterestPaid,
		method, reference, notes, status, createdBy,
		createdAt, updatedAt,
	), nil
}
