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
	pkgpostgres "github.com/prestasur/loan-service/pkg/postgres"
)

// LoanRepo implements port.LoanRepository.
type LoanRepo struct {
	pool *pgxpool.Pool
}

// NewLoanRepo creates a new PostgreSQL-backed loan repository.
func NewLoanRepo(pool *pgxpool.Pool) *LoanRepo {
	return &LoanRepo{pool: pool}
}

// Save persists a loan and its installment schedule.
func (r *LoanRepo) Save(ctx context.Context, loan model.Loan) error {
	return pkgpostgres.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		return saveLoanTx(ctx, tx, loan)
	})
}

// SaveWithPayment persists the loan, its touched installments and the payment
// record in one transaction, so a payment either lands completely or not at
// all.
func (r *LoanRepo) SaveWithPayment(ctx context.Context, loan model.Loan, payment model.Payment) error {
	return pkgpostgres.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if err := saveLoanTx(ctx, tx, loan); err != nil {
			return err
		}
		return savePaymentTx(ctx, tx, payment)
	})
}

func saveLoanTx(ctx context.Context, tx pgx.Tx, loan model.Loan) error {
	terms := loan.Terms()
	loanQuery := `
		INSERT INTO loans (
			id, customer_id, loan_number,
			principal, annual_rate_percent, term_months, method,
			late_interest_rate, late_fee_amount,
			disbursement_date, first_payment_date, maturity_date,
			status, total_amount, total_interest,
			paid_amount, outstanding_balance, dti_ratio, notes,
			version, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)
		ON CONFLICT (id) DO UPDATE SET
			status              = EXCLUDED.status,
			maturity_date       = EXCLUDED.maturity_date,
			total_amount        = EXCLUDED.total_amount,
			total_interest      = EXCLUDED.total_interest,
			paid_amount         = EXCLUDED.paid_amount,
			outstanding_balance = EXCLUDED.outstanding_balance,
			dti_ratio           = EXCLUDED.dti_ratio,
			version             = loans.version + 1,
			updated_at          = EXCLUDED.updated_at
		WHERE loans.version = $20
	`
	tag, err := tx.Exec(ctx, loanQuery,
		loan.ID(), loan.CustomerID(), loan.LoanNumber(),
		terms.Principal, terms.AnnualRatePercent, terms.TermMonths, terms.Method.String(),
		terms.LateInterestRate, terms.LateFeeAmount,
		terms.DisbursementDate, terms.FirstPaymentDate, loan.MaturityDate(),
		loan.Status().String(), loan.TotalAmount(), loan.TotalInterest(),
		loan.PaidAmount(), loan.OutstandingBalance(), loan.DTIRatio(), terms.Notes,
		loan.Version(), loan.CreatedAt(), loan.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("save loan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return port.ErrVersionConflict
	}

	// Installments are generated at activation and their paid fields change
	// with every allocation, so each save upserts the full schedule.
	instQuery := `
		INSERT INTO installments (
			id, loan_id, number, due_date,
			principal_amount, interest_amount, total_amount, remaining_balance,
			paid_amount, paid_principal, paid_interest,
			late_fee, late_interest, status, paid_date
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		ON CONFLICT (id) DO UPDATE SET
			paid_amount    = EXCLUDED.paid_amount,
			paid_principal = EXCLUDED.paid_principal,
			paid_interest  = EXCLUDED.paid_interest,
			late_fee       = EXCLUDED.late_fee,
			late_interest  = EXCLUDED.late_interest,
			status         = EXCLUDED.status,
			paid_date      = EXCLUDED.paid_date
	`
	for _, inst := range loan.Schedule() {
		_, err := tx.Exec(ctx, instQuery,
			inst.ID, loan.ID(), inst.Number, inst.DueDate,
			inst.PrincipalAmount, inst.InterestAmount, inst.TotalAmount, inst.RemainingBalance,
			inst.PaidAmount, inst.PaidPrincipal, inst.PaidInterest,
			inst.LateFee, inst.LateInterest, inst.Status.String(), inst.PaidDate,
		)
		if err != nil {
			return fmt.Errorf("save installment %d: %w", inst.Number, err)
		}
	}
	return nil
}

// FindByID retrieves a loan and its schedule by ID.
func (r *LoanRepo) FindByID(ctx context.Context, id string) (model.Loan, error) {
	loan, err := r.scanOneLoan(ctx, selectLoan+` WHERE id = $1`, id)
	if err != nil {
		return model.Loan{}, err
	}

	schedule, err := r.loadSchedule(ctx, id)
	if err != nil {
		return model.Loan{}, err
	}
	return withSchedule(loan, schedule), nil
}

// FindByCustomerID retrieves all loans for a customer, newest first.
func (r *LoanRepo) FindByCustomerID(ctx context.Context, customerID string) ([]model.Loan, error) {
	rows, err := r.pool.Query(ctx, selectLoan+` WHERE customer_id = $1 ORDER BY created_at DESC`, customerID)
	if err != nil {
		return nil, fmt.Errorf("query loans: %w", err)
	}
	defer rows.Close()

	var loans []model.Loan
	for rows.Next() {
		loan, err := scanLoanRow(rows)
		if err != nil {
			return nil, err
		}
		schedule, err := r.loadSchedule(ctx, loan.ID())
		if err != nil {
			return nil, err
		}
		loans = append(loans, withSchedule(loan, schedule))
	}
	return loans, rows.Err()
}

// ---------------------------------------------------------------------------
// internal helpers
// ---------------------------------------------------------------------------

const selectLoan = `
	SELECT id, customer_id, loan_number,
	       principal, annual_rate_percent, term_months, method,
	       late_interest_rate, late_fee_amount,
	       disbursement_date, first_payment_date, maturity_date,
	       status, total_amount, total_interest,
	       paid_amount, outstanding_balance, dti_ratio, notes,
	       version, created_at, updated_at
	FROM loans`

func (r *LoanRepo) scanOneLoan(ctx context.Context, query string, args ...any) (model.Loan, error) {
	row := r.pool.QueryRow(ctx, query, args...)
	loan, err := scanLoanRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Loan{}, fmt.Errorf("loan: %w", port.ErrNotFound)
	}
	return loan, err
}

func scanLoanRow(s scannable) (model.Loan, error) {
	var (
		id, customerID, loanNumber                       string
		principal, annualRate                            decimal.Decimal
		termMonths                                       int
		methodStr                                        string
		lateInterestRate, lateFeeAmount                  decimal.Decimal
		disbursementDate, firstPaymentDate, maturityDate time.Time
		statusStr                                        string
		totalAmount, totalInterest                       decimal.Decimal
		paidAmount, outstandingBalance, dtiRatio         decimal.Decimal
		notes                                            string
		version                                          int
		createdAt, updatedAt                             time.Time
	)

	err := s.Scan(
		&id, &customerID, &loanNumber,
		&principal, &annualRate, &termMonths, &methodStr,
		&lateInterestRate, &lateFeeAmount,
		&disbursementDate, &firstPaymentDate, &maturityDate,
		&statusStr, &totalAmount, &totalInterest,
		&paidAmount, &outstandingBalance, &dtiRatio, &notes,
		&version, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Loan{}, err
		}
		return model.Loan{}, fmt.Errorf("scan loan: %w", err)
	}

	status, err := valueobject.NewLoanStatus(statusStr)
	if err != nil {
		return model.Loan{}, fmt.Errorf("parse loan status: %w", err)
	}
	method, err := valueobject.NewAmortizationMethod(methodStr)
	if err != nil {
		return model.Loan{}, fmt.Errorf("parse amortization method: %w", err)
	}

	return model.ReconstructLoan(
		id, customerID, loanNumber,
		model.LoanTerms{
			Principal:         principal,
			AnnualRatePercent: annualRate,
			TermMonths:        termMonths,
			Method:            method,
			LateInterestRate:  lateInterestRate,
			LateFeeAmount:     lateFeeAmount,
			DisbursementDate:  disbursementDate,
			FirstPaymentDate:  firstPaymentDate,
			Notes:             notes,
		},
		maturityDate, status, nil,
		totalAmount, totalInterest, paidAmount, outstandingBalance, dtiRatio,
		version, createdAt, updatedAt,
	), nil
}

func (r *LoanRepo) loadSchedule(ctx context.Context, loanID string) ([]model.Installment, error) {
	query := `
		SELECT id, number, due_date,
		       principal_amount, interest_amount, total_amount, remaining_balance,
		       paid_amount, paid_principal, paid_interest,
		       late_fee, late_interest, status, paid_date
		FROM installments
		WHERE loan_id = $1
		ORDER BY number
	`
	rows, err := r.pool.Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("query installments: %w", err)
	}
	defer rows.Close()

	var schedule []model.Installment
	for rows.Next() {
		var (
			inst      model.Installment
			statusStr string
		)
		err := rows.Scan(
			&inst.ID, &inst.Number, &inst.DueDate,
			&inst.PrincipalAmount, &inst.InterestAmount, &inst.TotalAmount, &inst.RemainingBalance,
			&inst.PaidAmount, &inst.PaidPrincipal, &inst.PaidInterest,
			&inst.LateFee, &inst.LateInterest, &statusStr, &inst.PaidDate,
		)
		if err != nil {
			return nil, fmt.Errorf("scan installment: %w", err)
		}
		inst.Status, err = valueobject.NewInstallmentStatus(statusStr)
		if err != nil {
			return nil, fmt.Errorf("parse installment status: %w", err)
		}
		schedule = append(schedule, inst)
	}
	return schedule, rows.Err()
}

func withSchedule(loan model.Loan, schedule []model.Installment) model.Loan {
	terms := loan.Terms()
	return model.ReconstructLoan(
		loan.ID(), loan.CustomerID(), loan.LoanNumber(), terms,
		loan.MaturityDate(), loan.Status(), schedule,
		loan.TotalAmount(), loan.TotalInterest(), loan.PaidAmount(),
		loan.OutstandingBalance(), loan.DTIRatio(),
		loan.Version(), loan.CreatedAt(), loan.UpdatedAt(),
	)
}
