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
)

// CustomerRepo implements port.CustomerRepository.
type CustomerRepo struct {
	pool *pgxpool.Pool
}

// NewCustomerRepo creates a new PostgreSQL-backed customer repository.
func NewCustomerRepo(pool *pgxpool.Pool) *CustomerRepo {
	return &CustomerRepo{pool: pool}
}

// Save persists a customer.
func (r *CustomerRepo) Save(ctx context.Context, c model.Customer) error {
	query := `
		INSERT INTO customers (
			id, first_name, last_name, email, phone,
			monthly_income, active, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO UPDATE SET
			first_name     = EXCLUDED.first_name,
			last_name      = EXCLUDED.last_name,
			email          = EXCLUDED.email,
			phone          = EXCLUDED.phone,
			monthly_income = EXCLUDED.monthly_income,
			active         = EXCLUDED.active,
			updated_at     = EXCLUDED.updated_at
	`
	_, err := r.pool.Exec(ctx, query,
		c.ID(), c.FirstName(), c.LastName(), c.Email(), c.Phone(),
		c.MonthlyIncome(), c.Active(), c.CreatedAt(), c.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("save customer: %w", err)
	}
	return nil
}

// FindByID retrieves a customer by ID.
func (r *CustomerRepo) FindByID(ctx context.Context, id string) (model.Customer, error) {
	return r.scanOne(ctx, selectCustomer+` WHERE id = $1`, id)
}

// FindByEmail retrieves a customer by email.
func (r *CustomerRepo) FindByEmail(ctx context.Context, email string) (model.Customer, error) {
	return r.scanOne(ctx, selectCustomer+` WHERE email = $1`, email)
}

const selectCustomer = `
	SELECT id, first_name, last_name, email, phone,
	       monthly_income, active, created_at, updated_at
	FROM customers`

func (r *CustomerRepo) scanOne(ctx context.Context, query string, args ...any) (model.Customer, error) {
	var (
		id, firstName, lastName, email, phone string
		monthlyIncome                         decimal.Decimal
		active                                bool
		createdAt, updatedAt                  time.Time
	)

	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&id, &firstName, &lastName, &email, &phone,
		&monthlyIncome, &active, &createdAt, &updatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Customer{}, fmt.Errorf("customer: %w", port.ErrNotFound)
	}
	if err != nil {
		return model.Customer{}, fmt.Errorf("scan customer: %w", err)
	}

	return model.ReconstructCustomer(
		id, firstName, lastName, email, phone,
		monthlyIncome, active, createdAt, updatedAt,
	), nil
}
