package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stwalsh4118/rms/internal/database"
	"github.com/stwalsh4118/rms/internal/models"
)

// PaymentFilter narrows ListPayments. Empty fields are ignored; set fields
// are AND-composed. TenantName and PropertyName match case-insensitive
// substrings, RoomNo and Method match exactly.
type PaymentFilter struct {
	TenantName   string
	PropertyName string
	RoomNo       string
	Method       string
}

// PaymentRepository defines data access for payments. Payments are
// insert-only.
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error

	// ListByTenant returns the tenant's payments, newest first.
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Payment, error)

	List(ctx context.Context, ownerID uuid.UUID, filter PaymentFilter) ([]models.PaymentRecord, error)

	// SumByProperty totals payment amounts of any status for the property.
	// A nil period means all time.
	SumByProperty(ctx context.Context, propertyID uuid.UUID, period *models.Period) (decimal.Decimal, error)

	// CountByOwner counts the owner's payments dated within the period.
	CountByOwner(ctx context.Context, ownerID uuid.UUID, period models.Period) (int, error)

	// TotalsByTenant maps each of the owner's tenants with at least one payment
	// in the period to the sum of those payments.
	TotalsByTenant(ctx context.Context, ownerID uuid.UUID, period models.Period) (map[uuid.UUID]decimal.Decimal, error)
}

type paymentRepository struct {
	db database.Conn
}

// NewPaymentRepository creates a new instance of PaymentRepository.
func NewPaymentRepository(db database.Conn) PaymentRepository {
	return &paymentRepository{db: db}
}

const paymentColumns = `
			pm.id, pm.tenant_id, pm.room_id, pm.property_id, pm.amount, pm.payment_date,
			pm.method, pm.status, pm.transaction_id, pm.receipt_number`

func paymentDest(p *models.Payment) []any {
	return []any{
		&p.ID,
		&p.TenantID,
		&p.RoomID,
		&p.PropertyID,
		&p.Amount,
		&p.PaymentDate,
		&p.Method,
		&p.Status,
		&p.TransactionID,
		&p.ReceiptNumber,
	}
}

func (r *paymentRepository) Create(ctx context.Context, p *models.Payment) error {
	query := `
		INSERT INTO payments (
			id, tenant_id, room_id, property_id, amount, payment_date,
			method, status, transaction_id, receipt_number
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		p.ID, p.TenantID, p.RoomID, p.PropertyID, p.Amount, p.PaymentDate,
		string(p.Method), string(p.Status), p.TransactionID, p.ReceiptNumber,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment for tenant %s: %w", p.TenantID, err)
	}
	return nil
}

func (r *paymentRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Payment, error) {
	query := `
		SELECT` + paymentColumns + `
		FROM payments pm
		WHERE pm.tenant_id = $1
		ORDER BY pm.payment_date DESC, pm.id
	`

	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments of tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	payments := []models.Payment{}
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(paymentDest(&p)...); err != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment rows: %w", err)
	}
	return payments, nil
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// buildPaymentFilter returns the WHERE clause and arguments for List.
// $1 is always the owner.
func buildPaymentFilter(ownerID uuid.UUID, f PaymentFilter) (string, []any) {
	clauses := []string{"p.owner_id = $1"}
	args := []any{ownerID}

	add := func(clause string, arg any) {
		args = append(args, arg)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}
	if f.TenantName != "" {
		add("t.tenant_name ILIKE '%%' || $%d || '%%'", escapeLike(f.TenantName))
	}
	if f.PropertyName != "" {
		add("p.name ILIKE '%%' || $%d || '%%'", escapeLike(f.PropertyName))
	}
	if f.RoomNo != "" {
		add("r.room_no = $%d", f.RoomNo)
	}
	if f.Method != "" {
		add("pm.method = $%d", f.Method)
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

func (r *paymentRepository) List(ctx context.Context, ownerID uuid.UUID, filter PaymentFilter) ([]models.PaymentRecord, error) {
	where, args := buildPaymentFilter(ownerID, filter)
	query := `
		SELECT` + paymentColumns + `,
			t.tenant_name, r.room_no, p.name
		FROM payments pm
		JOIN tenants t ON t.id = pm.tenant_id
		JOIN rooms r ON r.id = pm.room_id
		JOIN properties p ON p.id = pm.property_id
		` + where + `
		ORDER BY pm.payment_date DESC, pm.id
	`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	records := []models.PaymentRecord{}
	for rows.Next() {
		var rec models.PaymentRecord
		dest := append(paymentDest(&rec.Payment), &rec.TenantName, &rec.RoomNo, &rec.PropertyName)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment rows: %w", err)
	}
	return records, nil
}

func (r *paymentRepository) SumByProperty(ctx context.Context, propertyID uuid.UUID, period *models.Period) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE property_id = $1`
	args := []any{propertyID}
	if period != nil {
		start, end := period.Bounds()
		query += ` AND payment_date >= $2 AND payment_date < $3`
		args = append(args, start, end)
	}

	var total decimal.Decimal
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum payments for property %s: %w", propertyID, err)
	}
	return total, nil
}

func (r *paymentRepository) CountByOwner(ctx context.Context, ownerID uuid.UUID, period models.Period) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM payments pm
		JOIN properties p ON p.id = pm.property_id
		WHERE p.owner_id = $1 AND pm.payment_date >= $2 AND pm.payment_date < $3
	`
	start, end := period.Bounds()

	var count int
	if err := r.db.QueryRow(ctx, query, ownerID, start, end).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count payments for %s: %w", period, err)
	}
	return count, nil
}

func (r *paymentRepository) TotalsByTenant(ctx context.Context, ownerID uuid.UUID, period models.Period) (map[uuid.UUID]decimal.Decimal, error) {
	query := `
		SELECT pm.tenant_id, SUM(pm.amount)
		FROM payments pm
		JOIN properties p ON p.id = pm.property_id
		WHERE p.owner_id = $1 AND pm.payment_date >= $2 AND pm.payment_date < $3
		GROUP BY pm.tenant_id
	`
	start, end := period.Bounds()

	rows, err := r.db.Query(ctx, query, ownerID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to total payments by tenant for %s: %w", period, err)
	}
	defer rows.Close()

	totals := make(map[uuid.UUID]decimal.Decimal)
	for rows.Next() {
		var (
			tenantID uuid.UUID
			total    decimal.Decimal
		)
		if err := rows.Scan(&tenantID, &total); err != nil {
			return nil, fmt.Errorf("failed to scan tenant total: %w", err)
		}
		totals[tenantID] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tenant totals: %w", err)
	}
	return totals, nil
}
