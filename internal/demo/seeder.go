package demo

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Seeder loads the demo dataset into the relational store. Tables are dropped
// and recreated on every run, so seeding is repeatable.
type Seeder struct {
	db  *sql.DB
	log *slog.Logger
}

func NewSeeder(db *sql.DB, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Seeder{db: db, log: logger}
}

// Seed recreates and fills sales_table, customers_table and shipping_table
// inside one transaction.
func (s *Seeder) Seed(ctx context.Context, gen *Generator, salesRows int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.seedSales(ctx, tx, gen.Sales(salesRows)); err != nil {
		return err
	}
	if err := s.seedCustomers(ctx, tx, gen.Customers()); err != nil {
		return err
	}
	if err := s.seedShipping(ctx, tx, gen.Shipping()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed transaction: %w", err)
	}
	s.log.Info("demo data seeded",
		slog.Int("sales_rows", salesRows),
		slog.Int("customers", CustomerCount),
		slog.Int("shipping_rows", CustomerCount),
	)
	return nil
}

func (s *Seeder) seedSales(ctx context.Context, tx *sql.Tx, rows []SalesRow) error {
	ddl := `CREATE TABLE sales_table (
		transaction_id BIGINT,
		date TIMESTAMP,
		customer_name TEXT,
		product_category TEXT,
		amt DOUBLE PRECISION,
		status_id BIGINT,
		region TEXT
	)`
	if err := recreate(ctx, tx, "sales_table", ddl); err != nil {
		return err
	}

	args := make([]any, 0, len(rows)*7)
	for _, row := range rows {
		args = append(args, row.TransactionID, row.Date, row.CustomerName, row.Category, row.Amount, row.StatusID, row.Region)
	}
	insert := "INSERT INTO sales_table (transaction_id, date, customer_name, product_category, amt, status_id, region) VALUES " +
		placeholders(len(rows), 7)
	if _, err := tx.ExecContext(ctx, insert, args...); err != nil {
		return fmt.Errorf("insert sales rows: %w", err)
	}
	return nil
}

func (s *Seeder) seedCustomers(ctx context.Context, tx *sql.Tx, rows []CustomerRow) error {
	ddl := `CREATE TABLE customers_table (
		customer_name TEXT,
		loyalty_segment TEXT,
		plan_type TEXT
	)`
	if err := recreate(ctx, tx, "customers_table", ddl); err != nil {
		return err
	}

	args := make([]any, 0, len(rows)*3)
	for _, row := range rows {
		args = append(args, row.CustomerName, row.LoyaltySegment, row.PlanType)
	}
	insert := "INSERT INTO customers_table (customer_name, loyalty_segment, plan_type) VALUES " +
		placeholders(len(rows), 3)
	if _, err := tx.ExecContext(ctx, insert, args...); err != nil {
		return fmt.Errorf("insert customer rows: %w", err)
	}
	return nil
}

func (s *Seeder) seedShipping(ctx context.Context, tx *sql.Tx, rows []ShippingRow) error {
	ddl := `CREATE TABLE shipping_table (
		customer_name TEXT,
		shipping_method TEXT,
		cost DOUBLE PRECISION,
		days_to_deliver BIGINT
	)`
	if err := recreate(ctx, tx, "shipping_table", ddl); err != nil {
		return err
	}

	args := make([]any, 0, len(rows)*4)
	for _, row := range rows {
		args = append(args, row.CustomerName, row.ShippingMethod, row.Cost, row.DaysToDeliver)
	}
	insert := "INSERT INTO shipping_table (customer_name, shipping_method, cost, days_to_deliver) VALUES " +
		placeholders(len(rows), 4)
	if _, err := tx.ExecContext(ctx, insert, args...); err != nil {
		return fmt.Errorf("insert shipping rows: %w", err)
	}
	return nil
}

func recreate(ctx context.Context, tx *sql.Tx, table, ddl string) error {
	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		return fmt.Errorf("drop %s: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create %s: %w", table, err)
	}
	return nil
}

// placeholders renders ($1,$2,...),($8,...) groups for a multi-row insert.
func placeholders(rows, cols int) string {
	var b strings.Builder
	arg := 1
	for r := 0; r < rows; r++ {
		if r > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for c := 0; c < cols; c++ {
			if c > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, "$%d", arg)
			arg++
		}
		b.WriteByte(')')
	}
	return b.String()
}
