package demo

import (
	"fmt"
	"testing"
	"time"
)

func TestSalesRowsAreDeterministicForASeed(t *testing.T) {
	first := NewGenerator(42).Sales(100)
	second := NewGenerator(42).Sales(100)

	if len(first) != 100 || len(second) != 100 {
		t.Fatalf("row counts = %d, %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("row %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestSalesRowsStayInDomain(t *testing.T) {
	rows := NewGenerator(1).Sales(100)
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	for i, row := range rows {
		if row.TransactionID != int64(i+1) {
			t.Fatalf("row %d: transaction_id = %d", i, row.TransactionID)
		}
		if !row.Date.Equal(start.AddDate(0, 0, i)) {
			t.Fatalf("row %d: date = %v", i, row.Date)
		}
		if row.Amount < 100 || row.Amount >= 5000 {
			t.Fatalf("row %d: amt = %v", i, row.Amount)
		}
		if row.StatusID != 1 && row.StatusID != 4 {
			t.Fatalf("row %d: status_id = %d", i, row.StatusID)
		}
		switch row.Region {
		case "North", "South", "East", "West":
		default:
			t.Fatalf("row %d: region = %q", i, row.Region)
		}
		switch row.Category {
		case "Electronics", "Furniture", "Software", "Apparel":
		default:
			t.Fatalf("row %d: product_category = %q", i, row.Category)
		}
	}
}

func TestCustomersFollowTheFixedPattern(t *testing.T) {
	rows := NewGenerator(0).Customers()
	if len(rows) != CustomerCount {
		t.Fatalf("customers = %d", len(rows))
	}
	if rows[0].CustomerName != "Customer_1" || rows[23].CustomerName != "Customer_24" {
		t.Fatalf("names = %q .. %q", rows[0].CustomerName, rows[23].CustomerName)
	}
	// The segment and plan cycles repeat every six customers.
	for i := 6; i < len(rows); i++ {
		if rows[i].LoyaltySegment != rows[i-6].LoyaltySegment {
			t.Fatalf("row %d: segment = %q", i, rows[i].LoyaltySegment)
		}
		if rows[i].PlanType != rows[i-6].PlanType {
			t.Fatalf("row %d: plan = %q", i, rows[i].PlanType)
		}
	}
	if rows[0].LoyaltySegment != "VIP" || rows[0].PlanType != "Gold" {
		t.Fatalf("row 0 = %+v", rows[0])
	}
}

func TestShippingReferencesEveryCustomer(t *testing.T) {
	rows := NewGenerator(0).Shipping()
	if len(rows) != CustomerCount {
		t.Fatalf("shipping rows = %d", len(rows))
	}
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		seen[row.CustomerName] = true
		switch row.ShippingMethod {
		case "Express", "Standard", "Overnight":
		default:
			t.Fatalf("shipping_method = %q", row.ShippingMethod)
		}
	}
	for i := 1; i <= CustomerCount; i++ {
		if !seen[fmt.Sprintf("Customer_%d", i)] {
			t.Fatalf("Customer_%d missing from shipping rows", i)
		}
	}
}
