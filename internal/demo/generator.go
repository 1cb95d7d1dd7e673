// Package demo generates and loads the demo dataset: a small retail schema of
// sales, customers and shipping that the built-in schema facts describe.
package demo

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

type SalesRow struct {
	TransactionID int64
	Date          time.Time
	CustomerName  string
	Category      string
	Amount        float64
	StatusID      int64
	Region        string
}

type CustomerRow struct {
	CustomerName   string
	LoyaltySegment string
	PlanType       string
}

type ShippingRow struct {
	CustomerName   string
	ShippingMethod string
	Cost           float64
	DaysToDeliver  int
}

// Generator produces deterministic demo rows for a given seed, so repeated
// runs load identical data and sample questions return stable answers.
type Generator struct {
	rnd   *rand.Rand
	start time.Time
}

func NewGenerator(seed int64) *Generator {
	return &Generator{
		rnd:   rand.New(rand.NewSource(seed)),
		start: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Sales returns n transactions: daily dates from the start of 2025, customer
// names drawn from the 24-customer pool, and a 3:1 active-to-churned status
// mix. Amounts are uniform over [100, 5000) rounded to cents.
func (g *Generator) Sales(n int) []SalesRow {
	categories := []string{"Electronics", "Furniture", "Software", "Apparel"}
	regions := []string{"North", "South", "East", "West"}
	statuses := []int64{1, 1, 1, 4}

	rows := make([]SalesRow, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, SalesRow{
			TransactionID: int64(i + 1),
			Date:          g.start.AddDate(0, 0, i),
			CustomerName:  fmt.Sprintf("Customer_%d", g.rnd.Intn(CustomerCount)+1),
			Category:      categories[g.rnd.Intn(len(categories))],
			Amount:        round2(100 + g.rnd.Float64()*4900),
			StatusID:      statuses[g.rnd.Intn(len(statuses))],
			Region:        regions[g.rnd.Intn(len(regions))],
		})
	}
	return rows
}

// CustomerCount is the size of the demo customer pool. Sales and shipping
// rows reference these names, which is what makes the customer_name joins
// produce matches.
const CustomerCount = 24

func (g *Generator) Customers() []CustomerRow {
	segments := []string{"VIP", "Regular", "New", "VIP", "Regular", "VIP"}
	plans := []string{"Gold", "Silver", "Platinum", "Gold", "Silver", "Bronze"}

	rows := make([]CustomerRow, 0, CustomerCount)
	for i := 0; i < CustomerCount; i++ {
		rows = append(rows, CustomerRow{
			CustomerName:   fmt.Sprintf("Customer_%d", i+1),
			LoyaltySegment: segments[i%len(segments)],
			PlanType:       plans[i%len(plans)],
		})
	}
	return rows
}

func (g *Generator) Shipping() []ShippingRow {
	methods := []string{"Express", "Standard", "Overnight", "Standard"}
	costs := []float64{25.0, 10.0, 50.0, 12.0}
	days := []int{1, 5, 1, 4}

	rows := make([]ShippingRow, 0, CustomerCount)
	for i := 0; i < CustomerCount; i++ {
		rows = append(rows, ShippingRow{
			CustomerName:   fmt.Sprintf("Customer_%d", i+1),
			ShippingMethod: methods[i%len(methods)],
			Cost:           costs[i%len(costs)],
			DaysToDeliver:  days[i%len(days)],
		})
	}
	return rows
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
