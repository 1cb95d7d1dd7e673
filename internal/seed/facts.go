// Package seed holds the schema-fact corpus and the loader the index seeder
// uses to populate the vector collection.
package seed

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// DefaultFacts returns the built-in semantic layer for the demo schema. Each
// fact is one indexable chunk: value mappings, table definitions, join logic,
// column ownership and business segment rules. The synthesis prompt quotes
// retrieved facts verbatim, so the phrasing here is what the model sees.
func DefaultFacts() []string {
	return []string{
		"The 'status_id' column is a BIGINT. Mapping: 'active'=1, 'churned'=4. NEVER use strings for this column.",
		"Revenue is always the SUM of the 'amt' column in 'sales_table'.",

		"Table 'sales_table' (NOT sales_data) contains: [transaction_id, date, customer_name, product_category, amt, status_id, region].",
		"Table 'customers_table' contains: [customer_name, loyalty_segment, plan_type].",
		"Table 'shipping_table' contains: [customer_name, shipping_method, cost, days_to_deliver].",

		"JOIN KEY: All tables (sales_table, customers_table, shipping_table) link via the 'customer_name' column.",
		"RULE: When joining, always alias tables: sales_table as 's', customers_table as 'c', and shipping_table as 'sh'.",

		"The 'region' and 'amt' columns exist ONLY in 'sales_table'.",
		"The 'loyalty_segment' and 'plan_type' columns exist ONLY in 'customers_table'.",
		"The 'shipping_method' and 'cost' columns exist ONLY in 'shipping_table'.",

		"Premium users: customers_table.plan_type IN ('Gold', 'Platinum').",
		"VIP users: customers_table.loyalty_segment = 'VIP'.",
	}
}

// LoadFacts reads one fact per line from path. Blank lines and lines starting
// with '#' are skipped, so the file can carry section comments.
func LoadFacts(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open facts file: %w", err)
	}
	defer file.Close()

	var facts []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		facts = append(facts, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read facts file: %w", err)
	}
	if len(facts) == 0 {
		return nil, fmt.Errorf("facts file %s contains no facts", path)
	}
	return facts, nil
}
