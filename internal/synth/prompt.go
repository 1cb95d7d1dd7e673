package synth

import (
	"strings"
)

// BuildPrompt assembles the generation prompt from the question, the
// retrieved schema facts, and the previous attempt's error, if any. It is a
// pure function so the retry-feedback contract can be tested without a model
// client.
func BuildPrompt(question string, facts []string, priorError string) string {
	var b strings.Builder

	b.WriteString("System: You are a professional PostgreSQL expert. Generate one SQL query using ONLY the schema facts below.\n\n")

	b.WriteString("### Discovered Schema:\n")
	for _, fact := range facts {
		b.WriteString(fact)
		b.WriteString("\n")
	}

	b.WriteString("\n### Generation Rules:\n")
	b.WriteString("1. Column ownership: every column in your SELECT, WHERE, GROUP BY or JOIN clauses must appear under a table in the Discovered Schema above. If a column is not listed under a table, that table does not have it.\n")
	b.WriteString("2. Do not reference a table unless at least one of its columns appears in the Discovered Schema.\n")
	b.WriteString("3. Assign a short alias to every table and prefix every column reference with its table alias.\n")
	b.WriteString("4. Join only across keys the Discovered Schema documents. If a single table holds every column the question needs, do not join at all.\n")
	b.WriteString("5. Use SUM() or COUNT() with GROUP BY when the question implies a ranking, a top list, or a per-group total.\n")
	b.WriteString("6. Map categorical business terms to their documented encoded values. Never compare an encoded column against a literal string.\n")
	b.WriteString("7. Output: return ONLY the SQL inside a ```sql code block.\n")

	if strings.TrimSpace(priorError) != "" {
		b.WriteString("\nThe previous query failed. Fix this exact error: ")
		b.WriteString(priorError)
		b.WriteString("\n")
	}

	b.WriteString("\nQuestion: ")
	b.WriteString(strings.TrimSpace(question))
	b.WriteString("\nSQL:\n")

	return b.String()
}
