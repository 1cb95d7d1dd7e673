package chart

import (
	"strings"

	"github.com/saketh648/talk2db/internal/store"
)

type Kind string

const (
	KindPie  Kind = "pie"
	KindLine Kind = "line"
	KindBar  Kind = "bar"
)

// Spec names the chart the presentation layer should draw: which kind, which
// column supplies the categories (or the x axis) and which the values.
type Spec struct {
	Kind     Kind   `json:"kind"`
	Category string `json:"category"`
	Value    string `json:"value"`
}

// DetectKind scans the question for the literal cues "pie" and "line",
// case-insensitive. Anything else charts as grouped bars. This is a fixed
// keyword match, not a classifier that learns.
func DetectKind(question string) Kind {
	lower := strings.ToLower(question)
	switch {
	case strings.Contains(lower, "pie"):
		return KindPie
	case strings.Contains(lower, "line"):
		return KindLine
	default:
		return KindBar
	}
}

// Classify picks the chart for a result: the first numeric column carries the
// values and the first text or temporal column the categories, both in result
// column order. Without one of each there is nothing to draw and the result
// stays a plain table.
func Classify(question string, result store.Result) (Spec, bool) {
	var category, value string
	for _, col := range result.Columns {
		switch col.Kind {
		case store.KindNumber:
			if value == "" {
				value = col.Name
			}
		case store.KindText, store.KindTime:
			if category == "" {
				category = col.Name
			}
		}
	}
	if category == "" || value == "" {
		return Spec{}, false
	}
	return Spec{
		Kind:     DetectKind(question),
		Category: category,
		Value:    value,
	}, true
}
