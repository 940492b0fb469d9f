package correlation

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/corrloom/internal/utils"
)

// DefaultMostShow is how many pairs an insight line lists before eliding.
const DefaultMostShow = 6

// Category selects the wording of an insight line.
type Category string

const (
	CategoryPositive Category = "positive"
	CategoryNegative Category = "negative"
	CategoryLeast    Category = "least"
)

func (c Category) prefix() string {
	switch c {
	case CategoryPositive:
		return "Most positive correlated: "
	case CategoryNegative:
		return "Most negative correlated: "
	case CategoryLeast:
		return "Least correlated: "
	default:
		return fmt.Sprintf("%s correlated: ", c)
	}
}

// Insight renders up to mostShow pairs as "(x, y)" using names, appending
// ", ..." when more pairs exist. An empty set renders the "None" sentinel.
func Insight(cat Category, pairs []Pair, mostShow int, names []string) string {
	if len(pairs) == 0 {
		return cat.prefix() + "None"
	}
	if mostShow <= 0 {
		mostShow = DefaultMostShow
	}
	shown := pairs
	if len(shown) > mostShow {
		shown = shown[:mostShow]
	}
	parts := make([]string, len(shown))
	for k, p := range shown {
		parts[k] = "(" + utils.TruncateName(columnName(names, p.I)) + ", " + utils.TruncateName(columnName(names, p.J)) + ")"
	}
	out := cat.prefix() + strings.Join(parts, ", ")
	if len(pairs) > mostShow {
		out += ", ..."
	}
	return out
}

func columnName(names []string, i int) string {
	if i >= 0 && i < len(names) {
		return names[i]
	}
	return fmt.Sprintf("#%d", i)
}
