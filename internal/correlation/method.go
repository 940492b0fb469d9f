package correlation

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMethod is returned when a method name or value is not recognized.
var ErrUnknownMethod = errors.New("unknown correlation method")

// Method identifies a pairwise correlation coefficient.
type Method int

const (
	Pearson Method = iota
	Spearman
	KendallTau
)

// AllMethods returns every method in canonical order.
func AllMethods() []Method { return []Method{Pearson, Spearman, KendallTau} }

func (m Method) String() string {
	switch m {
	case Pearson:
		return "Pearson"
	case Spearman:
		return "Spearman"
	case KendallTau:
		return "KendallTau"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod accepts the canonical names plus common short forms.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pearson":
		return Pearson, nil
	case "spearman":
		return Spearman, nil
	case "kendall", "kendalltau", "kendall_tau", "kendall-tau":
		return KendallTau, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

// EnabledMethods resolves independent method toggles and the aggregate "all"
// toggle into canonical order.
func EnabledMethods(pearson, spearman, kendall, all bool) []Method {
	if all {
		return AllMethods()
	}
	var out []Method
	if pearson {
		out = append(out, Pearson)
	}
	if spearman {
		out = append(out, Spearman)
	}
	if kendall {
		out = append(out, KendallTau)
	}
	return out
}

func containsMethod(ms []Method, m Method) bool {
	for _, x := range ms {
		if x == m {
			return true
		}
	}
	return false
}
