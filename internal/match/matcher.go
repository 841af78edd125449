package match

import (
	"regexp"
	"strconv"
	"strings"

	"order-dispatch/internal/spreadsheet"
)

// entrySep separates packed item entries in an order's item text: a
// full-width comma followed by a space.
const entrySep = "， "

// unitSuffix strips the trailing quantity/unit tail from a canonical menu
// name (e.g. "韭菜猪肉水饺50个/份" → "韭菜猪肉水饺").
var unitSuffix = regexp.MustCompile(`\d+个?[/／]?份?$`)

var leadingDigits = regexp.MustCompile(`^\d+`)

// rule is one priority-ordered classifier entry: the canonical name plus its
// precomputed base forms. Rules are evaluated in menu-list order and the
// first match wins, which is the tie-break when two canonical names are
// mutual substrings.
type rule struct {
	name     string
	base     string
	baseNorm string
}

// Matcher assigns free-text order entries to canonical menu items.
type Matcher struct {
	rules []rule
}

// NewMatcher builds a matcher over the canonical menu names, preserving list
// order.
func NewMatcher(itemNames []string) *Matcher {
	rules := make([]rule, len(itemNames))
	for i, name := range itemNames {
		base := strings.TrimSpace(unitSuffix.ReplaceAllString(name, ""))
		rules[i] = rule{
			name:     name,
			base:     base,
			baseNorm: stripSpaces(base),
		}
	}
	return &Matcher{rules: rules}
}

// Annotate parses an order's item text and fills in its per-item quantities.
// Every canonical item gets an entry, defaulting to 0. Entries that cannot be
// parsed or matched are skipped; they are never an error.
func (m *Matcher) Annotate(o *spreadsheet.Order) {
	o.Quantities = make(map[string]int, len(m.rules))
	for _, r := range m.rules {
		o.Quantities[r.name] = 0
	}

	entries := strings.Split(o.ItemsText, entrySep)
	if len(entries) > 1 {
		// The last segment is the order's declared total price, not an item.
		entries = entries[:len(entries)-1]
	}

	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" || !strings.Contains(entry, "x") {
			continue
		}

		cut := strings.LastIndex(entry, "x")
		name := strings.TrimSpace(entry[:cut])
		digits := leadingDigits.FindString(strings.TrimSpace(entry[cut+1:]))
		if digits == "" {
			continue
		}
		qty, err := strconv.Atoi(digits)
		if err != nil {
			continue
		}

		nameNorm := stripSpaces(name)
		for _, r := range m.rules {
			if bidirectional(r.base, name) || bidirectional(r.baseNorm, nameNorm) {
				o.Quantities[r.name] = qty
				break
			}
		}
	}
}

// bidirectional reports whether either string contains the other; this
// tolerates both truncated and padded vendor phrasings of a menu name.
func bidirectional(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func stripSpaces(s string) string {
	return strings.ReplaceAll(s, " ", "")
}
