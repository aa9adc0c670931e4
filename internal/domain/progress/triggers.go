package progress

import (
	"sort"
	"strings"

	"github.com/yanqian/eczema-insights/internal/domain/records"
)

type triggerCategory struct {
	name     string
	keywords []string
	color    string
}

// Matching order matters: the first category with a matching keyword wins.
var triggerCategories = []triggerCategory{
	{name: "Stress", keywords: []string{"stress", "anxiety", "worried", "tension"}, color: "#EF4444"},
	{name: "Weather", keywords: []string{"weather", "dry", "humid", "cold", "hot", "temperature", "climate"}, color: "#F59E0B"},
	{name: "Diet", keywords: []string{"food", "diet", "eating", "meal", "dairy", "gluten", "nuts", "spicy"}, color: "#10B981"},
	{name: "Products", keywords: []string{"soap", "detergent", "shampoo", "lotion", "cream", "fabric", "softener", "product"}, color: "#6366F1"},
	{name: "Allergens", keywords: []string{"pollen", "dust", "dander", "pet", "allergen", "mold"}, color: "#8B5CF6"},
}

// OtherCategory collects tokens that match no keyword.
const OtherCategory = "Other"

const otherColor = "#94A3B8"

// TriggerBreakdown buckets every trigger token of logs into a category and
// returns each category's share of all tokens, largest first. Ties keep the
// order in which categories were first seen. At most MaxTriggerCategories
// entries are returned.
func TriggerBreakdown(logs []records.SymptomLog) []TriggerShare {
	counts := make(map[string]int)
	var order []string
	total := 0
	for _, log := range logs {
		for _, token := range TokenizeTriggers(log.PossibleTriggers) {
			name := CategorizeTrigger(token)
			if _, seen := counts[name]; !seen {
				order = append(order, name)
			}
			counts[name]++
			total++
		}
	}
	if total == 0 {
		return []TriggerShare{}
	}

	shares := make([]TriggerShare, 0, len(order))
	for _, name := range order {
		shares = append(shares, TriggerShare{
			Category: name,
			Percent:  roundHalfUp(float64(counts[name]) / float64(total) * 100),
			Count:    counts[name],
			Color:    categoryColor(name),
		})
	}
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Percent > shares[j].Percent
	})
	if len(shares) > MaxTriggerCategories {
		shares = shares[:MaxTriggerCategories]
	}
	return shares
}

// TokenizeTriggers splits free text on commas, semicolons and newlines and
// returns the trimmed, lower-cased, non-empty tokens.
func TokenizeTriggers(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n'
	})
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		token := strings.ToLower(strings.TrimSpace(part))
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// CategorizeTrigger returns the first category having a keyword that
// contains token or is contained in it, else OtherCategory.
//
// The containment check runs both ways, so short tokens such as "a" match
// the first keyword containing that letter. Dashboards already show numbers
// computed this way; changing it would shift historical breakdowns.
func CategorizeTrigger(token string) string {
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" {
		return OtherCategory
	}
	for _, cat := range triggerCategories {
		for _, kw := range cat.keywords {
			if strings.Contains(token, kw) || strings.Contains(kw, token) {
				return cat.name
			}
		}
	}
	return OtherCategory
}

// UniqueTriggers counts distinct trigger tokens across logs.
func UniqueTriggers(logs []records.SymptomLog) int {
	seen := make(map[string]struct{})
	for _, log := range logs {
		for _, token := range TokenizeTriggers(log.PossibleTriggers) {
			seen[token] = struct{}{}
		}
	}
	return len(seen)
}

func categoryColor(name string) string {
	for _, cat := range triggerCategories {
		if cat.name == name {
			return cat.color
		}
	}
	return otherColor
}
