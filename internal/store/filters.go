package store

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

type matchKind int

const (
	matchSubstring matchKind = iota
	matchExact
	matchNumber
	matchFlag
)

// productFilterFields are the product filter keys the search accepts.
var productFilterFields = map[string]matchKind{
	"category":         matchSubstring,
	"name":             matchSubstring,
	"supplier_name":    matchSubstring,
	"supplier_item_no": matchSubstring,
	"product_code":     matchSubstring,
	"karat":            matchSubstring,
	"size":             matchSubstring,
	"basic_extra":      matchSubstring,
	"mid_back_bulim":   matchSubstring,
	"mid_back_labor":   matchSubstring,
	"notes":            matchSubstring,
	"stock_qty":        matchExact,
	"weight_g":         matchNumber,
	"total_qb_qty":     matchExact,
	"cubic_labor":      matchExact,
	"total_labor":      matchExact,
	"discontinued":     matchFlag,
	"is_favorite":      matchFlag,
}

// freeTextColumns are OR-ed together for the free text search.
var freeTextColumns = []string{"name", "supplier_name", "product_code", "supplier_item_no", "category"}

type predicate struct {
	conditions []string
	args       []interface{}
}

func (p *predicate) add(cond string, args ...interface{}) {
	p.conditions = append(p.conditions, cond)
	p.args = append(p.args, args...)
}

func (p *predicate) where() string {
	if len(p.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(p.conditions, " AND ")
}

func buildProductPredicate(filters map[string]string, freeText string) *predicate {
	p := &predicate{}

	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		kind, ok := productFilterFields[key]
		if !ok {
			continue
		}
		val := strings.TrimSpace(filters[key])
		if val == "" {
			continue
		}

		switch kind {
		case matchFlag:
			p.add("COALESCE("+key+", FALSE) = ?", isTruthy(val))
		case matchNumber:
			// REAL columns render as "5.0" under CAST, so compare by value.
			d, err := decimal.NewFromString(val)
			if err != nil {
				p.add("1 = 0")
				continue
			}
			p.add(key+" = ?", d.InexactFloat64())
		case matchExact:
			p.add("CAST("+key+" AS TEXT) = ?", val)
		default:
			p.add(likeCondition(key), likePattern(val))
		}
	}

	if text := strings.TrimSpace(freeText); text != "" {
		ors := make([]string, len(freeTextColumns))
		pattern := likePattern(text)
		for i, col := range freeTextColumns {
			ors[i] = likeCondition(col)
			p.args = append(p.args, pattern)
		}
		p.conditions = append(p.conditions, "("+strings.Join(ors, " OR ")+")")
	}

	return p
}

func isTruthy(v string) bool {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "Y", "TRUE", "1":
		return true
	}
	return false
}

func likeCondition(col string) string {
	return fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, col)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(v string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(v)) + "%"
}
