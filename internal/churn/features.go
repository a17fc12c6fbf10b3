package churn

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"genrecheck/internal/services"
)

type period struct {
	source string
	label  string
}

// measure names a source column suffix, its total column, and the suffix of
// its share columns.
type measure struct {
	source string
	total  string
	share  string
}

// Usage periods in the order their derived columns are emitted.
var periods = []period{
	{"day", "Day"},
	{"eve", "Eve"},
	{"night", "Night"},
	{"intl", "Intl"},
}

var measures = []measure{
	{"minutes", "TotalMinutes", "MinutesPct"},
	{"calls", "TotalCalls", "CallsPct"},
	{"charge", "MonthlyCharges", "ChargesPct"},
}

// Share columns are emitted minutes, charges, calls.
var shareOrder = []int{0, 2, 1}

const (
	churnColumn         = "Churn"
	internationalColumn = "International plan"
	voiceMailColumn     = "Voice mail plan"
)

func detailColumn(when, what string) string {
	return fmt.Sprintf("Total %s %s", when, what)
}

// DetailColumns lists the twelve usage columns Apply consumes and drops.
func DetailColumns() []string {
	cols := make([]string, 0, len(periods)*len(measures))
	for _, m := range measures {
		for _, p := range periods {
			cols = append(cols, detailColumn(p.source, m.source))
		}
	}
	return cols
}

// DerivedColumns lists the columns Apply appends, in order.
func DerivedColumns() []string {
	cols := lo.Map(measures, func(m measure, _ int) string { return m.total })
	for _, mi := range shareOrder {
		for _, p := range periods {
			cols = append(cols, p.label+measures[mi].share)
		}
	}
	return cols
}

// Apply returns a new table with the engineered features. The input is not
// modified.
func Apply(in *Table) (*Table, error) {
	if in == nil {
		return nil, services.Wrap(services.ErrValidation, "churn", "apply", "table required", nil)
	}
	required := append(DetailColumns(), internationalColumn, voiceMailColumn)
	missing := lo.Filter(required, func(col string, _ int) bool {
		return in.Column(col) < 0
	})
	if len(missing) > 0 {
		return nil, services.Wrap(services.ErrValidation, "churn", "apply",
			"missing columns: "+strings.Join(missing, ", "), nil)
	}

	dropped := DetailColumns()
	keep := make([]int, 0, len(in.Header))
	for i, name := range in.Header {
		if !lo.Contains(dropped, name) {
			keep = append(keep, i)
		}
	}
	header := lo.Map(keep, func(i int, _ int) string { return in.Header[i] })
	header = append(header, DerivedColumns()...)

	churnIdx := in.Column(churnColumn)
	internationalIdx := in.Column(internationalColumn)
	voiceMailIdx := in.Column(voiceMailColumn)

	out := &Table{Header: header, Rows: make([][]string, 0, len(in.Rows))}
	for _, row := range in.Rows {
		cell := func(i int) string {
			if i < 0 || i >= len(row) {
				return ""
			}
			return row[i]
		}

		next := make([]string, 0, len(header))
		for _, i := range keep {
			value := cell(i)
			switch i {
			case churnIdx:
				value = encodeBool(value)
			case internationalIdx, voiceMailIdx:
				value = encodeYesNo(value)
			}
			next = append(next, value)
		}

		// values[m][p] is the usage for measure m in period p.
		values := make([][]*float64, len(measures))
		totals := make([]*float64, len(measures))
		for mi, m := range measures {
			values[mi] = make([]*float64, len(periods))
			for pi, p := range periods {
				values[mi][pi] = parseNumber(cell(in.Column(detailColumn(p.source, m.source))))
			}
			totals[mi] = sum(values[mi])
			next = append(next, formatNumber(totals[mi]))
		}
		for _, mi := range shareOrder {
			for pi := range periods {
				next = append(next, formatNumber(share(values[mi][pi], totals[mi])))
			}
		}
		out.Rows = append(out.Rows, next)
	}
	return out, nil
}

func encodeBool(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "false", "0":
		return "0"
	case "true", "1":
		return "1"
	default:
		return ""
	}
}

func encodeYesNo(value string) string {
	switch strings.TrimSpace(value) {
	case "No":
		return "0"
	case "Yes":
		return "1"
	default:
		return ""
	}
}

func parseNumber(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

// sum is nil when any part is missing.
func sum(parts []*float64) *float64 {
	var total float64
	for _, p := range parts {
		if p == nil {
			return nil
		}
		total += *p
	}
	return &total
}

func share(part, total *float64) *float64 {
	if part == nil || total == nil || *total == 0 {
		return nil
	}
	v := *part / *total * 100
	return &v
}

func formatNumber(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
