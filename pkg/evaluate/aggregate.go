package evaluate

import (
	"strings"

	"github.com/Sumatoshi-tech/coality/pkg/alg/stats"
)

// Op reduces one column over a bucket of rows.
type Op string

// Reduction operators.
const (
	Mean Op = "mean"
	Sum  Op = "sum"
)

// Column is one aggregated statistic.
type Column struct {
	Name string
	Op   Op
}

// DefaultColumns is the stock aggregation table.
var DefaultColumns = []Column{
	{ColFKGLS, Mean},
	{ColFREL, Mean},
	{ColFI, Mean},
	{ColIsEnglish, Sum},
	{ColIsCode, Sum},
	{ColIsTooShort, Sum},
	{ColIsTooLong, Sum},
	{ColMatchedSynonyms, Sum},
	{ColExclamation, Sum},
	{ColQuestion, Sum},
	{ColAbbreviations, Sum},
	{ColIsTrivial, Sum},
	{ColIsUnrelated, Sum},
	{ColCount, Sum},
	{ColCountMissing, Sum},
}

// DefaultMaskedWhenIgnored lists the columns cleared on ignored rows.
var DefaultMaskedWhenIgnored = []string{ColFKGLS, ColFREL, ColFI, ColExclamation, ColAbbreviations, ColQuestion}

// Stat is one aggregated value; a nil Value is null.
type Stat struct {
	Name  string
	Value *float64
}

// Stats are the aggregated values of a node in column order.
type Stats []Stat

// Get returns the named statistic.
func (s Stats) Get(name string) (*float64, bool) {
	for _, st := range s {
		if st.Name == name {
			return st.Value, true
		}
	}

	return nil, false
}

// Aggregate pools rows into one bucket and reduces every column by its
// operator, skipping absent values. A mean over no values is null and a
// sum over no values is zero.
func Aggregate(rows []Row, columns []Column) Stats {
	out := make(Stats, 0, len(columns))

	for _, col := range columns {
		values := make([]float64, 0, len(rows))

		for i := range rows {
			v := rows[i].Value(col.Name)
			if v != nil {
				values = append(values, *v)
			}
		}

		out = append(out, Stat{Name: col.Name, Value: reduce(col.Op, values)})
	}

	return out
}

func reduce(op Op, values []float64) *float64 {
	switch op {
	case Mean:
		if len(values) == 0 {
			return nil
		}

		return number(stats.Mean(values))
	case Sum:
		return number(stats.Sum(values))
	default:
		return nil
	}
}

// Scope decides which rows belong to a directory or file node.
type Scope string

// Scope rules.
const (
	// ScopeSubstring selects rows whose path contains the node path anywhere.
	ScopeSubstring Scope = "substring"
	// ScopePrefix selects rows whose path is the node path or lies below it.
	ScopePrefix Scope = "prefix"
)

// Contains reports whether a row at rowPath falls under nodePath.
func (s Scope) Contains(nodePath, rowPath string) bool {
	if s == ScopePrefix {
		nodePath = strings.TrimSuffix(nodePath, "/")

		return rowPath == nodePath || strings.HasPrefix(rowPath, nodePath+"/")
	}

	return strings.Contains(rowPath, nodePath)
}

// Select returns the rows in scope of nodePath.
func (s Scope) Select(rows []Row, nodePath string) []Row {
	out := make([]Row, 0)

	for i := range rows {
		if s.Contains(nodePath, rows[i].Path) {
			out = append(out, rows[i])
		}
	}

	return out
}
