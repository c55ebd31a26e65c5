package utils

import (
	"fmt"
	"strings"
)

// JoinWithAnd joins a slice of strings with AND operator
func JoinWithAnd(clauses []string) string {
	return strings.Join(clauses, " AND ")
}

// JoinWithOr joins a slice of strings with OR operator
func JoinWithOr(clauses []string) string {
	return strings.Join(clauses, " OR ")
}

// Where accumulates WHERE conditions and their positional ($n) arguments
type Where struct {
	clauses []string
	args    []any
}

// Arg registers a value and returns its placeholder
func (w *Where) Arg(v any) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}

// Add appends a condition built with placeholders from Arg
func (w *Where) Add(clause string) {
	w.clauses = append(w.clauses, clause)
}

// Eq is shorthand for Add(column = Arg(v))
func (w *Where) Eq(column string, v any) {
	w.Add(column + " = " + w.Arg(v))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike makes %, _ and \ in user input match literally
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// ILikeAny matches term as a substring of any column, sharing one argument
func (w *Where) ILikeAny(term string, columns ...string) {
	p := w.Arg("%" + EscapeLike(term) + "%")
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = col + " ILIKE " + p + ` ESCAPE '\'`
	}
	w.Add("(" + JoinWithOr(parts) + ")")
}

// SQL renders "WHERE ..." or an empty string
func (w *Where) SQL() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return "WHERE " + JoinWithAnd(w.clauses)
}

// Args returns a copy of the collected arguments
func (w *Where) Args() []any {
	out := make([]any, len(w.args))
	copy(out, w.args)
	return out
}

// Next is the placeholder index the next Arg call would use
func (w *Where) Next() int {
	return len(w.args) + 1
}
