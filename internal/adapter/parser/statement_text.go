package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/iho/statementrecon/internal/domain"
)

const maxDescriptionLength = 200

var (
	datePattern    = regexp.MustCompile(`^(\d{2}[-/]\d{2}[-/]\d{2,4}|\d{4}[-/]\d{2}[-/]\d{2})`)
	amountPattern  = regexp.MustCompile(`(-?(?:\d{1,3}(?:,\d{3})+|\d+)\.\d{2})(?i:(DR|CR))?\b`)
	idPattern      = regexp.MustCompile(`\b(?:TXN\d+|TRN\d+|REF\d+|\d{6,})\b`)
	debitKeyword   = regexp.MustCompile(`(?i)\b(?:debit|dr)\b`)
	creditKeyword  = regexp.MustCompile(`(?i)\b(?:credit|cr)\b`)
	balanceKeyword = regexp.MustCompile(`(?i)\b(?:balance|bal)\b`)
)

// StatementTransaction is a transaction block assembled from statement text.
type StatementTransaction struct {
	Date            string
	Description     string
	Debit           decimal.Decimal
	Credit          decimal.Decimal
	Balance         decimal.Decimal
	HasBalance      bool
	TransactionID   string
	ReferenceNumber string
}

func (t *StatementTransaction) complete() bool {
	return t.Date != "" && (!t.Debit.IsZero() || !t.Credit.IsZero())
}

// Row converts the block into the same row shape the tabular parsers produce.
func (t *StatementTransaction) Row() *domain.RawRow {
	row := domain.NewRawRow()
	row.Set(string(domain.FieldTransactionDate), t.Date)
	row.Set(string(domain.FieldDescription), t.Description)
	row.Set(string(domain.FieldDebitAmount), domain.FormatAmount(t.Debit))
	row.Set(string(domain.FieldCreditAmount), domain.FormatAmount(t.Credit))
	balance := ""
	if t.HasBalance {
		balance = domain.FormatAmount(t.Balance)
	}
	row.Set(string(domain.FieldBalance), balance)
	row.Set(string(domain.FieldTransactionID), t.TransactionID)
	row.Set(string(domain.FieldReferenceNumber), t.ReferenceNumber)
	return row
}

// statementState is the fold state: the block currently being assembled.
type statementState struct {
	current *StatementTransaction
}

// step consumes one line. A line starting with a date closes the open block,
// which is returned as emitted, and opens a new one.
func step(state statementState, line string) (statementState, *StatementTransaction) {
	line = strings.TrimSpace(line)
	if line == "" {
		return state, nil
	}

	var emitted *StatementTransaction
	if loc := datePattern.FindStringIndex(line); loc != nil {
		emitted = state.current
		state.current = &StatementTransaction{Date: domain.NormalizeDate(line[loc[0]:loc[1]])}
		line = line[loc[1]:]
	}

	cur := state.current
	if cur == nil {
		return state, emitted
	}

	applyAmounts(cur, line)
	line = amountPattern.ReplaceAllString(line, " ")

	if loc := idPattern.FindStringIndex(line); loc != nil {
		id := line[loc[0]:loc[1]]
		if cur.TransactionID == "" {
			cur.TransactionID = id
			if strings.HasPrefix(id, "REF") {
				cur.ReferenceNumber = id
			}
		}
		line = line[:loc[0]] + " " + line[loc[1]:]
	}

	appendDescription(cur, line)
	return state, emitted
}

// statementAmount is an amount found on a line. Suffix is "DR", "CR" or
// empty when the amount carried no glued side marker.
type statementAmount struct {
	Value  decimal.Decimal
	Suffix string
}

func findAmounts(line string) []statementAmount {
	matches := amountPattern.FindAllStringSubmatch(line, -1)
	amounts := make([]statementAmount, 0, len(matches))
	for _, m := range matches {
		if d, ok := domain.NormalizeNumeric(m[1]); ok {
			amounts = append(amounts, statementAmount{Value: d, Suffix: strings.ToUpper(m[2])})
		}
	}
	return amounts
}

func applyAmounts(cur *StatementTransaction, line string) {
	amounts := findAmounts(line)
	if len(amounts) == 0 {
		return
	}

	first, last := amounts[0], amounts[len(amounts)-1]
	setBalance := func(a statementAmount) {
		cur.Balance = a.Value
		if a.Suffix == "DR" {
			cur.Balance = a.Value.Abs().Neg()
		}
		cur.HasBalance = true
	}

	switch {
	case first.Suffix == "DR":
		cur.Debit = first.Value.Abs()
		if len(amounts) >= 2 {
			setBalance(last)
		}
	case first.Suffix == "CR":
		cur.Credit = first.Value.Abs()
		if len(amounts) >= 2 {
			setBalance(last)
		}
	case debitKeyword.MatchString(line):
		cur.Debit = first.Value.Abs()
		if len(amounts) >= 2 {
			setBalance(last)
		}
	case creditKeyword.MatchString(line):
		cur.Credit = first.Value.Abs()
		if len(amounts) >= 2 {
			setBalance(last)
		}
	case balanceKeyword.MatchString(line):
		setBalance(first)
	case len(amounts) >= 2:
		setSigned(cur, first.Value)
		setBalance(amounts[1])
	default:
		setSigned(cur, first.Value)
	}
}

func setSigned(cur *StatementTransaction, d decimal.Decimal) {
	if d.IsNegative() {
		cur.Debit = d.Abs()
		return
	}
	cur.Credit = d
}

func appendDescription(cur *StatementTransaction, text string) {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return
	}
	if cur.Description != "" {
		text = cur.Description + " " + text
	}
	if utf8.RuneCountInString(text) > maxDescriptionLength {
		text = string([]rune(text)[:maxDescriptionLength])
	}
	cur.Description = text
}

// ParseStatementText folds every line of text and returns the complete
// transaction blocks in order.
func ParseStatementText(text string) []*StatementTransaction {
	var (
		state statementState
		out   []*StatementTransaction
	)
	keep := func(t *StatementTransaction) {
		if t != nil && t.complete() {
			out = append(out, t)
		}
	}

	for _, line := range strings.Split(text, "\n") {
		var emitted *StatementTransaction
		state, emitted = step(state, line)
		keep(emitted)
	}
	keep(state.current)
	return out
}

// ExtractStatementRows converts statement text into rows keyed by canonical
// field names.
func ExtractStatementRows(text string) []*domain.RawRow {
	txns := ParseStatementText(text)
	rows := make([]*domain.RawRow, 0, len(txns))
	for _, t := range txns {
		rows = append(rows, t.Row())
	}
	return rows
}
