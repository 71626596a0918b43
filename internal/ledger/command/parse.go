// Package command turns the free-text operand portion of ledger commands
// into typed instructions, and resolves viewer-scoped selection expressions
// into global pending-queue indices.
//
// The transaction grammar is a flat keyword grammar over the vocabulary
// {as, give, take, at, to, from, for}: the first token must be a keyword,
// later keyword tokens switch the active keyword, and every other token
// space-joins onto the active keyword's value. The reason keyword `for` is
// grammatically last: once active it consumes the remaining tokens verbatim,
// keywords included.
package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/louisbranch/partyledger/internal/ledger/currency"
	"github.com/louisbranch/partyledger/internal/ledger/domain"
)

// ErrSyntax indicates a malformed token stream, a missing required keyword
// or a non-numeric field.
var ErrSyntax = errors.New("invalid syntax")

var keywords = map[string]struct{}{
	"as":   {},
	"give": {},
	"take": {},
	"at":   {},
	"to":   {},
	"from": {},
	"for":  {},
}

// Instruction is a parsed transact command.
type Instruction struct {
	// InitiatorName is the `as` override; empty means the caller initiates.
	InitiatorName string
	Mode          domain.Mode
	Amounts       currency.Amounts
	// OffsetPct is the signed `at` percentage; HasOffset distinguishes an
	// explicit 0% from no offset.
	OffsetPct int
	HasOffset bool
	// ParticipantName is the `to`/`from` counterparty; empty targets the
	// world sentinel.
	ParticipantName string
	Reason          string
}

// ParseTransact parses the operands of a transact command.
func ParseTransact(operands string) (Instruction, error) {
	values, err := scanKeywords(operands)
	if err != nil {
		return Instruction{}, err
	}

	var inst Instruction
	inst.InitiatorName = values["as"]

	give, hasGive := values["give"]
	take, hasTake := values["take"]
	var amountList string
	switch {
	case hasGive && !hasTake:
		inst.Mode = domain.ModeGive
		amountList = give
	case hasTake && !hasGive:
		inst.Mode = domain.ModeTake
		amountList = take
	default:
		return Instruction{}, fmt.Errorf("%w: exactly one of give or take is required", ErrSyntax)
	}

	inst.Amounts, err = ParseAmounts(amountList)
	if err != nil {
		return Instruction{}, err
	}

	if offset, ok := values["at"]; ok {
		inst.OffsetPct, err = parseOffset(offset)
		if err != nil {
			return Instruction{}, err
		}
		inst.HasOffset = true
	}

	to, hasTo := values["to"]
	from, hasFrom := values["from"]
	switch {
	case hasTo && hasFrom:
		return Instruction{}, fmt.Errorf("%w: to and from are mutually exclusive", ErrSyntax)
	case hasTo:
		if inst.Mode != domain.ModeGive {
			return Instruction{}, fmt.Errorf("%w: to requires give", ErrSyntax)
		}
		inst.ParticipantName = to
	case hasFrom:
		if inst.Mode != domain.ModeTake {
			return Instruction{}, fmt.Errorf("%w: from requires take", ErrSyntax)
		}
		inst.ParticipantName = from
	}

	inst.Reason = values["for"]
	return inst, nil
}

// scanKeywords accumulates tokens under their active keyword.
func scanKeywords(operands string) (map[string]string, error) {
	tokens := strings.Fields(operands)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: no arguments", ErrSyntax)
	}
	active := tokens[0]
	if _, ok := keywords[active]; !ok {
		return nil, fmt.Errorf("%w: %q is not a keyword", ErrSyntax, active)
	}

	values := make(map[string]string)
	for _, token := range tokens[1:] {
		if active == "for" {
			values["for"] = join(values["for"], token)
			continue
		}
		if _, ok := keywords[token]; ok {
			active = token
			continue
		}
		values[active] = join(values[active], token)
	}
	if _, ok := values[active]; !ok {
		return nil, fmt.Errorf("%w: %s has no value", ErrSyntax, active)
	}
	return values, nil
}

func join(accumulated, token string) string {
	if accumulated == "" {
		return token
	}
	return accumulated + " " + token
}

// ParseAmounts parses a comma-separated list of `<amount> <unit>` terms.
// Units are case-insensitive cp/sp/gp/pp/egp; only EGP terms may carry a
// fractional amount, which is decomposed into coins.
func ParseAmounts(list string) (currency.Amounts, error) {
	var amounts currency.Amounts
	for _, term := range strings.Split(list, ",") {
		fields := strings.Fields(term)
		if len(fields) != 2 {
			return currency.Amounts{}, fmt.Errorf("%w: malformed amount %q", ErrSyntax, strings.TrimSpace(term))
		}
		if strings.EqualFold(fields[1], "egp") {
			value, err := decimal.NewFromString(fields[0])
			if err != nil {
				return currency.Amounts{}, fmt.Errorf("%w: %q is not a number", ErrSyntax, fields[0])
			}
			amounts = currency.FromReference(value, amounts)
			continue
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil {
			return currency.Amounts{}, fmt.Errorf("%w: %q is not an integer", ErrSyntax, fields[0])
		}
		d, err := currency.ParseDenomination(fields[1])
		if err != nil {
			return currency.Amounts{}, fmt.Errorf("%w: %q is not a unit", ErrSyntax, fields[1])
		}
		amounts.Add(d, n)
	}
	return amounts, nil
}

// parseOffset parses a signed percentage of the form [+|-]N%.
func parseOffset(token string) (int, error) {
	if len(token) < 3 || token[len(token)-1] != '%' {
		return 0, fmt.Errorf("%w: offset %q must look like +5%% or -20%%", ErrSyntax, token)
	}
	var sign int
	switch token[0] {
	case '+':
		sign = 1
	case '-':
		sign = -1
	default:
		return 0, fmt.Errorf("%w: offset %q must carry a sign", ErrSyntax, token)
	}
	n, err := strconv.Atoi(token[1 : len(token)-1])
	if err != nil {
		return 0, fmt.Errorf("%w: offset %q is not an integer percentage", ErrSyntax, token)
	}
	return sign * n, nil
}

// Registration is a parsed register/reregister operand list.
type Registration struct {
	// OverrideID is the GM-only explicit owner id; zero means the caller
	// registers themselves.
	OverrideID int64
	Name       string
}

// ParseRegistration parses `(id) as name`.
func ParseRegistration(operands string) (Registration, error) {
	tokens := strings.Fields(operands)
	switch {
	case len(tokens) == 2 && tokens[0] == "as":
		return Registration{Name: tokens[1]}, nil
	case len(tokens) == 3 && tokens[1] == "as":
		id, err := strconv.ParseInt(tokens[0], 10, 64)
		if err != nil || id == 0 {
			return Registration{}, fmt.Errorf("%w: %q is not an owner id", ErrSyntax, tokens[0])
		}
		return Registration{OverrideID: id, Name: tokens[2]}, nil
	default:
		return Registration{}, fmt.Errorf("%w: expected (id) as name", ErrSyntax)
	}
}

// Conversion is a parsed convert command.
type Conversion struct {
	// InitiatorName is the GM-only `as` override; empty means the caller.
	InitiatorName string
	// Delta nets every conversion term: source units subtracted, target
	// units added.
	Delta currency.Amounts
}

// ParseConversion parses `(as name) N unitA to unitB, ...`. Terms that are
// not integral in the target unit fail with currency.ErrNotIntegral.
func ParseConversion(operands string) (Conversion, error) {
	terms := strings.Split(operands, ",")
	var conv Conversion

	first := strings.Fields(terms[0])
	if len(first) > 0 && first[0] == "as" {
		if len(first) < 2 {
			return Conversion{}, fmt.Errorf("%w: as has no value", ErrSyntax)
		}
		conv.InitiatorName = first[1]
		terms[0] = strings.Join(first[2:], " ")
	}

	for _, term := range terms {
		delta, err := parseConversionTerm(term)
		if err != nil {
			return Conversion{}, err
		}
		conv.Delta = conv.Delta.Plus(delta)
	}
	return conv, nil
}

func parseConversionTerm(term string) (currency.Amounts, error) {
	fields := strings.Fields(term)
	if len(fields) != 4 || !strings.EqualFold(fields[2], "to") {
		return currency.Amounts{}, fmt.Errorf("%w: malformed conversion %q", ErrSyntax, strings.TrimSpace(term))
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return currency.Amounts{}, fmt.Errorf("%w: %q is not an integer", ErrSyntax, fields[0])
	}
	from, err := currency.ParseDenomination(fields[1])
	if err != nil {
		return currency.Amounts{}, fmt.Errorf("%w: %q is not a unit", ErrSyntax, fields[1])
	}
	to, err := currency.ParseDenomination(fields[3])
	if err != nil {
		return currency.Amounts{}, fmt.Errorf("%w: %q is not a unit", ErrSyntax, fields[3])
	}
	converted, err := currency.Convert(n, from, to)
	if err != nil {
		return currency.Amounts{}, err
	}

	var delta currency.Amounts
	delta.Add(from, -n)
	delta.Add(to, converted)
	return delta, nil
}
