// Package eval evaluates raw expression strings into amounts. It resolves
// $<id> reference tokens against a reference snapshot and then evaluates the
// remaining arithmetic with a Pratt parser over decimals.
package eval

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pthomsen/reckon/internal/expr"
	"github.com/pthomsen/reckon/internal/model"
	"github.com/pthomsen/reckon/internal/service"
)

// Evaluator implements service.Evaluator locally. It is stateless; reference
// resolution uses stored amounts only, never recursive re-evaluation, so
// reference cycles cannot occur.
type Evaluator struct{}

// New creates an Evaluator.
func New() *Evaluator {
	return &Evaluator{}
}

// Evaluate resolves references in raw and computes the result. Malformed or
// incomplete expressions come back as Valid=false with a hint; the only error
// return is context cancellation.
func (e *Evaluator) Evaluate(ctx context.Context, raw string, freq model.Frequency, refs []model.Reference) (service.Evaluation, error) {
	if err := ctx.Err(); err != nil {
		return service.Evaluation{}, err
	}

	if strings.TrimSpace(raw) == "" {
		return service.Evaluation{Hint: "enter an amount or expression"}, nil
	}

	substituted, hint := substitute(raw, refs)
	if hint != "" {
		return service.Evaluation{Hint: hint}, nil
	}

	p := &parser{input: substituted}
	result, err := p.parseExpr(0)
	if err == nil && !p.atEnd() {
		err = fmt.Errorf("unexpected %q", p.peek())
	}
	if err != nil {
		return service.Evaluation{Hint: "incomplete expression"}, nil
	}

	kind := model.KindIncome
	amount := result
	if result.IsNegative() {
		kind = model.KindExpense
		amount = result.Neg()
	}

	return service.Evaluation{
		Amount:           amount,
		NormalizedAmount: freq.Normalize(amount),
		Kind:             kind,
		Valid:            true,
	}, nil
}

// substitute replaces every reference token with its resolved signed amount,
// parenthesized so negative values keep their precedence. An unresolvable
// identifier returns a hint instead of a rewritten string.
func substitute(raw string, refs []model.Reference) (string, string) {
	var b strings.Builder
	for _, seg := range expr.Parse(raw) {
		if seg.Kind == expr.SegmentText {
			b.WriteString(seg.Content)
			continue
		}
		ref, ok := model.FindReference(refs, seg.ID)
		if !ok {
			return "", fmt.Sprintf("unknown reference $%s", seg.ID)
		}
		b.WriteString("(")
		b.WriteString(ref.SignedAmount.String())
		b.WriteString(")")
	}
	return b.String(), ""
}

// parser is a Pratt parser over decimal arithmetic: + - * / with the usual
// precedence, parentheses, unary minus, integer and decimal literals.
type parser struct {
	input string
	pos   int
}

func (p *parser) skipWhitespace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) atEnd() bool {
	p.skipWhitespace()
	return p.pos >= len(p.input)
}

func (p *parser) peek() byte {
	p.skipWhitespace()
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) advance() byte {
	p.skipWhitespace()
	if p.pos >= len(p.input) {
		return 0
	}
	ch := p.input[p.pos]
	p.pos++
	return ch
}

func (p *parser) parseNumber() (decimal.Decimal, error) {
	p.skipWhitespace()
	start := p.pos

	foundDigit := false
	foundDot := false
	for p.pos < len(p.input) {
		ch := p.input[p.pos]
		switch {
		case ch >= '0' && ch <= '9':
			foundDigit = true
			p.pos++
		case ch == '.' && !foundDot:
			foundDot = true
			p.pos++
		default:
			goto done
		}
	}
done:
	if !foundDigit {
		return decimal.Zero, fmt.Errorf("expected number at position %d", start)
	}

	num, err := decimal.NewFromString(p.input[start:p.pos])
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid number %q: %w", p.input[start:p.pos], err)
	}
	return num, nil
}

func (p *parser) parsePrimary() (decimal.Decimal, error) {
	ch := p.peek()

	if ch == '(' {
		p.advance()
		result, err := p.parseExpr(0)
		if err != nil {
			return decimal.Zero, err
		}
		if p.peek() != ')' {
			return decimal.Zero, fmt.Errorf("expected ')' at position %d", p.pos)
		}
		p.advance()
		return result, nil
	}

	if ch == '-' {
		p.advance()
		operand, err := p.parsePrimary()
		if err != nil {
			return decimal.Zero, err
		}
		return operand.Neg(), nil
	}

	return p.parseNumber()
}

func (p *parser) parseExpr(minPrec int) (decimal.Decimal, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return decimal.Zero, err
	}

	for {
		op := p.peek()
		if !isOperator(op) {
			break
		}
		prec := precedence(op)
		if prec < minPrec {
			break
		}
		p.advance()

		right, err := p.parseExpr(prec + 1)
		if err != nil {
			return decimal.Zero, err
		}

		left, err = applyOp(left, op, right)
		if err != nil {
			return decimal.Zero, err
		}
	}

	return left, nil
}

func isOperator(ch byte) bool {
	return ch == '+' || ch == '-' || ch == '*' || ch == '/'
}

// precedence returns operator precedence; higher binds tighter.
func precedence(op byte) int {
	switch op {
	case '+', '-':
		return 1
	case '*', '/':
		return 2
	default:
		return 0
	}
}

func applyOp(left decimal.Decimal, op byte, right decimal.Decimal) (decimal.Decimal, error) {
	switch op {
	case '+':
		return left.Add(right), nil
	case '-':
		return left.Sub(right), nil
	case '*':
		return left.Mul(right), nil
	case '/':
		if right.IsZero() {
			return decimal.Zero, fmt.Errorf("division by zero")
		}
		return left.Div(right), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown operator: %c", op)
	}
}
