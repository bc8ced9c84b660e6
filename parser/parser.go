// Package parser implements the recursive-descent parser for the primary
// ShapeScript dialect, turning a lexer.Token stream into an ast.Program.
package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"shapescript/ast"
	"shapescript/diag"
	"shapescript/lexer"
)

// Sentinel parser errors (category "parser" in diag.ErrorKind).
var (
	ErrUnexpectedToken = errors.New("unexpected token")
	ErrCustom          = errors.New("parse error")
)

// Parse lexes and parses source into a Program, or returns the first
// lexer/parser diagnostic encountered.
func Parse(source, fileURL string) (*ast.Program, error) {
	toks, lexErr := lexer.New(source).All()
	if lexErr != nil {
		return nil, toDiag(source, lexErr)
	}

	p := &parser{source: source, toks: toks}

	stmts, err := p.parseStmtsUntil(lexer.EOF)
	if err != nil {
		return nil, err
	}

	return &ast.Program{Source: source, FileURL: fileURL, Stmts: stmts}, nil
}

func toDiag(source string, err error) error {
	var lerr *lexer.Error
	if errors.As(err, &lerr) {
		kind := diag.LexerUnexpectedToken

		switch {
		case errors.Is(lerr.Err, lexer.ErrInvalidNumber):
			kind = diag.LexerInvalidNumber
		case errors.Is(lerr.Err, lexer.ErrUnterminatedString):
			kind = diag.LexerUnterminatedString
		case errors.Is(lerr.Err, lexer.ErrInvalidEscapeSequence):
			kind = diag.LexerInvalidEscapeSequence
		}

		return &diag.Error{Kind: kind, Message: lerr.Err.Error(), Range: lerr.Range}
	}

	return err
}

type parser struct {
	source string
	toks   []lexer.Token
	pos    int
}

func (p *parser) cur() lexer.Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}

	return p.toks[p.pos]
}

func (p *parser) advance() lexer.Token {
	tok := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}

	return tok
}

func (p *parser) at(t lexer.TokenType) bool {
	return p.cur().Type == t
}

func (p *parser) atKeyword(k lexer.Keyword) bool {
	return p.cur().Type == lexer.KEYWORD && p.cur().Keyword == k
}

func (p *parser) atOp(texts ...string) bool {
	if p.cur().Type != lexer.OPERATOR {
		return false
	}

	for _, t := range texts {
		if p.cur().Text == t {
			return true
		}
	}

	return false
}

func (p *parser) expect(t lexer.TokenType) (lexer.Token, error) {
	if !p.at(t) {
		return lexer.Token{}, p.unexpected(t.String())
	}

	return p.advance(), nil
}

func (p *parser) unexpected(expected string) error {
	tok := p.cur()
	msg := fmt.Sprintf("unexpected %s", describeToken(tok))

	var suggestion string
	if expected != "" {
		msg = fmt.Sprintf("%s, expected %s", msg, expected)
	}

	if tok.Type == lexer.IDENT {
		suggestion = diag.Suggest(tok.Text, diag.OperatorAliasCandidates())
	}

	return &diag.Error{
		Kind:       diag.ParserUnexpectedToken,
		Message:    msg,
		Suggestion: suggestion,
		Range:      tok.Range,
	}
}

func describeToken(tok lexer.Token) string {
	if tok.Type == lexer.EOF {
		return "end of file"
	}

	if tok.Type == lexer.KEYWORD {
		return "keyword '" + tok.Text + "'"
	}

	return fmt.Sprintf("token %q", tok.Text)
}

// skipTerminators consumes zero or more TERMINATOR tokens.
func (p *parser) skipTerminators() {
	for p.at(lexer.TERMINATOR) {
		p.advance()
	}
}

func (p *parser) parseStmtsUntil(end lexer.TokenType) ([]ast.Stmt, error) {
	var stmts []ast.Stmt

	p.skipTerminators()

	for !p.at(end) && !p.at(lexer.EOF) {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}

		stmts = append(stmts, stmt)
		p.skipTerminators()
	}

	return stmts, nil
}

func (p *parser) parseStmt() (ast.Stmt, error) {
	switch {
	case p.at(lexer.LBRACE):
		return p.parseBlockStmt()
	case p.atKeyword(lexer.KwDefine):
		return p.parseDefine()
	case p.atKeyword(lexer.KwOption):
		return p.parseOption()
	case p.atKeyword(lexer.KwFor):
		return p.parseFor()
	case p.atKeyword(lexer.KwIf):
		return p.parseIf()
	case p.atKeyword(lexer.KwImport):
		return p.parseImport()
	case p.at(lexer.IDENT):
		return p.parseCommandOrBlockInvocation()
	default:
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		return &ast.ExprStmt{Base: ast.Base{R: expr.Range()}, Expr: expr}, nil
	}
}

func (p *parser) parseBlockStmt() (ast.Stmt, error) {
	start := p.cur().Range

	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}

	stmts, err := p.parseStmtsUntil(lexer.RBRACE)
	if err != nil {
		return nil, err
	}

	rbrace, err := p.expect(lexer.RBRACE)
	if err != nil {
		return nil, err
	}

	return &ast.BlockStmt{Base: ast.Base{R: start.Union(rbrace.Range)}, Stmts: stmts}, nil
}

func (p *parser) parseDefine() (ast.Stmt, error) {
	start := p.advance().Range // "define"

	nameTok, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}

	var def ast.Definition

	end := nameTok.Range

	if p.at(lexer.LBRACE) {
		body, bErr := p.parseBraceBlock()
		if bErr != nil {
			return nil, bErr
		}

		def.Block = body
		if len(body) > 0 {
			end = body[len(body)-1].Range()
		}
	} else {
		expr, eErr := p.parseExpr()
		if eErr != nil {
			return nil, eErr
		}

		def.Expr = expr
		end = expr.Range()
	}

	return &ast.DefineStmt{Base: ast.Base{R: start.Union(end)}, Name: nameTok.Text, Definition: def}, nil
}

func (p *parser) parseOption() (ast.Stmt, error) {
	start := p.advance().Range // "option"

	nameTok, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return &ast.OptionStmt{Base: ast.Base{R: start.Union(expr.Range())}, Name: nameTok.Text, Default: expr}, nil
}

func (p *parser) parseFor() (ast.Stmt, error) {
	start := p.advance().Range // "for"

	var index string

	if p.at(lexer.IDENT) && p.peekKeyword(1, lexer.KwIn) {
		index = p.advance().Text
		p.advance() // "in"
	}

	inExpr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	body, err := p.parseBraceBlock()
	if err != nil {
		return nil, err
	}

	end := inExpr.Range()
	if len(body) > 0 {
		end = body[len(body)-1].Range()
	}

	return &ast.ForStmt{Base: ast.Base{R: start.Union(end)}, Index: index, In: inExpr, Body: body}, nil
}

func (p *parser) peekKeyword(offset int, k lexer.Keyword) bool {
	ix := p.pos + offset
	if ix >= len(p.toks) {
		return false
	}

	tok := p.toks[ix]

	return tok.Type == lexer.KEYWORD && tok.Keyword == k
}

func (p *parser) parseIf() (ast.Stmt, error) {
	start := p.advance().Range // "if"

	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	body, err := p.parseBraceBlock()
	if err != nil {
		return nil, err
	}

	end := cond.Range()
	if len(body) > 0 {
		end = body[len(body)-1].Range()
	}

	stmt := &ast.IfStmt{Base: ast.Base{R: start.Union(end)}, Cond: cond, Body: body}

	if p.atKeyword(lexer.KwElse) {
		p.advance()

		if p.atKeyword(lexer.KwIf) {
			elseIf, eErr := p.parseIf()
			if eErr != nil {
				return nil, eErr
			}

			ifStmt, _ := elseIf.(*ast.IfStmt)
			stmt.Else = &ast.ElseClause{ElseIf: ifStmt}
			stmt.R = stmt.R.Union(ifStmt.Range())
		} else {
			elseBody, eErr := p.parseBraceBlock()
			if eErr != nil {
				return nil, eErr
			}

			stmt.Else = &ast.ElseClause{ElseBlock: elseBody}
			if len(elseBody) > 0 {
				stmt.R = stmt.R.Union(elseBody[len(elseBody)-1].Range())
			}
		}
	}

	return stmt, nil
}

func (p *parser) parseImport() (ast.Stmt, error) {
	start := p.advance().Range // "import"

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return &ast.ImportStmt{Base: ast.Base{R: start.Union(expr.Range())}, Expr: expr}, nil
}

func (p *parser) parseBraceBlock() ([]ast.Stmt, error) {
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}

	stmts, err := p.parseStmtsUntil(lexer.RBRACE)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}

	return stmts, nil
}

// parseCommandOrBlockInvocation handles identifier-headed statements: either
// `name { ... }` (a block invocation used as a statement) or `name arg*`
// (a command with juxtaposed argument expressions).
func (p *parser) parseCommandOrBlockInvocation() (ast.Stmt, error) {
	nameTok := p.advance()

	if p.at(lexer.LBRACE) {
		body, err := p.parseBraceBlock()
		if err != nil {
			return nil, err
		}

		end := nameTok.Range
		if len(body) > 0 {
			end = body[len(body)-1].Range()
		}

		blockExpr := &ast.BlockExpr{
			Base:      ast.Base{R: nameTok.Range.Union(end)},
			Name:      nameTok.Text,
			NameRange: nameTok.Range,
			Body:      body,
		}

		return &ast.ExprStmt{Base: ast.Base{R: blockExpr.Range()}, Expr: blockExpr}, nil
	}

	args, err := p.parseArguments()
	if err != nil {
		return nil, err
	}

	end := nameTok.Range
	if len(args) > 0 {
		end = args[len(args)-1].Range()
	}

	return &ast.CommandStmt{Base: ast.Base{R: nameTok.Range.Union(end)}, Name: nameTok.Text, NameRange: nameTok.Range, Args: args}, nil
}

func (p *parser) canStartExpr() bool {
	switch p.cur().Type {
	case lexer.NUMBER, lexer.STRING, lexer.HEXCOLOR, lexer.IDENT, lexer.LPAREN:
		return true
	case lexer.OPERATOR:
		return p.cur().Text == "-" || p.cur().Text == "+"
	case lexer.KEYWORD:
		return p.cur().Keyword == lexer.KwNot || p.cur().Keyword == lexer.KwTrue || p.cur().Keyword == lexer.KwFalse
	default:
		return false
	}
}

func (p *parser) parseArguments() ([]ast.Expr, error) {
	var args []ast.Expr

	for p.canStartExpr() {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		args = append(args, expr)
	}

	return args, nil
}

// ---- expression precedence ladder ----
// orExpr -> andExpr -> relational -> rangeExpr -> sum -> term -> factor(prefix) -> member -> atom

func (p *parser) parseExpr() (ast.Expr, error) {
	return p.parseOr()
}

func (p *parser) parseOr() (ast.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.atKeyword(lexer.KwOr) {
		p.advance()

		right, rErr := p.parseAnd()
		if rErr != nil {
			return nil, rErr
		}

		left = &ast.InfixExpr{Base: ast.Base{R: left.Range().Union(right.Range())}, Op: "or", L: left, R: right}
	}

	return left, nil
}

func (p *parser) parseAnd() (ast.Expr, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}

	for p.atKeyword(lexer.KwAnd) {
		p.advance()

		right, rErr := p.parseRelational()
		if rErr != nil {
			return nil, rErr
		}

		left = &ast.InfixExpr{Base: ast.Base{R: left.Range().Union(right.Range())}, Op: "and", L: left, R: right}
	}

	return left, nil
}

var relOps = []string{"=", "<>", "<=", ">=", "<", ">"}

func (p *parser) parseRelational() (ast.Expr, error) {
	left, err := p.parseRange()
	if err != nil {
		return nil, err
	}

	for p.atOp(relOps...) {
		op := p.advance().Text

		right, rErr := p.parseRange()
		if rErr != nil {
			return nil, rErr
		}

		left = &ast.InfixExpr{Base: ast.Base{R: left.Range().Union(right.Range())}, Op: op, L: left, R: right}
	}

	return left, nil
}

func (p *parser) parseRange() (ast.Expr, error) {
	from, err := p.parseSum()
	if err != nil {
		return nil, err
	}

	if !p.atKeyword(lexer.KwTo) {
		return from, nil
	}

	p.advance()

	to, err := p.parseSum()
	if err != nil {
		return nil, err
	}

	var step ast.Expr

	end := to.Range()

	if p.atKeyword(lexer.KwStep) {
		p.advance()

		step, err = p.parseSum()
		if err != nil {
			return nil, err
		}

		end = step.Range()
	}

	return &ast.RangeExpr{Base: ast.Base{R: from.Range().Union(end)}, From: from, To: to, Step: step}, nil
}

func (p *parser) parseSum() (ast.Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	for p.atOp("+", "-") {
		op := p.advance().Text

		right, rErr := p.parseTerm()
		if rErr != nil {
			return nil, rErr
		}

		left = &ast.InfixExpr{Base: ast.Base{R: left.Range().Union(right.Range())}, Op: op, L: left, R: right}
	}

	return left, nil
}

func (p *parser) parseTerm() (ast.Expr, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}

	for p.atOp("*", "/") {
		op := p.advance().Text

		right, rErr := p.parseFactor()
		if rErr != nil {
			return nil, rErr
		}

		left = &ast.InfixExpr{Base: ast.Base{R: left.Range().Union(right.Range())}, Op: op, L: left, R: right}
	}

	return left, nil
}

func (p *parser) parseFactor() (ast.Expr, error) {
	if p.atOp("-", "+") {
		op := p.advance()

		x, err := p.parseMember()
		if err != nil {
			return nil, err
		}

		return &ast.PrefixExpr{Base: ast.Base{R: op.Range.Union(x.Range())}, Op: op.Text, X: x}, nil
	}

	if p.atKeyword(lexer.KwNot) {
		op := p.advance()

		x, err := p.parseMember()
		if err != nil {
			return nil, err
		}

		return &ast.PrefixExpr{Base: ast.Base{R: op.Range.Union(x.Range())}, Op: "not", X: x}, nil
	}

	return p.parseMember()
}

func (p *parser) parseMember() (ast.Expr, error) {
	x, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	for p.at(lexer.DOT) {
		p.advance()

		nameTok, nErr := p.expect(lexer.IDENT)
		if nErr != nil {
			return nil, nErr
		}

		x = &ast.MemberExpr{Base: ast.Base{R: x.Range().Union(nameTok.Range)}, X: x, Name: nameTok.Text}
	}

	return x, nil
}

func (p *parser) parseAtom() (ast.Expr, error) {
	tok := p.cur()

	switch {
	case tok.Type == lexer.NUMBER:
		p.advance()
		return p.numberExpr(tok)
	case tok.Type == lexer.STRING:
		p.advance()
		return p.stringExpr(tok)
	case tok.Type == lexer.HEXCOLOR:
		p.advance()
		return p.hexColorExpr(tok)
	case tok.Type == lexer.KEYWORD && tok.Keyword == lexer.KwTrue:
		p.advance()
		return &ast.IdentifierExpr{Base: ast.Base{R: tok.Range}, Name: "true"}, nil
	case tok.Type == lexer.KEYWORD && tok.Keyword == lexer.KwFalse:
		p.advance()
		return &ast.IdentifierExpr{Base: ast.Base{R: tok.Range}, Name: "false"}, nil
	case tok.Type == lexer.IDENT:
		return p.identifierOrBlockInvocation()
	case tok.Type == lexer.LPAREN:
		return p.parenOrTuple()
	default:
		return nil, p.unexpected("an expression")
	}
}

func (p *parser) numberExpr(tok lexer.Token) (ast.Expr, error) {
	v, err := strconv.ParseFloat(tok.Text, 64)
	if err != nil {
		return nil, &diag.Error{Kind: diag.LexerInvalidNumber, Message: "invalid number " + tok.Text, Range: tok.Range}
	}

	return &ast.NumberExpr{Base: ast.Base{R: tok.Range}, Value: v}, nil
}

func (p *parser) stringExpr(tok lexer.Token) (ast.Expr, error) {
	raw := tok.Text[1 : len(tok.Text)-1]

	var b strings.Builder

	for i := 0; i < len(raw); i++ {
		if raw[i] == '\\' && i+1 < len(raw) {
			i++

			switch raw[i] {
			case 'n':
				b.WriteByte('\n')
			case '\\':
				b.WriteByte('\\')
			case '"':
				b.WriteByte('"')
			}

			continue
		}

		b.WriteByte(raw[i])
	}

	return &ast.StringExpr{Base: ast.Base{R: tok.Range}, Value: b.String()}, nil
}

func (p *parser) hexColorExpr(tok lexer.Token) (ast.Expr, error) {
	digits := tok.Text[1:]

	r, g, b, a, err := parseHexColor(digits)
	if err != nil {
		return nil, &diag.Error{Kind: diag.ParserCustom, Message: err.Error(), Range: tok.Range}
	}

	return &ast.HexColorExpr{Base: ast.Base{R: tok.Range}, Raw: tok.Text, Red: r, Green: g, Blue: b, Alpha: a}, nil
}

func parseHexColor(digits string) (r, g, b, a float64, err error) {
	expand := func(s string) string {
		if len(s) == 1 {
			return s + s
		}

		return s
	}

	hex2f := func(s string) (float64, error) {
		n, convErr := strconv.ParseUint(expand(s), 16, 16)
		if convErr != nil {
			return 0, convErr
		}

		return float64(n) / 255.0, nil
	}

	switch len(digits) {
	case 3, 4:
		r, err = hex2f(digits[0:1])
		if err == nil {
			g, err = hex2f(digits[1:2])
		}

		if err == nil {
			b, err = hex2f(digits[2:3])
		}

		a = 1.0

		if len(digits) == 4 && err == nil {
			a, err = hex2f(digits[3:4])
		}
	case 6, 8:
		r, err = hex2f(digits[0:2])
		if err == nil {
			g, err = hex2f(digits[2:4])
		}

		if err == nil {
			b, err = hex2f(digits[4:6])
		}

		a = 1.0

		if len(digits) == 8 && err == nil {
			a, err = hex2f(digits[6:8])
		}
	default:
		return 0, 0, 0, 0, fmt.Errorf("%w: invalid hex color #%s", ErrCustom, digits)
	}

	return r, g, b, a, err
}

func (p *parser) identifierOrBlockInvocation() (ast.Expr, error) {
	tok := p.advance()

	if p.at(lexer.LBRACE) {
		body, err := p.parseBraceBlock()
		if err != nil {
			return nil, err
		}

		end := tok.Range
		if len(body) > 0 {
			end = body[len(body)-1].Range()
		}

		return &ast.BlockExpr{Base: ast.Base{R: tok.Range.Union(end)}, Name: tok.Text, NameRange: tok.Range, Body: body}, nil
	}

	return &ast.IdentifierExpr{Base: ast.Base{R: tok.Range}, Name: tok.Text}, nil
}

// parenOrTuple parses "(" expression* ")", where successive elements may be
// juxtaposed (as at statement level) or comma-separated; a comma is accepted
// as punctuation but carries no semantic weight of its own. A single
// parenthesized element is that element itself; two or more form an
// explicit tuple.
func (p *parser) parenOrTuple() (ast.Expr, error) {
	open, err := p.expect(lexer.LPAREN)
	if err != nil {
		return nil, err
	}

	var elems []ast.Expr

	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	elems = append(elems, first)

	for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
		if p.at(lexer.COMMA) {
			p.advance()
		}

		if p.at(lexer.RPAREN) {
			break
		}

		e, eErr := p.parseExpr()
		if eErr != nil {
			return nil, eErr
		}

		elems = append(elems, e)
	}

	closeTok, err := p.expect(lexer.RPAREN)
	if err != nil {
		return nil, err
	}

	if len(elems) == 1 {
		return elems[0], nil
	}

	r := open.Range.Union(closeTok.Range)

	return &ast.TupleExpr{Base: ast.Base{R: r}, Elems: elems, Explicit: true}, nil
}
