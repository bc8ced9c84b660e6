// Package scadparser implements the recursive-descent parser for the
// secondary, OpenSCAD-style dialect, turning a scadlexer.Token stream into
// a scadast.Program.
package scadparser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"shapescript/diag"
	"shapescript/scadast"
	"shapescript/scadlexer"
)

var (
	ErrUnexpectedToken = errors.New("unexpected token")
	ErrCustom          = errors.New("parse error")
)

// Parse lexes and parses source into a secondary-dialect Program.
func Parse(source, fileURL string) (*scadast.Program, error) {
	toks, lexErr := scadlexer.New(source).All()
	if lexErr != nil {
		return nil, toDiag(lexErr)
	}

	p := &parser{toks: toks}

	var stmts []scadast.Stmt

	for !p.at(scadlexer.EOF) {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}

		stmts = append(stmts, stmt)
	}

	return &scadast.Program{Source: source, FileURL: fileURL, Stmts: stmts}, nil
}

func toDiag(err error) error {
	var lerr *scadlexer.Error
	if errors.As(err, &lerr) {
		kind := diag.LexerUnexpectedToken

		switch {
		case errors.Is(lerr.Err, scadlexer.ErrInvalidNumber):
			kind = diag.LexerInvalidNumber
		case errors.Is(lerr.Err, scadlexer.ErrUnterminatedString):
			kind = diag.LexerUnterminatedString
		case errors.Is(lerr.Err, scadlexer.ErrUnterminatedComment):
			kind = diag.LexerUnexpectedToken
		}

		return &diag.Error{Kind: kind, Message: lerr.Err.Error(), Range: lerr.Range}
	}

	return err
}

type parser struct {
	toks []scadlexer.Token
	pos  int

	// synthParen is set when the most recently closed paren group was the
	// lexer's synthetic ambiguity-disambiguation wrapper (§4.C) around a
	// bare identifier; finishCall consumes and clears it.
	synthParen bool
}

func (p *parser) cur() scadlexer.Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}

	return p.toks[p.pos]
}

func (p *parser) advance() scadlexer.Token {
	tok := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}

	return tok
}

func (p *parser) at(t scadlexer.TokenType) bool {
	return p.cur().Type == t
}

func (p *parser) atKeyword(k scadlexer.Keyword) bool {
	return p.cur().Type == scadlexer.WORD && p.cur().Keyword == k
}

func (p *parser) atWord(text string) bool {
	return p.cur().Type == scadlexer.WORD && p.cur().Keyword == scadlexer.NotKeyword && p.cur().Text == text
}

func (p *parser) expect(t scadlexer.TokenType) (scadlexer.Token, error) {
	if !p.at(t) {
		return scadlexer.Token{}, p.unexpected(t.String())
	}

	return p.advance(), nil
}

func (p *parser) unexpected(expected string) error {
	tok := p.cur()
	msg := fmt.Sprintf("unexpected %s", describeToken(tok))

	if expected != "" {
		msg = fmt.Sprintf("%s, expected %s", msg, expected)
	}

	var suggestion string
	if tok.Type == scadlexer.WORD {
		suggestion = diag.Suggest(tok.Text, diag.OperatorAliasCandidates())
	}

	return &diag.Error{
		Kind:       diag.ParserUnexpectedToken,
		Message:    msg,
		Suggestion: suggestion,
		Range:      tok.Range,
	}
}

func describeToken(tok scadlexer.Token) string {
	if tok.Type == scadlexer.EOF {
		return "end of file"
	}

	if tok.Keyword != scadlexer.NotKeyword {
		return "keyword '" + tok.Text + "'"
	}

	return fmt.Sprintf("token %q", tok.Text)
}

// ---- statements ----

func (p *parser) parseStmt() (scadast.Stmt, error) {
	switch {
	case p.at(scadlexer.LBRACE):
		return p.parseBlock()
	case p.at(scadlexer.SEMICOLON):
		p.advance()
		return &scadast.BlockStmt{Base: scadast.Base{R: p.cur().Range}}, nil
	case p.atKeyword(scadlexer.KwFor):
		return p.parseFor()
	case p.atKeyword(scadlexer.KwIf):
		return p.parseIf()
	case p.atKeyword(scadlexer.KwFunction):
		return p.parseFunctionDef()
	case p.atKeyword(scadlexer.KwModule):
		return p.parseModuleDef()
	case p.at(scadlexer.WORD):
		return p.parseCommandOrAssign()
	default:
		return nil, p.unexpected("a statement")
	}
}

func (p *parser) parseBlock() (scadast.Stmt, error) {
	start := p.cur().Range

	if _, err := p.expect(scadlexer.LBRACE); err != nil {
		return nil, err
	}

	var stmts []scadast.Stmt

	for !p.at(scadlexer.RBRACE) && !p.at(scadlexer.EOF) {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}

		stmts = append(stmts, stmt)
	}

	rbrace, err := p.expect(scadlexer.RBRACE)
	if err != nil {
		return nil, err
	}

	return &scadast.BlockStmt{Base: scadast.Base{R: start.Union(rbrace.Range)}, Stmts: stmts}, nil
}

func (p *parser) parseFor() (scadast.Stmt, error) {
	start := p.advance().Range // "for"

	if _, err := p.expect(scadlexer.LPAREN); err != nil {
		return nil, err
	}

	nameTok, err := p.expect(scadlexer.WORD)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(scadlexer.ASSIGN); err != nil {
		return nil, err
	}

	inExpr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(scadlexer.RPAREN); err != nil {
		return nil, err
	}

	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}

	return &scadast.ForStmt{Base: scadast.Base{R: start.Union(body.Range())}, Index: nameTok.Text, In: inExpr, Body: body}, nil
}

func (p *parser) parseIf() (scadast.Stmt, error) {
	start := p.advance().Range // "if"

	if _, err := p.expect(scadlexer.LPAREN); err != nil {
		return nil, err
	}

	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(scadlexer.RPAREN); err != nil {
		return nil, err
	}

	thenStmt, err := p.parseStmt()
	if err != nil {
		return nil, err
	}

	end := thenStmt.Range()

	stmt := &scadast.IfStmt{Base: scadast.Base{R: start.Union(end)}, Cond: cond, Then: thenStmt}

	if p.atKeyword(scadlexer.KwElse) {
		p.advance()

		elseStmt, eErr := p.parseStmt()
		if eErr != nil {
			return nil, eErr
		}

		stmt.Else = elseStmt
		stmt.R = stmt.R.Union(elseStmt.Range())
	}

	return stmt, nil
}

func (p *parser) parseParams() ([]scadast.Param, error) {
	if _, err := p.expect(scadlexer.LPAREN); err != nil {
		return nil, err
	}

	var params []scadast.Param

	for !p.at(scadlexer.RPAREN) {
		if len(params) > 0 {
			if _, err := p.expect(scadlexer.COMMA); err != nil {
				return nil, err
			}
		}

		nameTok, err := p.expect(scadlexer.WORD)
		if err != nil {
			return nil, err
		}

		param := scadast.Param{Name: nameTok.Text}

		if p.at(scadlexer.ASSIGN) {
			p.advance()

			def, dErr := p.parseExpr()
			if dErr != nil {
				return nil, dErr
			}

			param.Default = def
		}

		params = append(params, param)
	}

	if _, err := p.expect(scadlexer.RPAREN); err != nil {
		return nil, err
	}

	return params, nil
}

func (p *parser) parseFunctionDef() (scadast.Stmt, error) {
	start := p.advance().Range // "function"

	nameTok, err := p.expect(scadlexer.WORD)
	if err != nil {
		return nil, err
	}

	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(scadlexer.ASSIGN); err != nil {
		return nil, err
	}

	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	semi, err := p.expect(scadlexer.SEMICOLON)
	if err != nil {
		return nil, err
	}

	return &scadast.DefineStmt{
		Base:   scadast.Base{R: start.Union(semi.Range)},
		Name:   nameTok.Text,
		Kind:   scadast.DefineFunction,
		Params: params,
		Expr:   body,
	}, nil
}

func (p *parser) parseModuleDef() (scadast.Stmt, error) {
	start := p.advance().Range // "module"

	nameTok, err := p.expect(scadlexer.WORD)
	if err != nil {
		return nil, err
	}

	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}

	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}

	var bodyStmts []scadast.Stmt
	if block, ok := body.(*scadast.BlockStmt); ok {
		bodyStmts = block.Stmts
	} else {
		bodyStmts = []scadast.Stmt{body}
	}

	return &scadast.DefineStmt{
		Base:   scadast.Base{R: start.Union(body.Range())},
		Name:   nameTok.Text,
		Kind:   scadast.DefineModule,
		Params: params,
		Body:   bodyStmts,
	}, nil
}

// parseCommandOrAssign handles `name = expr;` (a top-level assignment,
// modeled the same as DefineExpr) and `name(args) next?;` (a module call,
// possibly chained onto a following single statement).
func (p *parser) parseCommandOrAssign() (scadast.Stmt, error) {
	nameTok := p.advance()

	if p.at(scadlexer.ASSIGN) {
		p.advance()

		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		semi, err := p.expect(scadlexer.SEMICOLON)
		if err != nil {
			return nil, err
		}

		return &scadast.DefineStmt{
			Base: scadast.Base{R: nameTok.Range.Union(semi.Range)},
			Name: nameTok.Text,
			Kind: scadast.DefineExpr,
			Expr: expr,
		}, nil
	}

	args, err := p.parseCallArgs()
	if err != nil {
		return nil, err
	}

	cmd := &scadast.CommandStmt{
		Base:      scadast.Base{R: nameTok.Range},
		Name:      nameTok.Text,
		NameRange: nameTok.Range,
		Args:      args,
	}

	switch {
	case p.at(scadlexer.LBRACE):
		body, bErr := p.parseBlock()
		if bErr != nil {
			return nil, bErr
		}

		block := body.(*scadast.BlockStmt)
		cmd.Body = block.Stmts
		cmd.R = cmd.R.Union(block.Range())
	case p.at(scadlexer.SEMICOLON):
		semi := p.advance()
		cmd.R = cmd.R.Union(semi.Range)
	default:
		next, nErr := p.parseStmt()
		if nErr != nil {
			return nil, nErr
		}

		cmd.Next = next
		cmd.R = cmd.R.Union(next.Range())
	}

	return cmd, nil
}

func (p *parser) parseCallArgs() ([]scadast.Arg, error) {
	if _, err := p.expect(scadlexer.LPAREN); err != nil {
		return nil, err
	}

	var args []scadast.Arg

	for !p.at(scadlexer.RPAREN) {
		if len(args) > 0 {
			if _, err := p.expect(scadlexer.COMMA); err != nil {
				return nil, err
			}
		}

		if p.at(scadlexer.RPAREN) {
			break
		}

		arg, err := p.parseArg()
		if err != nil {
			return nil, err
		}

		args = append(args, arg)
	}

	if _, err := p.expect(scadlexer.RPAREN); err != nil {
		return nil, err
	}

	return args, nil
}

func (p *parser) parseArg() (scadast.Arg, error) {
	if p.at(scadlexer.WORD) && p.cur().Keyword == scadlexer.NotKeyword {
		save := p.pos
		name := p.advance().Text

		if p.at(scadlexer.ASSIGN) {
			p.advance()

			val, err := p.parseExpr()
			if err != nil {
				return scadast.Arg{}, err
			}

			return scadast.Arg{Name: name, Value: val}, nil
		}

		p.pos = save
	}

	val, err := p.parseExpr()
	if err != nil {
		return scadast.Arg{}, err
	}

	return scadast.Arg{Value: val}, nil
}

// ---- expressions ----
// or -> and -> equality -> relational -> sum -> term -> power -> prefix -> postfix -> atom

func (p *parser) parseExpr() (scadast.Expr, error) {
	if p.atKeyword(scadlexer.KwLet) {
		return p.parseLet()
	}

	return p.parseOr()
}

func (p *parser) parseLet() (scadast.Expr, error) {
	start := p.advance().Range // "let"

	if _, err := p.expect(scadlexer.LPAREN); err != nil {
		return nil, err
	}

	var bindings []scadast.Arg

	for !p.at(scadlexer.RPAREN) {
		if len(bindings) > 0 {
			if _, err := p.expect(scadlexer.COMMA); err != nil {
				return nil, err
			}
		}

		nameTok, err := p.expect(scadlexer.WORD)
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(scadlexer.ASSIGN); err != nil {
			return nil, err
		}

		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		bindings = append(bindings, scadast.Arg{Name: nameTok.Text, Value: val})
	}

	if _, err := p.expect(scadlexer.RPAREN); err != nil {
		return nil, err
	}

	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return &scadast.LetExpr{Base: scadast.Base{R: start.Union(body.Range())}, Bindings: bindings, Body: body}, nil
}

func (p *parser) parseOr() (scadast.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.at(scadlexer.OR) {
		p.advance()

		right, rErr := p.parseAnd()
		if rErr != nil {
			return nil, rErr
		}

		left = &scadast.InfixExpr{Base: scadast.Base{R: left.Range().Union(right.Range())}, Op: "||", L: left, R: right}
	}

	return left, nil
}

func (p *parser) parseAnd() (scadast.Expr, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}

	for p.at(scadlexer.AND) {
		p.advance()

		right, rErr := p.parseEquality()
		if rErr != nil {
			return nil, rErr
		}

		left = &scadast.InfixExpr{Base: scadast.Base{R: left.Range().Union(right.Range())}, Op: "&&", L: left, R: right}
	}

	return left, nil
}

func (p *parser) parseEquality() (scadast.Expr, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}

	for p.at(scadlexer.EQUAL) || p.at(scadlexer.NOT_EQUAL) {
		opTok := p.advance()

		op := "=="
		if opTok.Type == scadlexer.NOT_EQUAL {
			op = "!="
		}

		right, rErr := p.parseRelational()
		if rErr != nil {
			return nil, rErr
		}

		left = &scadast.InfixExpr{Base: scadast.Base{R: left.Range().Union(right.Range())}, Op: op, L: left, R: right}
	}

	return left, nil
}

func (p *parser) parseRelational() (scadast.Expr, error) {
	left, err := p.parseSum()
	if err != nil {
		return nil, err
	}

	for p.at(scadlexer.LESS) || p.at(scadlexer.LESS_EQ) || p.at(scadlexer.GREATER) || p.at(scadlexer.GREATER_EQ) {
		opTok := p.advance()

		right, rErr := p.parseSum()
		if rErr != nil {
			return nil, rErr
		}

		left = &scadast.InfixExpr{Base: scadast.Base{R: left.Range().Union(right.Range())}, Op: relOpText(opTok.Type), L: left, R: right}
	}

	return left, nil
}

func relOpText(t scadlexer.TokenType) string {
	switch t {
	case scadlexer.LESS:
		return "<"
	case scadlexer.LESS_EQ:
		return "<="
	case scadlexer.GREATER:
		return ">"
	case scadlexer.GREATER_EQ:
		return ">="
	default:
		return "?"
	}
}

func (p *parser) parseSum() (scadast.Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	for p.at(scadlexer.PLUS) || p.at(scadlexer.MINUS) {
		opTok := p.advance()

		op := "+"
		if opTok.Type == scadlexer.MINUS {
			op = "-"
		}

		right, rErr := p.parseTerm()
		if rErr != nil {
			return nil, rErr
		}

		left = &scadast.InfixExpr{Base: scadast.Base{R: left.Range().Union(right.Range())}, Op: op, L: left, R: right}
	}

	return left, nil
}

func (p *parser) parseTerm() (scadast.Expr, error) {
	left, err := p.parsePower()
	if err != nil {
		return nil, err
	}

	for p.at(scadlexer.STAR) || p.at(scadlexer.SLASH) || p.at(scadlexer.PERCENT) {
		opTok := p.advance()

		op := map[scadlexer.TokenType]string{scadlexer.STAR: "*", scadlexer.SLASH: "/", scadlexer.PERCENT: "%"}[opTok.Type]

		right, rErr := p.parsePower()
		if rErr != nil {
			return nil, rErr
		}

		left = &scadast.InfixExpr{Base: scadast.Base{R: left.Range().Union(right.Range())}, Op: op, L: left, R: right}
	}

	return left, nil
}

func (p *parser) parsePower() (scadast.Expr, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	if p.at(scadlexer.CARET) {
		p.advance()

		right, rErr := p.parsePower() // right-associative
		if rErr != nil {
			return nil, rErr
		}

		return &scadast.InfixExpr{Base: scadast.Base{R: left.Range().Union(right.Range())}, Op: "^", L: left, R: right}, nil
	}

	return left, nil
}

func (p *parser) parsePrefix() (scadast.Expr, error) {
	if p.at(scadlexer.MINUS) || p.at(scadlexer.PLUS) || p.at(scadlexer.NOT) {
		opTok := p.advance()

		op := map[scadlexer.TokenType]string{scadlexer.MINUS: "-", scadlexer.PLUS: "+", scadlexer.NOT: "!"}[opTok.Type]

		x, err := p.parsePrefix()
		if err != nil {
			return nil, err
		}

		return &scadast.PrefixExpr{Base: scadast.Base{R: opTok.Range.Union(x.Range())}, Op: op, X: x}, nil
	}

	return p.parsePostfix()
}

func (p *parser) parsePostfix() (scadast.Expr, error) {
	x, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.at(scadlexer.DOT):
			p.advance()

			nameTok, nErr := p.expect(scadlexer.WORD)
			if nErr != nil {
				return nil, nErr
			}

			x = &scadast.MemberExpr{Base: scadast.Base{R: x.Range().Union(nameTok.Range)}, X: x, Name: nameTok.Text}
		case p.at(scadlexer.LBRACKET):
			p.advance()

			ix, iErr := p.parseExpr()
			if iErr != nil {
				return nil, iErr
			}

			closeTok, cErr := p.expect(scadlexer.RBRACKET)
			if cErr != nil {
				return nil, cErr
			}

			x = &scadast.MemberExpr{Base: scadast.Base{R: x.Range().Union(closeTok.Range)}, X: x, Index: ix}
		case p.at(scadlexer.LPAREN):
			call, cErr := p.finishCall(x)
			if cErr != nil {
				return nil, cErr
			}

			x = call
		default:
			return x, nil
		}
	}
}

// finishCall builds a CallExpr applying a trailing "(args)" to callee,
// which must resolve to a named identifier — the only callable primary in
// this dialect. The lexer's synthetic-parens ambiguity rule (§4.C) wraps a
// bare identifier so it reads as a parenthesized atom; unwrapping that
// atom here and letting the real "(args)" that follows it drive this
// postfix step is what keeps `-cube(1)` parsing as `-(cube(1))` rather
// than `(-cube)(1)`.
func (p *parser) finishCall(callee scadast.Expr) (scadast.Expr, error) {
	ident, ok := callee.(*scadast.IdentifierExpr)
	if !ok {
		return nil, &diag.Error{Kind: diag.ParserCustom, Message: "call target must be a name", Range: callee.Range()}
	}

	synthetic := p.synthParen
	p.synthParen = false

	args, err := p.parseCallArgs()
	if err != nil {
		return nil, err
	}

	end := ident.Range()
	if len(args) > 0 {
		end = args[len(args)-1].Value.Range()
	}

	return &scadast.CallExpr{
		Base:      scadast.Base{R: ident.Range().Union(end)},
		Name:      ident.Name,
		NameRange: ident.Range(),
		Args:      args,
		Synthetic: synthetic,
	}, nil
}

func (p *parser) parseAtom() (scadast.Expr, error) {
	tok := p.cur()

	switch {
	case tok.Type == scadlexer.NUMBER:
		p.advance()
		return p.numberExpr(tok)
	case tok.Type == scadlexer.STRING:
		p.advance()
		return p.stringExpr(tok)
	case tok.Keyword == scadlexer.KwTrue:
		p.advance()
		return &scadast.BooleanExpr{Base: scadast.Base{R: tok.Range}, Value: true}, nil
	case tok.Keyword == scadlexer.KwFalse:
		p.advance()
		return &scadast.BooleanExpr{Base: scadast.Base{R: tok.Range}, Value: false}, nil
	case tok.Keyword == scadlexer.KwUndef:
		p.advance()
		return &scadast.UndefinedExpr{Base: scadast.Base{R: tok.Range}}, nil
	case tok.Keyword == scadlexer.KwLet:
		return p.parseLet()
	case tok.Type == scadlexer.WORD:
		return p.identifierExpr(tok)
	case tok.Type == scadlexer.LPAREN:
		return p.parenExpr()
	case tok.Type == scadlexer.LBRACKET:
		return p.bracketExpr()
	default:
		return nil, p.unexpected("an expression")
	}
}

func (p *parser) numberExpr(tok scadlexer.Token) (scadast.Expr, error) {
	v, err := strconv.ParseFloat(tok.Text, 64)
	if err != nil {
		return nil, &diag.Error{Kind: diag.LexerInvalidNumber, Message: "invalid number " + tok.Text, Range: tok.Range}
	}

	return &scadast.NumberExpr{Base: scadast.Base{R: tok.Range}, Value: v}, nil
}

func (p *parser) stringExpr(tok scadlexer.Token) (scadast.Expr, error) {
	raw := tok.Text[1 : len(tok.Text)-1]

	var b strings.Builder

	for i := 0; i < len(raw); i++ {
		if raw[i] == '\\' && i+1 < len(raw) {
			i++

			switch raw[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(raw[i])
			}

			continue
		}

		b.WriteByte(raw[i])
	}

	return &scadast.StringExpr{Base: scadast.Base{R: tok.Range}, Value: b.String()}, nil
}

// identifierExpr returns a bare name reference; a trailing "(args)" is
// recognized by parsePostfix's call-application step, not here, so that
// the lexer's synthetic-parens-wrapped identifiers (§4.C) and plain
// identifiers are handled by the same path.
func (p *parser) identifierExpr(tok scadlexer.Token) (scadast.Expr, error) {
	p.advance()
	p.synthParen = false

	return &scadast.IdentifierExpr{Base: scadast.Base{R: tok.Range}, Name: tok.Text}, nil
}

func (p *parser) parenExpr() (scadast.Expr, error) {
	open, err := p.expect(scadlexer.LPAREN)
	if err != nil {
		return nil, err
	}

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	closeTok, err := p.expect(scadlexer.RPAREN)
	if err != nil {
		return nil, err
	}

	_, isIdent := expr.(*scadast.IdentifierExpr)
	p.synthParen = open.Synthetic && closeTok.Synthetic && isIdent

	return expr, nil
}

// bracketExpr parses `[e1, e2, ...]` as a vector, or `[lo:hi]`/`[lo:step:hi]`
// as a range.
func (p *parser) bracketExpr() (scadast.Expr, error) {
	open, err := p.expect(scadlexer.LBRACKET)
	if err != nil {
		return nil, err
	}

	if p.at(scadlexer.RBRACKET) {
		closeTok := p.advance()
		return &scadast.VectorExpr{Base: scadast.Base{R: open.Range.Union(closeTok.Range)}}, nil
	}

	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if p.at(scadlexer.COLON) {
		return p.finishRange(open, first)
	}

	elems := []scadast.Expr{first}

	for p.at(scadlexer.COMMA) {
		p.advance()

		e, eErr := p.parseExpr()
		if eErr != nil {
			return nil, eErr
		}

		elems = append(elems, e)
	}

	closeTok, err := p.expect(scadlexer.RBRACKET)
	if err != nil {
		return nil, err
	}

	return &scadast.VectorExpr{Base: scadast.Base{R: open.Range.Union(closeTok.Range)}, Elems: elems}, nil
}

func (p *parser) finishRange(open scadlexer.Token, from scadast.Expr) (scadast.Expr, error) {
	if _, err := p.expect(scadlexer.COLON); err != nil {
		return nil, err
	}

	second, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	rng := &scadast.RangeExpr{From: from}

	if p.at(scadlexer.COLON) {
		p.advance()

		third, tErr := p.parseExpr()
		if tErr != nil {
			return nil, tErr
		}

		rng.Step = second
		rng.To = third
	} else {
		rng.To = second
	}

	closeTok, err := p.expect(scadlexer.RBRACKET)
	if err != nil {
		return nil, err
	}

	rng.R = open.Range.Union(closeTok.Range)

	return rng, nil
}
