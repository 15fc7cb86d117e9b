package parser

import (
	"strconv"
	"strings"

	"github.com/3065190005/Zelo/pkg/ast"
	"github.com/3065190005/Zelo/pkg/token"
	"github.com/3065190005/Zelo/pkg/zerr"
)

var assignOps = map[token.Kind]string{
	token.ASSIGN:           "=",
	token.PLUS_ASSIGN:      "+=",
	token.MINUS_ASSIGN:     "-=",
	token.MULTIPLY_ASSIGN:  "*=",
	token.DIVIDE_ASSIGN:    "/=",
	token.MODULO_ASSIGN:    "%=",
	token.BIT_AND_ASSIGN:   "&=",
	token.BIT_OR_ASSIGN:    "|=",
	token.BIT_XOR_ASSIGN:   "^=",
	token.LSHIFT_ASSIGN:    "<<=",
	token.RSHIFT_ASSIGN:    ">>=",
}

func (p *Parser) expression() ast.Expr {
	return p.assignment()
}

// assignment is right-associative: `a = b = c` parses as `a = (b = c)`.
func (p *Parser) assignment() ast.Expr {
	expr := p.ternary()

	for kind, op := range assignOps {
		if p.check(kind) {
			pos := p.pos()
			p.advance()
			target := p.toAssignmentTarget(expr)
			value := p.assignment()
			return ast.NewAssign(target, op, value, pos)
		}
	}
	return expr
}

// toAssignmentTarget validates that expr is a legal assignment
// left-hand side: identifier, member, or index.
func (p *Parser) toAssignmentTarget(expr ast.Expr) ast.Expr {
	switch expr.(type) {
	case *ast.Identifier, *ast.Member, *ast.Index:
		return expr
	default:
		panic(zerr.New(zerr.InvalidSyntax, expr.Position().Line, "invalid assignment target"))
	}
}

func (p *Parser) ternary() ast.Expr {
	expr := p.logicalOr()

	if p.match(token.QUESTION) {
		pos := p.pos()
		thenExpr := p.expression()
		p.consume(token.COLON, "Expect ':' after ternary then expression.")
		elseExpr := p.ternary()
		return ast.NewConditional(expr, thenExpr, elseExpr, pos)
	}
	return expr
}

func (p *Parser) logicalOr() ast.Expr {
	expr := p.logicalAnd()
	for p.match(token.OR) {
		pos := p.pos()
		right := p.logicalAnd()
		expr = ast.NewBinary("||", expr, right, pos)
	}
	return expr
}

func (p *Parser) logicalAnd() ast.Expr {
	expr := p.equality()
	for p.match(token.AND) {
		pos := p.pos()
		right := p.equality()
		expr = ast.NewBinary("&&", expr, right, pos)
	}
	return expr
}

func (p *Parser) equality() ast.Expr {
	expr := p.comparison()
	for p.match(token.EQUAL, token.NOT_EQUAL) {
		op := p.previous()
		right := p.comparison()
		expr = ast.NewBinary(op.Lexeme, expr, right, ast.Pos{Line: op.Line, Column: op.Column})
	}
	return expr
}

func (p *Parser) comparison() ast.Expr {
	expr := p.additive()
	for p.match(token.LESS, token.LESS_EQUAL, token.GREATER, token.GREATER_EQUAL) {
		op := p.previous()
		right := p.additive()
		expr = ast.NewBinary(op.Lexeme, expr, right, ast.Pos{Line: op.Line, Column: op.Column})
	}
	return expr
}

func (p *Parser) additive() ast.Expr {
	expr := p.multiplicative()
	for p.match(token.PLUS, token.MINUS) {
		op := p.previous()
		right := p.multiplicative()
		expr = ast.NewBinary(op.Lexeme, expr, right, ast.Pos{Line: op.Line, Column: op.Column})
	}
	return expr
}

func (p *Parser) multiplicative() ast.Expr {
	expr := p.unary()
	for p.match(token.MULTIPLY, token.DIVIDE, token.MODULO) {
		op := p.previous()
		right := p.unary()
		expr = ast.NewBinary(op.Lexeme, expr, right, ast.Pos{Line: op.Line, Column: op.Column})
	}
	return expr
}

func (p *Parser) unary() ast.Expr {
	if p.match(token.NOT, token.MINUS, token.BIT_NOT, token.INCREMENT, token.DECREMENT) {
		op := p.previous()
		right := p.unary()
		return ast.NewUnary(op.Lexeme, right, ast.Pos{Line: op.Line, Column: op.Column})
	}
	return p.call()
}

// call parses the postfix chain on a primary: (args), .name, [expr],
// and [start:stop:step] — the slice form is detected by a ':' before
// the closing ']'.
func (p *Parser) call() ast.Expr {
	expr := p.primary()

	for {
		switch {
		case p.match(token.LPAREN):
			pos := p.pos()
			var args []ast.Expr
			if !p.check(token.RPAREN) {
				for {
					args = append(args, p.expression())
					if !p.match(token.COMMA) {
						break
					}
				}
			}
			p.consume(token.RPAREN, "Expect ')' after arguments.")
			expr = ast.NewCall(expr, args, pos)
		case p.match(token.DOT):
			pos := p.pos()
			name := p.consume(token.IDENTIFIER, "Expect property name after '.'.")
			expr = ast.NewMember(expr, name.Lexeme, pos)
		case p.match(token.AS):
			pos := p.pos()
			t := p.typeAnnotation()
			expr = ast.NewCast(expr, t, pos)
		case p.match(token.LBRACKET):
			pos := p.pos()
			var index ast.Expr
			if !p.check(token.COLON) {
				index = p.expression()
			}

			if p.match(token.COLON) {
				var stop, step ast.Expr
				if !p.check(token.COLON) && !p.check(token.RBRACKET) {
					stop = p.expression()
				}
				if p.match(token.COLON) {
					if !p.check(token.RBRACKET) {
						step = p.expression()
					}
				}
				p.consume(token.RBRACKET, "Expect ']' after slice.")
				expr = ast.NewSlice(expr, index, stop, step, pos)
			} else {
				p.consume(token.RBRACKET, "Expect ']' after index.")
				expr = ast.NewIndex(expr, index, pos)
			}
		default:
			return expr
		}
	}
}

func (p *Parser) primary() ast.Expr {
	pos := p.pos()

	switch {
	case p.match(token.FALSE):
		return ast.NewLiteralBool(false, pos)
	case p.match(token.TRUE):
		return ast.NewLiteralBool(true, pos)
	case p.match(token.NULL_KEYWORD):
		return ast.NewLiteralNull(pos)
	case p.match(token.NUMBER):
		return parseNumberLiteral(p.previous().Lexeme, pos)
	case p.match(token.STRING):
		return ast.NewLiteralString(p.previous().Lexeme, pos)
	case p.match(token.IDENTIFIER):
		return ast.NewIdentifier(p.previous().Lexeme, pos)
	case p.match(token.THIS):
		return ast.NewIdentifier("this", pos)
	case p.match(token.SUPER):
		return ast.NewIdentifier("super", pos)
	case p.match(token.REQUIRE, token.INCLUDE):
		return ast.NewIdentifier(p.previous().Lexeme, pos)
	case p.match(token.LPAREN):
		return p.grouping()
	case p.match(token.LBRACKET):
		return p.arrayLiteral(pos)
	case p.match(token.LBRACE):
		return p.dictLiteral(pos)
	}

	panic(zerr.New(zerr.UnexpectedToken, p.peek().Line, "expect expression"))
}

func (p *Parser) grouping() ast.Expr {
	expr := p.expression()
	p.consume(token.RPAREN, "Expect ')' after expression.")
	return expr
}

func (p *Parser) arrayLiteral(pos ast.Pos) ast.Expr {
	var elements []ast.Expr
	if !p.check(token.RBRACKET) {
		for {
			elements = append(elements, p.expression())
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RBRACKET, "Expect ']' after array elements.")
	return ast.NewArray(elements, pos)
}

func (p *Parser) dictLiteral(pos ast.Pos) ast.Expr {
	var entries []ast.DictEntry
	if !p.check(token.RBRACE) {
		for {
			key := p.expression()
			p.consume(token.COLON, "Expect ':' after key.")
			value := p.expression()
			entries = append(entries, ast.DictEntry{Key: key, Value: value})
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RBRACE, "Expect '}' after dictionary entries.")
	return ast.NewDict(entries, pos)
}

// parseNumberLiteral decides int vs float from the lexeme shape: a
// base prefix (0x/0b/0o) or an all-digit run is int; a '.' or
// exponent marker makes it float.
func parseNumberLiteral(lexeme string, pos ast.Pos) ast.Expr {
	lower := strings.ToLower(lexeme)
	switch {
	case strings.HasPrefix(lower, "0x"):
		v, err := strconv.ParseInt(lower[2:], 16, 64)
		if err != nil {
			panic(zerr.Newf(zerr.InvalidSyntax, pos.Line, "invalid hex literal %q", lexeme))
		}
		return ast.NewLiteralInt(v, pos)
	case strings.HasPrefix(lower, "0b"):
		v, err := strconv.ParseInt(lower[2:], 2, 64)
		if err != nil {
			panic(zerr.Newf(zerr.InvalidSyntax, pos.Line, "invalid binary literal %q", lexeme))
		}
		return ast.NewLiteralInt(v, pos)
	case strings.HasPrefix(lower, "0o"):
		v, err := strconv.ParseInt(lower[2:], 8, 64)
		if err != nil {
			panic(zerr.Newf(zerr.InvalidSyntax, pos.Line, "invalid octal literal %q", lexeme))
		}
		return ast.NewLiteralInt(v, pos)
	case strings.ContainsAny(lexeme, ".eE"):
		v, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			panic(zerr.Newf(zerr.InvalidSyntax, pos.Line, "invalid float literal %q", lexeme))
		}
		return ast.NewLiteralFloat(v, pos)
	default:
		v, err := strconv.ParseInt(lexeme, 10, 64)
		if err != nil {
			panic(zerr.Newf(zerr.InvalidSyntax, pos.Line, "invalid integer literal %q", lexeme))
		}
		return ast.NewLiteralInt(v, pos)
	}
}
