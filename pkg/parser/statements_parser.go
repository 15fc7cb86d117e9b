package parser

import (
	"github.com/3065190005/Zelo/pkg/ast"
	"github.com/3065190005/Zelo/pkg/token"
)

func (p *Parser) statement() ast.Stmt {
	switch {
	case p.match(token.IF):
		return p.ifStatement()
	case p.match(token.WHILE):
		return p.whileStatement()
	case p.match(token.FOR):
		return p.forStatement()
	case p.match(token.RETURN):
		return p.returnStatement()
	case p.match(token.BREAK):
		return p.breakStatement()
	case p.match(token.CONTINUE):
		return p.continueStatement()
	case p.match(token.TRY):
		return p.tryCatchStatement()
	case p.match(token.THROW):
		return p.throwStatement()
	case p.check(token.LBRACE):
		return p.blockStatement()
	}
	return p.expressionStatement()
}

func (p *Parser) ifStatement() ast.Stmt {
	pos := p.pos()
	condition := p.expression()
	p.consume(token.THEN, "Expect 'then' after if condition.")

	thenBranch := p.statement()
	var elseBranch ast.Stmt

	if p.match(token.ELIF) {
		elseBranch = p.ifStatement()
	} else if p.match(token.ELSE) {
		elseBranch = p.statement()
	}

	return ast.NewIf(condition, thenBranch, elseBranch, pos)
}

func (p *Parser) whileStatement() ast.Stmt {
	pos := p.pos()
	condition := p.expression()
	body := p.statement()
	return ast.NewWhile(condition, body, pos)
}

func (p *Parser) forStatement() ast.Stmt {
	pos := p.pos()
	p.consume(token.LPAREN, "Expect '(' after 'for'.")

	variable := p.consume(token.IDENTIFIER, "Expect variable name after 'for'.")
	p.consume(token.IN, "Expect 'in' after variable name.")

	iterable := p.expression()
	p.consume(token.RPAREN, "Expect ')' after for clauses.")

	body := p.statement()
	return ast.NewFor(variable.Lexeme, iterable, body, pos)
}

func (p *Parser) returnStatement() ast.Stmt {
	pos := p.pos()
	var value ast.Expr
	if !p.check(token.SEMICOLON) {
		value = p.expression()
	}
	p.consume(token.SEMICOLON, "Expect ';' after return value.")
	return ast.NewReturn(value, pos)
}

func (p *Parser) breakStatement() ast.Stmt {
	pos := p.pos()
	p.consume(token.SEMICOLON, "Expect ';' after 'break'.")
	return ast.NewBreak(pos)
}

func (p *Parser) continueStatement() ast.Stmt {
	pos := p.pos()
	p.consume(token.SEMICOLON, "Expect ';' after 'continue'.")
	return ast.NewContinue(pos)
}

func (p *Parser) tryCatchStatement() ast.Stmt {
	pos := p.pos()
	tryBlock := p.blockStatement()
	p.consume(token.CATCH, "Expect 'catch' after try block.")

	p.consume(token.LPAREN, "Expect '(' after 'catch'.")
	catchVar := p.consume(token.IDENTIFIER, "Expect variable name in catch clause.")

	var catchType *ast.TypeAnnotation
	if p.match(token.COLON) {
		catchType = p.typeAnnotation()
	}

	p.consume(token.RPAREN, "Expect ')' after catch variable.")
	catchBlock := p.blockStatement()

	return ast.NewTryCatch(tryBlock, catchVar.Lexeme, catchType, catchBlock, pos)
}

func (p *Parser) throwStatement() ast.Stmt {
	pos := p.pos()
	expr := p.expression()
	p.consume(token.SEMICOLON, "Expect ';' after throw expression.")
	return ast.NewThrow(expr, pos)
}

func (p *Parser) expressionStatement() ast.Stmt {
	pos := p.pos()
	expr := p.expression()
	p.consume(token.SEMICOLON, "Expect ';' after expression.")
	return ast.NewExprStmt(expr, pos)
}

func (p *Parser) blockStatement() *ast.Block {
	pos := p.pos()
	p.consume(token.LBRACE, "Expect '{' before block.")

	var statements []ast.Stmt
	for !p.check(token.RBRACE) && !p.atEnd() {
		stmt := p.declaration()
		if stmt != nil {
			statements = append(statements, stmt)
		}
	}

	p.consume(token.RBRACE, "Expect '}' after block.")
	return ast.NewBlock(statements, pos)
}
