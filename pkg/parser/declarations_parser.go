package parser

import (
	"github.com/3065190005/Zelo/pkg/ast"
	"github.com/3065190005/Zelo/pkg/token"
	"github.com/3065190005/Zelo/pkg/zerr"
)

func (p *Parser) varDeclaration() ast.Stmt {
	pos := p.pos()
	isConst := p.previous().Kind == token.CONST
	name := p.consume(token.IDENTIFIER, "Expect variable name.")

	var typeAnn *ast.TypeAnnotation
	if p.match(token.COLON) {
		typeAnn = p.typeAnnotation()
	}

	var init ast.Expr
	if p.match(token.ASSIGN) {
		init = p.expression()
	}

	p.consume(token.SEMICOLON, "Expect ';' after variable declaration.")
	return ast.NewVarDecl(name.Lexeme, typeAnn, init, isConst, pos)
}

func (p *Parser) functionDeclaration() *ast.FunctionDecl {
	pos := p.pos()
	name := p.consume(token.IDENTIFIER, "Expect function name.")
	p.consume(token.LPAREN, "Expect '(' after function name.")

	var params []ast.Param
	if !p.check(token.RPAREN) {
		for {
			paramName := p.consume(token.IDENTIFIER, "Expect parameter name.")
			var paramType *ast.TypeAnnotation
			if p.match(token.COLON) {
				paramType = p.typeAnnotation()
			}
			params = append(params, ast.Param{Name: paramName.Lexeme, Type: paramType})
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RPAREN, "Expect ')' after parameters.")

	var returnType *ast.TypeAnnotation
	if p.match(token.COLON) {
		returnType = p.typeAnnotation()
	}

	body := p.blockStatement()
	return ast.NewFunctionDecl(name.Lexeme, params, returnType, body, pos)
}

func (p *Parser) classDeclaration() ast.Stmt {
	pos := p.pos()
	name := p.consume(token.IDENTIFIER, "Expect class name.")

	superclass := ""
	if p.match(token.COLON) {
		superclass = p.consume(token.IDENTIFIER, "Expect superclass name.").Lexeme
	}

	p.consume(token.LBRACE, "Expect '{' before class body.")

	var methods []*ast.FunctionDecl
	for !p.check(token.RBRACE) && !p.atEnd() {
		p.consume(token.FUNC, "Expect 'func' before method declaration.")
		methods = append(methods, p.functionDeclaration())
	}

	p.consume(token.RBRACE, "Expect '}' after class body.")
	return ast.NewClassDecl(name.Lexeme, superclass, methods, pos)
}

func (p *Parser) importStatement() ast.Stmt {
	pos := p.pos()
	var path string
	var selectors []string
	alias := ""

	if p.match(token.LBRACE) {
		for {
			selectors = append(selectors, p.consume(token.IDENTIFIER, "Expect identifier in import list.").Lexeme)
			if !p.match(token.COMMA) {
				break
			}
		}
		p.consume(token.RBRACE, "Expect '}' after import list.")
		p.consume(token.FROM, "Expect 'from' after import list.")
		path = p.consume(token.STRING, "Expect module name string.").Lexeme

		if p.match(token.AS) {
			alias = p.consume(token.IDENTIFIER, "Expect alias name after 'as'.").Lexeme
		}
	} else {
		path = p.consume(token.STRING, "Expect module name string.").Lexeme
		if p.match(token.AS) {
			alias = p.consume(token.IDENTIFIER, "Expect alias name after 'as'.").Lexeme
		}
	}

	p.consume(token.SEMICOLON, "Expect ';' after import statement.")
	return ast.NewImport(path, selectors, alias, pos)
}

func (p *Parser) exportStatement() ast.Stmt {
	pos := p.pos()
	var names []string

	if p.match(token.LBRACE) {
		for {
			names = append(names, p.consume(token.IDENTIFIER, "Expect identifier in export list.").Lexeme)
			if !p.match(token.COMMA) {
				break
			}
		}
		p.consume(token.RBRACE, "Expect '}' after export list.")
	} else {
		decl := p.declaration()
		switch d := decl.(type) {
		case *ast.FunctionDecl:
			names = append(names, d.Name)
		case *ast.ClassDecl:
			names = append(names, d.Name)
		case *ast.VarDecl:
			names = append(names, d.Name)
		default:
			panic(zerr.New(zerr.InvalidSyntax, pos.Line, "only functions, classes and variables can be exported"))
		}
		return ast.NewExport(names, pos)
	}

	p.consume(token.SEMICOLON, "Expect ';' after export statement.")
	return ast.NewExport(names, pos)
}

func (p *Parser) namespaceDeclaration() ast.Stmt {
	pos := p.pos()
	name := p.consume(token.IDENTIFIER, "Expect namespace name.")
	p.consume(token.LBRACE, "Expect '{' before namespace body.")

	var body []ast.Stmt
	for !p.check(token.RBRACE) && !p.atEnd() {
		stmt := p.declaration()
		if stmt != nil {
			body = append(body, stmt)
		}
	}

	p.consume(token.RBRACE, "Expect '}' after namespace body.")
	return ast.NewNamespace(name.Lexeme, body, pos)
}

// typeAnnotation parses `T`, `T1|T2|...`, `array[T]`, or `dict{KT:VT}`.
func (p *Parser) typeAnnotation() *ast.TypeAnnotation {
	t := &ast.TypeAnnotation{}
	hasTypes := false

	for {
		matched := true
		switch {
		case p.match(token.TYPE_INT):
			t.BasicKinds = append(t.BasicKinds, ast.TypeInt)
		case p.match(token.TYPE_FLOAT):
			t.BasicKinds = append(t.BasicKinds, ast.TypeFloat)
		case p.match(token.TYPE_BOOL):
			t.BasicKinds = append(t.BasicKinds, ast.TypeBool)
		case p.match(token.TYPE_STRING):
			t.BasicKinds = append(t.BasicKinds, ast.TypeString)
		case p.match(token.TYPE_ARRAY):
			if t.IsArray || t.IsDict {
				panic(zerr.New(zerr.InvalidArrayType, p.peek().Line, "type cannot be both array and dict"))
			}
			t.IsArray = true
			p.consume(token.LBRACKET, "Expect '[' after 'array'.")
			t.Element = p.typeAnnotation()
			p.consume(token.RBRACKET, "Expect ']' after array type.")
		case p.match(token.TYPE_DICT):
			if t.IsArray || t.IsDict {
				panic(zerr.New(zerr.InvalidDictType, p.peek().Line, "type cannot be both array and dict"))
			}
			t.IsDict = true
			p.consume(token.LBRACE, "Expect '{' after 'dict'.")
			t.Key = p.typeAnnotation()
			p.consume(token.COLON, "Expect ':' after key type.")
			t.Element = p.typeAnnotation()
			p.consume(token.RBRACE, "Expect '}' after dict type.")
		case p.match(token.ELLIPSIS):
			// ELLIPSIS denotes "any"; no basic kind recorded.
		default:
			matched = false
		}
		if !matched {
			break
		}
		hasTypes = true
		if !p.match(token.BIT_OR) { // PIPE is lexed as BIT_OR in union-type position
			break
		}
	}
	if !hasTypes {
		panic(zerr.New(zerr.InvalidTypeAnnotation, p.peek().Line, "expect type annotation"))
	}
	if t.IsArray && t.Element == nil {
		panic(zerr.New(zerr.InvalidArrayType, p.peek().Line, "array type must have element type"))
	}
	if t.IsDict && (t.Key == nil || t.Element == nil) {
		panic(zerr.New(zerr.InvalidDictType, p.peek().Line, "dict type must have key and value types"))
	}
	if t.IsDict && t.Key != nil && !t.Key.IsAny() {
		valid := false
		for _, k := range t.Key.BasicKinds {
			if k == ast.TypeString || k == ast.TypeInt || k == ast.TypeFloat || k == ast.TypeBool {
				valid = true
				break
			}
		}
		if !valid {
			panic(zerr.New(zerr.InvalidDictType, p.peek().Line, "dictionary key must be a basic type (string, int, float, bool)"))
		}
	}
	return t
}
