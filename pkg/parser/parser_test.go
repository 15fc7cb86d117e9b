package parser

import (
	"testing"

	"github.com/3065190005/Zelo/pkg/ast"
	"github.com/3065190005/Zelo/pkg/lexer"
)

func parse(t *testing.T, source string) []ast.Stmt {
	t.Helper()
	tokens := lexer.New(source).Tokenize()
	stmts, errs := New(tokens).Parse()
	if len(errs) > 0 {
		t.Fatalf("Parse(%q) returned errors: %v", source, errs)
	}
	return stmts
}

func TestParseVarDecl(t *testing.T) {
	stmts := parse(t, "loc x = 1 + 2;")
	if len(stmts) != 1 {
		t.Fatalf("Parse() returned %d statements, want 1", len(stmts))
	}
	decl, ok := stmts[0].(*ast.VarDecl)
	if !ok {
		t.Fatalf("statement = %T, want *ast.VarDecl", stmts[0])
	}
	if decl.Name != "x" {
		t.Fatalf("VarDecl.Name = %q, want %q", decl.Name, "x")
	}
	if decl.IsConst {
		t.Fatalf("VarDecl.IsConst = true for a loc declaration")
	}
	bin, ok := decl.Initializer.(*ast.Binary)
	if !ok {
		t.Fatalf("VarDecl.Initializer = %T, want *ast.Binary", decl.Initializer)
	}
	if bin.Op != "+" {
		t.Fatalf("Binary.Op = %q, want %q", bin.Op, "+")
	}
}

func TestParseConstDecl(t *testing.T) {
	stmts := parse(t, "const y = 5;")
	decl := stmts[0].(*ast.VarDecl)
	if !decl.IsConst {
		t.Fatalf("VarDecl.IsConst = false for a const declaration")
	}
}

func TestParseFunctionDeclaration(t *testing.T) {
	stmts := parse(t, "func add(a, b) { return a + b; }")
	fn, ok := stmts[0].(*ast.FunctionDecl)
	if !ok {
		t.Fatalf("statement = %T, want *ast.FunctionDecl", stmts[0])
	}
	if fn.Name != "add" {
		t.Fatalf("FunctionDecl.Name = %q, want %q", fn.Name, "add")
	}
	if len(fn.Params) != 2 {
		t.Fatalf("FunctionDecl.Params has %d entries, want 2", len(fn.Params))
	}
}

func TestParseIfElse(t *testing.T) {
	stmts := parse(t, "if x > 0 then { print(x); } else { print(0); }")
	ifStmt, ok := stmts[0].(*ast.If)
	if !ok {
		t.Fatalf("statement = %T, want *ast.If", stmts[0])
	}
	if ifStmt.Else == nil {
		t.Fatalf("If.Else = nil, want an else branch")
	}
}

func TestParseClassDeclaration(t *testing.T) {
	stmts := parse(t, `
		class Animal {
			func speak() { return "..."; }
		}
		class Dog : Animal {
			func speak() { return "woof"; }
		}
	`)
	if len(stmts) != 2 {
		t.Fatalf("Parse() returned %d statements, want 2", len(stmts))
	}
	dog, ok := stmts[1].(*ast.ClassDecl)
	if !ok {
		t.Fatalf("statement = %T, want *ast.ClassDecl", stmts[1])
	}
	if dog.Superclass != "Animal" {
		t.Fatalf("ClassDecl.Superclass = %q, want %q", dog.Superclass, "Animal")
	}
	if len(dog.Methods) != 1 {
		t.Fatalf("ClassDecl.Methods has %d entries, want 1", len(dog.Methods))
	}
}

func TestParseIndexAndSlice(t *testing.T) {
	stmts := parse(t, "loc a = arr[1];\nloc b = arr[1:3];")
	first := stmts[0].(*ast.VarDecl)
	if _, ok := first.Initializer.(*ast.Index); !ok {
		t.Fatalf("first Initializer = %T, want *ast.Index", first.Initializer)
	}
	second := stmts[1].(*ast.VarDecl)
	if _, ok := second.Initializer.(*ast.Slice); !ok {
		t.Fatalf("second Initializer = %T, want *ast.Slice", second.Initializer)
	}
}

func TestParseSyntaxErrorRecovers(t *testing.T) {
	tokens := lexer.New("loc = ; loc y = 1;").Tokenize()
	stmts, errs := New(tokens).Parse()
	if len(errs) == 0 {
		t.Fatalf("Parse() with malformed declaration returned no errors")
	}
	found := false
	for _, s := range stmts {
		if decl, ok := s.(*ast.VarDecl); ok && decl.Name == "y" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Parse() did not recover and parse the trailing valid declaration")
	}
}
