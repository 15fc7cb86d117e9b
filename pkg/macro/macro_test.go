package macro

import (
	"testing"

	"github.com/3065190005/Zelo/pkg/lexer"
	"github.com/3065190005/Zelo/pkg/token"
)

func lexemes(tokens []token.Token) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Lexeme
	}
	return out
}

func TestExpandFunctionLikeMacro(t *testing.T) {
	tokens := lexer.New("macro SQR(x) x * x; loc y = SQR(3);").Tokenize()
	expanded, err := New().Process(tokens)
	if err != nil {
		t.Fatalf("Process() returned error: %v", err)
	}
	got := lexemes(expanded)
	want := []string{"loc", "y", "=", "3", "*", "3", ";", ""}
	if len(got) != len(want) {
		t.Fatalf("Process() = %v, want %v", got, want)
	}
	for i := range want[:len(want)-1] {
		if got[i] != want[i] {
			t.Fatalf("token %d = %q, want %q (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestExpandObjectLikeMacro(t *testing.T) {
	tokens := lexer.New("macro MAX_SIZE 100; loc cap = MAX_SIZE;").Tokenize()
	expanded, err := New().Process(tokens)
	if err != nil {
		t.Fatalf("Process() returned error: %v", err)
	}
	got := lexemes(expanded)
	want := []string{"loc", "cap", "=", "100", ";"}
	if len(got) != len(want)+1 { // plus trailing END_OF_FILE lexeme ""
		t.Fatalf("Process() = %v, want %v plus EOF", got, want)
	}
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("token %d = %q, want %q (full: %v)", i, got[i], w, got)
		}
	}
}

func TestMacroDefinitionRemovedFromOutput(t *testing.T) {
	tokens := lexer.New("macro UNUSED(x) x; loc z = 1;").Tokenize()
	expanded, err := New().Process(tokens)
	if err != nil {
		t.Fatalf("Process() returned error: %v", err)
	}
	for _, tok := range expanded {
		if tok.Lexeme == "UNUSED" {
			t.Fatalf("Process() left the macro definition's name in the output: %v", expanded)
		}
	}
}

func TestUndefinedMacroNameIsNotExpanded(t *testing.T) {
	tokens := lexer.New("loc w = NOT_A_MACRO;").Tokenize()
	expanded, err := New().Process(tokens)
	if err != nil {
		t.Fatalf("Process() returned error: %v", err)
	}
	if lexemes(expanded)[3] != "NOT_A_MACRO" {
		t.Fatalf("Process() altered a plain identifier: %v", expanded)
	}
}
