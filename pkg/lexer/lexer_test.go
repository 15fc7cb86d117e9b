package lexer

import (
	"testing"

	"github.com/3065190005/Zelo/pkg/token"
)

func kinds(tokens []token.Token) []token.Kind {
	out := make([]token.Kind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func TestTokenizeArithmetic(t *testing.T) {
	tokens := New("1 + 2 * 3").Tokenize()
	want := []token.Kind{token.NUMBER, token.PLUS, token.NUMBER, token.MULTIPLY, token.NUMBER, token.END_OF_FILE}
	got := kinds(tokens)
	if len(got) != len(want) {
		t.Fatalf("Tokenize() returned %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i, k := range want {
		if got[i] != k {
			t.Fatalf("token %d = %s, want %s", i, got[i], k)
		}
	}
}

func TestTokenizeKeywordsAndIdentifiers(t *testing.T) {
	tokens := New("loc x = func").Tokenize()
	want := []token.Kind{token.LOC, token.IDENTIFIER, token.ASSIGN, token.FUNC, token.END_OF_FILE}
	got := kinds(tokens)
	if len(got) != len(want) {
		t.Fatalf("Tokenize() returned %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i, k := range want {
		if got[i] != k {
			t.Fatalf("token %d = %s, want %s", i, got[i], k)
		}
	}
	if tokens[1].Lexeme != "x" {
		t.Fatalf("identifier lexeme = %q, want %q", tokens[1].Lexeme, "x")
	}
}

func TestTokenizeStringLiteral(t *testing.T) {
	tokens := New(`"hello\nworld"`).Tokenize()
	if tokens[0].Kind != token.STRING {
		t.Fatalf("first token kind = %s, want STRING", tokens[0].Kind)
	}
	if tokens[0].Lexeme != "hello\nworld" {
		t.Fatalf("string lexeme = %q, want %q (escape not decoded)", tokens[0].Lexeme, "hello\nworld")
	}
}

func TestTokenizeLineComment(t *testing.T) {
	tokens := New("1 // comment\n2").Tokenize()
	got := kinds(tokens)
	want := []token.Kind{token.NUMBER, token.NUMBER, token.END_OF_FILE}
	if len(got) != len(want) {
		t.Fatalf("Tokenize() with comment returned %v, want %v", got, want)
	}
}

func TestTokenizeBlockComment(t *testing.T) {
	tokens := New("1 /* skip\nthis */ 2").Tokenize()
	got := kinds(tokens)
	want := []token.Kind{token.NUMBER, token.NUMBER, token.END_OF_FILE}
	if len(got) != len(want) {
		t.Fatalf("Tokenize() with block comment returned %v, want %v", got, want)
	}
}

func TestTokenizeCompoundOperators(t *testing.T) {
	tokens := New("a += 1 <= 2 == 3 && b").Tokenize()
	got := kinds(tokens)
	want := []token.Kind{
		token.IDENTIFIER, token.PLUS_ASSIGN, token.NUMBER,
		token.LESS_EQUAL, token.NUMBER, token.EQUAL, token.NUMBER,
		token.AND, token.IDENTIFIER, token.END_OF_FILE,
	}
	if len(got) != len(want) {
		t.Fatalf("Tokenize() returned %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i, k := range want {
		if got[i] != k {
			t.Fatalf("token %d = %s, want %s", i, got[i], k)
		}
	}
}

func TestTokenizeLineColumnTracking(t *testing.T) {
	tokens := New("a\nb").Tokenize()
	if tokens[0].Line != 1 {
		t.Fatalf("first token line = %d, want 1", tokens[0].Line)
	}
	if tokens[1].Line != 2 {
		t.Fatalf("second token line = %d, want 2", tokens[1].Line)
	}
}
