// Package macro implements component B of the pipeline: a one-pass
// textual macro expander that rewrites the lexer's token stream
// before the parser ever sees it. Expansion does not rescan its own
// output, so macros invoking other macros textually are not
// supported — see Expander.Process.
package macro

import (
	"github.com/3065190005/Zelo/pkg/token"
	"github.com/3065190005/Zelo/pkg/zerr"
)

// Definition holds the parameter list and body of one macro. An
// object-like macro (no parens after the name) has a nil Parameters
// slice and ignores argument count checks.
type Definition struct {
	Parameters    []string
	Body          []token.Token
	IsFunctionLike bool
}

// Expander accumulates macro definitions and expands invocations.
type Expander struct {
	macros map[string]Definition
}

func New() *Expander {
	return &Expander{macros: make(map[string]Definition)}
}

func (e *Expander) Define(name string, params []string, body []token.Token, functionLike bool) {
	e.macros[name] = Definition{Parameters: params, Body: body, IsFunctionLike: functionLike}
}

func (e *Expander) IsDefined(name string) bool {
	_, ok := e.macros[name]
	return ok
}

// Process scans tokens left to right, removing `macro NAME(...) body ;`
// definitions and replacing invocations with their expansion. The
// result is never rescanned, matching the one-pass contract.
func (e *Expander) Process(tokens []token.Token) ([]token.Token, error) {
	result := make([]token.Token, 0, len(tokens))

	for i := 0; i < len(tokens); {
		tok := tokens[i]
		switch {
		case tok.Kind == token.MACRO:
			advanced, err := e.consumeDefinition(tokens, i)
			if err != nil {
				return nil, err
			}
			i = advanced
		case tok.Kind == token.IDENTIFIER && e.IsDefined(tok.Lexeme):
			expanded, advanced, err := e.expandInvocation(tokens, i)
			if err != nil {
				return nil, err
			}
			result = append(result, expanded...)
			i = advanced
		default:
			result = append(result, tok)
			i++
		}
	}
	return result, nil
}

func (e *Expander) consumeDefinition(tokens []token.Token, i int) (int, error) {
	line := tokens[i].Line
	i++ // past 'macro'
	if i >= len(tokens) || tokens[i].Kind != token.IDENTIFIER {
		return 0, zerr.New(zerr.MacroError, line, "expected macro name after 'macro'")
	}
	name := tokens[i].Lexeme
	i++

	var params []string
	functionLike := false
	if i < len(tokens) && tokens[i].Kind == token.LPAREN {
		functionLike = true
		i++
		for i < len(tokens) && tokens[i].Kind != token.RPAREN {
			switch tokens[i].Kind {
			case token.IDENTIFIER:
				params = append(params, tokens[i].Lexeme)
			case token.COMMA:
				// skip
			default:
				return 0, zerr.New(zerr.MacroError, line, "expected identifier in macro parameter list")
			}
			i++
		}
		if i >= len(tokens) || tokens[i].Kind != token.RPAREN {
			return 0, zerr.New(zerr.MacroError, line, "expected ')' after macro parameters")
		}
		i++
	}

	var body []token.Token
	for i < len(tokens) && tokens[i].Kind != token.SEMICOLON {
		body = append(body, tokens[i])
		i++
	}
	if i < len(tokens) {
		i++ // consume terminating ';'
	}

	e.Define(name, params, body, functionLike)
	return i, nil
}

func (e *Expander) expandInvocation(tokens []token.Token, i int) ([]token.Token, int, error) {
	name := tokens[i].Lexeme
	line := tokens[i].Line
	i++

	var args [][]token.Token
	if i < len(tokens) && tokens[i].Kind == token.LPAREN {
		i++
		var parsed [][]token.Token
		parsed, i = parseArguments(tokens, i)
		args = parsed
		if i >= len(tokens) || tokens[i].Kind != token.RPAREN {
			return nil, 0, zerr.New(zerr.MacroError, line, "expected ')' after macro arguments")
		}
		i++
	}

	expanded, err := e.expand(name, args, line)
	if err != nil {
		return nil, 0, err
	}
	return expanded, i, nil
}

// parseArguments splits a comma-separated token run into argument
// runs, treating commas nested inside (), {}, or [] as part of the
// current argument rather than a separator.
func parseArguments(tokens []token.Token, i int) ([][]token.Token, int) {
	var args [][]token.Token
	var current []token.Token
	parenLevel, braceLevel, bracketLevel := 0, 0, 0

	for i < len(tokens) {
		tok := tokens[i]
		switch tok.Kind {
		case token.LPAREN:
			parenLevel++
		case token.RPAREN:
			if parenLevel == 0 {
				goto done
			}
			parenLevel--
		case token.LBRACE:
			braceLevel++
		case token.RBRACE:
			braceLevel--
		case token.LBRACKET:
			bracketLevel++
		case token.RBRACKET:
			bracketLevel--
		case token.COMMA:
			if parenLevel == 0 && braceLevel == 0 && bracketLevel == 0 {
				if len(current) > 0 {
					args = append(args, current)
					current = nil
				}
				i++
				continue
			}
		}
		current = append(current, tok)
		i++
	}
done:
	if len(current) > 0 {
		args = append(args, current)
	}
	return args, i
}

func (e *Expander) expand(name string, args [][]token.Token, line int) ([]token.Token, error) {
	def, ok := e.macros[name]
	if !ok {
		return nil, zerr.Newf(zerr.MacroNotDefined, line, "macro %q is not defined", name)
	}
	if def.IsFunctionLike && len(def.Parameters) != len(args) {
		return nil, zerr.Newf(zerr.MacroArgumentMismatch, line,
			"macro %q expects %d argument(s), got %d", name, len(def.Parameters), len(args))
	}
	return substitute(def.Body, def.Parameters, args), nil
}

// substitute replaces parameter identifiers in body with the
// corresponding argument token run, inserted verbatim with no
// re-parenthesisation.
func substitute(body []token.Token, params []string, args [][]token.Token) []token.Token {
	result := make([]token.Token, 0, len(body))
	for _, tok := range body {
		if tok.Kind == token.IDENTIFIER {
			if idx := indexOf(params, tok.Lexeme); idx >= 0 && idx < len(args) {
				result = append(result, args[idx]...)
				continue
			}
		}
		result = append(result, tok)
	}
	return result
}

func indexOf(haystack []string, needle string) int {
	for i, s := range haystack {
		if s == needle {
			return i
		}
	}
	return -1
}
