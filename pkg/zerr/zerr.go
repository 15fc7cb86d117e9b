// Package zerr defines the runtime error taxonomy shared by every
// stage of the pipeline: macro expander, parser, evaluator, and
// module loader all raise *zerr.Error values so a single code space
// can be reported at the CLI boundary. The lexer reports bad input as
// ERROR tokens instead, and the collector raises no errors.
package zerr

import "fmt"

// Code is a numeric error code. Ranges are authoritative and must not
// be renumbered: 100-199 syntax, 200-299 type, 300-399 runtime,
// 400-499 module, 500-599 macro, 600-699 internal, 700-799 GC.
type Code int

const (
	SyntaxError     Code = 100
	UnexpectedToken Code = 101
	MissingSemicolon Code = 102
	MissingParen    Code = 103
	MissingBrace    Code = 104
	MissingBracket  Code = 105
	InvalidSyntax   Code = 106

	TypeError             Code = 200
	TypeMismatch          Code = 201
	UndefinedVariable     Code = 202
	UndefinedProperty     Code = 203
	UndefinedFunction     Code = 204
	InvalidOperation      Code = 205
	InvalidTypeAnnotation Code = 206
	InvalidUnionType      Code = 207
	InvalidArrayType      Code = 208
	InvalidDictType       Code = 209

	RuntimeError           Code = 300
	DivisionByZero         Code = 301
	IndexOutOfBounds       Code = 302
	KeyNotFound            Code = 303
	StackOverflow          Code = 304
	OutOfMemory            Code = 305
	InvalidArgument        Code = 306
	InvalidReturn          Code = 307
	RecursionDepthExceeded Code = 308

	ModuleError      Code = 400
	ModuleNotFound   Code = 401
	ImportError      Code = 402
	ExportError      Code = 403
	CircularImport   Code = 404
	ModuleLoadError  Code = 405

	MacroError            Code = 500
	MacroNotDefined       Code = 501
	MacroArgumentMismatch Code = 502
	MacroRecursion        Code = 503
	MacroExpansionError   Code = 504

	InternalError Code = 600
	NotImplemented Code = 601
	CompilerError  Code = 602
	ParserError    Code = 603

	GCError                Code = 700
	GCMemoryLeak           Code = 701
	GCCycleDetectionFailed Code = 702
)

var names = map[Code]string{
	SyntaxError: "SYNTAX_ERROR", UnexpectedToken: "UNEXPECTED_TOKEN",
	MissingSemicolon: "MISSING_SEMICOLON", MissingParen: "MISSING_PAREN",
	MissingBrace: "MISSING_BRACE", MissingBracket: "MISSING_BRACKET",
	InvalidSyntax: "INVALID_SYNTAX",

	TypeError: "TYPE_ERROR", TypeMismatch: "TYPE_MISMATCH",
	UndefinedVariable: "UNDEFINED_VARIABLE", UndefinedProperty: "UNDEFINED_PROPERTY",
	UndefinedFunction: "UNDEFINED_FUNCTION", InvalidOperation: "INVALID_OPERATION",
	InvalidTypeAnnotation: "INVALID_TYPE_ANNOTATION", InvalidUnionType: "INVALID_UNION_TYPE",
	InvalidArrayType: "INVALID_ARRAY_TYPE", InvalidDictType: "INVALID_DICT_TYPE",

	RuntimeError: "RUNTIME_ERROR", DivisionByZero: "DIVISION_BY_ZERO",
	IndexOutOfBounds: "INDEX_OUT_OF_BOUNDS", KeyNotFound: "KEY_NOT_FOUND",
	StackOverflow: "STACK_OVERFLOW", OutOfMemory: "OUT_OF_MEMORY",
	InvalidArgument: "INVALID_ARGUMENT", InvalidReturn: "INVALID_RETURN",
	RecursionDepthExceeded: "RECURSION_DEPTH_EXCEEDED",

	ModuleError: "MODULE_ERROR", ModuleNotFound: "MODULE_NOT_FOUND",
	ImportError: "IMPORT_ERROR", ExportError: "EXPORT_ERROR",
	CircularImport: "CIRCULAR_IMPORT", ModuleLoadError: "MODULE_LOAD_ERROR",

	MacroError: "MACRO_ERROR", MacroNotDefined: "MACRO_NOT_DEFINED",
	MacroArgumentMismatch: "MACRO_ARGUMENT_MISMATCH", MacroRecursion: "MACRO_RECURSION",
	MacroExpansionError: "MACRO_EXPANSION_ERROR",

	InternalError: "INTERNAL_ERROR", NotImplemented: "NOT_IMPLEMENTED",
	CompilerError: "COMPILER_ERROR", ParserError: "PARSER_ERROR",

	GCError: "GC_ERROR", GCMemoryLeak: "GC_MEMORY_LEAK",
	GCCycleDetectionFailed: "GC_CYCLE_DETECTION_FAILED",
}

// Name returns the canonical uppercase identifier for a code, e.g.
// "DIVISION_BY_ZERO", or a fallback for unregistered codes.
func (c Code) Name() string {
	if n, ok := names[c]; ok {
		return n
	}
	return fmt.Sprintf("UNKNOWN_ERROR_%d", int(c))
}

// Category returns the human label of the code's hundred-range.
func (c Code) Category() string {
	switch {
	case c >= 100 && c < 200:
		return "syntax"
	case c >= 200 && c < 300:
		return "type"
	case c >= 300 && c < 400:
		return "runtime"
	case c >= 400 && c < 500:
		return "module"
	case c >= 500 && c < 600:
		return "macro"
	case c >= 600 && c < 700:
		return "internal"
	case c >= 700 && c < 800:
		return "gc"
	default:
		return "unknown"
	}
}

// Error is the single error type raised by every pipeline stage.
//
// Payload carries the thrown value for a `throw` statement, typed
// `any` to avoid an import cycle with pkg/runtime. catch (e) binds
// this value directly rather than a stringified message, so a thrown
// dict or instance survives unwrapped; pipeline stages other than the
// evaluator leave it nil.
type Error struct {
	Code    Code
	Message string
	Line    int
	Payload any
}

func New(code Code, line int, message string) *Error {
	return &Error{Code: code, Message: message, Line: line}
}

func Newf(code Code, line int, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Line: line}
}

// Thrown wraps a user-raised value (from a `throw` statement) so it
// propagates through Go's error-return plumbing while still exposing
// the original value to catch.
func Thrown(value any, line int) *Error {
	return &Error{Code: RuntimeError, Message: fmt.Sprint(value), Line: line, Payload: value}
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: %s (line %d)", e.Code.Name(), e.Message, e.Line)
	}
	return fmt.Sprintf("%s: %s", e.Code.Name(), e.Message)
}
