package interpreter

import "github.com/3065190005/Zelo/pkg/runtime"

// breakSignal, continueSignal, and returnSignal are non-local control
// flow events caught by type-switch at their matching handler (loop
// or function call), per spec §4.4's "signals" model. They satisfy
// error only so they can ride the same return channel as real
// failures; try/catch never catches them — only *zerr.Error does.
type breakSignal struct{}

func (breakSignal) Error() string { return "break" }

type continueSignal struct{}

func (continueSignal) Error() string { return "continue" }

type returnSignal struct {
	value runtime.Value
}

func (returnSignal) Error() string { return "return" }
