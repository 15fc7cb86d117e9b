package interpreter

import (
	"github.com/3065190005/Zelo/pkg/ast"
	"github.com/3065190005/Zelo/pkg/runtime"
	"github.com/3065190005/Zelo/pkg/typesys"
	"github.com/3065190005/Zelo/pkg/zerr"
)

func (i *Interpreter) execStmt(stmt ast.Stmt, env *runtime.Environment) (runtime.Value, error) {
	switch n := stmt.(type) {
	case *ast.ExprStmt:
		return i.evalExpr(n.Expression, env)
	case *ast.Block:
		return i.execBlock(n, runtime.NewEnvironment(env))
	case *ast.VarDecl:
		return i.execVarDecl(n, env)
	case *ast.FunctionDecl:
		fn := i.newUserFunction(n, env, false)
		env.Define(n.Name, fn)
		return fn, nil
	case *ast.ClassDecl:
		return i.execClassDecl(n, env)
	case *ast.If:
		cond, err := i.evalExpr(n.Condition, env)
		if err != nil {
			return nil, err
		}
		if runtime.Truthy(cond) {
			return i.execStmt(n.Then, env)
		}
		if n.Else != nil {
			return i.execStmt(n.Else, env)
		}
		return runtime.NullValue, nil
	case *ast.While:
		return i.execWhile(n, env)
	case *ast.For:
		return i.execFor(n, env)
	case *ast.Return:
		var value runtime.Value = runtime.NullValue
		if n.Value != nil {
			v, err := i.evalExpr(n.Value, env)
			if err != nil {
				return nil, err
			}
			value = v
		}
		return nil, returnSignal{value: value}
	case *ast.Break:
		return nil, breakSignal{}
	case *ast.Continue:
		return nil, continueSignal{}
	case *ast.Throw:
		value, err := i.evalExpr(n.Expression, env)
		if err != nil {
			return nil, err
		}
		return nil, zerr.Thrown(value, n.Position().Line)
	case *ast.TryCatch:
		return i.execTryCatch(n, env)
	case *ast.Import:
		return i.execImport(n, env)
	case *ast.Export:
		return i.execExport(n, env)
	case *ast.Namespace:
		for _, s := range n.Body {
			if _, err := i.execStmt(s, env); err != nil {
				return nil, err
			}
		}
		return runtime.NullValue, nil
	default:
		return nil, runtimeError(stmt.Position(), zerr.InternalError, "unhandled statement node %s", stmt.NodeType())
	}
}

func (i *Interpreter) execBlock(block *ast.Block, env *runtime.Environment) (runtime.Value, error) {
	var last runtime.Value = runtime.NullValue
	for _, stmt := range block.Statements {
		v, err := i.execStmt(stmt, env)
		if err != nil {
			return nil, err
		}
		last = v
	}
	return last, nil
}

func (i *Interpreter) execVarDecl(n *ast.VarDecl, env *runtime.Environment) (runtime.Value, error) {
	var value runtime.Value = runtime.NullValue
	if n.Initializer != nil {
		v, err := i.evalExpr(n.Initializer, env)
		if err != nil {
			return nil, err
		}
		value = v
	}
	if n.Type != nil && !n.Type.IsAny() {
		if !typesys.Check(value, n.Type) {
			return nil, runtimeError(n.Position(), zerr.TypeMismatch, "cannot assign a value of kind %s to '%s'", runtime.TypeName(value), n.Name)
		}
	}
	if n.IsConst {
		env.DefineConst(n.Name, value)
	} else {
		env.Define(n.Name, value)
	}
	return value, nil
}

// execClassDecl implements spec §4.4's two-phase class evaluation:
// the name is bound to null before the method table is built (so a
// method closure that references its own class name during
// definition sees a placeholder, never a half-built class), then
// rebound to the finished class value.
func (i *Interpreter) execClassDecl(n *ast.ClassDecl, env *runtime.Environment) (runtime.Value, error) {
	env.Define(n.Name, runtime.NullValue)

	var superclass *runtime.Class
	if n.Superclass != "" {
		scVal, err := env.Get(n.Superclass)
		if err != nil {
			return nil, runtimeError(n.Position(), zerr.UndefinedVariable, "undefined superclass '%s'", n.Superclass)
		}
		sc, ok := scVal.(*runtime.Class)
		if !ok {
			return nil, runtimeError(n.Position(), zerr.TypeMismatch, "'%s' is not a class", n.Superclass)
		}
		superclass = sc
	}

	class := i.newClass(n.Name, superclass)
	for _, m := range n.Methods {
		class.Methods[m.Name] = i.newUserFunction(m, env, m.Name == "__init__")
	}

	env.Define(n.Name, class)
	return class, nil
}

func (i *Interpreter) execWhile(n *ast.While, env *runtime.Environment) (runtime.Value, error) {
	for {
		cond, err := i.evalExpr(n.Condition, env)
		if err != nil {
			return nil, err
		}
		if !runtime.Truthy(cond) {
			return runtime.NullValue, nil
		}
		_, err = i.execStmt(n.Body, env)
		if err != nil {
			if _, ok := err.(breakSignal); ok {
				return runtime.NullValue, nil
			}
			if _, ok := err.(continueSignal); ok {
				continue
			}
			return nil, err
		}
	}
}

// execFor implements the array-only for-in loop; the loop variable
// is freshly Define'd in a per-iteration child scope, per spec §4.4,
// so a closure created inside the body captures that iteration's
// value rather than a single reassigned binding.
func (i *Interpreter) execFor(n *ast.For, env *runtime.Environment) (runtime.Value, error) {
	iterable, err := i.evalExpr(n.Iterable, env)
	if err != nil {
		return nil, err
	}
	arr, ok := iterable.(*runtime.Array)
	if !ok {
		return nil, runtimeError(n.Position(), zerr.TypeMismatch, "for loop requires an array, got %s", runtime.TypeName(iterable))
	}
	for _, el := range arr.Elements {
		iterEnv := runtime.NewEnvironment(env)
		iterEnv.Define(n.Variable, el)
		_, err := i.execStmt(n.Body, iterEnv)
		if err != nil {
			if _, ok := err.(breakSignal); ok {
				break
			}
			if _, ok := err.(continueSignal); ok {
				continue
			}
			return nil, err
		}
	}
	return runtime.NullValue, nil
}

// execTryCatch catches only *zerr.Error — break/continue/return
// signals ride the same error channel but must pass through
// unexamined, per signals.go's doc comment.
func (i *Interpreter) execTryCatch(n *ast.TryCatch, env *runtime.Environment) (runtime.Value, error) {
	tryEnv := runtime.NewEnvironment(env)
	result, err := i.execBlock(n.Try, tryEnv)
	if err == nil {
		return result, nil
	}

	zerrVal, ok := err.(*zerr.Error)
	if !ok {
		return nil, err
	}

	catchEnv := runtime.NewEnvironment(env)
	var caught runtime.Value
	if v, ok := zerrVal.Payload.(runtime.Value); ok {
		caught = v
	} else {
		caught = runtime.String(zerrVal.Message)
	}
	catchEnv.Define(n.CatchVar, caught)
	return i.execBlock(n.Catch, catchEnv)
}

func (i *Interpreter) execImport(n *ast.Import, env *runtime.Environment) (runtime.Value, error) {
	if i.loader == nil {
		return nil, runtimeError(n.Position(), zerr.ModuleError, "no module loader configured")
	}
	exports, err := i.loader.Require(n.Path)
	if err != nil {
		return nil, err
	}

	switch {
	case n.Alias != "":
		env.Define(n.Alias, exports)
	case n.Selectors != nil:
		for _, name := range n.Selectors {
			v, err := exports.Get(name)
			if err != nil {
				return nil, runtimeError(n.Position(), zerr.ImportError, "module '%s' has no export '%s'", n.Path, name)
			}
			env.Define(name, v)
		}
	default:
		for _, name := range exports.Keys() {
			v, _ := exports.Get(name)
			env.Define(name, v)
		}
	}
	return runtime.NullValue, nil
}

// execExport appends to (creating on first use) the `__exports__`
// environment bound in the current scope, per spec §4.4.
func (i *Interpreter) execExport(n *ast.Export, env *runtime.Environment) (runtime.Value, error) {
	var exportsEnv *runtime.Environment
	if v, err := env.Get("__exports__"); err == nil {
		if e, ok := v.(*runtime.Environment); ok {
			exportsEnv = e
		}
	}
	if exportsEnv == nil {
		exportsEnv = runtime.NewEnvironment(nil)
		env.Define("__exports__", exportsEnv)
	}
	for _, name := range n.Names {
		v, err := env.Get(name)
		if err != nil {
			return nil, runtimeError(n.Position(), zerr.UndefinedVariable, "cannot export undefined name '%s'", name)
		}
		exportsEnv.Define(name, v)
	}
	return exportsEnv, nil
}
