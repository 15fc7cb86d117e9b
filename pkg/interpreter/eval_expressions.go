package interpreter

import (
	"math"

	"github.com/3065190005/Zelo/pkg/ast"
	"github.com/3065190005/Zelo/pkg/runtime"
	"github.com/3065190005/Zelo/pkg/typesys"
	"github.com/3065190005/Zelo/pkg/zerr"
)

// binaryOverloadMethod maps a binary operator token to the dunder
// method consulted when the left operand is an object, per spec
// §4.4's operator → method table. Dispatch is left-operand-only: no
// __radd__ exists (§9, "Operator-method dispatch asymmetry").
var binaryOverloadMethod = map[string]string{
	"+": "__add__", "-": "__sub__", "*": "__mul__", "/": "__div__", "%": "__mod__",
	"&": "__and__", "|": "__or__", "^": "__xor__", "<<": "__lshift__", ">>": "__rshift__",
	"==": "__eq__", "!=": "__ne__", "<": "__lt__", "<=": "__le__", ">": "__gt__", ">=": "__ge__",
}

var unaryOverloadMethod = map[string]string{
	"++": "__inc__", "--": "__dec__", "!": "__not__", "~": "__invert__",
}

func (i *Interpreter) evalExpr(expr ast.Expr, env *runtime.Environment) (runtime.Value, error) {
	switch n := expr.(type) {
	case *ast.Literal:
		return i.evalLiteral(n)
	case *ast.Identifier:
		v, err := env.Get(n.Name)
		if err != nil {
			return nil, runtimeError(n.Position(), zerr.UndefinedVariable, "undefined variable '%s'", n.Name)
		}
		return v, nil
	case *ast.Unary:
		return i.evalUnary(n, env)
	case *ast.Binary:
		return i.evalBinary(n, env)
	case *ast.Array:
		elements := make([]runtime.Value, len(n.Elements))
		for idx, e := range n.Elements {
			v, err := i.evalExpr(e, env)
			if err != nil {
				return nil, err
			}
			elements[idx] = v
		}
		return runtime.NewArray(elements), nil
	case *ast.Dict:
		dict := runtime.NewDict()
		for _, entry := range n.Entries {
			k, err := i.evalExpr(entry.Key, env)
			if err != nil {
				return nil, err
			}
			key, ok := k.(runtime.String)
			if !ok {
				return nil, runtimeError(entry.Key.Position(), zerr.TypeMismatch, "dict keys must be strings, got %s", runtime.TypeName(k))
			}
			v, err := i.evalExpr(entry.Value, env)
			if err != nil {
				return nil, err
			}
			dict.Entries[string(key)] = v
		}
		return dict, nil
	case *ast.Call:
		return i.evalCall(n, env)
	case *ast.Member:
		return i.evalMember(n, env)
	case *ast.Index:
		return i.evalIndex(n, env)
	case *ast.Slice:
		return i.evalSlice(n, env)
	case *ast.Conditional:
		cond, err := i.evalExpr(n.Condition, env)
		if err != nil {
			return nil, err
		}
		if runtime.Truthy(cond) {
			return i.evalExpr(n.Then, env)
		}
		return i.evalExpr(n.Else, env)
	case *ast.Assign:
		return i.evalAssign(n, env)
	case *ast.Cast:
		v, err := i.evalExpr(n.Expression, env)
		if err != nil {
			return nil, err
		}
		cast, err := typesys.Cast(v, n.Type)
		if err != nil {
			return nil, runtimeError(n.Position(), zerr.TypeMismatch, "%s", err.Error())
		}
		return cast, nil
	default:
		return nil, runtimeError(expr.Position(), zerr.InternalError, "unhandled expression node %s", expr.NodeType())
	}
}

func (i *Interpreter) evalLiteral(n *ast.Literal) (runtime.Value, error) {
	switch n.Kind {
	case ast.LitInt:
		return runtime.Int(n.Int), nil
	case ast.LitFloat:
		return runtime.Float(n.Float), nil
	case ast.LitString:
		return runtime.String(n.String), nil
	case ast.LitBool:
		return runtime.Bool(n.Bool), nil
	default:
		return runtime.NullValue, nil
	}
}

func (i *Interpreter) evalUnary(n *ast.Unary, env *runtime.Environment) (runtime.Value, error) {
	operand, err := i.evalExpr(n.Operand, env)
	if err != nil {
		return nil, err
	}

	if inst, ok := operand.(*runtime.Instance); ok {
		if method, ok := unaryOverloadMethod[n.Op]; ok {
			if fn, ok := inst.Class.FindMethod(method); ok {
				return i.callFunction(fn.Bind(inst), nil, n.Position())
			}
		}
	}

	switch n.Op {
	case "-":
		switch v := operand.(type) {
		case runtime.Int:
			return -v, nil
		case runtime.Float:
			return -v, nil
		}
		return nil, runtimeError(n.Position(), zerr.TypeMismatch, "'-' requires a number, got %s", runtime.TypeName(operand))
	case "!":
		return runtime.Bool(!runtime.Truthy(operand)), nil
	case "~":
		v, ok := operand.(runtime.Int)
		if !ok {
			return nil, runtimeError(n.Position(), zerr.TypeMismatch, "'~' requires an int, got %s", runtime.TypeName(operand))
		}
		return ^v, nil
	case "++", "--":
		// Non-mutating: returns operand±1 without writing back to the
		// operand's storage, per spec §4.4/§9.
		f, ok := toFloat64(operand)
		if !ok {
			return nil, runtimeError(n.Position(), zerr.TypeMismatch, "'%s' requires a number, got %s", n.Op, runtime.TypeName(operand))
		}
		delta := 1.0
		if n.Op == "--" {
			delta = -1.0
		}
		if _, isInt := operand.(runtime.Int); isInt {
			return runtime.Int(int64(f) + int64(delta)), nil
		}
		return runtime.Float(f + delta), nil
	default:
		return nil, runtimeError(n.Position(), zerr.InternalError, "unknown unary operator %q", n.Op)
	}
}

func (i *Interpreter) evalBinary(n *ast.Binary, env *runtime.Environment) (runtime.Value, error) {
	if n.Op == "&&" || n.Op == "||" {
		left, err := i.evalExpr(n.Left, env)
		if err != nil {
			return nil, err
		}
		if n.Op == "&&" && !runtime.Truthy(left) {
			return runtime.Bool(false), nil
		}
		if n.Op == "||" && runtime.Truthy(left) {
			return runtime.Bool(true), nil
		}
		right, err := i.evalExpr(n.Right, env)
		if err != nil {
			return nil, err
		}
		return runtime.Bool(runtime.Truthy(right)), nil
	}

	left, err := i.evalExpr(n.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := i.evalExpr(n.Right, env)
	if err != nil {
		return nil, err
	}
	return i.evalBinaryOp(n.Op, left, right, n.Position())
}

// evalBinaryOp implements spec §4.4's numeric promotion, string
// concatenation, and comparison rules, consulting an overload method
// first when the left operand is an object. It is also the
// desugaring target for compound-assignment operators.
func (i *Interpreter) evalBinaryOp(op string, left, right runtime.Value, pos ast.Pos) (runtime.Value, error) {
	if inst, ok := left.(*runtime.Instance); ok {
		if method, ok := binaryOverloadMethod[op]; ok {
			if fn, ok := inst.Class.FindMethod(method); ok {
				return i.callFunction(fn.Bind(inst), []runtime.Value{right}, pos)
			}
		}
	}

	switch op {
	case "+":
		if ls, ok := left.(runtime.String); ok {
			return ls + runtime.String(Stringify(right)), nil
		}
		if rs, ok := right.(runtime.String); ok {
			return runtime.String(Stringify(left)) + rs, nil
		}
		return numericArith(op, left, right, pos)
	case "-", "*":
		return numericArith(op, left, right, pos)
	case "/":
		lf, lok := toFloat64(left)
		rf, rok := toFloat64(right)
		if !lok || !rok {
			return nil, typeMismatchNumeric(op, left, right, pos)
		}
		if rf == 0 {
			return nil, runtimeError(pos, zerr.DivisionByZero, "division by zero")
		}
		return runtime.Float(lf / rf), nil
	case "%":
		lf, lok := toFloat64(left)
		rf, rok := toFloat64(right)
		if !lok || !rok {
			return nil, typeMismatchNumeric(op, left, right, pos)
		}
		if rf == 0 {
			return nil, runtimeError(pos, zerr.DivisionByZero, "division by zero")
		}
		return runtime.Float(math.Mod(lf, rf)), nil
	case "&", "|", "^", "<<", ">>":
		li, lok := left.(runtime.Int)
		ri, rok := right.(runtime.Int)
		if !lok || !rok {
			return nil, runtimeError(pos, zerr.TypeMismatch, "'%s' requires int operands, got %s and %s", op, runtime.TypeName(left), runtime.TypeName(right))
		}
		switch op {
		case "&":
			return li & ri, nil
		case "|":
			return li | ri, nil
		case "^":
			return li ^ ri, nil
		case "<<":
			return li << ri, nil
		default:
			return li >> ri, nil
		}
	case "==":
		return runtime.Bool(runtime.Equal(left, right)), nil
	case "!=":
		return runtime.Bool(!runtime.Equal(left, right)), nil
	case "<", "<=", ">", ">=":
		lf, lok := toFloat64(left)
		rf, rok := toFloat64(right)
		if !lok || !rok {
			return nil, typeMismatchNumeric(op, left, right, pos)
		}
		switch op {
		case "<":
			return runtime.Bool(lf < rf), nil
		case "<=":
			return runtime.Bool(lf <= rf), nil
		case ">":
			return runtime.Bool(lf > rf), nil
		default:
			return runtime.Bool(lf >= rf), nil
		}
	default:
		return nil, runtimeError(pos, zerr.InternalError, "unknown binary operator %q", op)
	}
}

func numericArith(op string, left, right runtime.Value, pos ast.Pos) (runtime.Value, error) {
	li, lIsInt := left.(runtime.Int)
	ri, rIsInt := right.(runtime.Int)
	if lIsInt && rIsInt {
		switch op {
		case "+":
			return li + ri, nil
		case "-":
			return li - ri, nil
		default:
			return li * ri, nil
		}
	}
	lf, lok := toFloat64(left)
	rf, rok := toFloat64(right)
	if !lok || !rok {
		return nil, typeMismatchNumeric(op, left, right, pos)
	}
	switch op {
	case "+":
		return runtime.Float(lf + rf), nil
	case "-":
		return runtime.Float(lf - rf), nil
	default:
		return runtime.Float(lf * rf), nil
	}
}

func toFloat64(v runtime.Value) (float64, bool) {
	switch x := v.(type) {
	case runtime.Int:
		return float64(x), true
	case runtime.Float:
		return float64(x), true
	default:
		return 0, false
	}
}

func typeMismatchNumeric(op string, left, right runtime.Value, pos ast.Pos) error {
	return runtimeError(pos, zerr.TypeMismatch, "'%s' requires numbers, got %s and %s", op, runtime.TypeName(left), runtime.TypeName(right))
}

func (i *Interpreter) evalIndex(n *ast.Index, env *runtime.Environment) (runtime.Value, error) {
	obj, err := i.evalExpr(n.Object, env)
	if err != nil {
		return nil, err
	}
	idx, err := i.evalExpr(n.Index, env)
	if err != nil {
		return nil, err
	}

	if inst, ok := obj.(*runtime.Instance); ok {
		if fn, ok := inst.Class.FindMethod("__getitem__"); ok {
			return i.callFunction(fn.Bind(inst), []runtime.Value{idx}, n.Position())
		}
	}

	switch o := obj.(type) {
	case *runtime.Array:
		ival, ok := idx.(runtime.Int)
		if !ok {
			return nil, runtimeError(n.Position(), zerr.TypeMismatch, "array index must be an int, got %s", runtime.TypeName(idx))
		}
		pos := int64(ival)
		if pos < 0 {
			pos += int64(len(o.Elements))
		}
		if pos < 0 || pos >= int64(len(o.Elements)) {
			return nil, runtimeError(n.Position(), zerr.IndexOutOfBounds, "index %d out of bounds for array of length %d", int64(ival), len(o.Elements))
		}
		return o.Elements[pos], nil
	case *runtime.Dict:
		key, ok := idx.(runtime.String)
		if !ok {
			return nil, runtimeError(n.Position(), zerr.TypeMismatch, "dict key must be a string, got %s", runtime.TypeName(idx))
		}
		v, ok := o.Entries[string(key)]
		if !ok {
			return nil, runtimeError(n.Position(), zerr.KeyNotFound, "key %q not found", string(key))
		}
		return v, nil
	default:
		return nil, runtimeError(n.Position(), zerr.InvalidOperation, "cannot index a value of kind %s", runtime.TypeName(obj))
	}
}

// evalSlice implements spec §4.4's slice contract: arrays only,
// default bounds (0, len, 1), negative start/stop normalised modulo
// length and clamped into [0, len], step == 0 is an error, and the
// iteration direction follows the sign of step.
func (i *Interpreter) evalSlice(n *ast.Slice, env *runtime.Environment) (runtime.Value, error) {
	objVal, err := i.evalExpr(n.Object, env)
	if err != nil {
		return nil, err
	}
	arr, ok := objVal.(*runtime.Array)
	if !ok {
		return nil, runtimeError(n.Position(), zerr.InvalidOperation, "slicing is only defined on arrays, got %s", runtime.TypeName(objVal))
	}
	length := len(arr.Elements)

	step := 1
	if n.Step != nil {
		v, err := i.evalExpr(n.Step, env)
		if err != nil {
			return nil, err
		}
		iv, ok := v.(runtime.Int)
		if !ok {
			return nil, runtimeError(n.Position(), zerr.TypeMismatch, "slice step must be an int")
		}
		step = int(iv)
	}
	if step == 0 {
		return nil, runtimeError(n.Position(), zerr.InvalidArgument, "slice step cannot be zero")
	}

	defaultStart, defaultStop := 0, length
	if step < 0 {
		defaultStart, defaultStop = length-1, -1
	}

	start := defaultStart
	if n.Start != nil {
		v, err := i.evalExpr(n.Start, env)
		if err != nil {
			return nil, err
		}
		start = normalizeSliceIndex(v, length)
	}
	stop := defaultStop
	if n.Stop != nil {
		v, err := i.evalExpr(n.Stop, env)
		if err != nil {
			return nil, err
		}
		stop = normalizeSliceIndex(v, length)
	}

	var out []runtime.Value
	if step > 0 {
		for idx := start; idx < stop && idx < length; idx += step {
			if idx >= 0 {
				out = append(out, arr.Elements[idx])
			}
		}
	} else {
		for idx := start; idx > stop && idx >= 0; idx += step {
			if idx < length {
				out = append(out, arr.Elements[idx])
			}
		}
	}
	return runtime.NewArray(out), nil
}

func normalizeSliceIndex(v runtime.Value, length int) int {
	iv, ok := v.(runtime.Int)
	if !ok {
		return 0
	}
	idx := int(iv)
	if idx < 0 {
		idx += length
	}
	if idx < 0 {
		idx = 0
	}
	if idx > length {
		idx = length
	}
	return idx
}

func (i *Interpreter) evalMember(n *ast.Member, env *runtime.Environment) (runtime.Value, error) {
	// super.NAME resolves through `this`'s class's superclass, bound
	// to `this` rather than to the superclass itself.
	if ident, ok := n.Object.(*ast.Identifier); ok && ident.Name == "super" {
		thisVal, err := env.Get("this")
		if err != nil {
			return nil, runtimeError(n.Position(), zerr.InvalidOperation, "'super' used outside a method")
		}
		inst, ok := thisVal.(*runtime.Instance)
		if !ok || inst.Class.Superclass == nil {
			return nil, runtimeError(n.Position(), zerr.InvalidOperation, "'super' has no superclass here")
		}
		fn, ok := inst.Class.Superclass.FindMethod(n.Property)
		if !ok {
			return nil, runtimeError(n.Position(), zerr.UndefinedProperty, "undefined property '%s'", n.Property)
		}
		return fn.Bind(inst), nil
	}

	obj, err := i.evalExpr(n.Object, env)
	if err != nil {
		return nil, err
	}
	return i.getProperty(obj, n.Property, n.Position())
}

// getProperty implements the Instance field-access policy from spec
// §3: own field, then a bound method, then __getattr__.
func (i *Interpreter) getProperty(obj runtime.Value, name string, pos ast.Pos) (runtime.Value, error) {
	switch o := obj.(type) {
	case *runtime.Instance:
		if v, ok := o.Fields[name]; ok {
			return v, nil
		}
		if fn, ok := o.Class.FindMethod(name); ok {
			return fn.Bind(o), nil
		}
		if getattr, ok := o.Class.FindMethod("__getattr__"); ok {
			return i.callFunction(getattr.Bind(o), []runtime.Value{runtime.String(name)}, pos)
		}
		return nil, runtimeError(pos, zerr.UndefinedProperty, "undefined property '%s' on %s", name, o.Class.Name)
	case *runtime.Environment:
		v, err := o.Get(name)
		if err != nil {
			return nil, runtimeError(pos, zerr.UndefinedProperty, "undefined export '%s'", name)
		}
		return v, nil
	case *runtime.Class:
		if fn, ok := o.FindMethod(name); ok {
			return fn, nil
		}
		return nil, runtimeError(pos, zerr.UndefinedProperty, "undefined class member '%s'", name)
	default:
		return nil, runtimeError(pos, zerr.InvalidOperation, "cannot access property '%s' on a value of kind %s", name, runtime.TypeName(obj))
	}
}

func (i *Interpreter) evalCall(n *ast.Call, env *runtime.Environment) (runtime.Value, error) {
	callee, err := i.evalExpr(n.Callee, env)
	if err != nil {
		return nil, err
	}
	args := make([]runtime.Value, len(n.Arguments))
	for idx, a := range n.Arguments {
		v, err := i.evalExpr(a, env)
		if err != nil {
			return nil, err
		}
		args[idx] = v
	}

	switch c := callee.(type) {
	case *runtime.Function:
		if c.Native != nil {
			if c.NativeArity >= 0 && len(args) != c.NativeArity {
				return nil, runtimeError(n.Position(), zerr.InvalidArgument, "%s expects %d argument(s), got %d", c.Name, c.NativeArity, len(args))
			}
		} else if len(args) != len(c.Declaration.Params) {
			return nil, runtimeError(n.Position(), zerr.InvalidArgument, "%s expects %d argument(s), got %d", c.Name, len(c.Declaration.Params), len(args))
		}
		return i.callFunction(c, args, n.Position())
	case *runtime.Class:
		return i.instantiate(c, args, n.Position())
	default:
		return nil, runtimeError(n.Position(), zerr.InvalidOperation, "value of kind %s is not callable", runtime.TypeName(callee))
	}
}

func (i *Interpreter) instantiate(class *runtime.Class, args []runtime.Value, pos ast.Pos) (runtime.Value, error) {
	inst := i.newInstance(class)
	if init, ok := class.FindMethod("__init__"); ok {
		if len(args) != len(init.Declaration.Params) {
			return nil, runtimeError(pos, zerr.InvalidArgument, "%s constructor expects %d argument(s), got %d", class.Name, len(init.Declaration.Params), len(args))
		}
		if _, err := i.callFunction(init.Bind(inst), args, pos); err != nil {
			return nil, err
		}
	} else if len(args) != 0 {
		return nil, runtimeError(pos, zerr.InvalidArgument, "%s takes no arguments", class.Name)
	}
	return inst, nil
}

// callFunction invokes a native or user-defined function value,
// catching the returnSignal a user body raises via `return` and
// enforcing constructors always yield `this`.
func (i *Interpreter) callFunction(fn *runtime.Function, args []runtime.Value, pos ast.Pos) (runtime.Value, error) {
	if fn.Native != nil {
		v, err := fn.Native(args)
		if err != nil {
			if zErr, ok := err.(*zerr.Error); ok {
				return nil, zErr
			}
			return nil, runtimeError(pos, zerr.RuntimeError, "%s", err.Error())
		}
		return v, nil
	}

	i.callDepth++
	defer func() { i.callDepth-- }()
	if i.callDepth > maxCallDepth {
		return nil, runtimeError(pos, zerr.RecursionDepthExceeded, "maximum call depth of %d exceeded", maxCallDepth)
	}

	callEnv := runtime.NewEnvironment(fn.Closure)
	for idx, param := range fn.Declaration.Params {
		if idx < len(args) {
			callEnv.Define(param.Name, args[idx])
		} else {
			callEnv.Define(param.Name, runtime.NullValue)
		}
	}

	_, err := i.execBlock(fn.Declaration.Body, callEnv)
	if fn.IsConstructor {
		this, getErr := callEnv.Get("this")
		if getErr == nil {
			return this, nil
		}
	}
	if err != nil {
		if ret, ok := err.(returnSignal); ok {
			return ret.value, nil
		}
		return nil, err
	}
	return runtime.NullValue, nil
}

func (i *Interpreter) evalAssign(n *ast.Assign, env *runtime.Environment) (runtime.Value, error) {
	value, err := i.evalExpr(n.Value, env)
	if err != nil {
		return nil, err
	}

	if n.Op != "=" {
		current, err := i.evalExpr(n.Target, env)
		if err != nil {
			return nil, err
		}
		baseOp := n.Op[:len(n.Op)-1]
		value, err = i.evalBinaryOp(baseOp, current, value, n.Position())
		if err != nil {
			return nil, err
		}
	}

	switch target := n.Target.(type) {
	case *ast.Identifier:
		if err := env.Assign(target.Name, value); err != nil {
			return nil, runtimeError(n.Position(), zerr.TypeMismatch, "%s", err.Error())
		}
		return value, nil
	case *ast.Member:
		obj, err := i.evalExpr(target.Object, env)
		if err != nil {
			return nil, err
		}
		inst, ok := obj.(*runtime.Instance)
		if !ok {
			return nil, runtimeError(n.Position(), zerr.InvalidOperation, "cannot set property '%s' on a value of kind %s", target.Property, runtime.TypeName(obj))
		}
		if setattr, ok := inst.Class.FindMethod("__setattr__"); ok {
			_, err := i.callFunction(setattr.Bind(inst), []runtime.Value{runtime.String(target.Property), value}, n.Position())
			return value, err
		}
		inst.Fields[target.Property] = value
		return value, nil
	case *ast.Index:
		obj, err := i.evalExpr(target.Object, env)
		if err != nil {
			return nil, err
		}
		idx, err := i.evalExpr(target.Index, env)
		if err != nil {
			return nil, err
		}
		switch o := obj.(type) {
		case *runtime.Array:
			ival, ok := idx.(runtime.Int)
			if !ok {
				return nil, runtimeError(n.Position(), zerr.TypeMismatch, "array index must be an int")
			}
			pos := int64(ival)
			if pos < 0 {
				pos += int64(len(o.Elements))
			}
			if pos < 0 || pos >= int64(len(o.Elements)) {
				return nil, runtimeError(n.Position(), zerr.IndexOutOfBounds, "index %d out of bounds for array of length %d", int64(ival), len(o.Elements))
			}
			o.Elements[pos] = value
			return value, nil
		case *runtime.Dict:
			key, ok := idx.(runtime.String)
			if !ok {
				return nil, runtimeError(n.Position(), zerr.TypeMismatch, "dict key must be a string")
			}
			o.Entries[string(key)] = value
			return value, nil
		default:
			return nil, runtimeError(n.Position(), zerr.InvalidOperation, "cannot index-assign a value of kind %s", runtime.TypeName(obj))
		}
	default:
		return nil, runtimeError(n.Position(), zerr.InvalidSyntax, "invalid assignment target")
	}
}

// Stringify implements the uniform stringification every '+' string
// concatenation and `print` call relies on.
func Stringify(v runtime.Value) string {
	switch x := v.(type) {
	case runtime.Null:
		return "null"
	case runtime.String:
		return string(x)
	case *runtime.Array:
		parts := make([]string, len(x.Elements))
		for idx, el := range x.Elements {
			parts[idx] = runtime.Repr(el)
		}
		return "[" + joinComma(parts) + "]"
	default:
		return v.String()
	}
}

func joinComma(parts []string) string {
	out := ""
	for idx, p := range parts {
		if idx > 0 {
			out += ", "
		}
		out += p
	}
	return out
}
