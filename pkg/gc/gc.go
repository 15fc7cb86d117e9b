// Package gc implements the generational tracing collector described
// in spec §4.6: reference-counted heap cells (instances, functions,
// classes) leak cycles closures-capturing-their-own-environment would
// otherwise hold forever, so reachability from the evaluator's
// environment chain is used to reclaim them.
package gc

import (
	"github.com/3065190005/Zelo/pkg/runtime"
)

// NewGenerationThreshold is the young-set size under which a minor
// collection is considered sufficient; above it, a major collection
// follows. The default is 1024, the original implementation's header
// constant (a figure of 1000 appears only in one of its comments; see
// DESIGN.md).
const NewGenerationThreshold = 1024

// StepsPerCycle bounds each incremental-collection call to one phase,
// amortising pause time across StepsPerCycle+1 invocations (root
// marking, StepsPerCycle-1 mark slices, then the sweep).
const StepsPerCycle = 10

// Collector tracks every heap-allocated Instance, Function, and Class
// cell by Go pointer identity (Go has no shared_ptr, so the pointer
// itself is the tracking handle) and reclaims unreachable cells.
type Collector struct {
	instances map[*runtime.Instance]bool
	functions map[*runtime.Function]bool
	classes   map[*runtime.Class]bool

	youngInstances map[*runtime.Instance]bool
	oldInstances   map[*runtime.Instance]bool
	youngFunctions map[*runtime.Function]bool
	oldFunctions   map[*runtime.Function]bool
	youngClasses   map[*runtime.Class]bool
	oldClasses     map[*runtime.Class]bool

	markedInstances map[*runtime.Instance]bool
	markedFunctions map[*runtime.Function]bool
	markedClasses   map[*runtime.Class]bool

	incrementalStep int
}

// New returns an empty collector.
func New() *Collector {
	return &Collector{
		instances:       make(map[*runtime.Instance]bool),
		functions:       make(map[*runtime.Function]bool),
		classes:         make(map[*runtime.Class]bool),
		youngInstances:  make(map[*runtime.Instance]bool),
		oldInstances:    make(map[*runtime.Instance]bool),
		youngFunctions:  make(map[*runtime.Function]bool),
		oldFunctions:    make(map[*runtime.Function]bool),
		youngClasses:    make(map[*runtime.Class]bool),
		oldClasses:      make(map[*runtime.Class]bool),
		markedInstances: make(map[*runtime.Instance]bool),
		markedFunctions: make(map[*runtime.Function]bool),
		markedClasses:   make(map[*runtime.Class]bool),
	}
}

// RegisterInstance enters a newly allocated instance into the young
// generation, per invariant (iii): every object is registered at
// creation, before the first strong reference to it can escape.
func (c *Collector) RegisterInstance(inst *runtime.Instance) {
	c.instances[inst] = true
	c.youngInstances[inst] = true
}

func (c *Collector) RegisterFunction(fn *runtime.Function) {
	c.functions[fn] = true
	c.youngFunctions[fn] = true
}

func (c *Collector) RegisterClass(cls *runtime.Class) {
	c.classes[cls] = true
	c.youngClasses[cls] = true
}

func (c *Collector) InstanceCount() int { return len(c.instances) }
func (c *Collector) FunctionCount() int { return len(c.functions) }
func (c *Collector) ClassCount() int    { return len(c.classes) }
func (c *Collector) YoungInstanceCount() int { return len(c.youngInstances) }
func (c *Collector) OldInstanceCount() int   { return len(c.oldInstances) }

// CollectGarbage performs a minor collection; if the young set is
// still over threshold afterward, it escalates to a major collection.
func (c *Collector) CollectGarbage(roots *runtime.Environment) {
	if !c.collectYoung(roots) {
		c.collectOld(roots)
	}
}

// collectYoung marks from roots, deletes unmarked young cells,
// promotes survivors, and reports whether the post-collection young
// set is below threshold.
func (c *Collector) collectYoung(roots *runtime.Environment) bool {
	c.resetMarks()
	c.markEnvironment(roots)

	for inst := range c.youngInstances {
		if !c.markedInstances[inst] {
			delete(c.instances, inst)
		} else {
			c.oldInstances[inst] = true
		}
	}
	c.youngInstances = make(map[*runtime.Instance]bool)

	for fn := range c.youngFunctions {
		if !c.markedFunctions[fn] {
			delete(c.functions, fn)
		} else {
			c.oldFunctions[fn] = true
		}
	}
	c.youngFunctions = make(map[*runtime.Function]bool)

	for cls := range c.youngClasses {
		if !c.markedClasses[cls] {
			delete(c.classes, cls)
		} else {
			c.oldClasses[cls] = true
		}
	}
	c.youngClasses = make(map[*runtime.Class]bool)

	return len(c.youngInstances) < NewGenerationThreshold
}

// collectOld marks the union of young and old cells from roots and
// sweeps every unmarked tracked cell, regardless of generation.
func (c *Collector) collectOld(roots *runtime.Environment) {
	c.resetMarks()
	c.markEnvironment(roots)
	c.sweep()
}

// CollectIncremental advances the incremental state machine exactly
// one phase: phase 0 marks roots, phases 1..stepsPerCycle-1 mark a
// slice of the tracked instance set, and the final phase sweeps.
func (c *Collector) CollectIncremental(roots *runtime.Environment) {
	switch {
	case c.incrementalStep == 0:
		c.resetMarks()
		c.markEnvironment(roots)
		c.incrementalStep++
	case c.incrementalStep < StepsPerCycle:
		c.markIncrementalSlice(c.incrementalStep, StepsPerCycle)
		c.incrementalStep++
	default:
		c.sweep()
		c.incrementalStep = 0
	}
}

func (c *Collector) markIncrementalSlice(step, totalSteps int) {
	total := len(c.instances)
	if total == 0 {
		return
	}
	perStep := total / totalSteps
	if perStep == 0 {
		perStep = total
	}
	start := step * perStep
	end := start + perStep
	if end > total {
		end = total
	}
	i := 0
	for inst := range c.instances {
		if i >= start && i < end {
			c.markInstance(inst)
		}
		i++
		if i >= end {
			break
		}
	}
}

func (c *Collector) resetMarks() {
	c.markedInstances = make(map[*runtime.Instance]bool)
	c.markedFunctions = make(map[*runtime.Function]bool)
	c.markedClasses = make(map[*runtime.Class]bool)
}

func (c *Collector) sweep() {
	for inst := range c.instances {
		if !c.markedInstances[inst] {
			delete(c.instances, inst)
			delete(c.youngInstances, inst)
			delete(c.oldInstances, inst)
		}
	}
	for fn := range c.functions {
		if !c.markedFunctions[fn] {
			delete(c.functions, fn)
			delete(c.youngFunctions, fn)
			delete(c.oldFunctions, fn)
		}
	}
	for cls := range c.classes {
		if !c.markedClasses[cls] {
			delete(c.classes, cls)
			delete(c.youngClasses, cls)
			delete(c.oldClasses, cls)
		}
	}
	c.resetMarks()
}

//-----------------------------------------------------------------------------
// Mark phase: reachability from roots through the value graph.
//-----------------------------------------------------------------------------

func (c *Collector) markEnvironment(env *runtime.Environment) {
	for env != nil {
		for _, v := range env.Snapshot() {
			c.markValue(v)
		}
		env = env.Parent()
	}
}

func (c *Collector) markValue(v runtime.Value) {
	switch x := v.(type) {
	case *runtime.Instance:
		c.markInstance(x)
	case *runtime.Function:
		c.markFunction(x)
	case *runtime.Class:
		c.markClass(x)
	case *runtime.Array:
		for _, el := range x.Elements {
			c.markValue(el)
		}
	case *runtime.Dict:
		for _, el := range x.Entries {
			c.markValue(el)
		}
	case *runtime.Environment:
		c.markEnvironment(x)
	}
}

func (c *Collector) markInstance(inst *runtime.Instance) {
	if c.markedInstances[inst] {
		return
	}
	c.markedInstances[inst] = true
	for _, v := range inst.Fields {
		c.markValue(v)
	}
	c.markClass(inst.Class)
}

func (c *Collector) markFunction(fn *runtime.Function) {
	if c.markedFunctions[fn] {
		return
	}
	c.markedFunctions[fn] = true
	if fn.Closure != nil {
		c.markEnvironment(fn.Closure)
	}
}

func (c *Collector) markClass(cls *runtime.Class) {
	if cls == nil || c.markedClasses[cls] {
		return
	}
	c.markedClasses[cls] = true
	for _, m := range cls.Methods {
		c.markFunction(m)
	}
	c.markClass(cls.Superclass)
}
