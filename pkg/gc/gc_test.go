package gc

import (
	"testing"

	"github.com/3065190005/Zelo/pkg/runtime"
)

func TestCollectGarbageReclaimsUnreachable(t *testing.T) {
	c := New()
	root := runtime.NewEnvironment(nil)

	reachable := runtime.NewInstance(runtime.NewClass("Reachable", nil))
	c.RegisterInstance(reachable)
	root.Define("kept", reachable)

	unreachable := runtime.NewInstance(runtime.NewClass("Unreachable", nil))
	c.RegisterInstance(unreachable)

	if c.InstanceCount() != 2 {
		t.Fatalf("InstanceCount() = %d, want 2 before collection", c.InstanceCount())
	}

	c.CollectGarbage(root)

	if c.InstanceCount() != 1 {
		t.Fatalf("InstanceCount() = %d, want 1 after collecting an unreachable instance", c.InstanceCount())
	}
}

func TestCollectGarbagePromotesSurvivorsToOldGeneration(t *testing.T) {
	c := New()
	root := runtime.NewEnvironment(nil)

	inst := runtime.NewInstance(runtime.NewClass("Survivor", nil))
	c.RegisterInstance(inst)
	root.Define("kept", inst)

	c.CollectGarbage(root)

	if c.YoungInstanceCount() != 0 {
		t.Fatalf("YoungInstanceCount() = %d, want 0 after a survivor is promoted", c.YoungInstanceCount())
	}
	if c.OldInstanceCount() != 1 {
		t.Fatalf("OldInstanceCount() = %d, want 1 after a survivor is promoted", c.OldInstanceCount())
	}
}

func TestMarkFollowsClosureEnvironment(t *testing.T) {
	c := New()
	root := runtime.NewEnvironment(nil)
	captured := runtime.NewEnvironment(nil)

	inst := runtime.NewInstance(runtime.NewClass("Captured", nil))
	c.RegisterInstance(inst)
	captured.Define("it", inst)

	fn := &runtime.Function{Name: "closure", Closure: captured}
	c.RegisterFunction(fn)
	root.Define("f", fn)

	c.CollectGarbage(root)

	if c.InstanceCount() != 1 {
		t.Fatalf("InstanceCount() = %d, want 1: an instance reachable only through a closure's captured environment was collected", c.InstanceCount())
	}
}

func TestCollectIncrementalEventuallySweeps(t *testing.T) {
	c := New()
	root := runtime.NewEnvironment(nil)

	unreachable := runtime.NewInstance(runtime.NewClass("Temp", nil))
	c.RegisterInstance(unreachable)

	for i := 0; i <= StepsPerCycle; i++ {
		c.CollectIncremental(root)
	}

	if c.InstanceCount() != 0 {
		t.Fatalf("InstanceCount() = %d, want 0 after a full incremental cycle swept an unreachable instance", c.InstanceCount())
	}
}
