package dag

import (
	"context"
	"errors"
	"testing"

	"github.com/stevelan1995/stepflow/pkg/step"
)

func noop(ctx context.Context, in step.Input) (any, error) { return nil, nil }

func mustStep(t *testing.T, name string, deps []string) *step.Step {
	s, err := step.New(name, deps, noop, step.DefaultOptions())
	if err != nil {
		t.Fatalf("构造Step %q 失败: %v", name, err)
	}
	return s
}

func TestAdd_RejectsDuplicateName(t *testing.T) {
	d := New()
	if err := d.Add(mustStep(t, "a", nil)); err != nil {
		t.Fatalf("第一次Add失败: %v", err)
	}
	err := d.Add(mustStep(t, "a", nil))
	var dup *DuplicateStepError
	if !errors.As(err, &dup) {
		t.Fatalf("期望DuplicateStepError，实际: %v", err)
	}
}

func TestValidate_DetectsMissingDependency(t *testing.T) {
	d := New()
	_ = d.Add(mustStep(t, "b", []string{"a"}))

	err := d.Validate()
	var missing *MissingDependencyError
	if !errors.As(err, &missing) {
		t.Fatalf("期望MissingDependencyError，实际: %v", err)
	}
}

func TestValidate_DetectsCycle(t *testing.T) {
	d := New()
	_ = d.Add(mustStep(t, "a", []string{"b"}))
	_ = d.Add(mustStep(t, "b", []string{"a"}))

	err := d.Validate()
	var cyc *CycleError
	if !errors.As(err, &cyc) {
		t.Fatalf("期望CycleError，实际: %v", err)
	}
}

func TestValidate_AcceptsValidDiamond(t *testing.T) {
	d := New()
	_ = d.Add(mustStep(t, "a", nil))
	_ = d.Add(mustStep(t, "b", []string{"a"}))
	_ = d.Add(mustStep(t, "c", []string{"a"}))
	_ = d.Add(mustStep(t, "d", []string{"b", "c"}))

	if err := d.Validate(); err != nil {
		t.Fatalf("合法的菱形DAG应该通过验证，实际错误: %v", err)
	}
}

func TestSortedSteps_RespectsDependencyOrder(t *testing.T) {
	d := New()
	_ = d.Add(mustStep(t, "a", nil))
	_ = d.Add(mustStep(t, "b", []string{"a"}))
	_ = d.Add(mustStep(t, "c", []string{"a"}))
	_ = d.Add(mustStep(t, "d", []string{"b", "c"}))

	sorted, err := d.SortedSteps()
	if err != nil {
		t.Fatalf("排序失败: %v", err)
	}
	if len(sorted) != 4 {
		t.Fatalf("期望4个step，实际: %d", len(sorted))
	}

	pos := make(map[string]int, len(sorted))
	for i, s := range sorted {
		pos[s.Name()] = i
	}
	if pos["a"] >= pos["b"] || pos["a"] >= pos["c"] {
		t.Errorf("a必须排在b和c之前，实际顺序: %v", namesOf(sorted))
	}
	if pos["b"] >= pos["d"] || pos["c"] >= pos["d"] {
		t.Errorf("b和c必须排在d之前，实际顺序: %v", namesOf(sorted))
	}
}

func TestSortedSteps_BreaksTiesByInsertionOrder(t *testing.T) {
	d := New()
	_ = d.Add(mustStep(t, "z", nil))
	_ = d.Add(mustStep(t, "y", nil))
	_ = d.Add(mustStep(t, "x", nil))

	sorted, err := d.SortedSteps()
	if err != nil {
		t.Fatalf("排序失败: %v", err)
	}
	got := namesOf(sorted)
	want := []string{"z", "y", "x"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("期望插入顺序 %v，实际 %v", want, got)
		}
	}
}

func TestLevels_PartitionsDiamondIntoThreeLevels(t *testing.T) {
	d := New()
	_ = d.Add(mustStep(t, "a", nil))
	_ = d.Add(mustStep(t, "b", []string{"a"}))
	_ = d.Add(mustStep(t, "c", []string{"a"}))
	_ = d.Add(mustStep(t, "d", []string{"b", "c"}))

	levels, err := d.Levels()
	if err != nil {
		t.Fatalf("分层失败: %v", err)
	}
	if len(levels) != 3 {
		t.Fatalf("期望3层，实际: %d层", len(levels))
	}
	if len(levels[0]) != 1 || levels[0][0].Name() != "a" {
		t.Errorf("第0层应该只有a，实际: %v", namesOf(levels[0]))
	}
	if len(levels[1]) != 2 {
		t.Errorf("第1层应该有b和c两个节点，实际: %d", len(levels[1]))
	}
	if len(levels[2]) != 1 || levels[2][0].Name() != "d" {
		t.Errorf("第2层应该只有d，实际: %v", namesOf(levels[2]))
	}
}

func TestToMermaid_RendersEdgesAndIsolatedNodes(t *testing.T) {
	d := New()
	_ = d.Add(mustStep(t, "a", nil))
	_ = d.Add(mustStep(t, "b", []string{"a"}))
	_ = d.Add(mustStep(t, "isolated", nil))

	got := d.ToMermaid()
	want := "graph TD\n  a --> b\n  isolated\n"
	if got != want {
		t.Errorf("mermaid渲染错误\n期望:\n%s\n实际:\n%s", want, got)
	}
}

func namesOf(steps []*step.Step) []string {
	out := make([]string, len(steps))
	for i, s := range steps {
		out[i] = s.Name()
	}
	return out
}
