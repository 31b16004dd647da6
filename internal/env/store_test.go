package env

import "testing"

func TestSetAndGet(t *testing.T) {
	s := New[int]()
	s.Set("x", 1)

	v, ok := s.Get("x")
	if !ok || v != 1 {
		t.Fatalf("Get(x) = %d, %v; want 1, true", v, ok)
	}

	if _, ok := s.Get("missing"); ok {
		t.Fatal("Get(missing) should report not found")
	}
}

func TestChildWalksOuterChainOnRead(t *testing.T) {
	outer := New[int]()
	outer.Set("x", 1)
	inner := Child(outer)

	v, ok := inner.Get("x")
	if !ok || v != 1 {
		t.Fatalf("child should see outer binding; got %d, %v", v, ok)
	}

	inner.Set("x", 2)
	if v, _ := inner.Get("x"); v != 2 {
		t.Fatalf("inner shadow should take precedence, got %d", v)
	}
	if v, _ := outer.Get("x"); v != 1 {
		t.Fatalf("Set on inner must not mutate the outer frame, got %d", v)
	}
}

func TestGetLocalDoesNotWalkOuter(t *testing.T) {
	outer := New[int]()
	outer.Set("x", 1)
	inner := Child(outer)

	if _, ok := inner.GetLocal("x"); ok {
		t.Fatal("GetLocal should not see bindings from an outer frame")
	}
}

func TestUpdateMutatesDeclaringFrame(t *testing.T) {
	outer := New[int]()
	outer.Set("x", 1)
	inner := Child(outer)

	ok := inner.Update("x", 99)
	if !ok {
		t.Fatal("Update should find x in the outer frame")
	}
	if v, _ := outer.Get("x"); v != 99 {
		t.Fatalf("Update should mutate the frame that owns the binding, got %d", v)
	}
	if _, ok := inner.GetLocal("x"); ok {
		t.Fatal("Update must not create a new binding in the current frame")
	}
}

func TestUpdateReportsMissingBinding(t *testing.T) {
	s := New[int]()
	if s.Update("nope", 1) {
		t.Fatal("Update on an unbound name should report false")
	}
}

func TestConstTracking(t *testing.T) {
	s := New[int]()
	s.SetConst("x", 1)

	if !s.HasConst("x") {
		t.Fatal("HasConst should report true for a const binding in this frame")
	}
	if !s.ConstOwner("x") {
		t.Fatal("ConstOwner should report true when this frame owns x as const")
	}
}

func TestConstOwnerLooksUpTheDeclaringFrame(t *testing.T) {
	outer := New[int]()
	outer.SetConst("x", 1)
	inner := Child(outer)

	if !inner.ConstOwner("x") {
		t.Fatal("ConstOwner should find the const binding in an outer frame")
	}
}

func TestShadowingConstInChildIsNotConst(t *testing.T) {
	outer := New[int]()
	outer.SetConst("x", 1)
	inner := Child(outer)
	inner.Set("x", 2)

	if inner.ConstOwner("x") {
		t.Fatal("shadowing a const name with a plain binding should not be const")
	}
	if !outer.ConstOwner("x") {
		t.Fatal("the outer const binding itself should remain const")
	}
}

func TestOuterReturnsEnclosingStore(t *testing.T) {
	outer := New[int]()
	inner := Child(outer)

	if inner.Outer() != outer {
		t.Fatal("Outer() should return the store passed to Child")
	}
	if outer.Outer() != nil {
		t.Fatal("a root store should have a nil Outer()")
	}
}

func TestFileRegistryDetectsCycles(t *testing.T) {
	r := NewFileRegistry()
	if err := r.BeginLoad("a.sf"); err != nil {
		t.Fatalf("first BeginLoad should succeed: %v", err)
	}
	if err := r.BeginLoad("a.sf"); err == nil {
		t.Fatal("re-entering a file still loading should report a cycle")
	}
}

func TestFileRegistryCachesFinishedLoad(t *testing.T) {
	r := NewFileRegistry()
	_ = r.BeginLoad("a.sf")
	r.FinishLoad("a.sf", nil)

	if _, ok := r.Get("a.sf"); !ok {
		t.Fatal("a finished load should be retrievable via Get")
	}
	if err := r.BeginLoad("a.sf"); err != nil {
		t.Fatalf("re-loading a finished file should not be treated as a cycle: %v", err)
	}
}
