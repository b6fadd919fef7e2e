package authz

import (
	"errors"
	"testing"
)

func TestBindUnknownProvider(t *testing.T) {
	b := NewBuilder(NewRegistry())
	err := b.Bind("nope", "", AllMethods)
	if !errors.Is(err, ErrUnknownProvider) {
		t.Fatalf("err = %v, want ErrUnknownProvider", err)
	}
}

func TestBindUnsupportedCapability(t *testing.T) {
	reg := NewRegistry()
	reg.Register("broken", notAProvider{})

	b := NewBuilder(reg)
	err := b.Bind("broken", "", AllMethods)
	if !errors.Is(err, ErrUnsupportedCapability) {
		t.Fatalf("err = %v, want ErrUnsupportedCapability", err)
	}
}

func TestBindPreservesOrderAndDuplicates(t *testing.T) {
	reg := NewRegistry()
	reg.Register("p", &stubProvider{})

	b := NewBuilder(reg)
	for _, req := range []string{"first", "second", "first"} {
		if err := b.Bind("p", req, AllMethods); err != nil {
			t.Fatalf("Bind error: %v", err)
		}
	}
	scope := b.Freeze()

	got := scope.All()
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, want := range []string{"first", "second", "first"} {
		if got[i].Requirement != want {
			t.Fatalf("binding %d requirement = %q, want %q", i, got[i].Requirement, want)
		}
		if got[i].Provider() == nil {
			t.Fatalf("binding %d has no resolved provider", i)
		}
	}
}

func TestMergeChildReplacesWholesale(t *testing.T) {
	reg := NewRegistry()
	reg.Register("p", &stubProvider{})

	parentB := NewBuilder(reg)
	_ = parentB.Bind("p", "Y", AllMethods)
	_ = parentB.Bind("p", "Z", AllMethods)
	parent := parentB.Freeze()

	childB := NewBuilder(reg)
	_ = childB.Bind("p", "X", AllMethods)
	child := childB.Freeze()

	merged := Merge(parent, child)
	if merged.Len() != 1 || merged.All()[0].Requirement != "X" {
		t.Fatalf("merged = %+v, want exactly [X]", merged.All())
	}
}

func TestMergeEmptyChildInheritsParent(t *testing.T) {
	reg := NewRegistry()
	reg.Register("p", &stubProvider{})

	parentB := NewBuilder(reg)
	_ = parentB.Bind("p", "Y", AllMethods)
	_ = parentB.Bind("p", "Z", AllMethods)
	parent := parentB.Freeze()

	merged := Merge(parent, NewBuilder(reg).Freeze())
	if merged != parent {
		t.Fatalf("merged is not the parent list verbatim")
	}
	if merged.Len() != 2 {
		t.Fatalf("merged len = %d, want 2", merged.Len())
	}
}

func TestRequiresAuth(t *testing.T) {
	reg := NewRegistry()
	reg.Register("p", &stubProvider{})

	getOnly, _ := MaskOf("GET")
	postOnly, _ := MaskOf("POST")

	b := NewBuilder(reg)
	_ = b.Bind("p", "", getOnly)
	_ = b.Bind("p", "", postOnly)
	scope := b.Freeze()

	cases := []struct {
		method string
		want   bool
	}{
		{"GET", true},
		{"POST", true},
		{"DELETE", false},
		{"PUT", false},
	}
	for _, c := range cases {
		if got := scope.RequiresAuth(c.method); got != c.want {
			t.Fatalf("RequiresAuth(%s) = %v, want %v", c.method, got, c.want)
		}
	}

	empty := NewBuilder(reg).Freeze()
	for _, m := range []string{"GET", "POST", "TRACE"} {
		if empty.RequiresAuth(m) {
			t.Fatalf("empty scope RequiresAuth(%s) = true, want false", m)
		}
	}
}
