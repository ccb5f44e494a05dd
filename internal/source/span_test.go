package source

import (
	"testing"
)

func TestRange_End(t *testing.T) {
	tests := []struct {
		name string
		rng  Range
		end  int
	}{
		{name: "empty at start", rng: Range{Start: StartPos(), Len: 0}, end: 0},
		{name: "single char", rng: Range{Start: NewPos(3, 1, 4), Len: 1}, end: 4},
		{name: "multi char", rng: Range{Start: NewPos(10, 2, 1), Len: 5}, end: 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rng.End(); got != tt.end {
				t.Fatalf("End() = %d, want %d", got, tt.end)
			}
		})
	}
}

func TestRange_Adjacent(t *testing.T) {
	a := NewRange(NewPos(0, 1, 1), 3)
	b := NewRange(NewPos(3, 1, 4), 2)
	c := NewRange(NewPos(4, 1, 5), 1)

	if !a.Adjacent(b) || !b.Adjacent(a) {
		t.Fatalf("expected %v and %v to be adjacent", a, b)
	}
	if a.Adjacent(c) {
		t.Fatalf("did not expect %v and %v to be adjacent", a, c)
	}
	// an insertion point touches both neighbours
	ins := NewRange(NewPos(3, 1, 4), 0)
	if !a.Adjacent(ins) || !ins.Adjacent(b) {
		t.Fatalf("insertion point must be adjacent to both sides")
	}
}

func TestRange_Cover(t *testing.T) {
	a := NewRange(NewPos(2, 1, 3), 2)
	b := NewRange(NewPos(6, 2, 1), 3)
	got := a.Cover(b)
	if got.Start.Offset != 2 || got.End() != 9 {
		t.Fatalf("Cover = %v, want [2-9)", got)
	}
	if again := b.Cover(a); again != got {
		t.Fatalf("Cover must be symmetric: %v vs %v", again, got)
	}
}

func TestRange_ContainsAndEmpty(t *testing.T) {
	r := NewRange(NewPos(4, 1, 5), 2)
	for off, want := range map[int]bool{3: false, 4: true, 5: true, 6: false} {
		if got := r.Contains(off); got != want {
			t.Errorf("Contains(%d) = %v, want %v", off, got, want)
		}
	}
	if r.Empty() {
		t.Fatalf("non-empty range reported empty")
	}
	empty := NewRange(NewPos(4, 1, 5), 0)
	if !empty.Empty() || empty.Contains(4) {
		t.Fatalf("insertion point must be empty and contain nothing")
	}
	if (Range{Len: -1}).Valid() {
		t.Fatalf("negative length must be invalid")
	}
}

func TestPos_Advance(t *testing.T) {
	p := StartPos()
	for _, ch := range "ab\ncd" {
		p = p.Advance(ch)
	}
	want := NewPos(5, 2, 3)
	if p != want {
		t.Fatalf("Advance chain = %+v, want %+v", p, want)
	}
}

func TestPos_Ordering(t *testing.T) {
	a := NewPos(1, 1, 2)
	b := NewPos(7, 2, 1)
	if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(a) != 0 {
		t.Fatalf("Compare must order by offset")
	}
	if !a.Before(b) || b.Before(a) {
		t.Fatalf("Before must order by offset")
	}
	if s := b.String(); s != "2:1" {
		t.Fatalf("String() = %q", s)
	}
}
