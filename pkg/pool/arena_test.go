package pool

import "testing"

func TestDupCopiesAndReturnsStableSlice(t *testing.T) {
	a := &Arena{}
	src := []byte("hello")
	got := a.Dup(src)
	if string(got) != "hello" {
		t.Fatalf("Dup = %q, want %q", got, "hello")
	}
	src[0] = 'H'
	if got[0] != 'h' {
		t.Fatal("Dup result aliased the source slice")
	}
}

func TestDupSurvivesGrowth(t *testing.T) {
	a := &Arena{buf: make([]byte, 0, 4)}
	first := a.Dup([]byte("ab"))
	second := a.Dup([]byte("cdefghij")) // forces growth past initial cap
	if string(first) != "ab" {
		t.Fatalf("first slice corrupted after growth: %q", first)
	}
	if string(second) != "cdefghij" {
		t.Fatalf("second slice = %q", second)
	}
}

func TestResetReclaimsSpace(t *testing.T) {
	a := &Arena{}
	a.Dup([]byte("abcdef"))
	if a.Len() != 6 {
		t.Fatalf("Len = %d, want 6", a.Len())
	}
	a.Reset()
	if a.Len() != 0 {
		t.Fatalf("Len after Reset = %d, want 0", a.Len())
	}
}

func TestGetPutRoundTrip(t *testing.T) {
	a := Get()
	a.Dup([]byte("data"))
	Put(a)
	b := Get()
	if b.Len() != 0 {
		t.Fatalf("pooled arena not reset: Len = %d", b.Len())
	}
}

func TestAllocateZeroLength(t *testing.T) {
	a := &Arena{}
	if got := a.Allocate(0); got != nil {
		t.Fatalf("Allocate(0) = %v, want nil", got)
	}
}
