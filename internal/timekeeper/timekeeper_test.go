package timekeeper

import "testing"

type fakeClock struct{ t uint32 }

func (f *fakeClock) NowMillis() uint32 { return f.t }

func TestUpdateCachesTime(t *testing.T) {
	clk := &fakeClock{t: 1000}
	tk := New(clk)
	tk.Update()
	if got := tk.Now(); got != 1000 {
		t.Fatalf("Now() = %d, want 1000", got)
	}
	clk.t = 5000
	if got := tk.Now(); got != 1000 {
		t.Fatalf("Now() should stay cached until Update(); got %d", got)
	}
	if got := tk.RealNow(); got != 5000 {
		t.Fatalf("RealNow() = %d, want 5000", got)
	}
	tk.Update()
	if got := tk.Now(); got != 5000 {
		t.Fatalf("Now() after Update() = %d, want 5000", got)
	}
}

func TestElapsedWrapSafe(t *testing.T) {
	// Counter wraps past 0xFFFFFFFF; now is numerically smaller than
	// since, but true elapsed time is small and positive.
	since := uint32(0xFFFFFFF0)
	now := uint32(10)
	got := Elapsed(now, since)
	want := uint32(26) // (0x100000000 - 0xFFFFFFF0) + 10 = 16 + 10
	if got != want {
		t.Fatalf("Elapsed wrap = %d, want %d", got, want)
	}
}
