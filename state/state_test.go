package state

import (
	"sync"
	"testing"
)

func TestNewStoreDrawsInitialTarget(t *testing.T) {
	src := &SequenceSource{Values: []uint32{7}}
	st := NewStore(ModeNormal, 3, src)

	s := st.Snapshot()
	if s.Counter != 3 {
		t.Errorf("counter = %d, want 3", s.Counter)
	}
	if s.TargetKeystrokes != 7 {
		t.Errorf("target = %d, want 7", s.TargetKeystrokes)
	}
	if s.Mode != ModeNormal {
		t.Errorf("mode = %v, want normal", s.Mode)
	}
}

func TestRandSourceBounds(t *testing.T) {
	var src RandSource
	for i := 0; i < 1000; i++ {
		if v := src.Next(ModeTest); v != 1 {
			t.Fatalf("test mode drew %d, want 1", v)
		}
		if v := src.Next(ModeNormal); v < 1 || v > 100 {
			t.Fatalf("normal mode drew %d, want [1,100]", v)
		}
		if v := src.Next(ModeHard); v < 1 || v > 1000 {
			t.Fatalf("hard mode drew %d, want [1,1000]", v)
		}
	}
}

func TestSequenceSourceRepeatsLast(t *testing.T) {
	src := &SequenceSource{Values: []uint32{5, 2}}
	got := []uint32{src.Next(ModeNormal), src.Next(ModeNormal), src.Next(ModeNormal)}
	want := []uint32{5, 2, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("draw %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestUpdateSerializesMutation(t *testing.T) {
	st := NewStore(ModeTest, 0, &SequenceSource{Values: []uint32{1}})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				st.Update(func(s *State) error {
					s.Counter++
					return nil
				})
			}
		}()
	}
	wg.Wait()

	if got := st.Snapshot().Counter; got != 5000 {
		t.Errorf("counter = %d, want 5000", got)
	}
}

func TestModeString(t *testing.T) {
	cases := []struct {
		mode Mode
		want string
	}{
		{ModeTest, "test"},
		{ModeNormal, "normal"},
		{ModeHard, "hard"},
	}
	for _, c := range cases {
		if got := c.mode.String(); got != c.want {
			t.Errorf("%d.String() = %q, want %q", c.mode, got, c.want)
		}
	}
}
