package view

import (
	"testing"
	"time"
)

func TestEntranceDelays(t *testing.T) {
	vm := New()
	vm.Apply(EntranceDelays(4, 0)...)
	for i := 0; i < 4; i++ {
		want := time.Duration(i) * 100 * time.Millisecond
		if got := vm.Delay(CardTarget(i)); got != want {
			t.Errorf("card %d delay = %v, want %v", i, got, want)
		}
	}

	vm.Apply(EntranceDelays(2, 250*time.Millisecond)...)
	if got := vm.Delay(CardTarget(1)); got != 250*time.Millisecond {
		t.Errorf("custom step delay = %v", got)
	}
}

func TestRevealBars(t *testing.T) {
	vm := New()
	vm.Apply(
		Command{Target: ExperienceBar, Op: SetWidth, Value: "40%"},
		Command{Target: ProjectBarTarget("1"), Op: SetWidth, Value: "75%"},
		Command{Target: UserBalance, Op: SetText, Value: "1.00"},
	)

	reset, restore := RevealBars(vm)
	if len(reset) != 2 || len(restore) != 2 {
		t.Fatalf("reset=%d restore=%d, want 2 each", len(reset), len(restore))
	}

	vm.Apply(reset...)
	if vm.Width(ExperienceBar) != "0%" || vm.Width(ProjectBarTarget("1")) != "0%" {
		t.Fatal("bars not reset to 0%")
	}

	vm.Apply(restore...)
	if vm.Width(ExperienceBar) != "40%" {
		t.Fatalf("experience bar restored to %q", vm.Width(ExperienceBar))
	}
	if vm.Width(ProjectBarTarget("1")) != "75%" {
		t.Fatalf("project bar restored to %q", vm.Width(ProjectBarTarget("1")))
	}
}

func TestPercent(t *testing.T) {
	cases := map[string]float64{
		"50%":   0.5,
		"37.5%": 0.375,
		"0%":    0,
		"":      0,
		"+Inf%": 0,
		"NaN%":  0,
	}
	for in, want := range cases {
		if got := Percent(in); got != want {
			t.Errorf("Percent(%q) = %v, want %v", in, got, want)
		}
	}
}
