package theme

import (
	"testing"

	"github.com/theirongolddev/cfarm/internal/model"
)

func TestLookupAndFallback(t *testing.T) {
	if _, ok := Lookup("tokyo-night"); !ok {
		t.Fatal("tokyo-night not found")
	}
	if _, ok := Lookup("solarized"); ok {
		t.Fatal("unknown theme found")
	}
	if got := ByName("solarized").Name; got != FlexokiDark.Name {
		t.Fatalf("fallback = %q", got)
	}
	if n := Names(); len(n) != len(All) || n[0] != "flexoki-dark" {
		t.Fatalf("Names = %v", n)
	}
}

func TestNoticeRoles(t *testing.T) {
	th := CatppuccinMocha
	if c, icon := th.Notice(model.NoticeError); c != th.Red || icon != "✗" {
		t.Fatalf("error = %v %q", c, icon)
	}
	if c, icon := th.Notice(model.NoticeSuccess); c != th.Green || icon != "✓" {
		t.Fatalf("success = %v %q", c, icon)
	}
	if c, _ := th.Notice(""); c != th.Blue {
		t.Fatalf("default = %v", c)
	}
}

func TestFundingGrades(t *testing.T) {
	th := FlexokiDark
	for _, tc := range []struct {
		pct  float64
		want string
	}{
		{0, string(th.Cyan)},
		{0.5, string(th.Accent)},
		{0.95, string(th.AccentBright)},
	} {
		if got := string(th.Funding(tc.pct)); got != tc.want {
			t.Errorf("Funding(%v) = %s, want %s", tc.pct, got, tc.want)
		}
	}
}
