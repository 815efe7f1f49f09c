package sanitize_test

import (
	"strings"
	"testing"

	"github.com/yigit/placementprep/internal/pkg/sanitize"
)

// ── Sanitize ──────────────────────────────────────────────────────────────────

func TestSanitize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain text trimmed", "  Binary Search \n", "Binary Search"},
		{"script block removed", "<script>alert(1)</script>Binary Search", "Binary Search"},
		{"script case insensitive", "<SCRIPT type=\"text/javascript\">x()</ScRiPt>DP", "DP"},
		{"multi-line script", "a<script>\nvar x = 1;\nalert(x)\n</script>b", "ab"},
		{"two script blocks", "<script>1</script>keep<script>2</script>", "keep"},
		{"tags stripped, text kept", "<b>Graphs</b> and <i>trees</i>", "Graphs and trees"},
		{"whitespace only", " \t\n ", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := sanitize.Sanitize(tc.in); got != tc.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

// ── Truncate ──────────────────────────────────────────────────────────────────

func TestTruncate_CeilingHoldsUnderAdversarialInput(t *testing.T) {
	ceilings := []int{
		sanitize.MaxTopic,
		sanitize.MaxMCQQuestion,
		sanitize.MaxMCQOption,
		sanitize.MaxJobTitle,
		sanitize.MaxEligibility,
		sanitize.MaxBusinessModel,
	}

	for _, max := range ceilings {
		in := "<script>evil()</script>" + strings.Repeat("x", max+1000) + "<b>tail</b>"
		got := sanitize.Truncate(in, max)
		if sanitize.Len(got) != max {
			t.Errorf("max=%d: len = %d", max, sanitize.Len(got))
		}
		if strings.ContainsAny(got, "<>") {
			t.Errorf("max=%d: markup survived truncation", max)
		}
	}
}

func TestTruncate_MultibyteCutOnCharacterBoundary(t *testing.T) {
	got := sanitize.Truncate(strings.Repeat("é", 10), 4)
	if got != "éééé" {
		t.Errorf("got %q, want %q", got, "éééé")
	}
}

func TestTruncate_ShortInputUnchanged(t *testing.T) {
	if got := sanitize.Truncate("  Two pointers  ", 200); got != "Two pointers" {
		t.Errorf("got %q", got)
	}
	if got := sanitize.Truncate("", 10); got != "" {
		t.Errorf("empty input: got %q", got)
	}
}

// ── CleanList ─────────────────────────────────────────────────────────────────

func TestCleanList_DropsEmptiesAndDuplicates(t *testing.T) {
	in := []string{"DP", "  ", "<b>DP</b>", "<script>x</script>", "Graphs ", "Graphs"}
	got := sanitize.CleanList(in, sanitize.MaxTopic)

	want := []string{"DP", "Graphs"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestContains(t *testing.T) {
	list := []string{"Reverse a linked list", "LRU cache"}
	if !sanitize.Contains(list, "  <i>LRU cache</i> ") {
		t.Error("expected sanitized match")
	}
	if sanitize.Contains(list, "lru cache") {
		t.Error("comparison must be case sensitive")
	}
}
