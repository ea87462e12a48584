package mlbstats

import "testing"

func TestParseOptionalFloat_AcceptsProviderPercentageForms(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want float64
	}{
		{raw: "0.674", want: 0.674},
		{raw: ".654", want: 0.654},
		{raw: "1", want: 1},
	}
	for _, tc := range cases {
		got := parseOptionalFloat(tc.raw)
		if got == nil {
			t.Fatalf("expected %q to parse", tc.raw)
		}
		if *got != tc.want {
			t.Fatalf("expected %v for %q, got=%v", tc.want, tc.raw, *got)
		}
	}
}

func TestParseOptionalFloat_AbsentSentinels(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "-", "—", "--", "  "} {
		if got := parseOptionalFloat(raw); got != nil {
			t.Fatalf("expected %q to be absent, got=%v", raw, *got)
		}
	}
}

func TestParseOptionalFloat_MalformedDegradesToAbsent(t *testing.T) {
	t.Parallel()

	if got := parseOptionalFloat("n/a"); got != nil {
		t.Fatalf("expected malformed value to be absent, got=%v", *got)
	}
}

func TestParseOptionalInt_ParsesRankStrings(t *testing.T) {
	t.Parallel()

	got := parseOptionalInt("3")
	if got == nil || *got != 3 {
		t.Fatalf("expected 3, got=%v", got)
	}
	if parseOptionalInt("") != nil {
		t.Fatalf("expected empty rank to be absent")
	}
	if parseOptionalInt("first") != nil {
		t.Fatalf("expected non-numeric rank to be absent")
	}
}

func TestParseWinLossPair(t *testing.T) {
	t.Parallel()

	wins, losses, ok := parseWinLossPair("8-2")
	if !ok || wins != 8 || losses != 2 {
		t.Fatalf("expected 8-2, got wins=%d losses=%d ok=%v", wins, losses, ok)
	}

	if _, _, ok := parseWinLossPair("8/2"); ok {
		t.Fatalf("expected separator mismatch to fail")
	}
	if _, _, ok := parseWinLossPair("eight-two"); ok {
		t.Fatalf("expected non-numeric pair to fail")
	}
	if _, _, ok := parseWinLossPair(""); ok {
		t.Fatalf("expected empty pair to fail")
	}
}

func TestSplitStreakCode(t *testing.T) {
	t.Parallel()

	count, isWin, ok := splitStreakCode("W3")
	if !ok || !isWin || count != 3 {
		t.Fatalf("expected win streak of 3, got count=%d isWin=%v ok=%v", count, isWin, ok)
	}

	count, isWin, ok = splitStreakCode("L10")
	if !ok || isWin || count != 10 {
		t.Fatalf("expected loss streak of 10, got count=%d isWin=%v ok=%v", count, isWin, ok)
	}

	for _, code := range []string{"", "W", "X3", "W-1", "Wx"} {
		if _, _, ok := splitStreakCode(code); ok {
			t.Fatalf("expected %q to report no streak", code)
		}
	}
}
