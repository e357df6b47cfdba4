package distribution

import (
	"errors"
	"testing"
)

func TestDefaultSplit_SumsToTotal(t *testing.T) {
	for total := 0; total <= 500; total++ {
		c := DefaultSplit(total)
		if c.Sum() != total {
			t.Fatalf("DefaultSplit(%d) = %+v, sum %d", total, c, c.Sum())
		}
	}
}

func TestDefaultSplit_Values(t *testing.T) {
	tests := []struct {
		total int
		want  Counts
	}{
		{0, Counts{0, 0, 0}},
		{1, Counts{0, 0, 1}},
		{3, Counts{1, 1, 1}},
		{7, Counts{3, 3, 1}},
		{10, Counts{4, 4, 2}},
		{50, Counts{20, 20, 10}},
		{33, Counts{13, 13, 7}},
	}
	for _, tt := range tests {
		if got := DefaultSplit(tt.total); got != tt.want {
			t.Errorf("DefaultSplit(%d) = %+v, want %+v", tt.total, got, tt.want)
		}
	}
}

func TestRound_HalfUp(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0.5, 1},
		{1.5, 2},
		{2.5, 3},
		{2.4999, 2},
		{-0.5, 0},
		{-1.5, -1},
	}
	for _, tt := range tests {
		if got := Round(tt.in); got != tt.want {
			t.Errorf("Round(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSetTierByPercent_LeavesOtherTiers(t *testing.T) {
	cfg := Config{}
	cfg.SetTotal(50)

	if err := cfg.SetTierByPercent(TierEasy, 50); err != nil {
		t.Fatalf("SetTierByPercent() error = %v", err)
	}
	want := Counts{Easy: 25, Medium: 20, Hard: 10}
	if cfg.Counts != want {
		t.Errorf("Counts = %+v, want %+v", cfg.Counts, want)
	}
}

func TestSetTierByPercent_RoundsEachTierIndependently(t *testing.T) {
	cfg := Config{TotalQuestions: 7}
	for _, tier := range Tiers {
		if err := cfg.SetTierByPercent(tier, 100.0/3); err != nil {
			t.Fatalf("SetTierByPercent(%s) error = %v", tier, err)
		}
	}
	// 7/3 = 2.33 rounds to 2 for each tier; the sum is left at 6, not 7.
	if cfg.Counts != (Counts{2, 2, 2}) {
		t.Errorf("Counts = %+v, want {2 2 2}", cfg.Counts)
	}
	if _, err := ValidateReadyForPreview(cfg, true); err == nil {
		t.Error("expected count mismatch after percent edits")
	}
}

func TestSetTier_UnknownTier(t *testing.T) {
	cfg := Config{TotalQuestions: 10}
	if err := cfg.SetTierByCount("expert", 3); !errors.Is(err, ErrUnknownTier) {
		t.Errorf("SetTierByCount() error = %v, want ErrUnknownTier", err)
	}
	if err := cfg.SetTierByPercent("expert", 30); !errors.Is(err, ErrUnknownTier) {
		t.Errorf("SetTierByPercent() error = %v, want ErrUnknownTier", err)
	}
}

func TestScenario_ManualEditBreaksTotal(t *testing.T) {
	cfg := Config{}
	cfg.SetTotal(50)
	if cfg.Counts != (Counts{20, 20, 10}) {
		t.Fatalf("DefaultSplit(50) = %+v, want {20 20 10}", cfg.Counts)
	}

	if err := cfg.SetTierByCount(TierHard, 15); err != nil {
		t.Fatalf("SetTierByCount() error = %v", err)
	}
	if cfg.Counts.Easy != 20 || cfg.Counts.Medium != 20 {
		t.Errorf("easy/medium changed: %+v", cfg.Counts)
	}

	_, err := ValidateReadyForPreview(cfg, true)
	var mismatch *CountMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("ValidateReadyForPreview() error = %v, want CountMismatchError", err)
	}
	if mismatch.Selected != 55 || mismatch.Required != 50 {
		t.Errorf("mismatch = %+v, want 55 vs 50", mismatch)
	}
}

func TestCurrentTotals(t *testing.T) {
	totals := CurrentTotals(Counts{Easy: 20, Medium: 20, Hard: 10}, Weights{Easy: 1, Medium: 2, Hard: 4.5})
	if totals.Selected != 50 {
		t.Errorf("Selected = %d, want 50", totals.Selected)
	}
	if totals.Marks != 105 {
		t.Errorf("Marks = %v, want 105", totals.Marks)
	}
}

func TestToPercentPayload_AlwaysSumsTo100(t *testing.T) {
	for total := 1; total <= 120; total++ {
		for easy := 0; easy <= total; easy += 1 + total/10 {
			for medium := 0; easy+medium <= total; medium += 1 + total/10 {
				counts := Counts{Easy: easy, Medium: medium, Hard: total - easy - medium}
				p, err := ToPercentPayload(counts, total)
				if err != nil {
					t.Fatalf("ToPercentPayload(%+v, %d) error = %v", counts, total, err)
				}
				if p.Sum() != 100 {
					t.Fatalf("ToPercentPayload(%+v, %d) = %+v, sum %d", counts, total, p, p.Sum())
				}
			}
		}
	}
}

func TestToPercentPayload_Values(t *testing.T) {
	p, err := ToPercentPayload(Counts{1, 1, 1}, 3)
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if p != (Percentages{33, 33, 34}) {
		t.Errorf("got %+v, want {33 33 34}", p)
	}

	p, _ = ToPercentPayload(Counts{20, 20, 10}, 50)
	if p != (Percentages{40, 40, 20}) {
		t.Errorf("got %+v, want {40 40 20}", p)
	}
}

func TestToPercentPayload_ZeroTotalGuard(t *testing.T) {
	p, err := ToPercentPayload(Counts{}, 0)
	if !errors.Is(err, ErrZeroTotal) {
		t.Fatalf("error = %v, want ErrZeroTotal", err)
	}
	if p != (Percentages{}) {
		t.Errorf("percentages = %+v, want zero value", p)
	}
}

func TestValidateReadyForPreview(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		subject bool
		wantErr error
	}{
		{"ok", Config{TotalQuestions: 10, Counts: Counts{4, 4, 2}}, true, nil},
		{"missing subject", Config{TotalQuestions: 10, Counts: Counts{4, 4, 2}}, false, ErrMissingSubject},
		{"zero total", Config{}, true, ErrZeroTotal},
		{"zero total without subject", Config{}, false, ErrMissingSubject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ValidateReadyForPreview(tt.cfg, tt.subject)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if err == nil && p.Sum() != 100 {
				t.Errorf("percentages = %+v, want sum 100", p)
			}
		})
	}
}

func TestValidateReadyForPreview_MismatchBeforeSubject(t *testing.T) {
	_, err := ValidateReadyForPreview(Config{TotalQuestions: 10, Counts: Counts{1, 1, 1}}, false)
	var mismatch *CountMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("error = %v, want CountMismatchError", err)
	}
	if mismatch.Error() != "selected 3 questions but the exam requires 10" {
		t.Errorf("message = %q", mismatch.Error())
	}
}

func TestParseTier(t *testing.T) {
	for _, raw := range []string{"easy", "Medium", " HARD "} {
		if _, err := ParseTier(raw); err != nil {
			t.Errorf("ParseTier(%q) error = %v", raw, err)
		}
	}
	if _, err := ParseTier("extreme"); !errors.Is(err, ErrUnknownTier) {
		t.Errorf("ParseTier(extreme) error = %v, want ErrUnknownTier", err)
	}
}
