package decision

import "testing"

func fixedJitter(n int) func() int {
	return func() int { return n }
}

func TestScoreStaysInRange(t *testing.T) {
	for _, jitter := range []int{-3, 0, 3} {
		policy := NewPolicyWithJitter(fixedJitter(jitter))
		for kbHits := 0; kbHits <= 10; kbHits++ {
			for _, priority := range []string{"", "LOW", "NORMAL", "HIGH"} {
				score := policy.Score(kbHits, priority)
				if score < 0 || score > 100 {
					t.Fatalf("score %d out of range (kbHits=%d priority=%q jitter=%d)", score, kbHits, priority, jitter)
				}
			}
		}
	}
}

func TestScoreComponents(t *testing.T) {
	policy := NewPolicyWithJitter(fixedJitter(0))

	tests := []struct {
		kbHits   int
		priority string
		want     int
	}{
		{0, "NORMAL", 70},
		{1, "NORMAL", 80},
		{2, "NORMAL", 90},
		{3, "NORMAL", 90}, // kb bonus capped at 20
		{0, "HIGH", 60},
		{2, "HIGH", 80},
		{5, "HIGH", 80},
	}
	for _, tt := range tests {
		if got := policy.Score(tt.kbHits, tt.priority); got != tt.want {
			t.Fatalf("Score(%d, %q) = %d, want %d", tt.kbHits, tt.priority, got, tt.want)
		}
	}
}

func TestHighPriorityPenaltyIsExactlyTen(t *testing.T) {
	policy := NewPolicyWithJitter(fixedJitter(0))
	for kbHits := 0; kbHits <= 5; kbHits++ {
		normal := policy.Score(kbHits, "NORMAL")
		high := policy.Score(kbHits, "HIGH")
		if normal-high != 10 {
			t.Fatalf("kbHits=%d: expected penalty of 10, got %d", kbHits, normal-high)
		}
	}
}

func TestEscalationAndClosureThreshold(t *testing.T) {
	policy := NewPolicy()

	if !policy.NeedsEscalation(89) {
		t.Fatalf("score 89 must escalate")
	}
	if policy.NeedsEscalation(90) {
		t.Fatalf("score 90 must not escalate")
	}
	if policy.EligibleForClosure(89) {
		t.Fatalf("score 89 must not close")
	}
	if !policy.EligibleForClosure(90) {
		t.Fatalf("score 90 must close")
	}
}

func TestRandomJitterStaysBounded(t *testing.T) {
	policy := NewPolicy()
	for i := 0; i < 200; i++ {
		score := policy.Score(0, "NORMAL")
		if score < 67 || score > 73 {
			t.Fatalf("jitter exceeded ±3: score %d", score)
		}
	}
}
