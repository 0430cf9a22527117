package domain

import "testing"

func TestAsFloatRejectsStrings(t *testing.T) {
	if _, ok := AsFloat("12.5"); ok {
		t.Fatalf("numeric coercion must never parse strings")
	}
	if f, ok := AsFloat(12.5); !ok || f != 12.5 {
		t.Fatalf("expected 12.5, got %v ok=%v", f, ok)
	}
	if n, ok := AsInt(3.9); !ok || n != 3 {
		t.Fatalf("expected truncation to 3, got %v", n)
	}
}

func TestAsStringListSkipsNonStrings(t *testing.T) {
	got := AsStringList([]any{"a", 1, "b", nil})
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected list %v", got)
	}
	if AsStringList("not a list") != nil {
		t.Fatalf("non-list input must yield nil")
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to AnalysisStatus
		want     bool
	}{
		{StatusPending, StatusDone, true},
		{StatusPending, StatusFailed, true},
		{StatusDone, StatusPending, false},
		{StatusDone, StatusFailed, false},
		{StatusFailed, StatusDone, false},
		{StatusDone, StatusDone, true},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Fatalf("CanTransition(%s,%s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestHasFusion(t *testing.T) {
	var nilResp *InferenceResponse
	if nilResp.HasFusion() {
		t.Fatalf("nil response has no fusion")
	}
	if (&InferenceResponse{}).HasFusion() {
		t.Fatalf("empty fusion map is absent")
	}
	if !(&InferenceResponse{Fusion: map[string]any{"skin_mbti": "DSPW"}}).HasFusion() {
		t.Fatalf("expected fusion present")
	}
}
