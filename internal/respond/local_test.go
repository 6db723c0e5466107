package respond

import (
	"context"
	"strings"
	"testing"
)

func TestLocalGenerateReplyMatchesCategory(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		wantWord string
	}{
		{"nutrition", "What foods should I avoid?", "Proper nutrition during pregnancy"},
		{"symptoms", "My morning sickness is awful", "Common pregnancy symptoms"},
		{"exercise", "Is yoga okay right now?", "Moderate exercise during pregnancy"},
		{"weight", "How much weight should I put on?", "Healthy weight gain"},
		{"medication", "Can I take this antibiotic?", "Many medications should be avoided"},
		{"birth", "When should I go to the hospital?", "Birth preparation involves"},
		{"trimester", "What happens in the third trimester?", "three trimesters"},
	}

	local := NewLocal()
	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			history := []Message{{Role: "user", Content: tt.message}}
			got := local.GenerateReply(ctx, history)
			if !strings.Contains(got, tt.wantWord) {
				t.Errorf("GenerateReply(%q) = %q, want reply containing %q", tt.message, got, tt.wantWord)
			}
		})
	}
}

func TestLocalGenerateReplyUsesMostRecentUserMessage(t *testing.T) {
	local := NewLocal()
	history := []Message{
		{Role: "user", Content: "Tell me about yoga"},
		{Role: "assistant", Content: "Moderate exercise during pregnancy is generally beneficial..."},
		{Role: "user", Content: "And what about vitamins?"},
		{Role: "assistant", Content: "Proper nutrition during pregnancy is essential..."},
		{Role: "user", Content: "When does labor usually start?"},
	}

	got := local.GenerateReply(context.Background(), history)
	if !strings.Contains(got, "Birth preparation") {
		t.Errorf("expected birth category for most recent user message, got %q", got)
	}
}

func TestLocalGenerateReplyFirstMatchWins(t *testing.T) {
	// "eat" hits nutrition, "feel" and "nausea" hit symptoms; nutrition
	// comes first in the table so it must win.
	local := NewLocal()
	history := []Message{{Role: "user", Content: "I feel nauseous after eating"}}

	got := local.GenerateReply(context.Background(), history)
	if !strings.Contains(got, "Proper nutrition during pregnancy") {
		t.Errorf("expected nutrition category to win, got %q", got)
	}
}

func TestLocalGenerateReplyDefaults(t *testing.T) {
	local := NewLocal()
	ctx := context.Background()

	tests := []struct {
		name    string
		history []Message
	}{
		{"no keyword match", []Message{{Role: "user", Content: "Tell me a joke about penguins"}}},
		{"no user message", []Message{{Role: "assistant", Content: "Hello!"}}},
		{"empty history", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := local.GenerateReply(ctx, tt.history); got != DefaultReply {
				t.Errorf("expected default reply, got %q", got)
			}
		})
	}
}

func TestLocalGenerateReplyDeterministic(t *testing.T) {
	local := NewLocal()
	ctx := context.Background()
	history := []Message{{Role: "user", Content: "I feel nauseous after eating"}}

	first := local.GenerateReply(ctx, history)
	for i := 0; i < 10; i++ {
		if got := local.GenerateReply(ctx, history); got != first {
			t.Fatalf("reply changed between calls: %q vs %q", first, got)
		}
	}
}

func TestLocalGenerateTitle(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"What foods should I avoid?", "Nutrition Question"},
		{"I feel nauseous after eating", "Nutrition Question"}, // "eat" hits nutrition before symptoms
		{"Is swimming safe?", "Exercise Question"},
		{"How much weight gain is normal?", "Weight Question"},
		{"Which medications are allowed?", "Medication Question"},
		{"Can I take painkillers?", "Symptoms Question"}, // "pain" hits symptoms before medication
		{"Tell me about c-section recovery", "Birth Question"},
		{"I'm 20 weeks along", "Trimester Question"},
		{"Tell me a joke about penguins", "Pregnancy Question"},
	}

	local := NewLocal()
	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			if got := local.GenerateTitle(ctx, tt.message); got != tt.want {
				t.Errorf("GenerateTitle(%q) = %q, want %q", tt.message, got, tt.want)
			}
		})
	}
}

func TestLocalTitleAndReplyAgreeOnCategory(t *testing.T) {
	// Both functions iterate the same table in the same order, so a message
	// must map to the same category in both.
	local := NewLocal()
	ctx := context.Background()
	msg := "I feel nauseous after eating"

	title := local.GenerateTitle(ctx, msg)
	reply := local.GenerateReply(ctx, []Message{{Role: "user", Content: msg}})

	if title != "Nutrition Question" {
		t.Errorf("title = %q, want Nutrition Question", title)
	}
	if !strings.Contains(reply, "Proper nutrition during pregnancy") {
		t.Errorf("reply resolved a different category: %q", reply)
	}
}

func TestLocalCaseInsensitiveMatching(t *testing.T) {
	local := NewLocal()
	history := []Message{{Role: "user", Content: "WHAT FOODS ARE SAFE?"}}

	got := local.GenerateReply(context.Background(), history)
	if !strings.Contains(got, "Proper nutrition") {
		t.Errorf("expected nutrition match for upper-case input, got %q", got)
	}
}
