package narrator

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"hunter_ai/hunter"
	"hunter_ai/prompts"
)

func TestParseStripsFence(t *testing.T) {
	raw := "```json\n{\"narrative\":\"The gate hums.\",\"options\":[\"Enter\",\"Wait\"],\"updates\":{\"gold\":120},\"events\":[\"+120 gold\"]}\n```"
	resp, err := Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if resp.Narrative != "The gate hums." || len(resp.Options) != 2 || *resp.Updates.Gold != 120 || resp.Events[0] != "+120 gold" {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, raw := range []string{"", "not json", `{"options":["a"]}`, `{"narrative":"  "}`} {
		if _, err := Parse(raw); err == nil {
			t.Errorf("Parse(%q) succeeded", raw)
		}
	}
}

func TestFallbackHasNoUpdates(t *testing.T) {
	fb := Fallback()
	if fb.Narrative != prompts.FallbackNarrative || len(fb.Options) != 1 || fb.Updates != nil {
		t.Fatalf("fallback = %+v", fb)
	}
}

func TestInstructionEmbedsStateAndStyle(t *testing.T) {
	h := hunter.New("Sung", 24)
	got, err := Instruction(Request{Hunter: h, Style: Simplified})
	if err != nil {
		t.Fatalf("instruction: %v", err)
	}
	if !strings.Contains(got, `"name": "Sung"`) || !strings.Contains(got, prompts.SimplifiedStyle) {
		t.Fatal("instruction missing hunter state or style")
	}
}

func TestStyleToggle(t *testing.T) {
	if Detailed.Toggle() != Simplified || Simplified.Toggle() != Detailed {
		t.Fatal("toggle broken")
	}
}

func quiet() *log.Logger { return log.New(io.Discard, "", 0) }

func TestGeminiRepairsInvalidJSON(t *testing.T) {
	var seen []string
	g := &Gemini{logger: quiet(), generate: func(_ context.Context, _, prompt string) (string, error) {
		seen = append(seen, prompt)
		if len(seen) == 1 {
			return "{broken", nil
		}
		return `{"narrative":"Fixed.","options":["Go"]}`, nil
	}}

	resp, err := g.GenerateScene(context.Background(), Request{Hunter: hunter.New("A", 20), Action: "look"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if resp.Narrative != "Fixed." {
		t.Fatalf("narrative = %q", resp.Narrative)
	}
	if len(seen) != 2 || seen[0] != "look" || !strings.Contains(seen[1], "{broken") {
		t.Fatalf("prompts = %q", seen)
	}
}

func TestGeminiPropagatesTransportError(t *testing.T) {
	boom := errors.New("unreachable")
	g := &Gemini{logger: quiet(), generate: func(context.Context, string, string) (string, error) {
		return "", boom
	}}
	if _, err := g.GenerateScene(context.Background(), Request{Hunter: hunter.New("A", 20)}); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}
