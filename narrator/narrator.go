// Package narrator is the boundary to the external narrative generator.
package narrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"hunter_ai/hunter"
	"hunter_ai/prompts"
	"hunter_ai/reconcile"
)

// Style is the narrative verbosity preference.
type Style string

const (
	Detailed   Style = "Detailed"
	Simplified Style = "Simplified"
)

// Toggle flips between the two styles.
func (s Style) Toggle() Style {
	if s == Simplified {
		return Detailed
	}
	return Simplified
}

// Request is one turn sent to the generator.
type Request struct {
	Hunter hunter.Hunter
	Style  Style
	Action string
}

// Response is the generator's answer for a turn.
type Response struct {
	Narrative string            `json:"narrative"`
	Options   []string          `json:"options"`
	Updates   *reconcile.Update `json:"updates,omitempty"`
	Events    []string          `json:"events,omitempty"`
}

// Generator produces the next scene for a hunter and an action.
type Generator interface {
	GenerateScene(ctx context.Context, req Request) (Response, error)
}

// ErrEmptyNarrative means the generator answered without any narrative.
var ErrEmptyNarrative = errors.New("response has no narrative")

// Fallback is the response used when the generator fails. It carries no
// updates.
func Fallback() Response {
	return Response{
		Narrative: prompts.FallbackNarrative,
		Options:   []string{prompts.FallbackOption},
	}
}

// Instruction renders the system instruction for req.
func Instruction(req Request) (string, error) {
	state, err := json.MarshalIndent(req.Hunter, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode hunter state: %w", err)
	}
	style := prompts.DetailedStyle
	if req.Style == Simplified {
		style = prompts.SimplifiedStyle
	}
	return fmt.Sprintf(prompts.SystemInstruction, style, state), nil
}

// Parse decodes a generator answer. The model sometimes wraps the JSON in a
// markdown fence, so that is stripped first.
func Parse(raw string) (Response, error) {
	clean := strings.TrimSpace(raw)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)

	var resp Response
	if err := json.Unmarshal([]byte(clean), &resp); err != nil {
		return Response{}, fmt.Errorf("decode response: %w", err)
	}
	if strings.TrimSpace(resp.Narrative) == "" {
		return Response{}, ErrEmptyNarrative
	}
	return resp, nil
}
