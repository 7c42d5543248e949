package narrator

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/generative-ai-go/genai"

	"hunter_ai/prompts"
)

// ErrNoCandidate means the model returned no usable text, usually because
// the answer was blocked.
var ErrNoCandidate = errors.New("model returned no candidate")

// Gemini generates scenes with a Gemini model.
type Gemini struct {
	generate func(ctx context.Context, instruction, prompt string) (string, error)
	logger   *log.Logger
}

// NewGemini wraps a genai client. Each call builds its own model handle so
// concurrent sessions never share a system instruction.
func NewGemini(client *genai.Client, model string, logger *log.Logger) *Gemini {
	return &Gemini{
		logger: logger,
		generate: func(ctx context.Context, instruction, prompt string) (string, error) {
			m := client.GenerativeModel(model)
			m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(instruction)}}
			m.ResponseMIMEType = "application/json"
			m.ResponseSchema = responseSchema
			resp, err := m.GenerateContent(ctx, genai.Text(prompt))
			if err != nil {
				return "", err
			}
			return firstText(resp)
		},
	}
}

// GenerateScene asks the model for the next scene. An answer that is not
// valid JSON gets one repair attempt.
func (g *Gemini) GenerateScene(ctx context.Context, req Request) (Response, error) {
	instruction, err := Instruction(req)
	if err != nil {
		return Response{}, err
	}

	raw, err := g.generate(ctx, instruction, req.Action)
	if err != nil {
		return Response{}, fmt.Errorf("generate scene: %w", err)
	}
	resp, err := Parse(raw)
	if err == nil {
		return resp, nil
	}

	g.logger.Printf("narrator: invalid response, retrying: %v", err)
	raw, err = g.generate(ctx, instruction, fmt.Sprintf(prompts.JSONRetry, raw))
	if err != nil {
		return Response{}, fmt.Errorf("repair scene: %w", err)
	}
	resp, err = Parse(raw)
	if err != nil {
		return Response{}, fmt.Errorf("repair scene: %w", err)
	}
	return resp, nil
}

func firstText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrNoCandidate
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			return string(text), nil
		}
	}
	return "", ErrNoCandidate
}

func str() *genai.Schema { return &genai.Schema{Type: genai.TypeString} }
func num() *genai.Schema { return &genai.Schema{Type: genai.TypeInteger} }

func list(item *genai.Schema) *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: item}
}

func object(props map[string]*genai.Schema) *genai.Schema {
	return &genai.Schema{Type: genai.TypeObject, Properties: props}
}

var statsSchema = object(map[string]*genai.Schema{
	"strength":     num(),
	"agility":      num(),
	"perception":   num(),
	"vitality":     num(),
	"intelligence": num(),
})

var responseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"narrative": str(),
		"options":   list(str()),
		"updates": object(map[string]*genai.Schema{
			"hp":     num(),
			"mp":     num(),
			"exp":    num(),
			"gold":   num(),
			"level":  num(),
			"rank":   str(),
			"status": list(str()),
			"inventory": list(object(map[string]*genai.Schema{
				"id":            str(),
				"name":          str(),
				"type":          str(),
				"rank":          str(),
				"value":         num(),
				"weight":        &genai.Schema{Type: genai.TypeNumber},
				"description":   str(),
				"bonusStats":    statsSchema,
				"specialEffect": str(),
			})),
			"contacts": list(object(map[string]*genai.Schema{
				"id":         str(),
				"name":       str(),
				"profession": str(),
				"rank":       str(),
				"friendship": str(),
				"status":     str(),
			})),
			"worldLog": list(object(map[string]*genai.Schema{
				"id":          str(),
				"date":        str(),
				"title":       str(),
				"description": str(),
				"impact":      str(),
			})),
			"shadows": list(object(map[string]*genai.Schema{
				"id":           str(),
				"name":         str(),
				"originalName": str(),
				"rank":         str(),
				"level":        num(),
				"role":         str(),
				"active":       &genai.Schema{Type: genai.TypeBoolean},
			})),
			"guildInvitation": object(map[string]*genai.Schema{
				"id":          str(),
				"name":        str(),
				"rank":        str(),
				"description": str(),
				"benefits":    list(str()),
				"reputation":  num(),
			}),
		}),
		"events": list(str()),
	},
	Required: []string{"narrative", "options"},
}
