package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/cybermozhi/cybermozhi-server/internal/core"
	"github.com/cybermozhi/cybermozhi-server/internal/core/apperr"
	"github.com/cybermozhi/cybermozhi-server/internal/core/prompts"
)

const maxToolRounds = 4

// Gateway is the key-pool rotating Gemini gateway. One genai client is built
// per configured credential at startup; the pool decides which one serves a
// given call and handles quota rotation.
type Gateway struct {
	pool       *KeyPool
	clients    []*genai.Client
	genModel   string
	titleModel string
}

// NewGateway builds one client per credential. An empty key list is not a
// construction error: the server still starts, and every invocation fails
// with the configuration error until an operator fixes GEMINI_API_KEYS.
func NewGateway(ctx context.Context, keys []string, cursor *Cursor, genModel, titleModel string) (*Gateway, error) {
	if genModel == "" {
		genModel = "gemini-1.5-flash"
	}
	if titleModel == "" {
		titleModel = genModel
	}

	clients := make([]*genai.Client, 0, len(keys))
	for _, key := range keys {
		cl, err := genai.NewClient(ctx, option.WithAPIKey(key))
		if err != nil {
			for _, c := range clients {
				_ = c.Close()
			}
			return nil, fmt.Errorf("gemini client: %w", err)
		}
		clients = append(clients, cl)
	}

	return &Gateway{
		pool:       NewKeyPool(keys, cursor),
		clients:    clients,
		genModel:   genModel,
		titleModel: titleModel,
	}, nil
}

func (g *Gateway) Close() error {
	for _, c := range g.clients {
		_ = c.Close()
	}
	return nil
}

// GenerateText runs a template expecting Markdown output. If the model calls
// a bound tool, the invocation happens transparently inside this call: the
// handler result is fed back and generation continues, all on the same
// credential. A quota error anywhere in the exchange rotates to the next
// credential and restarts the exchange.
func (g *Gateway) GenerateText(ctx context.Context, tpl *prompts.Template, prompt string, tools []*genai.Tool, handler core.ToolHandler) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("%w: empty prompt", apperr.ErrInvalidInput)
	}

	var out string
	err := g.pool.Do(ctx, func(ctx context.Context, slot int, _ string) error {
		text, err := g.generateOnce(ctx, g.clients[slot], tpl, prompt, tools, handler)
		if err != nil {
			return err
		}
		out = text
		return nil
	})
	if err != nil {
		return "", err
	}
	return out, nil
}

// GenerateJSON runs a template with a declared JSON output shape and decodes
// the model's reply into out. A reply that cannot be decoded into the shape
// is an empty-output failure, distinct from transport errors.
func (g *Gateway) GenerateJSON(ctx context.Context, tpl *prompts.Template, prompt string, out any) error {
	if tpl.JSONShape == nil {
		return fmt.Errorf("%w: template %s declares no JSON shape", apperr.ErrInvalidInput, tpl.ID)
	}

	text, err := g.GenerateText(ctx, tpl, prompt, nil, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("%w: decode %s output: %v", apperr.ErrEmptyOutput, tpl.ID, err)
	}
	return nil
}

func (g *Gateway) generateOnce(ctx context.Context, cl *genai.Client, tpl *prompts.Template, prompt string, tools []*genai.Tool, handler core.ToolHandler) (string, error) {
	m := cl.GenerativeModel(g.modelFor(tpl))
	if tpl.System != "" {
		m.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(tpl.System)},
		}
	}
	m.SafetySettings = safetySettings(tpl.Safety)
	if tpl.JSONShape != nil {
		m.GenerationConfig.ResponseMIMEType = "application/json"
		m.GenerationConfig.ResponseSchema = jsonShapeSchema(tpl.JSONShape)
	}
	if len(tools) > 0 {
		m.Tools = tools
	}

	cs := m.StartChat()
	resp, err := cs.SendMessage(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate (%s): %w", tpl.ID, err)
	}

	for round := 0; round < maxToolRounds; round++ {
		calls := functionCalls(resp)
		if len(calls) == 0 {
			break
		}
		if handler == nil {
			return "", fmt.Errorf("gemini generate (%s): model requested tool %q but none is bound", tpl.ID, calls[0].Name)
		}

		replies := make([]genai.Part, 0, len(calls))
		for _, call := range calls {
			result, err := handler(ctx, call.Name, call.Args)
			if err != nil {
				return "", fmt.Errorf("tool %s: %w", call.Name, err)
			}
			replies = append(replies, genai.FunctionResponse{Name: call.Name, Response: result})
		}
		resp, err = cs.SendMessage(ctx, replies...)
		if err != nil {
			return "", fmt.Errorf("gemini tool round (%s): %w", tpl.ID, err)
		}
	}

	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: template %s", apperr.ErrEmptyOutput, tpl.ID)
	}
	return text, nil
}

func (g *Gateway) modelFor(tpl *prompts.Template) string {
	if tpl == prompts.ChatTitle {
		return g.titleModel
	}
	return g.genModel
}

func functionCalls(resp *genai.GenerateContentResponse) []genai.FunctionCall {
	var calls []genai.FunctionCall
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	for _, p := range resp.Candidates[0].Content.Parts {
		if fc, ok := p.(genai.FunctionCall); ok {
			calls = append(calls, fc)
		}
	}
	return calls
}

func responseText(resp *genai.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String()
}

func safetySettings(s prompts.Safety) []*genai.SafetySetting {
	return []*genai.SafetySetting{
		{Category: genai.HarmCategoryDangerousContent, Threshold: blockThreshold(s.DangerousContent)},
		{Category: genai.HarmCategoryHarassment, Threshold: blockThreshold(s.Harassment)},
		{Category: genai.HarmCategoryHateSpeech, Threshold: blockThreshold(s.HateSpeech)},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: blockThreshold(s.SexuallyExplicit)},
	}
}

func blockThreshold(level prompts.BlockLevel) genai.HarmBlockThreshold {
	switch level {
	case prompts.BlockOnlyHigh:
		return genai.HarmBlockOnlyHigh
	case prompts.BlockMediumAndAbove:
		return genai.HarmBlockMediumAndAbove
	default:
		return genai.HarmBlockUnspecified
	}
}

func jsonShapeSchema(shape map[string]string) *genai.Schema {
	keys := make([]string, 0, len(shape))
	for k := range shape {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	props := make(map[string]*genai.Schema, len(shape))
	for _, k := range keys {
		props[k] = &genai.Schema{Type: genai.TypeString, Description: shape[k]}
	}
	return &genai.Schema{Type: genai.TypeObject, Properties: props, Required: keys}
}

var _ core.ModelInvoker = (*Gateway)(nil)
