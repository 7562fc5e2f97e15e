package content

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// contentModel is the slice of *genai.Models the generator uses.
type contentModel interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GenAI generates records with a Gemini model in JSON mode.
type GenAI struct {
	models  contentModel
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

const systemPrompt = `You design Web3 apps that launch on Solana with a bonding curve and revenue-share keys.
Given a user idea, respond with a single JSON object describing the app:
a short product name, a one-sentence description, a React component (codeSnippet),
an Anchor program excerpt (contractSnippet), a rarity of COMMON, RARE or LEGENDARY,
three to five short feature attributes and optionally a launch market cap in USD (marketCap).`

// NewGenAI connects a Gemini client for cfg.APIKey.
func NewGenAI(ctx context.Context, cfg Config, logger *zap.Logger) (*GenAI, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newGenAI(client.Models, cfg, logger), nil
}

func newGenAI(models contentModel, cfg Config, logger *zap.Logger) *GenAI {
	if logger == nil {
		logger = zap.NewNop()
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &GenAI{models: models, model: model, timeout: cfg.Timeout, logger: logger}
}

func (g *GenAI) Name() string { return g.model }

// Generate asks the model for a record. Any failure is logged and answered with Fallback.
func (g *GenAI) Generate(ctx context.Context, req Request) Record {
	rec, err := g.generate(ctx, req)
	if err != nil {
		g.logger.Warn("generation failed, using fallback record", zap.String("model", g.model), zap.Error(err))
		return Fallback(req.Prompt)
	}
	g.logger.Info("generated record", zap.String("model", g.model), zap.String("name", rec.Name), zap.String("rarity", string(rec.Rarity)))
	return rec
}

func (g *GenAI) generate(ctx context.Context, req Request) (Record, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	parts := []*genai.Part{genai.NewPartFromText(req.Prompt)}
	if len(req.Image) > 0 {
		mime := req.ImageMIME
		if mime == "" {
			mime = "image/png"
		}
		parts = append(parts, genai.NewPartFromBytes(req.Image, mime))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := g.models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    recordSchema(),
	})
	if err != nil {
		return Record{}, fmt.Errorf("generate content: %w", err)
	}
	if resp == nil {
		return Record{}, ErrEmptyResponse
	}
	return parseRecord(resp.Text())
}

func parseRecord(text string) (Record, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimSuffix(strings.TrimSpace(strings.TrimPrefix(text, "```")), "```")
	if strings.TrimSpace(text) == "" {
		return Record{}, ErrEmptyResponse
	}
	var rec Record
	if err := json.Unmarshal([]byte(text), &rec); err != nil {
		return Record{}, fmt.Errorf("decode record: %w", err)
	}
	rec.Rarity = Rarity(strings.ToUpper(string(rec.Rarity)))
	if rec.MarketCap != nil && *rec.MarketCap <= 0 {
		rec.MarketCap = nil
	}
	if err := rec.Validate(); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func recordSchema() *genai.Schema {
	str := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: desc}
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":            str("product name, at most four words"),
			"description":     str("one sentence"),
			"codeSnippet":     str("React component source"),
			"contractSnippet": str("Anchor program excerpt"),
			"rarity": {
				Type: genai.TypeString,
				Enum: []string{string(Common), string(Rare), string(Legendary)},
			},
			"attributes": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
			"marketCap": {
				Type:        genai.TypeNumber,
				Description: "suggested launch market cap in USD",
				Minimum:     genai.Ptr(1.0),
			},
		},
		Required:         []string{"name", "description", "codeSnippet", "contractSnippet", "rarity", "attributes"},
		PropertyOrdering: []string{"name", "description", "codeSnippet", "contractSnippet", "rarity", "attributes", "marketCap"},
	}
}
