package analysis

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/greengauge/greengauge-go/apperror"
	"github.com/greengauge/greengauge-go/config"
	"github.com/greengauge/greengauge-go/logging"
)

const prompt = `Perform a sustainability analysis of the product in this image.

1. Identify the exact product type and, if visible, the brand.
2. Assess its environmental impact.
3. Propose a genuinely more sustainable alternative to this specific product.

For both products give an eco score from 1 to 10, the carbon footprint in kg CO2,
the water usage in liters and the waste generated in kg. Base the numbers on
industry and manufacturer data and avoid placeholder values.`

// Analyzer turns a product photo into an Analysis.
type Analyzer interface {
	AnalyzeImage(ctx context.Context, contentType string, image []byte) (*Analysis, error)
}

// GeminiClient asks a Gemini model for a structured product comparison.
type GeminiClient struct {
	model  string
	client *genai.Client // nil when no API key is configured
}

// NewGeminiClient creates a client. An empty API key is allowed; every call
// then fails with "product analysis is not configured".
func NewGeminiClient(ctx context.Context, cfg *config.AIConfig) (*GeminiClient, error) {
	c := &GeminiClient{model: cfg.Model}
	if cfg.APIKey == "" {
		return c, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    strings.TrimRight(cfg.BaseURL, "/"),
			APIVersion: "v1beta",
		},
	})
	if err != nil {
		return nil, apperror.NewConfigError("failed to create Gemini client", err)
	}
	c.client = client
	return c, nil
}

func productSchema(what string) *genai.Schema {
	str := func(desc string) *genai.Schema { return &genai.Schema{Type: genai.TypeString, Description: desc} }
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"product":          str("Name of the " + what),
			"eco_score":        str("Eco score from 1 to 10"),
			"carbon_footprint": str("Carbon footprint in kg CO2"),
			"water_usage":      str("Water usage in liters"),
			"waste_generated":  str("Waste generated in kg"),
		},
		Required: []string{"product", "eco_score"},
	}
}

func analysisSchema() *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeObject,
		Description: "Product comparison and sustainability metrics",
		Properties: map[string]*genai.Schema{
			"product_searched":           productSchema("product"),
			"better_alternative_product": productSchema("alternative product"),
		},
		Required: []string{"product_searched", "better_alternative_product"},
	}
}

// AnalyzeImage sends the image and prompt to the model and parses its JSON answer.
func (c *GeminiClient) AnalyzeImage(ctx context.Context, contentType string, image []byte) (*Analysis, error) {
	if c.client == nil {
		return nil, apperror.NewExternalServiceError("product analysis is not configured", nil)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(prompt),
			genai.NewPartFromBytes(image, contentType),
		}, genai.RoleUser),
	}
	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   analysisSchema(),
	})
	if err != nil {
		return nil, apperror.NewExternalServiceError("product analysis failed", err)
	}
	logging.Debugf("gemini %s answered in %s", c.model, time.Since(start))

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, apperror.NewExternalServiceError("the analysis model returned no answer", nil)
	}
	var text strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil {
			text.WriteString(p.Text)
		}
	}

	var out Analysis
	if err := json.Unmarshal([]byte(text.String()), &out); err != nil {
		return nil, apperror.NewExternalServiceError("failed to parse AI response", err)
	}
	if out.ProductSearched.Product == "" || out.BetterAlternativeProduct.Product == "" {
		return nil, apperror.NewExternalServiceError("the analysis model did not name both products", nil)
	}
	return &out, nil
}
