package extraction

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-1.5-flash"

// Extractor is the AI extraction collaborator: it turns raw CV text into an
// anonymized extracted data object. The call is atomic and opaque; a failed
// call or malformed response is fatal for the enclosing operation.
type Extractor interface {
	Extract(ctx context.Context, rawText string, sectionNames, skillCategories []string) (*ExtractedCV, error)
	Close() error
}

// GeminiExtractor implements Extractor using Google Gemini.
type GeminiExtractor struct {
	client *genai.Client
	model  string
}

// NewGeminiExtractor creates a Gemini-backed extractor.
func NewGeminiExtractor(ctx context.Context, apiKey, model string) (*GeminiExtractor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiExtractor{client: client, model: model}, nil
}

// Extract calls the model and parses its response. The prompt carries the
// template's section names and skill subcategories so the response lines up
// with the template's slots.
func (g *GeminiExtractor) Extract(ctx context.Context, rawText string, sectionNames, skillCategories []string) (*ExtractedCV, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(0.1) // Low temperature for consistent output
	model.ResponseMIMEType = "application/json"

	prompt := BuildPrompt(rawText, sectionNames, skillCategories)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, &CollaboratorError{Message: "generation call failed", Cause: err}
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return nil, &CollaboratorError{Message: "empty response", Cause: err}
	}
	return ParseResponse([]byte(cleanJSONBlock(text)))
}

// Close releases resources held by the client.
func (g *GeminiExtractor) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// BuildPrompt assembles the extraction instruction. Anonymization is part of
// the contract: the model must strip names, emails, phones, addresses and
// personal links and emit only the trigram identifier.
func BuildPrompt(rawText string, sectionNames, skillCategories []string) string {
	var sb strings.Builder
	sb.WriteString("Tu extrais le contenu d'un CV en objet JSON anonymisé.\n")
	sb.WriteString("Règles d'anonymisation, obligatoires :\n")
	sb.WriteString("- Aucun nom, prénom, email, téléphone, adresse ou lien personnel dans la sortie.\n")
	sb.WriteString("- Le champ trigram est composé de l'initiale du prénom, de l'initiale du nom, ")
	sb.WriteString("et de la deuxième lettre du nom (ou la dernière si le nom n'a qu'une lettre), en majuscules.\n")
	sb.WriteString("- Les dates de mission sont au format MM/YYYY, ou \"Actuellement\" pour une mission en cours.\n")
	sb.WriteString("- Chaque groupe de compétences contient ses éléments dans une seule chaîne séparée par des virgules.\n")
	if len(sectionNames) > 0 {
		sb.WriteString("\nSections du modèle cible : " + strings.Join(sectionNames, ", ") + "\n")
	}
	if len(skillCategories) > 0 {
		sb.WriteString("Sous-catégories de compétences attendues : " + strings.Join(skillCategories, ", ") + "\n")
	}
	sb.WriteString("\nRéponds uniquement avec l'objet JSON, sans texte autour.\n")
	sb.WriteString("\nTexte du CV :\n")
	sb.WriteString(rawText)
	return sb.String()
}

func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}
	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return strings.Join(parts, ""), nil
}

// cleanJSONBlock removes markdown code block wrappers from JSON.
func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
