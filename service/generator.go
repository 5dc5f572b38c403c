package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/studyforge/backend/config"
	"github.com/studyforge/backend/models"

	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"github.com/sirupsen/logrus"
)

// MaterialGenerator turns a transcript into a structured study-material
// bundle.
type MaterialGenerator interface {
	Generate(ctx context.Context, transcript string) (*models.StudyMaterials, error)
}

const materialsFunctionName = "generate_study_materials"

const generatorSystemPrompt = `You are an expert educational content generator. Given a transcript, create comprehensive study materials including:
1. A concise summary (2-3 paragraphs)
2. Structured notes with clear headings and bullet points
3. At least 10 flashcards (question/answer pairs)
4. A 10-question multiple-choice quiz with answers
5. Key points (5-7 main takeaways)
6. A glossary of important terms (at least 5 terms)
7. 5 exam-style questions with model answers`

// materialsSchema is the contract with the provider: all seven fields are
// required and the response is parsed strictly against it.
var materialsSchema = jsonschema.Definition{
	Type: jsonschema.Object,
	Properties: map[string]jsonschema.Definition{
		"summary": {Type: jsonschema.String},
		"notes": {
			Type: jsonschema.Array,
			Items: &jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"heading": {Type: jsonschema.String},
					"content": {Type: jsonschema.String},
				},
				Required: []string{"heading", "content"},
			},
		},
		"flashcards": {
			Type: jsonschema.Array,
			Items: &jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"question": {Type: jsonschema.String},
					"answer":   {Type: jsonschema.String},
				},
				Required: []string{"question", "answer"},
			},
		},
		"quizzes": {
			Type: jsonschema.Array,
			Items: &jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"question":     {Type: jsonschema.String},
					"options":      {Type: jsonschema.Array, Items: &jsonschema.Definition{Type: jsonschema.String}},
					"correctIndex": {Type: jsonschema.Number},
				},
				Required: []string{"question", "options", "correctIndex"},
			},
		},
		"keyPoints": {
			Type:  jsonschema.Array,
			Items: &jsonschema.Definition{Type: jsonschema.String},
		},
		"glossary": {
			Type: jsonschema.Array,
			Items: &jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"term":       {Type: jsonschema.String},
					"definition": {Type: jsonschema.String},
				},
				Required: []string{"term", "definition"},
			},
		},
		"examQuestions": {
			Type: jsonschema.Array,
			Items: &jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"question":    {Type: jsonschema.String},
					"modelAnswer": {Type: jsonschema.String},
				},
				Required: []string{"question", "modelAnswer"},
			},
		},
	},
	Required: []string{"summary", "notes", "flashcards", "quizzes", "keyPoints", "glossary", "examQuestions"},
}

// GatewayGenerator calls the AI gateway's chat completions endpoint with a
// forced function tool so the answer always arrives as structured arguments.
type GatewayGenerator struct {
	client *openai.Client
	model  string
	logger *logrus.Logger
}

func NewGatewayGenerator(cfg *config.GatewayConfig, logger *logrus.Logger) *GatewayGenerator {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &GatewayGenerator{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
		logger: logger,
	}
}

func (g *GatewayGenerator) Generate(ctx context.Context, transcript string) (*models.StudyMaterials, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: generatorSystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Create comprehensive study materials from this transcript:\n\n%s", transcript),
			},
		},
		Tools: []openai.Tool{
			{
				Type: openai.ToolTypeFunction,
				Function: &openai.FunctionDefinition{
					Name:        materialsFunctionName,
					Description: "Generate comprehensive study materials from a transcript",
					Parameters:  materialsSchema,
				},
			},
		},
		ToolChoice: openai.ToolChoice{
			Type:     openai.ToolTypeFunction,
			Function: openai.ToolFunction{Name: materialsFunctionName},
		},
	})
	if err != nil {
		return nil, &GenerationError{Message: "chat completion call failed", Err: err}
	}

	if len(resp.Choices) == 0 || len(resp.Choices[0].Message.ToolCalls) == 0 {
		return nil, ErrNoStructuredOutput
	}

	arguments := resp.Choices[0].Message.ToolCalls[0].Function.Arguments

	var materials models.StudyMaterials
	if err := json.Unmarshal([]byte(arguments), &materials); err != nil {
		g.logger.Errorf("unparsable study materials payload: %v", err)
		return nil, &GenerationError{Message: "failed to parse study materials", Err: err}
	}

	if err := validateMaterials(&materials); err != nil {
		return nil, &GenerationError{Message: err.Error()}
	}

	return &materials, nil
}

func validateMaterials(m *models.StudyMaterials) error {
	switch {
	case m.Summary == "":
		return fmt.Errorf("missing summary")
	case len(m.Notes) == 0:
		return fmt.Errorf("missing notes")
	case len(m.Flashcards) == 0:
		return fmt.Errorf("missing flashcards")
	case len(m.Quizzes) == 0:
		return fmt.Errorf("missing quizzes")
	case len(m.KeyPoints) == 0:
		return fmt.Errorf("missing key points")
	case len(m.Glossary) == 0:
		return fmt.Errorf("missing glossary")
	case len(m.ExamQuestions) == 0:
		return fmt.Errorf("missing exam questions")
	}
	return nil
}
