// Package text2sql turns natural-language questions into IRIS SQL through an
// OpenAI-compatible chat endpoint. The generated query is dialect-rewritten
// and screened for injection patterns before it is handed back; execution is
// the caller's concern.
package text2sql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/irisworks/datadesk/pkg/config"
	"github.com/irisworks/datadesk/pkg/irissql"
	"github.com/irisworks/datadesk/pkg/store"
)

// Generator calls an OpenAI-compatible LLM endpoint to produce SQL.
type Generator struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// GeneratedQuery is the JSON-schema-constrained response contract.
type GeneratedQuery struct {
	Query       string `json:"query"`
	Explanation string `json:"explanation"`
}

// New creates a generator for the configured endpoint.
func New(cfg *config.LLMConfig, logger *zap.Logger) (*Generator, error) {
	if !cfg.IsAvailable() {
		return nil, fmt.Errorf("text2sql endpoint is not configured (base URL and model required)")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")

	return &Generator{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
		logger: logger.Named("text2sql"),
	}, nil
}

const systemMessage = `You are an expert SQL query generator for InterSystems IRIS. ` +
	`Respond with a JSON object of the form {"query": "...", "explanation": "..."} and nothing else.`

// Generate produces a SELECT answering the question against one table,
// grounding the prompt in the table's introspected columns and indexes. The
// returned query has been rewritten for the IRIS dialect (LIMIT/OFFSET
// removed, trailing semicolon stripped) and screened for injection patterns.
func (g *Generator) Generate(ctx context.Context, question, table, schema string, desc *store.TableDescription) (*GeneratedQuery, error) {
	fullName, err := irissql.ValidateName(table, schema)
	if err != nil {
		return nil, err
	}

	prompt := buildPrompt(question, fullName, desc)

	g.logger.Debug("generation request",
		zap.String("model", g.model),
		zap.String("table", fullName),
		zap.Int("prompt_len", len(prompt)))

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		g.logger.Error("generation failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, fmt.Errorf("generate sql: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	content := resp.Choices[0].Message.Content
	result, err := ParseGeneratedQuery(content)
	if err != nil {
		return nil, err
	}

	result.Query = irissql.RewriteForIRIS(result.Query)
	if err := ScreenQuery(result.Query); err != nil {
		return nil, err
	}

	g.logger.Info("sql generated",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens))
	return result, nil
}

// ParseGeneratedQuery extracts the {query, explanation} object from a model
// response that may carry surrounding prose or code fences.
func ParseGeneratedQuery(response string) (*GeneratedQuery, error) {
	jsonStr, err := ExtractJSON(response)
	if err != nil {
		return nil, err
	}

	var result GeneratedQuery
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, fmt.Errorf("unmarshal generated query: %w", err)
	}
	if strings.TrimSpace(result.Query) == "" {
		return nil, fmt.Errorf("generated response carries no query")
	}
	return &result, nil
}

// buildPrompt grounds the question in the table's catalog metadata so the
// model only references columns that exist.
func buildPrompt(question, fullName string, desc *store.TableDescription) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n\n", question)
	b.WriteString("Generate a SQL query that answers this question. The query must:\n")
	b.WriteString("1. Use only the columns that exist in the schema\n")
	b.WriteString("2. Be syntactically correct\n")
	b.WriteString("3. Be optimized and efficient\n")
	b.WriteString("4. Handle NULL values appropriately\n\n")
	fmt.Fprintf(&b, "The SQL statement must be a select from the table '%s'.\n", fullName)

	if desc != nil {
		b.WriteString("Columns:\n")
		for _, col := range desc.Columns {
			nullable := "NOT NULL"
			if col.IsNullable {
				nullable = "NULL"
			}
			fmt.Fprintf(&b, "  - %s %s %s", col.Name, col.DataType, nullable)
			if col.PrimaryKey {
				b.WriteString(" PRIMARY KEY")
			}
			b.WriteString("\n")
		}
		if len(desc.Indexes) > 0 {
			b.WriteString("Indexes:\n")
			for _, idx := range desc.Indexes {
				fmt.Fprintf(&b, "  - %s on %s\n", idx.Name, idx.Column)
			}
		}
	}
	return b.String()
}
