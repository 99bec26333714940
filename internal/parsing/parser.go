// Package parsing turns natural language evaluation queries into a
// structured EvaluationContext using LLM extraction with a heuristic fallback.
package parsing

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jonathan/vendor-evaluator/internal/llm"
	"github.com/jonathan/vendor-evaluator/internal/prompts"
	"github.com/jonathan/vendor-evaluator/internal/schemas"
	"github.com/jonathan/vendor-evaluator/internal/types"
)

// ParseQuery extracts a structured EvaluationContext from a raw query.
// If LLM extraction fails or produces invalid JSON, the heuristic fallback
// parser is used so the pipeline can always start from some context.
func ParseQuery(ctx context.Context, client llm.Client, rawQuery string) (*types.EvaluationContext, error) {
	rawQuery = strings.TrimSpace(rawQuery)
	if rawQuery == "" {
		return nil, &ParseError{Message: "query is empty"}
	}

	prompt := buildExtractionPrompt(rawQuery)

	responseText, err := client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &APICallError{Message: "context extraction cancelled", Cause: ctx.Err()}
		}
		return FallbackParse(rawQuery), nil
	}

	evalCtx, err := decodeContext(responseText)
	if err != nil {
		return FallbackParse(rawQuery), nil
	}

	evalCtx.RawQuery = rawQuery
	evalCtx.Normalize()
	if evalCtx.Category == "" {
		return FallbackParse(rawQuery), nil
	}
	return evalCtx, nil
}

func buildExtractionPrompt(rawQuery string) string {
	template := prompts.MustGet("parsing.json", "extract-context")
	return prompts.Format(template, map[string]string{
		"Query": rawQuery,
	})
}

func decodeContext(jsonText string) (*types.EvaluationContext, error) {
	if err := schemas.Validate(schemas.Context, jsonText); err != nil {
		return nil, &ParseError{Message: "context failed schema validation", Cause: err}
	}

	var evalCtx types.EvaluationContext
	if err := json.Unmarshal([]byte(jsonText), &evalCtx); err != nil {
		return nil, &ParseError{Message: "failed to parse JSON response", Cause: err}
	}
	return &evalCtx, nil
}
