package gemini

import (
	"context"
	"errors"
	"fmt"

	"github.com/Cyclone1070/projectgen/internal/provider"
	"github.com/Cyclone1070/projectgen/internal/tool"
	"github.com/google/uuid"
	"google.golang.org/genai"
)

// toGeminiContents converts the conversation to Gemini contents. Tool
// results that answer no issued call are sent as user text, since Gemini
// pairs function responses with function calls.
func toGeminiContents(messages []provider.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(messages))
	issued := make(map[string]bool)

	for _, msg := range messages {
		switch msg.Role {
		case provider.RoleUser:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))

		case provider.RoleAssistant:
			parts := make([]*genai.Part, 0, len(msg.ToolCalls)+1)
			if msg.Content != "" {
				parts = append(parts, genai.NewPartFromText(msg.Content))
			}
			for _, call := range msg.ToolCalls {
				parts = append(parts, &genai.Part{FunctionCall: &genai.FunctionCall{ID: call.ID, Name: call.Name, Args: call.Args}})
				issued[call.ID] = true
			}
			if len(parts) > 0 {
				contents = append(contents, genai.NewContentFromParts(parts, genai.RoleModel))
			}

		case provider.RoleTool:
			if msg.Result == nil || !issued[msg.Result.CallID] {
				contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
				continue
			}
			key := "output"
			if msg.Result.IsError {
				key = "error"
			}
			contents = append(contents, genai.NewContentFromParts([]*genai.Part{{
				FunctionResponse: &genai.FunctionResponse{
					ID:       msg.Result.CallID,
					Name:     msg.Result.Name,
					Response: map[string]any{key: msg.Content},
				},
			}}, genai.RoleUser))
		}
	}
	return contents
}

// toGeminiConfig converts a request to Gemini generation config.
func toGeminiConfig(req *provider.Request) *genai.GenerateContentConfig {
	temperature := req.Temperature
	config := &genai.GenerateContentConfig{
		Temperature:    &temperature,
		SafetySettings: defaultSafetySettings(),
	}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if len(req.Tools) > 0 {
		config.Tools = toGeminiTools(req.Tools)
	}
	return config
}

// defaultSafetySettings turns off safety blocking for all categories.
func defaultSafetySettings() []*genai.SafetySetting {
	categories := []genai.HarmCategory{
		genai.HarmCategoryHateSpeech,
		genai.HarmCategoryDangerousContent,
		genai.HarmCategoryHarassment,
		genai.HarmCategorySexuallyExplicit,
	}
	settings := make([]*genai.SafetySetting, 0, len(categories))
	for _, c := range categories {
		settings = append(settings, &genai.SafetySetting{Category: c, Threshold: genai.HarmBlockThresholdOff})
	}
	return settings
}

func toGeminiTools(decls []tool.Declaration) []*genai.Tool {
	fds := make([]*genai.FunctionDeclaration, 0, len(decls))
	for _, d := range decls {
		fd := &genai.FunctionDeclaration{Name: d.Name, Description: d.Description}
		if d.Parameters != nil {
			fd.Parameters = toGeminiSchema(d.Parameters)
		}
		fds = append(fds, fd)
	}
	return []*genai.Tool{{FunctionDeclarations: fds}}
}

func toGeminiSchema(s *tool.Schema) *genai.Schema {
	out := &genai.Schema{
		Type:        toGeminiType(s.Type),
		Description: s.Description,
		Required:    s.Required,
		Enum:        s.Enum,
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGeminiSchema(prop)
		}
	}
	if s.Items != nil {
		out.Items = toGeminiSchema(s.Items)
	}
	return out
}

func toGeminiType(t tool.Type) genai.Type {
	switch t {
	case tool.TypeNumber:
		return genai.TypeNumber
	case tool.TypeInteger:
		return genai.TypeInteger
	case tool.TypeBoolean:
		return genai.TypeBoolean
	case tool.TypeArray:
		return genai.TypeArray
	case tool.TypeObject:
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}

// fromFunctionCall converts a Gemini function call. Older models omit the
// call id, so one is generated.
func fromFunctionCall(fc *genai.FunctionCall) provider.ToolCall {
	id := fc.ID
	if id == "" {
		id = "call_" + uuid.NewString()
	}
	args := fc.Args
	if args == nil {
		args = map[string]any{}
	}
	return provider.ToolCall{ID: id, Name: fc.Name, Args: args}
}

// mapGeminiError maps Gemini API errors to provider errors.
func mapGeminiError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
	case errors.As(err, &apiErrPtr):
		apiErr = *apiErrPtr
	default:
		return &provider.ProviderError{Code: provider.ErrorCodeNetwork, Message: "network error", Underlying: err, Retryable: true}
	}

	switch apiErr.Code {
	case 401, 403:
		return &provider.ProviderError{Code: provider.ErrorCodeAuth, Message: "authentication failed", Underlying: err}
	case 429:
		return &provider.ProviderError{Code: provider.ErrorCodeRateLimit, Message: "rate limit exceeded", Underlying: err, Retryable: true}
	case 400:
		return &provider.ProviderError{Code: provider.ErrorCodeInvalidRequest, Message: fmt.Sprintf("invalid request: %s", apiErr.Message), Underlying: err}
	case 500, 502, 503, 504:
		return &provider.ProviderError{Code: provider.ErrorCodeUnavailable, Message: "service unavailable", Underlying: err, Retryable: true}
	default:
		return &provider.ProviderError{Code: provider.ErrorCodeNetwork, Message: fmt.Sprintf("API error: %s", apiErr.Message), Underlying: err, Retryable: true}
	}
}
