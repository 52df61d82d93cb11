package chat

import "github.com/richinex/parley/model"

// Static model tables per backend. Read-only, shared; services hand out
// copies so callers cannot mutate them. Azure deployments use the dotless
// 3.5 spelling, which normalizeModelName maps back to the canonical family.

var openaiModels = []model.Model{
	{Name: "gpt-4o", ContextWindow: 128000, Vision: true},
	{Name: "gpt-4o-mini", ContextWindow: 128000, Vision: true},
	{Name: "gpt-4-turbo", ContextWindow: 128000, Vision: true},
	{Name: "gpt-4", ContextWindow: 8192},
	{Name: "gpt-3.5-turbo", ContextWindow: 16385},
}

var azureModels = []model.Model{
	{Name: "gpt-4o", ContextWindow: 128000, Vision: true},
	{Name: "gpt-4", ContextWindow: 8192},
	{Name: "gpt-35-turbo", ContextWindow: 16385},
	{Name: "gpt-35-turbo-16k", ContextWindow: 16385},
}

var geminiModels = []model.Model{
	{Name: "gemini-2.5-pro", ContextWindow: 1048576, Vision: true},
	{Name: "gemini-2.5-flash", ContextWindow: 1048576, Vision: true},
	{Name: "gemini-2.0-flash", ContextWindow: 1048576, Vision: true},
}

var anthropicModels = []model.Model{
	{Name: "claude-sonnet-4-20250514", ContextWindow: 200000, Vision: true},
	{Name: "claude-haiku-4-20250514", ContextWindow: 200000, Vision: true},
}

func cloneModels(models []model.Model) []model.Model {
	out := make([]model.Model, len(models))
	copy(out, models)
	return out
}
