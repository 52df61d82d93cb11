package model

// Model describes a backend model. Name is the wire identifier sent to the
// provider, which may differ from the canonical family name used for
// tokenizer lookup (Azure deployments spell gpt-3.5 as gpt-35).
// Instances come from static per-backend tables and are read-only.
type Model struct {
	Name          string
	ContextWindow int
	Vision        bool
}
