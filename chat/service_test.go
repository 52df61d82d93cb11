package chat

import (
	"errors"
	"testing"
)

func TestSelectKnownBackends(t *testing.T) {
	cases := []struct {
		backend Backend
		name    string
	}{
		{BackendOpenAI, "openai"},
		{BackendAzure, "azure"},
		{BackendGemini, "gemini"},
		{BackendAnthropic, "anthropic"},
	}

	for _, tc := range cases {
		svc, err := Select(tc.backend)
		if err != nil {
			t.Fatalf("Select(%v) failed: %v", tc.backend, err)
		}
		if svc.Name() != tc.name {
			t.Errorf("expected service %q, got %q", tc.name, svc.Name())
		}
	}
}

func TestSelectReturnsFreshServices(t *testing.T) {
	first, err := Select(BackendOpenAI)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Select(BackendOpenAI)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first == second {
		t.Error("expected a freshly constructed service per Select call")
	}
}

func TestSelectUnsupportedBackend(t *testing.T) {
	svc, err := Select(Backend(99))
	if err == nil {
		t.Fatal("expected error for unsupported backend")
	}
	if !errors.Is(err, ErrUnsupportedBackend) {
		t.Errorf("expected ErrUnsupportedBackend, got %v", err)
	}
	if svc != nil {
		t.Errorf("expected nil service, got %T", svc)
	}
}

func TestParseBackend(t *testing.T) {
	cases := []struct {
		input    string
		expected Backend
	}{
		{"openai", BackendOpenAI},
		{"GPT", BackendOpenAI},
		{"azure", BackendAzure},
		{"gemini", BackendGemini},
		{"google", BackendGemini},
		{"anthropic", BackendAnthropic},
		{"Claude", BackendAnthropic},
	}

	for _, tc := range cases {
		backend, err := ParseBackend(tc.input)
		if err != nil {
			t.Fatalf("ParseBackend(%q) failed: %v", tc.input, err)
		}
		if backend != tc.expected {
			t.Errorf("ParseBackend(%q) = %v, expected %v", tc.input, backend, tc.expected)
		}
	}
}

func TestParseBackendUnknown(t *testing.T) {
	_, err := ParseBackend("cohere")
	if err == nil {
		t.Fatal("expected error for unknown backend name")
	}
	if !errors.Is(err, ErrUnsupportedBackend) {
		t.Errorf("expected ErrUnsupportedBackend, got %v", err)
	}
}

func TestSupportedModelsAreCopies(t *testing.T) {
	svc := NewOpenAIService()
	models := svc.SupportedModels()
	if len(models) == 0 {
		t.Fatal("expected a non-empty model table")
	}
	models[0].Name = "mutated"

	fresh := svc.SupportedModels()
	if fresh[0].Name == "mutated" {
		t.Error("model table leaked mutable state")
	}
}
