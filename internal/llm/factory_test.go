package llm

import "testing"

func TestNewProviderUnknown(t *testing.T) {
	_, err := NewProvider(Config{Provider: "nope"})
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestNewCleanProviderBindsCleanModel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "openai"
	cfg.OpenAI.APIKey = "test-key"

	fast, err := NewProvider(cfg)
	if err != nil {
		t.Fatalf("NewProvider error: %v", err)
	}
	cleaner, err := NewCleanProvider(cfg)
	if err != nil {
		t.Fatalf("NewCleanProvider error: %v", err)
	}

	if fast.ModelID() != "gpt-4o-mini" {
		t.Errorf("fast model = %q, want gpt-4o-mini", fast.ModelID())
	}
	if cleaner.ModelID() != "gpt-4o" {
		t.Errorf("clean model = %q, want gpt-4o", cleaner.ModelID())
	}
}

func TestNewCleanProviderNonOpenAI(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "mock"

	cleaner, err := NewCleanProvider(cfg)
	if err != nil {
		t.Fatalf("NewCleanProvider error: %v", err)
	}
	if cleaner.ModelID() != "mock" {
		t.Errorf("model = %q, want mock", cleaner.ModelID())
	}
}
