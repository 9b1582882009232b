package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Pipeline holds the tunables an operator edits more often than env vars:
// which MIME types extraction picks up, how much document text the model
// sees, and the prompt framing itself.
type Pipeline struct {
	SupportedMimeTypes []string `yaml:"supported_mime_types"`
	ContentSnippetSize int      `yaml:"content_snippet_size"`
	PromptPreamble     string   `yaml:"prompt_preamble"`
}

func DefaultPipeline() Pipeline {
	return Pipeline{
		SupportedMimeTypes: []string{
			"text/plain",
			"text/markdown",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			"application/pdf",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		},
		ContentSnippetSize: 4000,
		PromptPreamble: "You are a document classification assistant. " +
			"Assign exactly one document type from the provided taxonomy.",
	}
}

// LoadPipeline reads the optional YAML overrides file. An empty path yields
// the defaults; a present but unreadable or malformed file is a hard error.
func LoadPipeline(path string) (Pipeline, error) {
	p := DefaultPipeline()
	if path == "" {
		return p, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Pipeline{}, fmt.Errorf("read pipeline config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return Pipeline{}, fmt.Errorf("parse pipeline config: %w", err)
	}

	if len(p.SupportedMimeTypes) == 0 {
		p.SupportedMimeTypes = DefaultPipeline().SupportedMimeTypes
	}
	if p.ContentSnippetSize <= 0 {
		p.ContentSnippetSize = DefaultPipeline().ContentSnippetSize
	}
	if p.PromptPreamble == "" {
		p.PromptPreamble = DefaultPipeline().PromptPreamble
	}
	return p, nil
}
