package rag

import (
	_ "embed"
	"log"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var promptsFile []byte

var (
	promptsOnce sync.Once
	prompts     map[string]string
)

// LoadPrompt returns the named template from the embedded prompts
// file, or an empty string when missing. Templates are parsed once per
// process.
func LoadPrompt(name string) string {
	promptsOnce.Do(func() {
		prompts = map[string]string{}
		if err := yaml.Unmarshal(promptsFile, &prompts); err != nil {
			log.Printf("failed to parse prompts file: %v", err)
		}
	})
	prompt, ok := prompts[name]
	if !ok {
		log.Printf("prompt template %q not found", name)
	}
	return prompt
}

// fillPrompt substitutes the {context} and {question} placeholders.
func fillPrompt(template, context, question string) string {
	return strings.NewReplacer(
		"{context}", context,
		"{question}", question,
	).Replace(template)
}
