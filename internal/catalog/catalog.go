// Package catalog holds the static model and category catalog offered by
// the prompt editor.
package catalog

import (
	"errors"
	"net/http"
	"slices"
)

// ErrModelNotFound indicates the model id is not in the catalog.
var ErrModelNotFound = errors.New("model not in catalog")

// MapHTTPStatus maps catalog errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrModelNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// Model is a selectable target model with the defaults applied when it is
// chosen in the editor.
type Model struct {
	ID                 string  `json:"id" yaml:"id"`
	Name               string  `json:"name" yaml:"name"`
	Provider           string  `json:"provider" yaml:"provider"`
	Version            string  `json:"version" yaml:"version"`
	DefaultTemperature float64 `json:"defaultTemperature" yaml:"defaultTemperature"`
	DefaultMaxTokens   int     `json:"defaultMaxTokens" yaml:"defaultMaxTokens"`
}

var models = []Model{
	{ID: "gpt-4", Name: "GPT-4", Provider: "OpenAI", Version: "gpt-4-0125-preview", DefaultTemperature: 0.7, DefaultMaxTokens: 4096},
	{ID: "gpt-35-turbo", Name: "GPT-3.5 Turbo", Provider: "OpenAI", Version: "gpt-3.5-turbo-0125", DefaultTemperature: 0.7, DefaultMaxTokens: 4096},
	{ID: "claude-3-opus", Name: "Claude-3 Opus", Provider: "Anthropic", Version: "claude-3-opus-20240229", DefaultTemperature: 0.7, DefaultMaxTokens: 4096},
	{ID: "claude-3-sonnet", Name: "Claude-3 Sonnet", Provider: "Anthropic", Version: "claude-3-sonnet-20240229", DefaultTemperature: 0.7, DefaultMaxTokens: 4096},
	{ID: "gemini-pro", Name: "Gemini Pro", Provider: "Google", Version: "gemini-1.0-pro-latest", DefaultTemperature: 0.9, DefaultMaxTokens: 2048},
	{ID: "llama-2-70b", Name: "LLaMA-2 70B", Provider: "Meta", Version: "llama-2-70b-chat", DefaultTemperature: 0.8, DefaultMaxTokens: 2048},
	{ID: "command", Name: "Cohere Command", Provider: "Cohere", Version: "command-r-plus", DefaultTemperature: 0.3, DefaultMaxTokens: 4000},
}

var categories = []string{
	"Customer Service",
	"Content Generation",
	"Data Analysis",
	"Code Review",
	"Documentation",
	"Email & Communication",
	"Meeting & Summarization",
	"SQL & Database",
}

// Models returns a copy of the model catalog in display order.
func Models() []Model {
	return slices.Clone(models)
}

// FindModel returns the catalog entry for id.
func FindModel(id string) (Model, error) {
	i := slices.IndexFunc(models, func(m Model) bool { return m.ID == id })
	if i < 0 {
		return Model{}, ErrModelNotFound
	}
	return models[i], nil
}

// Categories returns the suggested categories. Records may use any value.
func Categories() []string {
	return slices.Clone(categories)
}

// Providers returns the distinct providers of catalog models in first-seen order.
func Providers() []string {
	var out []string
	for _, m := range models {
		if !slices.Contains(out, m.Provider) {
			out = append(out, m.Provider)
		}
	}
	return out
}

// Options is the full set of editor choices.
type Options struct {
	Models       []Model  `json:"models" yaml:"models"`
	Categories   []string `json:"categories" yaml:"categories"`
	Providers    []string `json:"providers" yaml:"providers"`
	Statuses     []string `json:"statuses" yaml:"statuses"`
	Environments []string `json:"environments" yaml:"environments"`
}

// NewOptions combines the static catalog with the record status and
// environment enumerations supplied by the caller.
func NewOptions(statuses, environments []string) Options {
	return Options{
		Models:       Models(),
		Categories:   Categories(),
		Providers:    Providers(),
		Statuses:     statuses,
		Environments: environments,
	}
}
