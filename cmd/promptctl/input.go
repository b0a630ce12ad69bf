package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/JaimeStill/promptdeck/internal/prompts"
)

// inputFlags are the editor fields accepted by create and update. A file
// is applied first, then every flag set on the command line.
type inputFlags struct {
	file         string
	name         string
	description  string
	model        string
	modelVersion string
	provider     string
	temperature  float64
	maxTokens    int
	status       string
	category     string
	tags         []string
	environment  string
	url          string
	date         string
	clearDate    bool
	changeLog    string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.file, "file", "f", "", "read fields from a JSON or YAML file (- for stdin)")
	fs.StringVar(&f.name, "name", "", "prompt name")
	fs.StringVar(&f.description, "description", "", "prompt description")
	fs.StringVar(&f.model, "model", "", "catalog model id; fills version, provider, temperature and max tokens")
	fs.StringVar(&f.modelVersion, "model-version", "", "model version")
	fs.StringVar(&f.provider, "provider", "", "model provider")
	fs.Float64Var(&f.temperature, "temperature", 0, "sampling temperature (0.0-2.0)")
	fs.IntVar(&f.maxTokens, "max-tokens", 0, "max tokens (100-8000)")
	fs.StringVar(&f.status, "status", "", "Active, Inactive or Draft")
	fs.StringVar(&f.category, "category", "", "category")
	fs.StringSliceVar(&f.tags, "tags", nil, "comma separated tags; replaces the current set")
	fs.StringVar(&f.environment, "environment", "", "Development, Staging or Production")
	fs.StringVar(&f.url, "url", "", "absolute deployment URL")
	fs.StringVar(&f.date, "deployed", "", "deployment date (RFC 3339 or YYYY-MM-DD)")
	fs.BoolVar(&f.clearDate, "clear-deployed", false, "remove the deployment date")
	fs.StringVar(&f.changeLog, "change-log", "", "change log entry for the new version")
	cmd.MarkFlagsMutuallyExclusive("deployed", "clear-deployed")
}

func (f *inputFlags) apply(cmd *cobra.Command, base prompts.Input) (prompts.Input, error) {
	in := base

	if f.file != "" {
		if err := f.decodeFile(cmd, &in); err != nil {
			return in, err
		}
	}

	set := cmd.Flags().Changed

	if set("model") {
		if err := in.SelectModel(f.model); err != nil {
			in.Model = f.model
		}
	}
	if set("name") {
		in.Name = f.name
	}
	if set("description") {
		in.Description = f.description
	}
	if set("model-version") {
		in.ModelVersion = f.modelVersion
	}
	if set("provider") {
		in.Provider = f.provider
	}
	if set("temperature") {
		in.Temperature = f.temperature
	}
	if set("max-tokens") {
		in.MaxTokens = f.maxTokens
	}
	if set("category") {
		in.Category = f.category
	}
	if set("tags") {
		in.Tags = prompts.NewTags(f.tags...)
	}
	if set("url") {
		in.DeploymentURL = f.url
	}
	if set("status") {
		s, err := prompts.ParseStatus(f.status)
		if err != nil {
			return in, err
		}
		in.Status = s
	}
	if set("environment") {
		e, err := prompts.ParseEnvironment(f.environment)
		if err != nil {
			return in, err
		}
		in.Environment = e
	}
	if set("deployed") {
		t, err := parseDate(f.date)
		if err != nil {
			return in, err
		}
		in.DeploymentDate = t
	}
	if f.clearDate {
		in.DeploymentDate = nil
		in.ClearDeploymentDate = true
	}

	return in, in.Validate()
}

// decodeFile overlays the fields present in the file onto in. YAML is
// normalized through JSON so both formats share the API field names.
func (f *inputFlags) decodeFile(cmd *cobra.Command, in *prompts.Input) error {
	var (
		data []byte
		err  error
	)
	if f.file == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(f.file)
	}
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse input: %w", err)
	}

	normalized, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("parse input: %w", err)
	}
	if err := json.Unmarshal(normalized, in); err != nil {
		return fmt.Errorf("decode input: %w", err)
	}
	return nil
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid deployment date %q", s)
}
