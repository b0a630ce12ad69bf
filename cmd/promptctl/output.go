package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type outputFormat string

const (
	formatYAML outputFormat = "yaml"
	formatJSON outputFormat = "json"
)

func parseFormat(s string) (outputFormat, error) {
	switch outputFormat(s) {
	case formatYAML, formatJSON:
		return outputFormat(s), nil
	default:
		return "", fmt.Errorf("unknown output format: %s", s)
	}
}

func writeOutput(w io.Writer, format outputFormat, data any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(data)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
