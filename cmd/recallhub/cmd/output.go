package cmd

import (
	"encoding/json"
	"io"

	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"
)

const (
	outputJSON = "json"
	outputYAML = "yaml"
)

func writeOutput(w io.Writer, format string, v any) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(v), "failed to write json")
	case outputYAML:
		b, err := yaml.Marshal(v)
		if err != nil {
			return errors.Wrap(err, "failed to marshal yaml")
		}
		_, err = w.Write(b)
		return errors.Wrap(err, "failed to write yaml")
	default:
		return errors.Errorf("unknown output format %q, use json or yaml", format)
	}
}
