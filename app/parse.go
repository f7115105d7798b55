package main

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/lysyi3m/podmeta/app/feed"
	"github.com/lysyi3m/podmeta/app/module"
)

type parseOutput struct {
	Feed  *feed.Metadata `yaml:"feed"`
	Items []feed.Item    `yaml:"items"`
}

// runParse parses the feed at path ("-" reads stdin) and writes its metadata
// to w as YAML.
func runParse(w io.Writer, path string, registry *module.Registry, locale language.Tag) error {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read feed: %w", err)
	}

	metadata, items, err := feed.NewParser(registry, locale).Run(data)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(parseOutput{Feed: metadata, Items: items}); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}
