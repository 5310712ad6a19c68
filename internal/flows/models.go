package flows

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/animus-coder/readmeart/internal/catalog"
)

// Export formats accepted by Models.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Models lists the free catalog models sorted by name and saves them to the
// models file in the requested format.
func (r *Runner) Models(ctx context.Context, format string) error {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatJSON
	}
	if format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
	if r.catalog == nil {
		return catalog.ErrMissingToken
	}

	fmt.Fprintln(r.out, "Fetching all models from GitHub Models...")
	entries, err := r.catalog.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch models: %w", err)
	}
	fmt.Fprintf(r.out, "Total models available: %d\n", len(entries))

	free := catalog.FilterFree(entries)
	fmt.Fprintf(r.out, "Free models found: %d\n", len(free))
	if len(free) == 0 {
		fmt.Fprintln(r.out, "No free models found.")
		return nil
	}

	catalog.SortByName(free)
	banner(r.out, "MODELS AVAILABLE FROM GITHUB")
	for _, e := range free {
		displayEntry(r.out, e)
	}
	fmt.Fprintln(r.out)
	rule(r.out)
	fmt.Fprintf(r.out, "Listed %d free models successfully!\n", len(free))

	data, err := encodeEntries(free, format)
	if err != nil {
		return err
	}
	target := modelsPath(r.cfg.Output.ModelsFile, format)
	written, err := r.sink.WriteFile(target, data)
	if err != nil {
		r.logger.Warn("could not save models file", zap.String("path", target), zap.Error(err))
		return nil
	}
	fmt.Fprintf(r.out, "Free models data saved to: %s\n", written)
	return nil
}

func encodeEntries(entries []catalog.Entry, format string) ([]byte, error) {
	if format == FormatYAML {
		data, err := yaml.Marshal(entries)
		if err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return data, nil
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return data, nil
}

// modelsPath swaps the extension of the configured file to match format.
func modelsPath(file, format string) string {
	ext := path.Ext(file)
	return strings.TrimSuffix(file, ext) + "." + format
}
