// Package navigation resolves source file and line information for a test
// method. The live host supplies its own symbol reader; this package defines
// the collaborator interface plus a YAML-map backed provider for replay and
// test scenarios.
package navigation

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/bitrise-io/go-utils/v2/log"
	"gopkg.in/yaml.v3"
)

// Data is one navigation lookup result. Valid is false when the symbol could
// not be resolved.
type Data struct {
	Valid    bool
	FilePath string
	Line     int
}

// Provider resolves navigation data by class and method name.
type Provider interface {
	Lookup(className string, methodName string) Data
}

// NoopProvider resolves nothing. Used when source information collection is
// disabled.
type NoopProvider struct{}

// Lookup always reports an invalid result.
func (NoopProvider) Lookup(string, string) Data {
	return Data{}
}

type fileProvider struct {
	symbols map[string]Data
	logger  log.Logger
}

// NewFileProvider loads a symbol map from a YAML file. Each entry maps
// "Namespace.Class.Method" to "path/to/file.cs:42".
func NewFileProvider(path string, logger log.Logger) (Provider, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read navigation map (%s): %w", path, err)
	}

	var entries map[string]string
	if err := yaml.Unmarshal(content, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse navigation map (%s): %w", path, err)
	}

	symbols := make(map[string]Data, len(entries))
	for symbol, location := range entries {
		data, err := parseLocation(location)
		if err != nil {
			logger.Warnf("Skipping navigation map entry %s: %s", symbol, err)
			continue
		}
		symbols[symbol] = data
	}

	return &fileProvider{symbols: symbols, logger: logger}, nil
}

func (p *fileProvider) Lookup(className string, methodName string) Data {
	return p.symbols[className+"."+methodName]
}

func parseLocation(location string) (Data, error) {
	// The path itself may contain colons (drive letters), so split on the
	// last one only.
	sep := strings.LastIndex(location, ":")
	if sep <= 0 || sep == len(location)-1 {
		return Data{}, fmt.Errorf("invalid location (%s), expected path:line", location)
	}
	line, err := strconv.Atoi(location[sep+1:])
	if err != nil {
		return Data{}, fmt.Errorf("invalid line number in location (%s)", location)
	}
	return Data{Valid: true, FilePath: location[:sep], Line: line}, nil
}
