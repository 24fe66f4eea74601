// Package settings holds the adapter's host-configurable flags. Settings can
// be layered from three sources, later ones overriding earlier ones: an
// optional YAML settings file, a RunSettings XML fragment handed over by the
// host, and the entrypoint's environment inputs.
package settings

import (
	"encoding/xml"
	"fmt"
	"os"

	"github.com/kballard/go-shellquote"
	"gopkg.in/yaml.v3"
)

// Settings is the effective adapter configuration.
type Settings struct {
	// CollectSourceInformation enables navigation lookups during discovery.
	CollectSourceInformation bool `yaml:"collect_source_information"`

	// UseParentFQNForParameterizedTests substitutes the parent group's fully
	// qualified name for individual parameterized cases. Individual cases can
	// then no longer be filtered selectively, only the whole group.
	UseParentFQNForParameterizedTests bool `yaml:"use_parent_fqn_for_parameterized_tests"`

	// UseEngineIDForTestCaseID derives the host-visible test case id by
	// hashing the engine-provided id instead of using the qualified name.
	UseEngineIDForTestCaseID bool `yaml:"use_engine_id_for_test_case_id"`

	// InteractiveHost marks hosts with a non-monospace result presentation;
	// console-only artifacts like caret pointer lines are stripped for them.
	InteractiveHost bool `yaml:"interactive_host"`

	// ExtraEngineArgs are passed through to the engine by the host.
	ExtraEngineArgs []string `yaml:"extra_engine_args"`

	// MinEngineVersion is the oldest engine whose event stream is accepted.
	MinEngineVersion string `yaml:"min_engine_version"`
}

// Default returns the adapter defaults: name-based identity, no source
// information, console host.
func Default() Settings {
	return Settings{
		CollectSourceInformation:          false,
		UseParentFQNForParameterizedTests: false,
		UseEngineIDForTestCaseID:          false,
		InteractiveHost:                   false,
	}
}

// ApplyYAMLFile overlays values from a YAML settings file.
func (s *Settings) ApplyYAMLFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read settings file (%s): %w", path, err)
	}
	if err := yaml.Unmarshal(content, s); err != nil {
		return fmt.Errorf("failed to parse settings file (%s): %w", path, err)
	}
	return nil
}

// runSettings mirrors the host's RunSettings document; only the NUnit
// element is interesting to the adapter. Pointer fields distinguish "not
// present" from "explicitly false".
type runSettings struct {
	XMLName xml.Name `xml:"RunSettings"`
	NUnit   struct {
		CollectSourceInformation          *bool  `xml:"CollectSourceInformation"`
		UseParentFQNForParameterizedTests *bool  `xml:"UseParentFQNForParameterizedTests"`
		UseNUnitIdForTestCaseId           *bool  `xml:"UseNUnitIdForTestCaseId"`
		InteractiveHost                   *bool  `xml:"InteractiveHost"`
		ExtraEngineArguments              string `xml:"ExtraEngineArguments"`
		MinEngineVersion                  string `xml:"MinEngineVersion"`
	} `xml:"NUnit"`
}

// ApplyRunSettings overlays values from a RunSettings XML fragment.
func (s *Settings) ApplyRunSettings(raw string) error {
	var rs runSettings
	if err := xml.Unmarshal([]byte(raw), &rs); err != nil {
		return fmt.Errorf("failed to parse RunSettings: %w", err)
	}

	if rs.NUnit.CollectSourceInformation != nil {
		s.CollectSourceInformation = *rs.NUnit.CollectSourceInformation
	}
	if rs.NUnit.UseParentFQNForParameterizedTests != nil {
		s.UseParentFQNForParameterizedTests = *rs.NUnit.UseParentFQNForParameterizedTests
	}
	if rs.NUnit.UseNUnitIdForTestCaseId != nil {
		s.UseEngineIDForTestCaseID = *rs.NUnit.UseNUnitIdForTestCaseId
	}
	if rs.NUnit.InteractiveHost != nil {
		s.InteractiveHost = *rs.NUnit.InteractiveHost
	}
	if rs.NUnit.MinEngineVersion != "" {
		s.MinEngineVersion = rs.NUnit.MinEngineVersion
	}
	if rs.NUnit.ExtraEngineArguments != "" {
		args, err := shellquote.Split(rs.NUnit.ExtraEngineArguments)
		if err != nil {
			return fmt.Errorf("failed to parse ExtraEngineArguments: %w", err)
		}
		s.ExtraEngineArgs = args
	}
	return nil
}
