package main

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bitrise-io/go-steputils/v2/stepconf"
	"github.com/bitrise-io/go-utils/stringutil"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/log"

	"github.com/nunit-community/nunit-host-adapter/adapter"
	"github.com/nunit-community/nunit-host-adapter/navigation"
	"github.com/nunit-community/nunit-host-adapter/results"
	"github.com/nunit-community/nunit-host-adapter/settings"
	"github.com/nunit-community/nunit-host-adapter/testcase"
	"github.com/nunit-community/nunit-host-adapter/xmlnode"
)

const testResultEnvKey = "NUNIT_ADAPTER_TEST_RESULT"

// Input is the replay tool's configuration, parsed from the environment.
type Input struct {
	EventsPath    string `env:"events_path,required"`
	DiscoveryPath string `env:"discovery_path,required"`

	SettingsPath      string `env:"settings_path"`
	RunSettingsPath   string `env:"run_settings_path"`
	NavigationMapPath string `env:"navigation_map_path"`
	MinEngineVersion  string `env:"min_engine_version"`

	// Tri-state flags: "yes"/"no" override the file sources, "" keeps them.
	CollectSourceInformation          string `env:"collect_source_information"`
	UseParentFQNForParameterizedTests string `env:"use_parent_fqn_for_parameterized_tests"`
	UseEngineIDForTestCaseID          string `env:"use_engine_id_for_test_case_id"`
	InteractiveHost                   string `env:"interactive_host"`

	Verbose bool `env:"verbose,opt[yes,no]"`
}

func main() {
	os.Exit(run())
}

func run() int {
	logger := log.NewLogger()
	envRepository := env.NewRepository()

	var input Input
	if err := stepconf.NewInputParser(envRepository).Parse(&input); err != nil {
		logger.Errorf("Failed to parse inputs: %s", err)
		return 1
	}
	stepconf.Print(input)
	logger.Println()
	logger.EnableDebugLog(input.Verbose)

	stng, err := buildSettings(input)
	if err != nil {
		logger.Errorf("Failed to build settings: %s", err)
		return 1
	}

	provider, err := buildNavigationProvider(input, stng, logger)
	if err != nil {
		logger.Errorf("Failed to set up navigation data: %s", err)
		return 1
	}

	cache := testcase.NewCache()
	materializer := testcase.NewMaterializer(cache, stng, provider, logger)
	if err := materializeDiscovery(input.DiscoveryPath, materializer); err != nil {
		logger.Errorf("Failed to process discovery report: %s", err)
		return 1
	}
	logger.Infof("Discovered %d test case(s)", cache.Len())

	converter := results.NewConverter(cache, stng, logger)
	sink := &loggerSink{logger: logger}
	dispatcher, err := adapter.NewDispatcher(converter, sink, logger, stng.MinEngineVersion)
	if err != nil {
		logger.Errorf("Failed to create dispatcher: %s", err)
		return 1
	}

	if err := replayEvents(input.EventsPath, dispatcher); err != nil {
		logger.Errorf("Failed to replay event stream: %s", err)
		return 1
	}

	failed := printSummary(dispatcher.Summary(), logger)

	status := "succeeded"
	if failed {
		status = "failed"
	}
	if err := envRepository.Set(testResultEnvKey, status); err != nil {
		logger.Warnf("Failed to export %s: %s", testResultEnvKey, err)
	}

	if failed {
		return 1
	}
	return 0
}

func buildSettings(input Input) (settings.Settings, error) {
	stng := settings.Default()

	if input.SettingsPath != "" {
		if err := stng.ApplyYAMLFile(input.SettingsPath); err != nil {
			return settings.Settings{}, err
		}
	}
	if input.RunSettingsPath != "" {
		content, err := os.ReadFile(input.RunSettingsPath)
		if err != nil {
			return settings.Settings{}, fmt.Errorf("failed to read RunSettings (%s): %w", input.RunSettingsPath, err)
		}
		if err := stng.ApplyRunSettings(string(content)); err != nil {
			return settings.Settings{}, err
		}
	}

	// Environment inputs override the file sources when set.
	applyFlag(&stng.CollectSourceInformation, input.CollectSourceInformation)
	applyFlag(&stng.UseParentFQNForParameterizedTests, input.UseParentFQNForParameterizedTests)
	applyFlag(&stng.UseEngineIDForTestCaseID, input.UseEngineIDForTestCaseID)
	applyFlag(&stng.InteractiveHost, input.InteractiveHost)
	if input.MinEngineVersion != "" {
		stng.MinEngineVersion = input.MinEngineVersion
	}

	return stng, nil
}

func applyFlag(target *bool, value string) {
	if value != "" {
		*target = value == "yes"
	}
}

func buildNavigationProvider(input Input, stng settings.Settings, logger log.Logger) (navigation.Provider, error) {
	if !stng.CollectSourceInformation || input.NavigationMapPath == "" {
		return navigation.NoopProvider{}, nil
	}
	return navigation.NewFileProvider(input.NavigationMapPath, logger)
}

func materializeDiscovery(path string, materializer *testcase.Materializer) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read discovery report (%s): %w", path, err)
	}
	root, err := xmlnode.Parse(string(content))
	if err != nil {
		return err
	}
	for _, test := range testcase.ParseDiscovery(root) {
		if _, err := materializer.Materialize(test); err != nil {
			return err
		}
	}
	return nil
}

// replayEvents feeds every top-level fragment of the recorded event stream
// to the dispatcher.
func replayEvents(path string, dispatcher *adapter.Dispatcher) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open event stream (%s): %w", path, err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fmt.Println(err)
		}
	}()

	decoder := xml.NewDecoder(file)
	for {
		var node xmlnode.Node
		if err := decoder.Decode(&node); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to parse event stream (%s): %w", path, err)
		}
		if err := dispatcher.DispatchNode(&node); err != nil {
			return err
		}
	}
}

func printSummary(summary adapter.Summary, logger log.Logger) bool {
	logger.Println()
	logger.Infof("Run summary:")
	for _, outcome := range []results.Outcome{results.OutcomePassed, results.OutcomeFailed, results.OutcomeSkipped, results.OutcomeNone} {
		if count := summary[outcome]; count > 0 {
			logger.Printf("- %s: %d", outcome, count)
		}
	}

	if summary[results.OutcomeFailed] > 0 {
		logger.Errorf("%d test case(s) failed", summary[results.OutcomeFailed])
		return true
	}
	logger.Donef("All forwarded test cases passed")
	return false
}

// loggerSink is a ResultSink printing every record to the step log.
type loggerSink struct {
	logger log.Logger
}

func (s *loggerSink) RecordResult(record *results.Record) {
	name := record.TestCase.FullyQualifiedName
	switch record.Outcome {
	case results.OutcomePassed:
		s.logger.Donef("✓ %s (%s)", name, record.Duration)
	case results.OutcomeFailed:
		s.logger.Errorf("✗ %s (%s)", name, record.Duration)
		if record.ErrorMessage != "" {
			s.logger.Printf("%s", record.ErrorMessage)
		}
		if record.ErrorStackTrace != "" {
			s.logger.Printf("%s", stringutil.LastNLines(record.ErrorStackTrace, 10))
		}
	default:
		s.logger.Printf("- %s (%s)", name, record.Outcome)
	}

	for _, message := range record.Messages {
		s.logger.Debugf("[%s] %s", message.Stream, message.Text)
	}
	if record.Attachments != nil {
		for _, attachment := range record.Attachments.Items {
			s.logger.Printf("Attachment: %s", attachment.URI)
		}
	}
}

func (s *loggerSink) Message(level adapter.MessageLevel, text string) {
	switch level {
	case adapter.MessageError:
		s.logger.Errorf("%s", text)
	case adapter.MessageWarning:
		s.logger.Warnf("%s", text)
	default:
		s.logger.Infof("%s", text)
	}
}
