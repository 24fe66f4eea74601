// Package adapter pumps raw engine events through the converter and forwards
// the produced records to the host.
package adapter

import (
	"fmt"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/hashicorp/go-version"

	"github.com/nunit-community/nunit-host-adapter/events"
	"github.com/nunit-community/nunit-host-adapter/results"
	"github.com/nunit-community/nunit-host-adapter/xmlnode"
)

// MessageLevel classifies host messages.
type MessageLevel int

const (
	MessageInformational MessageLevel = iota
	MessageWarning
	MessageError
)

// ResultSink is the host's receiving side.
type ResultSink interface {
	RecordResult(record *results.Record)
	Message(level MessageLevel, text string)
}

// Summary counts forwarded records per outcome.
type Summary map[results.Outcome]int

// Dispatcher routes one engine event stream. Output nodes arriving outside a
// test-case node are buffered until the next test-case event consumes them.
type Dispatcher struct {
	converter  *results.Converter
	sink       ResultSink
	logger     log.Logger
	minVersion *version.Version

	pendingOutput []*xmlnode.Node
	summary       Summary
}

// NewDispatcher creates a Dispatcher. minEngineVersion may be empty to accept
// any engine.
func NewDispatcher(converter *results.Converter, sink ResultSink, logger log.Logger, minEngineVersion string) (*Dispatcher, error) {
	var minVersion *version.Version
	if minEngineVersion != "" {
		v, err := version.NewVersion(minEngineVersion)
		if err != nil {
			return nil, fmt.Errorf("invalid minimum engine version (%s): %w", minEngineVersion, err)
		}
		minVersion = v
	}

	return &Dispatcher{
		converter:  converter,
		sink:       sink,
		logger:     logger,
		minVersion: minVersion,
		summary:    Summary{},
	}, nil
}

// Dispatch handles one raw event fragment. Malformed XML is fatal to the
// stream; everything else degrades to less information and a warning.
func (d *Dispatcher) Dispatch(raw string) error {
	node, err := xmlnode.Parse(raw)
	if err != nil {
		return err
	}
	return d.DispatchNode(node)
}

// DispatchNode handles one already-parsed event node.
func (d *Dispatcher) DispatchNode(node *xmlnode.Node) error {
	switch node.Name() {
	case "test-run":
		return d.checkEngineVersion(node)
	case "output":
		d.pendingOutput = append(d.pendingOutput, node)
		return nil
	case events.StartTestTag:
		started, err := events.NewStartTest(node)
		if err != nil {
			return err
		}
		d.logger.Debugf("Test started: %s", started.FullName())
		return nil
	case events.TestCaseTag:
		return d.handleTestCase(node)
	case events.SuiteFinishedTag:
		return d.handleSuiteFinished(node)
	default:
		return &events.WrongEventTypeError{
			Expected: "test-run, output, start-test, test-case or test-suite",
			Actual:   node.Name(),
		}
	}
}

// Summary reports how many records were forwarded per outcome so far.
func (d *Dispatcher) Summary() Summary {
	return d.summary
}

func (d *Dispatcher) checkEngineVersion(node *xmlnode.Node) error {
	if d.minVersion == nil {
		return nil
	}
	reported, ok := node.AttrOK("engine-version")
	if !ok {
		d.logger.Warnf("Engine did not report its version, continuing anyway")
		return nil
	}
	engineVersion, err := version.NewVersion(reported)
	if err != nil {
		return fmt.Errorf("failed to parse engine version (%s): %w", reported, err)
	}
	if engineVersion.LessThan(d.minVersion) {
		return fmt.Errorf("engine version (%s) is older than the minimum supported (%s)", reported, d.minVersion)
	}
	return nil
}

func (d *Dispatcher) handleTestCase(node *xmlnode.Node) error {
	finished, err := events.NewTestCase(node)
	if err != nil {
		return err
	}

	set := d.converter.Convert(finished, d.pendingOutput)
	d.pendingOutput = nil

	for _, record := range set.Records {
		d.sink.RecordResult(record)
		d.summary[record.Outcome]++
	}
	return nil
}

func (d *Dispatcher) handleSuiteFinished(node *xmlnode.Node) error {
	suite, err := events.NewSuiteFinished(node)
	if err != nil {
		return err
	}

	if suite.HasReason() {
		d.sink.Message(MessageInformational, suite.ReasonMessage())
	}
	if suite.Result() == events.ResultFailed {
		switch suite.Site() {
		case events.SiteSetup, events.SiteTearDown:
			d.sink.Message(MessageError, fmt.Sprintf("Suite %s failed in %s", suite.FullName(), siteName(suite.Site())))
		}
	}
	return nil
}

func siteName(site events.Site) string {
	switch site {
	case events.SiteSetup:
		return "SetUp"
	case events.SiteTearDown:
		return "TearDown"
	default:
		return "test"
	}
}
