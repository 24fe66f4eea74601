package results

import (
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/bitrise-io/go-utils/v2/log"

	"github.com/nunit-community/nunit-host-adapter/events"
	"github.com/nunit-community/nunit-host-adapter/settings"
	"github.com/nunit-community/nunit-host-adapter/testcase"
	"github.com/nunit-community/nunit-host-adapter/xmlnode"
)

// Downstream consumers treat a zero duration as "not run", so passed and
// failed results with no reported duration get the smallest representable
// one instead.
const placeholderDuration = time.Duration(1)

// caretLine matches a trailing line of dash/caret characters, the pointer an
// assertion message draws under the offending value. It only lines up in a
// monospace console.
var caretLine = regexp.MustCompile(`\n[ \t]*[-^]+[ \t]*$`)

// DescriptorSource is the read side of the discovered test case cache.
type DescriptorSource interface {
	Lookup(id string) (testcase.Descriptor, bool)
}

// Converter turns finished test-case events into host result records.
type Converter struct {
	descriptors DescriptorSource
	settings    settings.Settings
	logger      log.Logger
	hostname    string
}

// NewConverter creates a Converter reading registered descriptors from the
// given source.
func NewConverter(descriptors DescriptorSource, stng settings.Settings, logger log.Logger) *Converter {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	return &Converter{
		descriptors: descriptors,
		settings:    stng,
		logger:      logger,
		hostname:    hostname,
	}
}

// Convert produces the result set for one finished test-case event, merging
// in output nodes that were buffered outside the test-case node. An id that
// was never discovered yields an empty set and a warning; it does not fail
// the run.
func (c *Converter) Convert(tc *events.TestCase, outputNodes []*xmlnode.Node) ResultSet {
	descriptor, found := c.descriptors.Lookup(tc.ID())
	if !found {
		c.logger.Warnf("Test case id (%s) is not in the discovery cache, dropping its result", tc.ID())
		return ResultSet{}
	}

	set := ResultSet{ConsoleOutput: tc.Output()}

	if primary := c.primaryRecord(tc, descriptor); primary != nil {
		set.Primary = primary
		set.Records = append(set.Records, primary)
	}

	if len(set.Records) == 0 {
		set.Records = append(set.Records, c.legacyRecord(tc, descriptor))
	}

	record := set.Records[len(set.Records)-1]
	record.Messages = append(record.Messages, FilterOutput(outputNodes)...)
	if output := tc.Output(); output != "" {
		record.Messages = append(record.Messages, Message{Stream: StreamStdout, Text: output})
	}
	if attachments := ParseAttachments(tc.Node(), c.logger); len(attachments) > 0 {
		record.Attachments = &AttachmentSet{Name: AttachmentSetName, Items: attachments}
	}

	return set
}

// primaryRecord builds the result the current engine event format carries.
// Events without a result attribute predate that format and are left to the
// legacy path.
func (c *Converter) primaryRecord(tc *events.TestCase, descriptor testcase.Descriptor) *Record {
	if _, ok := tc.Node().AttrOK("result"); !ok {
		return nil
	}

	record := c.baseRecord(tc, descriptor)
	switch record.Outcome {
	case OutcomeFailed, OutcomeNotFound:
		if failure := tc.Failure(); failure != nil {
			record.ErrorMessage = failure.Message
			record.ErrorStackTrace = failure.StackTrace
		}
		if record.ErrorStackTrace == "" {
			// Some engines omit the top-level stack trace and report one per
			// assertion instead.
			record.ErrorStackTrace = strings.Join(tc.AssertionStackTraces(), "\n")
		}
	case OutcomeSkipped, OutcomeNone:
		record.ErrorMessage = tc.ReasonMessage()
	}
	return record
}

// legacyRecord rebuilds the result for events that do not populate failure
// and reason nodes the way the primary path expects.
func (c *Converter) legacyRecord(tc *events.TestCase, descriptor testcase.Descriptor) *Record {
	record := c.baseRecord(tc, descriptor)

	var message string
	if failure := tc.Failure(); failure != nil {
		message = failure.Message
		record.ErrorStackTrace = failure.StackTrace
	} else if reason := tc.ReasonMessage(); reason != "" {
		message = reason
	}
	if c.settings.InteractiveHost {
		message = caretLine.ReplaceAllString(message, "")
	}
	record.ErrorMessage = message

	return record
}

func (c *Converter) baseRecord(tc *events.TestCase, descriptor testcase.Descriptor) *Record {
	outcome := mapOutcome(tc.Result(), tc.IsIgnored())

	duration := tc.Duration()
	if duration == 0 && (outcome == OutcomePassed || outcome == OutcomeFailed) {
		duration = placeholderDuration
	}

	record := &Record{
		TestCase:     descriptor,
		Outcome:      outcome,
		Duration:     duration,
		ComputerName: c.hostname,
	}
	record.StartTime, record.StartTimeValid = tc.StartTime()
	record.EndTime, record.EndTimeValid = tc.EndTime()
	return record
}

// mapOutcome translates the engine's result vocabulary into the host's. A
// skipped test only counts as Skipped when the engine labelled it ignored;
// other skips are inconclusive to the host.
func mapOutcome(result events.Result, ignored bool) Outcome {
	switch result {
	case events.ResultFailed:
		return OutcomeFailed
	case events.ResultSuccess:
		return OutcomePassed
	case events.ResultSkipped:
		if ignored {
			return OutcomeSkipped
		}
		return OutcomeNone
	case events.ResultWarning:
		return OutcomeSkipped
	default:
		return OutcomeNone
	}
}
