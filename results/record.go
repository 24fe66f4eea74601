// Package results converts finished test-case events into the host's result
// object model.
package results

import (
	"time"

	"github.com/nunit-community/nunit-host-adapter/testcase"
)

// AttachmentSetName is the display name of the attachment set handed to the
// host.
const AttachmentSetName = "Attachments"

// Outcome is the host's classification of a finished test.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomePassed
	OutcomeFailed
	OutcomeSkipped
	OutcomeNotFound
)

func (o Outcome) String() string {
	switch o {
	case OutcomePassed:
		return "Passed"
	case OutcomeFailed:
		return "Failed"
	case OutcomeSkipped:
		return "Skipped"
	case OutcomeNotFound:
		return "NotFound"
	default:
		return "None"
	}
}

// Stream tags a console message.
type Stream string

const (
	StreamStdout Stream = "stdout"
	StreamStderr Stream = "stderr"
)

// Message is one console message in run order.
type Message struct {
	Stream Stream
	Text   string
}

// Attachment is one file the test attached to its result.
type Attachment struct {
	URI         string
	Description string
}

// AttachmentSet is a named group of attachments.
type AttachmentSet struct {
	Name  string
	Items []Attachment
}

// Record is one converted result as the host consumes it.
type Record struct {
	TestCase testcase.Descriptor

	Outcome  Outcome
	Duration time.Duration

	StartTime      time.Time
	StartTimeValid bool
	EndTime        time.Time
	EndTimeValid   bool

	ComputerName string

	ErrorMessage    string
	ErrorStackTrace string

	Messages    []Message
	Attachments *AttachmentSet
}

// ResultSet is the outcome of converting one test-case event. Records holds
// everything handed to the host; Primary, when set, points at the record the
// primary conversion path produced. Some hosts key off Primary being nil
// while Records still carries a legacy-path record, so the two are reported
// separately.
type ResultSet struct {
	Primary       *Record
	Records       []*Record
	ConsoleOutput string
}
