// Package events wraps raw NUnit engine event fragments (start-test,
// test-case, test-suite) in typed accessors. Constructors are strict about
// the root tag only; every attribute accessor is permissive and falls back
// to a documented default when the engine omitted the value.
package events

import (
	"fmt"
	"strconv"
	"time"

	"github.com/nunit-community/nunit-host-adapter/xmlnode"
)

// Tag names of the engine events the adapter understands.
const (
	StartTestTag     = "start-test"
	TestCaseTag      = "test-case"
	SuiteFinishedTag = "test-suite"
)

// Timestamp layout used by the engine's start-time/end-time attributes.
const timeLayout = "2006-01-02 15:04:05Z"

// WrongEventTypeError is returned when an event wrapper is constructed from
// a node whose tag does not match the requested event type.
type WrongEventTypeError struct {
	Expected string
	Actual   string
}

func (e *WrongEventTypeError) Error() string {
	return fmt.Sprintf("wrong event type: expected <%s>, got <%s>", e.Expected, e.Actual)
}

// Result is the engine's vocabulary for a finished test or suite.
type Result int

const (
	ResultUnknown Result = iota
	ResultFailed
	ResultSuccess
	ResultSkipped
	ResultWarning
)

// Site tells which phase of the test reported the result.
type Site int

const (
	SiteUnknown Site = iota
	SiteTest
	SiteSetup
	SiteTearDown
)

// Event is any parsed engine event.
type Event interface {
	ID() string
	Node() *xmlnode.Node
}

// Failure carries the failure child of a test-case event. Message or
// StackTrace may be empty when the engine omitted the corresponding node.
type Failure struct {
	Message    string
	StackTrace string
}

// event is the accessor set shared by all concrete event types.
type event struct {
	node *xmlnode.Node
}

func newEvent(n *xmlnode.Node, expectedTag string) (event, error) {
	if n.Name() != expectedTag {
		return event{}, &WrongEventTypeError{Expected: expectedTag, Actual: n.Name()}
	}
	return event{node: n}, nil
}

// Node exposes the underlying XML node.
func (e event) Node() *xmlnode.Node {
	return e.node
}

func (e event) ID() string {
	return e.node.Attr("id")
}

func (e event) Name() string {
	return e.node.Attr("name")
}

func (e event) FullName() string {
	return e.node.Attr("fullname")
}

func (e event) MethodName() string {
	return e.node.Attr("methodname")
}

func (e event) ClassName() string {
	return e.node.Attr("classname")
}

func (e event) Label() string {
	return e.node.Attr("label")
}

// IsIgnored reports whether the engine labelled the test as ignored.
func (e event) IsIgnored() bool {
	return e.Label() == "Ignored"
}

// Result maps the engine's result attribute to the Result enum. The mapping
// is exact and case sensitive; anything unrecognized is ResultUnknown.
func (e event) Result() Result {
	switch e.node.Attr("result") {
	case "Failed":
		return ResultFailed
	case "Passed":
		return ResultSuccess
	case "Skipped":
		return ResultSkipped
	case "Warning":
		return ResultWarning
	default:
		return ResultUnknown
	}
}

// Site maps the engine's site attribute. The test body itself carries no
// explicit site value, so it reports SiteUnknown like every other
// unrecognized string.
func (e event) Site() Site {
	switch e.node.Attr("site") {
	case "SetUp":
		return SiteSetup
	case "TearDown":
		return SiteTearDown
	default:
		return SiteUnknown
	}
}

// Duration returns the reported duration. A missing or malformed duration
// attribute yields zero.
func (e event) Duration() time.Duration {
	seconds, err := strconv.ParseFloat(e.node.Attr("duration"), 64)
	if err != nil {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}

// StartTime returns the reported start timestamp and its validity.
func (e event) StartTime() (time.Time, bool) {
	return e.timestamp("start-time")
}

// EndTime returns the reported end timestamp and its validity.
func (e event) EndTime() (time.Time, bool) {
	return e.timestamp("end-time")
}

func (e event) timestamp(attr string) (time.Time, bool) {
	value, ok := e.node.AttrOK(attr)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Output returns the event's inline output child text, "" when absent.
func (e event) Output() string {
	text, _ := e.node.ChildText("output")
	return text
}

// StartTest is the engine's notification that a test is about to run.
type StartTest struct {
	event
}

// NewStartTest wraps a start-test node.
func NewStartTest(n *xmlnode.Node) (*StartTest, error) {
	e, err := newEvent(n, StartTestTag)
	if err != nil {
		return nil, err
	}
	return &StartTest{event: e}, nil
}

// TestCase is the engine's report of one finished test case.
type TestCase struct {
	event
}

// NewTestCase wraps a test-case node.
func NewTestCase(n *xmlnode.Node) (*TestCase, error) {
	e, err := newEvent(n, TestCaseTag)
	if err != nil {
		return nil, err
	}
	return &TestCase{event: e}, nil
}

// Failure returns the event's failure child, or nil when the test did not
// report one.
func (tc *TestCase) Failure() *Failure {
	node := tc.node.Child("failure")
	if node == nil {
		return nil
	}
	message, _ := node.ChildText("message")
	stackTrace, _ := node.ChildText("stack-trace")
	return &Failure{Message: message, StackTrace: stackTrace}
}

// ReasonMessage returns the reason/message child text, "" when absent.
func (tc *TestCase) ReasonMessage() string {
	node := tc.node.Descend("reason", "message")
	if node == nil {
		return ""
	}
	return node.Text
}

// HasReason reports the historical test-case reason predicate: true when the
// reason message is empty or absent. This is intentionally the inverse of
// the predicate on SuiteFinished; callers depend on the per-type behavior.
func (tc *TestCase) HasReason() bool {
	return tc.ReasonMessage() == ""
}

// AssertionStackTraces returns the text of every
// assertions/assertion/stack-trace descendant in document order. Engines
// that omit the top-level failure stack trace still report one per
// assertion here.
func (tc *TestCase) AssertionStackTraces() []string {
	return tc.node.DescendantText("assertions", "assertion", "stack-trace")
}

// SuiteFinished is the engine's report of one finished suite.
type SuiteFinished struct {
	event
}

// NewSuiteFinished wraps a test-suite node.
func NewSuiteFinished(n *xmlnode.Node) (*SuiteFinished, error) {
	e, err := newEvent(n, SuiteFinishedTag)
	if err != nil {
		return nil, err
	}
	return &SuiteFinished{event: e}, nil
}

// ReasonMessage returns the reason/message child text, "" when absent.
func (s *SuiteFinished) ReasonMessage() string {
	node := s.node.Descend("reason", "message")
	if node == nil {
		return ""
	}
	return node.Text
}

// HasReason reports whether the suite carries a non-empty reason message.
func (s *SuiteFinished) HasReason() bool {
	return s.ReasonMessage() != ""
}

// ParseEvent parses a raw engine event fragment and dispatches on its root
// tag. Unknown tags fail with a WrongEventTypeError.
func ParseEvent(raw string) (Event, error) {
	node, err := xmlnode.Parse(raw)
	if err != nil {
		return nil, err
	}
	switch node.Name() {
	case StartTestTag:
		return NewStartTest(node)
	case TestCaseTag:
		return NewTestCase(node)
	case SuiteFinishedTag:
		return NewSuiteFinished(node)
	default:
		return nil, &WrongEventTypeError{
			Expected: fmt.Sprintf("%s, %s or %s", StartTestTag, TestCaseTag, SuiteFinishedTag),
			Actual:   node.Name(),
		}
	}
}
