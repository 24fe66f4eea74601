package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/nunit-community/nunit-host-adapter/adapter"
	"github.com/nunit-community/nunit-host-adapter/results"
)

// ResultSink is a mock of the adapter.ResultSink interface.
type ResultSink struct {
	mock.Mock
}

func (m *ResultSink) RecordResult(record *results.Record) {
	m.Called(record)
}

func (m *ResultSink) Message(level adapter.MessageLevel, text string) {
	m.Called(level, text)
}
