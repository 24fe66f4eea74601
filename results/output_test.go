package results

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nunit-community/nunit-host-adapter/xmlnode"
)

func node(t *testing.T, raw string) *xmlnode.Node {
	t.Helper()
	n, err := xmlnode.Parse(raw)
	require.NoError(t, err)
	return n
}

func Test_GivenMixedStreams_WhenFilterOutput_ThenProgressAndUntaggedDropped(t *testing.T) {
	// Given
	nodes := []*xmlnode.Node{
		node(t, `<output stream="progress"><![CDATA[10%]]></output>`),
		node(t, `<output stream="error"><![CDATA[boom]]></output>`),
		node(t, `<output><![CDATA[no stream]]></output>`),
	}

	// When
	messages := FilterOutput(nodes)

	// Then
	require.Len(t, messages, 1)
	assert.Equal(t, Message{Stream: StreamStderr, Text: "boom"}, messages[0])
}

func Test_GivenStreamNames_WhenFilterOutput_ThenMatchingIsCaseInsensitive(t *testing.T) {
	nodes := []*xmlnode.Node{
		node(t, `<output stream="PROGRESS"><![CDATA[52%]]></output>`),
		node(t, `<output stream="Error"><![CDATA[stderr line]]></output>`),
		node(t, `<output stream="Out"><![CDATA[stdout line]]></output>`),
	}

	messages := FilterOutput(nodes)

	require.Len(t, messages, 2)
	assert.Equal(t, StreamStderr, messages[0].Stream)
	assert.Equal(t, StreamStdout, messages[1].Stream)
}

func Test_GivenManyNodes_WhenFilterOutput_ThenOrderPreserved(t *testing.T) {
	nodes := []*xmlnode.Node{
		node(t, `<output stream="out"><![CDATA[first]]></output>`),
		node(t, `<output stream="error"><![CDATA[second]]></output>`),
		node(t, `<output stream="out"><![CDATA[third]]></output>`),
	}

	messages := FilterOutput(nodes)

	require.Len(t, messages, 3)
	assert.Equal(t, "first", messages[0].Text)
	assert.Equal(t, "second", messages[1].Text)
	assert.Equal(t, "third", messages[2].Text)
}

func Test_GivenNoNodes_WhenFilterOutput_ThenEmpty(t *testing.T) {
	assert.Empty(t, FilterOutput(nil))
}
