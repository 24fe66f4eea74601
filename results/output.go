package results

import (
	"strings"

	"github.com/nunit-community/nunit-host-adapter/xmlnode"
)

// FilterOutput classifies buffered output nodes into console messages,
// preserving their order. Nodes without a stream attribute and progress
// stream nodes are not test output and are dropped.
func FilterOutput(nodes []*xmlnode.Node) []Message {
	var messages []Message
	for _, node := range nodes {
		stream, ok := node.AttrOK("stream")
		if !ok || strings.EqualFold(stream, "progress") {
			continue
		}

		tag := StreamStdout
		if strings.EqualFold(stream, "error") {
			tag = StreamStderr
		}
		messages = append(messages, Message{Stream: tag, Text: node.Text})
	}
	return messages
}
