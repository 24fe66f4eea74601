package results

import (
	"net/url"
	"strings"

	"github.com/bitrise-io/go-utils/v2/log"

	"github.com/nunit-community/nunit-host-adapter/xmlnode"
)

const fileScheme = "file://"

// ParseAttachments extracts every attachments/attachment child of a result
// node into absolute file URIs. A malformed path only skips that entry;
// attachment parsing never aborts the conversion.
func ParseAttachments(result *xmlnode.Node, logger log.Logger) []Attachment {
	container := result.Child("attachments")
	if container == nil {
		return nil
	}

	var attachments []Attachment
	for i := range container.Children {
		node := &container.Children[i]
		if node.Name() != "attachment" {
			continue
		}

		path, _ := node.ChildText("filePath")
		description, _ := node.ChildText("description")
		if path == "" {
			continue
		}

		uri := path
		if !strings.HasPrefix(uri, fileScheme) {
			uri = fileScheme + uri
		}

		parsed, err := url.Parse(uri)
		if err != nil {
			logger.Warnf("Ignoring attachment with invalid path (%s): %s", path, err)
			continue
		}
		if !parsed.IsAbs() {
			logger.Warnf("Ignoring attachment with non-absolute path (%s)", path)
			continue
		}

		attachments = append(attachments, Attachment{URI: parsed.String(), Description: description})
	}
	return attachments
}
