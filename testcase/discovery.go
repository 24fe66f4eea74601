package testcase

import (
	"github.com/nunit-community/nunit-host-adapter/xmlnode"
)

// parameterizedMethodType is the suite type the engine assigns to the group
// node enclosing the cases of a parameterized test method.
const parameterizedMethodType = "ParameterizedMethod"

// DiscoveredTest is one test-case node of an engine discovery report,
// together with the group context the materializer needs.
type DiscoveredTest struct {
	ID         string
	Name       string
	FullName   string
	MethodName string
	ClassName  string

	// ParentFullName is the enclosing group's fully qualified name; set for
	// cases of a parameterized method.
	ParentFullName  string
	IsParameterized bool
}

// ParseDiscovery walks a discovery report tree and returns every test-case
// in document order.
func ParseDiscovery(root *xmlnode.Node) []DiscoveredTest {
	var tests []DiscoveredTest
	collectDiscoveredTests(root, &tests)
	return tests
}

func collectDiscoveredTests(suite *xmlnode.Node, tests *[]DiscoveredTest) {
	parameterized := suite.Attr("type") == parameterizedMethodType

	for i := range suite.Children {
		child := &suite.Children[i]
		switch child.Name() {
		case "test-case":
			test := DiscoveredTest{
				ID:         child.Attr("id"),
				Name:       child.Attr("name"),
				FullName:   child.Attr("fullname"),
				MethodName: child.Attr("methodname"),
				ClassName:  child.Attr("classname"),
			}
			if parameterized {
				test.IsParameterized = true
				test.ParentFullName = suite.Attr("fullname")
			}
			*tests = append(*tests, test)
		case "test-suite", "test-run":
			collectDiscoveredTests(child, tests)
		}
	}
}
