package testcase

import (
	"testing"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nunit-community/nunit-host-adapter/navigation"
	"github.com/nunit-community/nunit-host-adapter/settings"
)

type stubProvider struct {
	data navigation.Data
}

func (p stubProvider) Lookup(string, string) navigation.Data {
	return p.data
}

func discoveredTest() DiscoveredTest {
	return DiscoveredTest{
		ID:         "0-1001",
		Name:       "Adds",
		FullName:   "Calc.Tests.Adds",
		MethodName: "Adds",
		ClassName:  "Calc.Tests",
	}
}

func newMaterializer(stng settings.Settings, provider navigation.Provider) *Materializer {
	return NewMaterializer(NewCache(), stng, provider, log.NewLogger())
}

func Test_GivenDiscoveredTest_WhenMaterializedTwice_ThenSecondCallReturnsCachedInstance(t *testing.T) {
	// Given
	materializer := newMaterializer(settings.Default(), navigation.NoopProvider{})

	// When
	first, err := materializer.Materialize(discoveredTest())
	require.NoError(t, err)
	second, err := materializer.Materialize(discoveredTest())

	// Then
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func Test_GivenNameBasedIdentity_WhenMaterialize_ThenIDEqualsEngineID(t *testing.T) {
	materializer := newMaterializer(settings.Default(), navigation.NoopProvider{})

	descriptor, err := materializer.Materialize(discoveredTest())

	require.NoError(t, err)
	assert.Equal(t, "0-1001", descriptor.EngineID)
	assert.Equal(t, "0-1001", descriptor.ID)
	assert.Equal(t, "Calc.Tests.Adds", descriptor.FullyQualifiedName)
	assert.Equal(t, "Adds", descriptor.DisplayName)
}

func Test_GivenIDBasedIdentity_WhenMaterialize_ThenIDIsStableHashOfEngineID(t *testing.T) {
	// Given
	stng := settings.Default()
	stng.UseEngineIDForTestCaseID = true

	// When
	first, err := newMaterializer(stng, navigation.NoopProvider{}).Materialize(discoveredTest())
	require.NoError(t, err)
	second, err := newMaterializer(stng, navigation.NoopProvider{}).Materialize(discoveredTest())

	// Then
	require.NoError(t, err)
	assert.NotEqual(t, first.EngineID, first.ID)
	assert.Equal(t, first.ID, second.ID, "derived id is stable across runs")
}

func Test_GivenParameterizedCase_WhenParentFQNRequested_ThenParentNameSubstituted(t *testing.T) {
	// Given
	stng := settings.Default()
	stng.UseParentFQNForParameterizedTests = true

	test := discoveredTest()
	test.Name = `Adds("a",1)`
	test.FullName = `Calc.Tests.Adds("a",1)`
	test.IsParameterized = true
	test.ParentFullName = "Calc.Tests.Adds"

	// When
	descriptor, err := newMaterializer(stng, navigation.NoopProvider{}).Materialize(test)

	// Then
	require.NoError(t, err)
	assert.Equal(t, "Calc.Tests.Adds", descriptor.FullyQualifiedName)
}

func Test_GivenParameterizedCase_WhenParentFQNNotRequested_ThenOwnNameKept(t *testing.T) {
	test := discoveredTest()
	test.FullName = `Calc.Tests.Adds("a",1)`
	test.IsParameterized = true
	test.ParentFullName = "Calc.Tests.Adds"

	descriptor, err := newMaterializer(settings.Default(), navigation.NoopProvider{}).Materialize(test)

	require.NoError(t, err)
	assert.Equal(t, `Calc.Tests.Adds("a",1)`, descriptor.FullyQualifiedName)
}

func Test_GivenSourceCollectionEnabled_WhenMaterialize_ThenNavigationDataAttached(t *testing.T) {
	// Given
	stng := settings.Default()
	stng.CollectSourceInformation = true
	provider := stubProvider{data: navigation.Data{Valid: true, FilePath: "calc_tests.cs", Line: 42}}

	// When
	descriptor, err := newMaterializer(stng, provider).Materialize(discoveredTest())

	// Then
	require.NoError(t, err)
	assert.Equal(t, "calc_tests.cs", descriptor.SourceFile)
	assert.Equal(t, 42, descriptor.SourceLine)
}

func Test_GivenInvalidNavigationData_WhenMaterialize_ThenNoSourceAttached(t *testing.T) {
	stng := settings.Default()
	stng.CollectSourceInformation = true

	descriptor, err := newMaterializer(stng, stubProvider{}).Materialize(discoveredTest())

	require.NoError(t, err)
	assert.Empty(t, descriptor.SourceFile)
	assert.Zero(t, descriptor.SourceLine)
}
