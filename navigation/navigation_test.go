package navigation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMap(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "symbols.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func Test_GivenSymbolMap_WhenLookup_ThenResolvesFileAndLine(t *testing.T) {
	// Given
	path := writeMap(t, `Calc.Tests.Adds: "tests/calc_tests.cs:42"`+"\n")
	provider, err := NewFileProvider(path, log.NewLogger())
	require.NoError(t, err)

	// When
	data := provider.Lookup("Calc.Tests", "Adds")

	// Then
	assert.True(t, data.Valid)
	assert.Equal(t, "tests/calc_tests.cs", data.FilePath)
	assert.Equal(t, 42, data.Line)
}

func Test_GivenUnknownSymbol_WhenLookup_ThenInvalidData(t *testing.T) {
	path := writeMap(t, `Calc.Tests.Adds: "tests/calc_tests.cs:42"`+"\n")
	provider, err := NewFileProvider(path, log.NewLogger())
	require.NoError(t, err)

	assert.False(t, provider.Lookup("Calc.Tests", "Divides").Valid)
}

func Test_GivenWindowsStylePath_WhenLookup_ThenSplitsOnLastColon(t *testing.T) {
	path := writeMap(t, `Calc.Tests.Adds: "C:\\src\\calc_tests.cs:17"`+"\n")
	provider, err := NewFileProvider(path, log.NewLogger())
	require.NoError(t, err)

	data := provider.Lookup("Calc.Tests", "Adds")
	assert.True(t, data.Valid)
	assert.Equal(t, `C:\src\calc_tests.cs`, data.FilePath)
	assert.Equal(t, 17, data.Line)
}

func Test_GivenEntryWithoutLine_WhenLoad_ThenEntrySkipped(t *testing.T) {
	path := writeMap(t, `Calc.Tests.Adds: "tests/calc_tests.cs"`+"\n")
	provider, err := NewFileProvider(path, log.NewLogger())
	require.NoError(t, err)

	assert.False(t, provider.Lookup("Calc.Tests", "Adds").Valid)
}

func Test_GivenMissingFile_WhenNewFileProvider_ThenFails(t *testing.T) {
	_, err := NewFileProvider(filepath.Join(t.TempDir(), "nope.yml"), log.NewLogger())
	require.Error(t, err)
}

func Test_GivenNoopProvider_WhenLookup_ThenAlwaysInvalid(t *testing.T) {
	assert.False(t, NoopProvider{}.Lookup("A", "B").Valid)
}
