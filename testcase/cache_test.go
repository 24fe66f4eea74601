package testcase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_GivenEmptyCache_WhenRegister_ThenLookupFindsDescriptor(t *testing.T) {
	// Given
	cache := NewCache()
	descriptor := Descriptor{EngineID: "123", ID: "123", FullyQualifiedName: "A.B.C", DisplayName: "C"}

	// When
	err := cache.Register(descriptor)

	// Then
	require.NoError(t, err)
	found, ok := cache.Lookup("123")
	require.True(t, ok)
	assert.Equal(t, descriptor, found)
	assert.Equal(t, 1, cache.Len())
}

func Test_GivenRegisteredID_WhenRegisterAgain_ThenFails(t *testing.T) {
	// Given
	cache := NewCache()
	require.NoError(t, cache.Register(Descriptor{EngineID: "123"}))

	// When
	err := cache.Register(Descriptor{EngineID: "123"})

	// Then
	require.Error(t, err)
	assert.Equal(t, 1, cache.Len())
}

func Test_GivenEmptyCache_WhenLookup_ThenNotFound(t *testing.T) {
	_, ok := NewCache().Lookup("missing")
	assert.False(t, ok)
}
