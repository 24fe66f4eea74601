package testcase

import (
	"fmt"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/google/uuid"

	"github.com/nunit-community/nunit-host-adapter/navigation"
	"github.com/nunit-community/nunit-host-adapter/settings"
)

// caseIDNamespace is the fixed UUID namespace for id-based test identity.
// Changing it changes every derived id, so it is part of the adapter's
// compatibility surface.
var caseIDNamespace = uuid.MustParse("a8a3d6f3-0245-4a2f-9b08-85bc4a1e6e2d")

// Materializer turns discovered tests into registered descriptors. It is
// idempotent by engine id: materializing the same test twice returns the
// originally cached descriptor.
type Materializer struct {
	cache      *Cache
	settings   settings.Settings
	navigation navigation.Provider
	logger     log.Logger
}

// NewMaterializer creates a Materializer registering into the given cache.
func NewMaterializer(cache *Cache, stng settings.Settings, provider navigation.Provider, logger log.Logger) *Materializer {
	return &Materializer{
		cache:      cache,
		settings:   stng,
		navigation: provider,
		logger:     logger,
	}
}

// Materialize derives the descriptor for a discovered test and registers it.
// Repeated calls for the same engine id return the cached instance.
func (m *Materializer) Materialize(test DiscoveredTest) (Descriptor, error) {
	if cached, ok := m.cache.Lookup(test.ID); ok {
		return cached, nil
	}

	descriptor := Descriptor{
		EngineID:           test.ID,
		ID:                 test.ID,
		FullyQualifiedName: m.fullyQualifiedName(test),
		DisplayName:        test.Name,
	}

	if m.settings.UseEngineIDForTestCaseID {
		descriptor.ID = uuid.NewSHA1(caseIDNamespace, []byte(test.ID)).String()
	}

	if m.settings.CollectSourceInformation {
		if data := m.navigation.Lookup(test.ClassName, test.MethodName); data.Valid {
			descriptor.SourceFile = data.FilePath
			descriptor.SourceLine = data.Line
		}
	}

	if err := m.cache.Register(descriptor); err != nil {
		return Descriptor{}, fmt.Errorf("failed to register test case (%s): %w", test.ID, err)
	}
	return descriptor, nil
}

// fullyQualifiedName picks the name later used in filter expressions.
// Individual parameterized case names may contain display text or literal
// argument values that are not valid qualified-name syntax, so when the host
// asks for it the parent group's name is substituted instead.
func (m *Materializer) fullyQualifiedName(test DiscoveredTest) string {
	if m.settings.UseParentFQNForParameterizedTests && test.IsParameterized && test.ParentFullName != "" {
		return test.ParentFullName
	}
	return test.FullName
}
