package slowtest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/tddkit/internal/models"
)

func TestThresholdBoundary(t *testing.T) {
	atThreshold, err := Detect("✓ renders widget (100ms)\n", 100, "vitest")
	require.NoError(t, err)
	assert.Empty(t, atThreshold, "a test at exactly the threshold is not slow")

	above, err := Detect("✓ renders widget (101ms)\n", 100, "vitest")
	require.NoError(t, err)
	require.Len(t, above, 1)
	assert.Equal(t, "renders widget", above[0].TestName)
	assert.Equal(t, 101, above[0].RuntimeMS)
	assert.Equal(t, models.Placeholder, above[0].TestFile)
}

func TestVitestPatterns(t *testing.T) {
	output := `
 ✓ src/timer.test.js (3 tests) 412ms
   ✓ starts at zero (5ms)
   ✓ counts down (250ms)
 PASS src/widget.test.js (1200ms)
`
	slow, err := Detect(output, 100, "jest")
	require.NoError(t, err)

	assert.Equal(t, []models.SlowTest{
		{TestName: "counts down", RuntimeMS: 250, TestFile: models.Placeholder},
		{TestName: "src/timer.test.js (3 tests)", RuntimeMS: 412, TestFile: models.Placeholder},
		{TestName: "src/widget.test.js", RuntimeMS: 1200, TestFile: models.Placeholder},
	}, slow)
}

func TestPytestPattern(t *testing.T) {
	output := "tests/test_api.py::test_create PASSED [ 50%] 0.250s\n" +
		"tests/test_api.py::test_fast PASSED [100%] 0.010s\n"

	slow, err := Detect(output, 100, "pytest")
	require.NoError(t, err)
	require.Len(t, slow, 1)
	assert.Equal(t, models.SlowTest{TestName: "test_create", RuntimeMS: 250, TestFile: "tests/test_api.py"}, slow[0])
}

func TestJUnitPattern(t *testing.T) {
	output := "testCreate(com.example.ApiTest)  Time elapsed: 1.5 s\n" +
		"testFast(com.example.ApiTest)  Time elapsed: 0.001 s\n"

	slow, err := Detect(output, 100, "junit")
	require.NoError(t, err)
	require.Len(t, slow, 1)
	assert.Equal(t, models.SlowTest{TestName: "testCreate", RuntimeMS: 1500, TestFile: "com.example.ApiTest"}, slow[0])
}

func TestGoTestPattern(t *testing.T) {
	output := `=== RUN   TestParse
=== RUN   TestParse/empty_input
--- PASS: TestParse (0.35s)
    --- PASS: TestParse/empty_input (0.30s)
--- PASS: TestQuick (0.00s)
--- FAIL: TestBroken (2.00s)
`
	slow, err := Detect(output, 100, "go")
	require.NoError(t, err)

	assert.Equal(t, []models.SlowTest{
		{TestName: "TestParse", RuntimeMS: 350, TestFile: models.Placeholder},
		{TestName: "TestParse/empty_input", RuntimeMS: 300, TestFile: models.Placeholder},
	}, slow)
}

func TestSecondsTruncateToMillis(t *testing.T) {
	slow, err := Detect("--- PASS: TestRound (0.1019s)\n", 100, "go")
	require.NoError(t, err)
	require.Len(t, slow, 1)
	assert.Equal(t, 101, slow[0].RuntimeMS)
}

// The same (name, runtime) reported by two recognizers yields one entry
func TestDeduplicationAcrossExtractors(t *testing.T) {
	output := "✓ TestCache (150ms)\n--- PASS: TestCache (0.150s)\n"

	slow, err := Detect(output, 100, "")
	require.NoError(t, err)
	require.Len(t, slow, 1)
	assert.Equal(t, "TestCache", slow[0].TestName)
	assert.Equal(t, 150, slow[0].RuntimeMS)
}

func TestDeduplicationWithKnownFramework(t *testing.T) {
	output := "✓ TestCache (150ms)\n✓ TestCache (150ms)\n✓ TestCache (175ms)\n"

	slow, err := Detect(output, 100, "vitest")
	require.NoError(t, err)
	require.Len(t, slow, 2)
	assert.Equal(t, 150, slow[0].RuntimeMS)
	assert.Equal(t, 175, slow[1].RuntimeMS)
}

func TestDifferentRuntimesAreNotDuplicates(t *testing.T) {
	output := "✓ TestCache (150ms)\n--- PASS: TestCache (0.200s)\n"

	slow, err := Detect(output, 100, FrameworkAuto)
	require.NoError(t, err)
	assert.Len(t, slow, 2)
}

func TestKnownFrameworkRunsOnlyItsExtractor(t *testing.T) {
	output := "✓ renders widget (150ms)\n--- PASS: TestCache (0.300s)\n"

	vitestOnly, err := Detect(output, 100, "vitest")
	require.NoError(t, err)
	require.Len(t, vitestOnly, 1)
	assert.Equal(t, "renders widget", vitestOnly[0].TestName)

	// Unknown tags fall back to every extractor
	all, err := Detect(output, 100, "rspec")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestEmptyOutput(t *testing.T) {
	for _, output := range []string{"", "   \n\t\n"} {
		_, err := Detect(output, 100, "")
		assert.True(t, errors.Is(err, ErrNoTestOutput), "output %q", output)
	}
}

func TestNoSlowTests(t *testing.T) {
	slow, err := Detect("✓ fast (3ms)\n", 100, "")
	require.NoError(t, err)
	assert.Empty(t, slow)
}

type stubExtractor struct{}

func (stubExtractor) Name() string { return "stub" }

func (stubExtractor) Extract(output string) []models.SlowTest {
	return []models.SlowTest{{TestName: "custom", RuntimeMS: 999, TestFile: "x.spec"}}
}

func TestRegistryIsPluggable(t *testing.T) {
	r := DefaultRegistry()
	r.Register(stubExtractor{}, "stub")

	assert.Equal(t, []string{"vitest", "jest", "pytest", "junit", "go", "stub"}, r.Tags())

	slow, err := r.Detect("anything", 100, "stub")
	require.NoError(t, err)
	assert.Equal(t, []models.SlowTest{{TestName: "custom", RuntimeMS: 999, TestFile: "x.spec"}}, slow)
}
