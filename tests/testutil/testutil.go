package testutil

import (
	"fmt"
	"os"
	"strings"
	"testing"
)

// RequireTestEnvironment fails the test unless GO_ENV=test. Destructive
// fixtures (drops, truncates, hard deletes) call this first so a stray
// DATABASE_URL never points them at a real deployment.
func RequireTestEnvironment(t *testing.T) {
	t.Helper()
	if env := os.Getenv("GO_ENV"); env != "test" {
		t.Fatalf("refusing to run: GO_ENV=%q, set GO_ENV=test", env)
	}
}

// RequireTestEnvironmentOrSkip skips instead of failing when GO_ENV is not
// "test". For optional suites that are harmless to omit.
func RequireTestEnvironmentOrSkip(t *testing.T) {
	t.Helper()
	if env := os.Getenv("GO_ENV"); env != "test" {
		t.Skipf("skipping: GO_ENV=%q, set GO_ENV=test to run", env)
	}
}

// MustSetTestEnvironment forces GO_ENV=test. Call from TestMain or suite
// setup before any configuration is loaded.
func MustSetTestEnvironment(t *testing.T) {
	t.Helper()
	if err := os.Setenv("GO_ENV", "test"); err != nil {
		t.Fatalf("set GO_ENV=test: %v", err)
	}
}

// PrintEnvironmentInfo dumps the environment a failing test ran under
func PrintEnvironmentInfo() {
	fmt.Printf("test environment:\n")
	fmt.Printf("  GO_ENV=%s\n", os.Getenv("GO_ENV"))
	fmt.Printf("  DATABASE_URL=%s\n", maskDatabaseURL(os.Getenv("DATABASE_URL")))
	fmt.Printf("  PORT=%s\n", os.Getenv("PORT"))
}

// maskDatabaseURL truncates the URL and flags whether it looks like a test
// database, without printing credentials
func maskDatabaseURL(url string) string {
	if url == "" {
		return "(not set)"
	}
	masked := url
	if len(masked) > 20 {
		masked = masked[:20] + "..."
	}
	if strings.Contains(url, "test") {
		return masked + " [test]"
	}
	return masked + " [WARNING: may not be a test database]"
}
