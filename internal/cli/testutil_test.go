package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// testEnv points the configuration at a fresh sessions file and returns its path.
func testEnv(t *testing.T) string {
	t.Helper()

	file := filepath.Join(t.TempDir(), "sessions.json")
	t.Setenv("SENSORYSTATS_BACKEND", "file")
	t.Setenv("SENSORYSTATS_FILE", file)
	t.Setenv("SENSORYSTATS_LOG_LEVEL", "error")
	t.Setenv("SENSORYSTATS_TIMEZONE", "UTC")
	t.Setenv("SENSORYSTATS_HTTP_ADDR", ":0")
	t.Setenv("SENSORYSTATS_OTEL_ENABLED", "false")
	for _, key := range []string{"SENSORYSTATS_OTEL_ENDPOINT", "SENSORYSTATS_OTEL_INSECURE", "TURSO_DATABASE_URL", "TURSO_AUTH_TOKEN"} {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
	return file
}

// resetFlags restores every package-level flag to its default. Cobra keeps
// parsed values between Execute calls.
func resetFlags() {
	flagBackend, flagFile, flagLogLevel = "", "", ""
	sessionsLimit, sessionsDays, sessionsJSON = 0, 7, false
	insightsJSON = false
	exportOutput = ""
	resetConfirm = false
	serveAddr = ""
}

// runCLI executes the root command with args and stdin, returning stdout.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	t.Cleanup(resetFlags)

	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// mustRunCLI is runCLI that fails the test on error.
func mustRunCLI(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	out, err := runCLI(t, stdin, args...)
	if err != nil {
		t.Fatalf("sensorystats %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

// testTursoURL starts a libsql-server container and returns its URL.
func testTursoURL(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "ghcr.io/tursodatabase/libsql-server:latest",
		ExposedPorts: []string{"8080/tcp"},
		WaitingFor: wait.ForHTTP("/health").
			WithPort("8080/tcp").
			WithStartupTimeout(30 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Turso container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "8080")
	if err != nil {
		t.Fatalf("Failed to get mapped port: %v", err)
	}

	return fmt.Sprintf("http://%s:%s", host, port.Port())
}
