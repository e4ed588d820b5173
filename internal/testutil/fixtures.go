package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// Now is the instant every fixed clock in the tests reports.
var Now = time.Date(2026, 3, 14, 9, 5, 0, 0, time.UTC)

const Customers = `# clave|nombre|descuento_%
don_pepe|Don Pepe|10
la_tiendita|La Tiendita|15
`

func FixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

// WriteFile writes content to name inside a fresh temp dir and returns the path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
