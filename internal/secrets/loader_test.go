package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSecretFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "secret")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing secret file: %v", err)
	}
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeSecretFile(t, "  key-from-file \n")

	secret, err := Load(Source{Name: "api key", File: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if secret != "key-from-file" {
		t.Fatalf("expected trimmed secret, got %q", secret)
	}
}

func TestLoadFilePrecedence(t *testing.T) {
	path := writeSecretFile(t, "key-from-file")
	t.Setenv("TEST_SECRET", "key-from-env")

	secret, err := Load(Source{
		Name:  "api key",
		Value: "key-from-value",
		File:  path,
		Env:   "TEST_SECRET",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if secret != "key-from-file" {
		t.Fatalf("expected file to take precedence, got %q", secret)
	}
}

func TestLoadValuePrecedesEnv(t *testing.T) {
	t.Setenv("TEST_SECRET", "key-from-env")

	secret, err := Load(Source{Name: "api key", Value: "key-from-value", Env: "TEST_SECRET"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if secret != "key-from-value" {
		t.Fatalf("expected value to take precedence, got %q", secret)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TEST_SECRET", "  key-from-env  ")

	secret, err := Load(Source{Name: "api key", Env: "TEST_SECRET"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if secret != "key-from-env" {
		t.Fatalf("expected trimmed env secret, got %q", secret)
	}
}

func TestLoadMissingSecret(t *testing.T) {
	_, err := Load(Source{Name: "gemini api key"})
	if err == nil {
		t.Fatal("expected error for unconfigured secret")
	}

	if !strings.Contains(err.Error(), "gemini api key") {
		t.Fatalf("expected error to name the secret, got %q", err)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := writeSecretFile(t, "   \n")

	_, err := Load(Source{Name: "api key", File: path})
	if err == nil {
		t.Fatal("expected error for empty secret file")
	}

	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to name the file, got %q", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(Source{Name: "api key", File: filepath.Join(t.TempDir(), "nope")})
	if err == nil {
		t.Fatal("expected error for unreadable secret file")
	}
}
