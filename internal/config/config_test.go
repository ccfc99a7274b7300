package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// useTempHome points HOME at a temp dir so tests never touch the real
// user's config or shell profiles.
func useTempHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func readEnvFile(t *testing.T, home string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(home, ConfigDirName, EnvFileName))
	if err != nil {
		t.Fatalf("failed to read env file: %v", err)
	}
	return string(data)
}

func TestLoadMissingFile(t *testing.T) {
	useTempHome(t)

	env, err := Load()
	if err != nil {
		t.Fatalf("Load with no file should not error, got: %v", err)
	}
	if got := env.Get("NLSH_PROVIDER"); got != "" {
		t.Errorf("expected empty value, got %q", got)
	}
}

func TestLoadSkipsCommentsAndMalformedLines(t *testing.T) {
	home := useTempHome(t)
	dir := filepath.Join(home, ConfigDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	content := "# a comment\n\nGEMINI_API_KEY = secret \nnot a key value line\n=novalue\nNLSH_PROVIDER=zai\n"
	if err := os.WriteFile(filepath.Join(dir, EnvFileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	env, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := env.Get("GEMINI_API_KEY"); got != "secret" {
		t.Errorf("expected trimmed value %q, got %q", "secret", got)
	}
	if got := env.Get("NLSH_PROVIDER"); got != "zai" {
		t.Errorf("expected %q, got %q", "zai", got)
	}
}

func TestSetRoundTrip(t *testing.T) {
	home := useTempHome(t)

	if err := Set("K", "V1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := Set("K", "V2"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	env, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := env.Get("K"); got != "V2" {
		t.Errorf("expected %q, got %q", "V2", got)
	}

	content := readEnvFile(t, home)
	if strings.Count(content, "K=") != 1 {
		t.Errorf("expected exactly one entry for K, got file:\n%s", content)
	}
}

func TestSetPreservesUnrelatedKeys(t *testing.T) {
	home := useTempHome(t)

	if err := Set("ZAI_API_KEY", "zzz"); err != nil {
		t.Fatal(err)
	}
	if err := Set("NLSH_PROVIDER", "gemini"); err != nil {
		t.Fatal(err)
	}

	env, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := env.Get("ZAI_API_KEY"); got != "zzz" {
		t.Errorf("unrelated key destroyed: got %q", got)
	}

	// Keys are written sorted, one per line, trailing newline.
	content := readEnvFile(t, home)
	want := "NLSH_PROVIDER=gemini\nZAI_API_KEY=zzz\n"
	if content != want {
		t.Errorf("expected deterministic file %q, got %q", want, content)
	}
}

func TestEnvFileOverridesProcessEnvironment(t *testing.T) {
	useTempHome(t)
	t.Setenv("NLSH_PROVIDER", "zai")

	if err := Set("NLSH_PROVIDER", "gemini"); err != nil {
		t.Fatal(err)
	}

	env, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := env.Get("NLSH_PROVIDER"); got != "gemini" {
		t.Errorf("file value should win over process env, got %q", got)
	}
}

func TestEnvFallsBackToProcessEnvironment(t *testing.T) {
	useTempHome(t)
	t.Setenv("GEMINI_API_KEY", "from-env")

	env, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := env.Get("GEMINI_API_KEY"); got != "from-env" {
		t.Errorf("expected fallback to process env, got %q", got)
	}
}

func TestMirrorToShellProfilesIdempotent(t *testing.T) {
	home := useTempHome(t)

	if err := MirrorToShellProfiles("K", "V"); err != nil {
		t.Fatalf("mirror failed: %v", err)
	}
	if err := MirrorToShellProfiles("K", "V"); err != nil {
		t.Fatalf("mirror failed: %v", err)
	}

	for _, rc := range profileFiles {
		data, err := os.ReadFile(filepath.Join(home, rc))
		if err != nil {
			t.Fatalf("expected %s to be created: %v", rc, err)
		}
		if got := strings.Count(string(data), `export K="V"`); got != 1 {
			t.Errorf("%s: expected exactly one export line, got %d:\n%s", rc, got, data)
		}
	}
}

func TestMirrorReplacesValueAndPreservesOtherLines(t *testing.T) {
	home := useTempHome(t)
	rcPath := filepath.Join(home, ".zshrc")
	if err := os.WriteFile(rcPath, []byte("alias ll='ls -la'\nexport K=\"old\"\nexport OTHER=\"x\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := MirrorToShellProfiles("K", "V2"); err != nil {
		t.Fatalf("mirror failed: %v", err)
	}

	data, err := os.ReadFile(rcPath)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if strings.Contains(content, "old") {
		t.Errorf("stale export line not removed:\n%s", content)
	}
	if got := strings.Count(content, `export K="V2"`); got != 1 {
		t.Errorf("expected one replacement line, got %d:\n%s", got, content)
	}
	if !strings.Contains(content, "alias ll='ls -la'") || !strings.Contains(content, `export OTHER="x"`) {
		t.Errorf("unrelated lines not preserved:\n%s", content)
	}
}
