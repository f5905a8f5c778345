package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestBuild_Page(t *testing.T) {
	t.Chdir(t.TempDir())

	src := "##title T\n##author A\n##date D\n\n# A claim\nWith detail.\n"
	if err := os.WriteFile("essay.pd", []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCommand(t, "build", "essay.pd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "<h1>T</h1>") {
		t.Errorf("expected rendered page, got:\n%s", out)
	}
}

func TestBuild_SetOverridesAndOutputFile(t *testing.T) {
	t.Chdir(t.TempDir())

	if err := os.WriteFile("essay.pd", []byte("# A claim\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	outPath := filepath.Join(t.TempDir(), "essay.html")
	_, err := runCommand(t, "build", "essay.pd",
		"--set", "title=T", "--set", "author=A", "--set", "date=D",
		"-o", outPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("output file not written: %v", err)
	}
	if !strings.Contains(string(data), "A claim") {
		t.Errorf("output missing claim:\n%s", data)
	}

	buildSet = nil
	buildOutput = ""
}

func TestBuild_CompileErrorPropagates(t *testing.T) {
	t.Chdir(t.TempDir())

	if err := os.WriteFile("bad.pd", []byte("##appendix\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := runCommand(t, "build", "bad.pd"); err == nil {
		t.Fatal("expected structure error")
	}
}

func TestBuild_ProjectFileProperties(t *testing.T) {
	t.Chdir(t.TempDir())

	yaml := "properties:\n  title: From File\n  author: A\n  date: D\n"
	if err := os.WriteFile("propdown.yaml", []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile("essay.pd", []byte("# A claim\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCommand(t, "build", "essay.pd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "<h1>From File</h1>") {
		t.Errorf("expected title from propdown.yaml, got:\n%s", out)
	}
}

func TestImportCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	if err := os.WriteFile("notes.txt", []byte("A claim.\n\nDetail.\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCommand(t, "import", "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "# A claim.") {
		t.Errorf("unexpected import output:\n%s", out)
	}
}

func TestDecompileCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	if err := os.WriteFile("page.html", []byte("<p>Some <i>text</i>.</p>"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCommand(t, "decompile", "page.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Some *text*.") {
		t.Errorf("unexpected decompile output:\n%s", out)
	}
}
