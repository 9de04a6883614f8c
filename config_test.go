package main

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/alecthomas/repr"
)

func TestModuleRoundTrip(t *testing.T) {
	for _, asTOML := range []bool{false, true} {
		dir := t.TempDir()
		want := oxideModule{
			Package:  "demo",
			Entry:    "start",
			Sources:  []string{"src/*.oxir"},
			Output:   "out/demo",
			Target:   "llvm",
			LogLevel: "DEBUG",
		}
		if _, err := writeModule(dir, want, asTOML); err != nil {
			t.Fatal(err)
		}
		got, path, err := loadModule(dir)
		if err != nil {
			t.Fatal(err)
		}
		if asTOML && filepath.Base(path) != tomlModuleFile {
			t.Errorf("expected %s to be read, got %s", tomlModuleFile, path)
		}
		if repr.String(got) != repr.String(want) {
			t.Errorf("module changed while round tripping:\n%s\n%s", repr.String(got), repr.String(want))
		}
	}
}

func TestModuleDefaults(t *testing.T) {
	dir := t.TempDir()
	if _, err := writeModule(dir, oxideModule{Package: "demo"}, false); err != nil {
		t.Fatal(err)
	}
	m, _, err := loadModule(dir)
	if err != nil {
		t.Fatal(err)
	}
	if m.Output != "demo" || m.Target != "vm" || m.LogLevel != "INFO" || len(m.Sources) != 1 || m.Sources[0] != "*.oxir" {
		t.Fatalf("unexpected defaults %s", repr.String(m))
	}
}

func TestModuleErrors(t *testing.T) {
	cases := map[string]string{
		"oxide.yaml": "package: demo\ntarget: wasm\n",
		"oxide.toml": "package = \"demo\"\ncolour = \"blue\"\n",
	}
	for name, content := range cases {
		dir := t.TempDir()
		if err := ioutil.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		if _, _, err := loadModule(dir); err == nil {
			t.Errorf("%s should be rejected:\n%s", name, content)
		}
	}

	if _, _, err := loadModule(t.TempDir()); err == nil {
		t.Errorf("a directory without a module file should be rejected")
	}

	bad := oxideModule{Package: "demo", Target: "vm", LogLevel: "LOUD"}
	if err := bad.validate(); err == nil {
		t.Errorf("unknown log levels should be rejected")
	}
}

func TestSourceFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.oxir", "a.oxir", "notes.txt"} {
		if err := ioutil.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	m := oxideModule{Sources: []string{"*.oxir", "a.*"}}
	files, err := m.sourceFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(dir, "a.oxir"), filepath.Join(dir, "b.oxir")}
	if repr.String(files) != repr.String(want) {
		t.Fatalf("expected %v, got %v", want, files)
	}

	m.Sources = []string{"*.ll"}
	if _, err := m.sourceFiles(dir); err == nil {
		t.Fatalf("an empty match should be an error")
	}
}
