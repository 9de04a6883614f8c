package main

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/coreos/pkg/capnslog"
	"gopkg.in/yaml.v2"
)

const (
	yamlModuleFile = "oxide.yaml"
	tomlModuleFile = "oxide.toml"
)

var targets = []string{"vm", "llvm"}

type oxideModule struct {
	Package  string   `yaml:"package" toml:"package"`
	Entry    string   `yaml:"entry,omitempty" toml:"entry,omitempty"`
	Sources  []string `yaml:"sources,omitempty" toml:"sources,omitempty"`
	Output   string   `yaml:"output,omitempty" toml:"output,omitempty"`
	Target   string   `yaml:"target,omitempty" toml:"target,omitempty"`
	LogLevel string   `yaml:"log_level,omitempty" toml:"log_level,omitempty"`
}

func (m *oxideModule) applyDefaults() {
	if len(m.Sources) == 0 {
		m.Sources = []string{"*.oxir"}
	}
	if m.Output == "" {
		m.Output = m.Package
	}
	if m.Target == "" {
		m.Target = "vm"
	}
	if m.LogLevel == "" {
		m.LogLevel = "INFO"
	}
}

func (m oxideModule) validate() error {
	if m.Package == "" {
		return fmt.Errorf("module has no package name")
	}
	known := false
	for _, t := range targets {
		known = known || t == m.Target
	}
	if !known {
		return fmt.Errorf("unknown target %q, expected one of %s", m.Target, strings.Join(targets, ", "))
	}
	if _, err := capnslog.ParseLevel(strings.ToUpper(m.LogLevel)); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// loadModule reads the module file in dir, preferring oxide.yaml over
// oxide.toml. It returns the path it read.
func loadModule(dir string) (m oxideModule, path string, err error) {
	path = filepath.Join(dir, yamlModuleFile)
	data, err := ioutil.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.UnmarshalStrict(data, &m); err != nil {
			return m, path, fmt.Errorf("error reading %s: %w", path, err)
		}
	case os.IsNotExist(err):
		path = filepath.Join(dir, tomlModuleFile)
		md, err := toml.DecodeFile(path, &m)
		if err != nil {
			return m, path, fmt.Errorf("error reading %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return m, path, fmt.Errorf("error reading %s: unknown key %s", path, undecoded[0])
		}
	default:
		return m, path, err
	}

	m.applyDefaults()
	return m, path, m.validate()
}

func writeModule(dir string, m oxideModule, asTOML bool) (string, error) {
	var out []byte
	path := filepath.Join(dir, yamlModuleFile)
	if asTOML {
		path = filepath.Join(dir, tomlModuleFile)
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(m); err != nil {
			return path, err
		}
		out = buf.Bytes()
	} else {
		var err error
		out, err = yaml.Marshal(m)
		if err != nil {
			return path, err
		}
	}
	return path, ioutil.WriteFile(path, out, 0644)
}

// sourceFiles expands the source globs relative to dir.
func (m oxideModule) sourceFiles(dir string) ([]string, error) {
	seen := map[string]bool{}
	var files []string
	for _, pattern := range m.Sources {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("sources: %w", err)
		}
		for _, match := range matches {
			if !seen[match] {
				seen[match] = true
				files = append(files, match)
			}
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no source files match %s", strings.Join(m.Sources, ", "))
	}
	sort.Strings(files)
	return files, nil
}
