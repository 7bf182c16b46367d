//go:build mage

// Package main contains Mage build targets for pdfmerge developer tooling.
package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"

	"github.com/pdiddy/pdfmerge/internal/pdftest"
)

const (
	binDir  = "bin"
	binName = "pdfmerge"
	cmdPkg  = "./cmd/pdfmerge"

	samplesDir = "samples"
)

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil {
		version = "dev"
	}
	ldflags := "-X main.version=" + version
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Vet runs go vet over every package.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Test runs the unit tests after vetting.
func Test() error {
	mg.Deps(Vet)
	return sh.RunV("go", "test", "-race", "./...")
}

// Clean removes build output and generated samples.
func Clean() error {
	if err := os.RemoveAll(samplesDir); err != nil {
		return err
	}
	return os.RemoveAll(binDir)
}

// Samples writes a few small marker PDFs into samples/ for trying the CLI.
func Samples() error {
	if err := os.MkdirAll(samplesDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", samplesDir, err)
	}
	for name, markers := range map[string][]string{
		"one.pdf":   {"one"},
		"two.pdf":   {"two-a", "two-b"},
		"three.pdf": {"three-a", "three-b", "three-c"},
	} {
		path := filepath.Join(samplesDir, name)
		if err := os.WriteFile(path, pdftest.Build(markers...), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	fmt.Printf("Wrote sample PDFs to %s\n", samplesDir)
	return nil
}

// tally holds the counts Stats reports for one package directory.
type tally struct {
	prod, test, docs int
}

// Stats prints non-blank Go lines (production and test) per package and
// the word count of Markdown and YAML files.
func Stats() error {
	byPkg := map[string]*tally{}
	var total tally

	err := filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != "." && ignored(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".go" && ext != ".md" && ext != ".yaml" && ext != ".yml" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		if ext != ".go" {
			total.docs += len(strings.Fields(string(data)))
			return nil
		}
		t := byPkg[filepath.Dir(path)]
		if t == nil {
			t = &tally{}
			byPkg[filepath.Dir(path)] = t
		}
		n := nonBlank(data)
		if strings.HasSuffix(path, "_test.go") {
			t.test += n
			total.test += n
		} else {
			t.prod += n
			total.prod += n
		}
		return nil
	})
	if err != nil {
		return err
	}

	pkgs := make([]string, 0, len(byPkg))
	for pkg := range byPkg {
		pkgs = append(pkgs, pkg)
	}
	sort.Strings(pkgs)

	fmt.Printf("%-28s %8s %8s\n", "Package", "Prod", "Test")
	for _, pkg := range pkgs {
		fmt.Printf("%-28s %8d %8d\n", pkg, byPkg[pkg].prod, byPkg[pkg].test)
	}
	fmt.Printf("%-28s %8d %8d\n", "total", total.prod, total.test)
	fmt.Printf("Words (documentation): %d\n", total.docs)
	return nil
}

// ignored reports whether a directory sits outside the module proper.
func ignored(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") ||
		name == binDir || name == samplesDir
}

func nonBlank(data []byte) int {
	n := 0
	for _, line := range bytes.Split(data, []byte("\n")) {
		if len(bytes.TrimSpace(line)) > 0 {
			n++
		}
	}
	return n
}
