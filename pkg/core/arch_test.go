package core_test

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const modulePath = "github.com/leapstack-labs/sqlpath"

// coreImports returns file name -> import paths for every non-test file.
func coreImports(t *testing.T) map[string][]string {
	t.Helper()
	fset := token.NewFileSet()

	entries, err := os.ReadDir(".")
	if err != nil {
		t.Fatalf("Failed to read core directory: %v", err)
	}

	imports := make(map[string][]string)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".go") || strings.HasSuffix(entry.Name(), "_test.go") {
			continue
		}

		f, err := parser.ParseFile(fset, filepath.Join(".", entry.Name()), nil, parser.ImportsOnly)
		if err != nil {
			t.Errorf("Failed to parse %s: %v", entry.Name(), err)
			continue
		}
		for _, imp := range f.Imports {
			imports[entry.Name()] = append(imports[entry.Name()], strings.Trim(imp.Path.Value, `"`))
		}
	}
	return imports
}

// TestCoreImportsOnly verifies pkg/core only imports allowed packages.
// The Golden Rule: pkg/core imports ONLY pkg/token and stdlib.
func TestCoreImportsOnly(t *testing.T) {
	allowedExternal := map[string]bool{
		modulePath + "/pkg/token": true,
	}

	for file, paths := range coreImports(t) {
		for _, importPath := range paths {
			// stdlib has no dot in its first path element
			if !strings.Contains(importPath, ".") {
				continue
			}
			if !allowedExternal[importPath] {
				t.Errorf("%s imports forbidden package: %s", file, importPath)
			}
		}
	}
}

// TestCoreDoesNotImportConsumers verifies pkg/core never depends on the
// packages built on top of it.
func TestCoreDoesNotImportConsumers(t *testing.T) {
	for file, paths := range coreImports(t) {
		for _, importPath := range paths {
			switch {
			case strings.Contains(importPath, "/internal/"):
				t.Errorf("%s imports internal package: %s", file, importPath)
			case strings.HasPrefix(importPath, modulePath+"/pkg/parser"),
				strings.HasPrefix(importPath, modulePath+"/pkg/lineage"),
				strings.HasPrefix(importPath, modulePath+"/pkg/format"):
				t.Errorf("%s imports consumer package: %s", file, importPath)
			}
		}
	}
}
