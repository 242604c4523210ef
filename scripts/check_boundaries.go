// Command check_boundaries enforces the context and layer import rules on
// everything under contexts/. Run it from the repository root.
package main

import (
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const modulePath = "aegis"

type finding struct {
	File   string
	Line   int
	Import string
	Rule   string
}

func main() {
	findings := walkContexts("contexts")
	if len(findings) == 0 {
		fmt.Println("boundary checks passed")
		return
	}

	sort.Slice(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Import < b.Import
	})

	fmt.Println("boundary violations found:")
	for _, f := range findings {
		fmt.Printf("- %s:%d imports %q (%s)\n", f.File, f.Line, f.Import, f.Rule)
	}
	os.Exit(1)
}

func walkContexts(root string) []finding {
	var findings []finding

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		normalized := filepath.ToSlash(path)
		parts := strings.Split(normalized, "/")
		if len(parts) < 4 || parts[0] != "contexts" {
			return nil
		}

		servicePrefix := fmt.Sprintf("%s/contexts/%s/%s", modulePath, parts[1], parts[2])
		findings = append(findings, checkFile(path, normalized, parts[3], servicePrefix)...)
		return nil
	})

	return findings
}

func checkFile(path string, normalized string, layer string, servicePrefix string) []finding {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
	if err != nil {
		return []finding{{File: normalized, Line: 1, Rule: "file must parse"}}
	}

	var findings []finding
	for _, imp := range file.Imports {
		importPath := strings.Trim(imp.Path.Value, "\"")
		line := fset.Position(imp.Pos()).Line

		if strings.HasPrefix(importPath, modulePath+"/contexts/") && !underPrefix(importPath, servicePrefix) {
			findings = append(findings, finding{
				File:   normalized,
				Line:   line,
				Import: importPath,
				Rule:   "cross-service imports are forbidden",
			})
		}
		findings = append(findings, checkLayer(normalized, line, importPath, layer, servicePrefix)...)
	}
	return findings
}

// checkLayer applies the per-layer allowlist. Inner layers see less:
// domain is self-contained, ports may add domain, application may add
// ports and the shared contracts. Adapters and transport are unrestricted
// beyond the cross-service rule.
func checkLayer(file string, line int, importPath string, layer string, servicePrefix string) []finding {
	var allowed []string
	switch layer {
	case "domain":
		allowed = []string{servicePrefix + "/domain"}
	case "ports":
		allowed = []string{servicePrefix + "/ports", servicePrefix + "/domain"}
	case "application":
		allowed = []string{
			servicePrefix + "/application",
			servicePrefix + "/domain",
			servicePrefix + "/ports",
			modulePath + "/contracts",
		}
	default:
		return nil
	}

	var findings []finding
	if strings.Contains(importPath, "/adapters/") {
		findings = append(findings, finding{
			File:   file,
			Line:   line,
			Import: importPath,
			Rule:   layer + " must not import adapters",
		})
	}
	if strings.HasPrefix(importPath, modulePath+"/internal/") {
		findings = append(findings, finding{
			File:   file,
			Line:   line,
			Import: importPath,
			Rule:   layer + " must not import runtime infrastructure",
		})
	}
	if !isStdlib(importPath) && !underAny(importPath, allowed) {
		findings = append(findings, finding{
			File:   file,
			Line:   line,
			Import: importPath,
			Rule:   layer + " import is outside explicit allowlist",
		})
	}
	return findings
}

func underPrefix(path string, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func underAny(importPath string, prefixes []string) bool {
	for _, p := range prefixes {
		if underPrefix(importPath, p) {
			return true
		}
	}
	return false
}

func isStdlib(importPath string) bool {
	if strings.HasPrefix(importPath, modulePath+"/") {
		return false
	}
	first := importPath
	if idx := strings.Index(first, "/"); idx != -1 {
		first = first[:idx]
	}
	return !strings.Contains(first, ".")
}
