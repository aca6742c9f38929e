package check

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/nao1215/lintsweep/internal/model"
)

// ImportCheck detects modules imported more than once within a file.
// Duplicate imports are harmless to the interpreter but almost always
// indicate a careless merge, and the import sorter does not flag them.
type ImportCheck struct {
	// importRegex matches "import a" and "import a, b" forms.
	importRegex *regexp.Regexp

	// fromRegex matches "from a.b import c" forms.
	fromRegex *regexp.Regexp
}

// moduleNameRegex validates a dotted module path.
var moduleNameRegex = regexp.MustCompile(`^[\w.]+$`)

// NewImportCheck creates a new duplicate-import check.
func NewImportCheck() *ImportCheck {
	return &ImportCheck{
		importRegex: regexp.MustCompile(`^\s*import\s+(.+)$`),
		fromRegex:   regexp.MustCompile(`^\s*from\s+([\w.]+)\s+import\b`),
	}
}

// Name returns the check name.
func (c *ImportCheck) Name() string {
	return "import-scan"
}

// Check scans every corpus file for repeated imports of the same module.
// The first import wins; each repetition produces one finding referencing
// the line of the first occurrence.
func (c *ImportCheck) Check(ctx context.Context, corpus *Corpus) ([]model.Finding, error) {
	var findings []model.Finding

	for _, src := range corpus.Files {
		select {
		case <-ctx.Done():
			return findings, ctx.Err()
		default:
		}

		// module name -> 1-based line of first import
		seen := make(map[string]int)

		for i, line := range src.Lines {
			for _, module := range c.importedModules(line) {
				first, dup := seen[module]
				if !dup {
					seen[module] = i + 1
					continue
				}

				f := model.NewFinding("duplicate_import",
					"Duplicate import",
					fmt.Sprintf("module %q first imported at line %d", module, first),
				)
				f.File = src.Path
				f.Line = i + 1
				f.Text = line
				f.Value = module
				findings = append(findings, f)
			}
		}
	}

	return findings, nil
}

// importedModules extracts the module names imported by one line.
// Returns nil for lines that are not import statements.
func (c *ImportCheck) importedModules(line string) []string {
	if m := c.fromRegex.FindStringSubmatch(line); m != nil {
		return []string{m[1]}
	}

	m := c.importRegex.FindStringSubmatch(line)
	if m == nil {
		return nil
	}

	// "import a, b as c" imports two modules: a and b.
	var modules []string
	for _, part := range strings.Split(m[1], ",") {
		fields := strings.Fields(strings.TrimSpace(part))
		if len(fields) == 0 {
			continue
		}
		module := fields[0]
		// Guard against matching non-import code like "import_config = 1".
		if !moduleNameRegex.MatchString(module) {
			continue
		}
		modules = append(modules, module)
	}
	return modules
}
