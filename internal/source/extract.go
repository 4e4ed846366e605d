package source

import (
	"regexp"
	"strings"
)

// Extraction is regex-based by design: it trades compiler-grade accuracy
// for zero build dependencies and tolerance of files that do not parse.
// Known blind spots (keyword-like text in comments and strings,
// unconventional formatting) are accepted; scoring downstream treats
// extraction output as a heuristic signal, not ground truth.

var (
	functionRe = regexp.MustCompile(`(?m)^\s*(?:export\s+)?(?:default\s+)?(?:async\s+)?function\s+(\w+)\s*\(([^)]*)\)`)
	arrowRe    = regexp.MustCompile(`(?m)^\s*(?:export\s+)?const\s+(\w+)\s*=\s*(?:async\s*)?\(([^)]*)\)\s*(?::\s*[^=]+)?=>`)
	classRe    = regexp.MustCompile(`(?m)^\s*(?:export\s+)?(?:default\s+)?(?:abstract\s+)?class\s+(\w+)`)
	ifaceRe    = regexp.MustCompile(`(?ms)^\s*(?:export\s+)?interface\s+(\w+)(?:\s+extends\s+[^{]+)?\s*\{(.*?)^\}`)
	typeRe     = regexp.MustCompile(`(?m)^\s*(?:export\s+)?type\s+(\w+)(?:<[^>]*>)?\s*=\s*([^;\n]+)`)
	importRe   = regexp.MustCompile(`(?m)^\s*import\s+(?:type\s+)?(?:[\w*{}\s,]+\s+from\s+)?['"]([^'"]+)['"]`)
	endpointRe = regexp.MustCompile(`\.(get|post|put|delete|patch)\s*\(\s*['"]([^'"]+)['"]`)
)

// ExtractFunctions returns function name -> captured signature for all
// function declarations and arrow constants found in content.
func ExtractFunctions(content string) map[string]string {
	out := make(map[string]string)
	for _, m := range functionRe.FindAllStringSubmatch(content, -1) {
		out[m[1]] = strings.TrimSpace(m[2])
	}
	for _, m := range arrowRe.FindAllStringSubmatch(content, -1) {
		if _, exists := out[m[1]]; !exists {
			out[m[1]] = strings.TrimSpace(m[2])
		}
	}
	return out
}

// ExtractTypes returns type/interface name -> captured definition body.
// Interface bodies are whitespace-normalized so cosmetic reformatting
// does not read as a definition change.
func ExtractTypes(content string) map[string]string {
	out := make(map[string]string)
	for _, m := range ifaceRe.FindAllStringSubmatch(content, -1) {
		out[m[1]] = normalizeWhitespace(m[2])
	}
	for _, m := range typeRe.FindAllStringSubmatch(content, -1) {
		if _, exists := out[m[1]]; !exists {
			out[m[1]] = strings.TrimSpace(m[2])
		}
	}
	return out
}

// ExtractImports returns the import specifiers found in content, in order
func ExtractImports(content string) []string {
	var out []string
	for _, m := range importRe.FindAllStringSubmatch(content, -1) {
		out = append(out, m[1])
	}
	return out
}

// ExtractComponents produces component references for every function,
// class, interface, type alias, and API endpoint found in content.
func ExtractComponents(content, filePath string) []ComponentReference {
	var out []ComponentReference

	add := func(typ ComponentType, name, signature string, offset int) {
		line, col := lineColAt(content, offset)
		out = append(out, ComponentReference{
			Type:      typ,
			Name:      name,
			FilePath:  filePath,
			Line:      line,
			Column:    col,
			Signature: signature,
		})
	}

	for _, idx := range functionRe.FindAllStringSubmatchIndex(content, -1) {
		name := content[idx[2]:idx[3]]
		sig := strings.TrimSpace(content[idx[4]:idx[5]])
		add(ComponentFunction, name, sig, idx[0])
	}
	for _, idx := range arrowRe.FindAllStringSubmatchIndex(content, -1) {
		name := content[idx[2]:idx[3]]
		sig := strings.TrimSpace(content[idx[4]:idx[5]])
		add(ComponentFunction, name, sig, idx[0])
	}
	for _, idx := range classRe.FindAllStringSubmatchIndex(content, -1) {
		add(ComponentClass, content[idx[2]:idx[3]], "", idx[0])
	}
	for _, idx := range ifaceRe.FindAllStringSubmatchIndex(content, -1) {
		add(ComponentInterface, content[idx[2]:idx[3]], "", idx[0])
	}
	for _, idx := range typeRe.FindAllStringSubmatchIndex(content, -1) {
		name := content[idx[2]:idx[3]]
		def := strings.TrimSpace(content[idx[4]:idx[5]])
		add(ComponentTypeAlias, name, def, idx[0])
	}
	for _, idx := range endpointRe.FindAllStringSubmatchIndex(content, -1) {
		method := strings.ToUpper(content[idx[2]:idx[3]])
		route := content[idx[4]:idx[5]]
		add(ComponentAPIEndpoint, method+" "+route, "", idx[0])
	}

	return dedupeComponents(out)
}

// FactsFromContent builds FileFacts directly from file content
func FactsFromContent(content, filePath string) *FileFacts {
	facts := &FileFacts{FilePath: filePath, Imports: ExtractImports(content)}
	for _, c := range ExtractComponents(content, filePath) {
		switch c.Type {
		case ComponentFunction, ComponentAPIEndpoint:
			facts.Functions = append(facts.Functions, c)
		default:
			facts.Types = append(facts.Types, c)
		}
	}
	return facts
}

func dedupeComponents(in []ComponentReference) []ComponentReference {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, c := range in {
		key := string(c.Type) + "|" + c.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

func lineColAt(content string, offset int) (line, col int) {
	line = 1
	col = 1
	for i := 0; i < offset && i < len(content); i++ {
		if content[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CountOccurrences counts non-overlapping occurrences of pattern in content.
// Domain detectors compare before/after counts rather than positions.
func CountOccurrences(content string, pattern *regexp.Regexp) int {
	return len(pattern.FindAllStringIndex(content, -1))
}
