package docs

import (
	"strings"
)

// DocSections is the structured part of a Google-style docstring.
type DocSections struct {
	Params   []ParamDoc `json:"params,omitempty"`
	Returns  string     `json:"returns,omitempty"`
	Yields   string     `json:"yields,omitempty"`
	Raises   []RaiseDoc `json:"raises,omitempty"`
	Examples string     `json:"examples,omitempty"`
	Notes    string     `json:"notes,omitempty"`
}

// ParamDoc is one entry of an Args section.
type ParamDoc struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// RaiseDoc is one entry of a Raises section.
type RaiseDoc struct {
	Exception   string `json:"exception"`
	Description string `json:"description"`
}

var sectionHeaders = map[string]string{
	"args":       "args",
	"arguments":  "args",
	"parameters": "args",
	"returns":    "returns",
	"return":     "returns",
	"yields":     "yields",
	"yield":      "yields",
	"raises":     "raises",
	"except":     "raises",
	"exceptions": "raises",
	"example":    "examples",
	"examples":   "examples",
	"note":       "notes",
	"notes":      "notes",
}

// ParseDocstring splits a cleaned docstring into its summary and
// Google-style sections. The summary is everything before the first
// recognized section header; unrecognized text after it is ignored.
// Section entries continue onto indented follow-up lines.
func ParseDocstring(doc string) (string, DocSections) {
	var sections DocSections
	if doc == "" {
		return "", sections
	}

	lines := strings.Split(doc, "\n")
	var summary []string
	section := ""
	var entryName, entryText string

	flush := func() {
		if entryName == "" && entryText == "" {
			return
		}
		switch section {
		case "args":
			sections.Params = append(sections.Params, ParamDoc{
				Name: entryName, Description: strings.TrimSpace(entryText),
			})
		case "raises":
			sections.Raises = append(sections.Raises, RaiseDoc{
				Exception: entryName, Description: strings.TrimSpace(entryText),
			})
		case "returns":
			sections.Returns = strings.TrimSpace(joinClause(entryName, entryText))
		case "yields":
			sections.Yields = strings.TrimSpace(joinClause(entryName, entryText))
		case "examples":
			sections.Examples = strings.TrimSpace(joinClause(sections.Examples, entryText))
		case "notes":
			sections.Notes = strings.TrimSpace(joinClause(sections.Notes, entryText))
		}
		entryName, entryText = "", ""
	}

	for _, raw := range lines {
		trimmed := strings.TrimSpace(raw)

		if header, ok := sectionHeaders[strings.ToLower(strings.TrimSuffix(trimmed, ":"))]; ok && strings.HasSuffix(trimmed, ":") {
			flush()
			section = header
			continue
		}

		if section == "" {
			summary = append(summary, trimmed)
			continue
		}
		if trimmed == "" {
			flush()
			continue
		}

		switch section {
		case "args", "raises":
			if name, rest, ok := splitEntry(trimmed); ok {
				flush()
				entryName, entryText = name, rest
			} else {
				entryText = joinClause(entryText, trimmed)
			}
		case "returns", "yields", "examples", "notes":
			entryText = joinClause(entryText, trimmed)
		}
	}
	flush()

	return strings.TrimSpace(strings.Join(summary, "\n")), sections
}

// splitEntry parses "name: description" and "name (type): description".
func splitEntry(line string) (string, string, bool) {
	idx := strings.Index(line, ":")
	if idx <= 0 {
		return "", "", false
	}
	name := strings.TrimSpace(line[:idx])
	if paren := strings.Index(name, "("); paren > 0 {
		name = strings.TrimSpace(name[:paren])
	}
	if name == "" || strings.ContainsAny(name, " \t") {
		return "", "", false
	}
	return name, strings.TrimSpace(line[idx+1:]), true
}

func joinClause(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	return a + " " + b
}
