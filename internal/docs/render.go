package docs

import (
	"fmt"
	"strings"
)

// RenderMarkdown formats module docs as a Markdown document.
func RenderMarkdown(docs *ModuleDocs) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", docs.Module)
	if docs.Docstring != "" {
		b.WriteString(docs.Docstring)
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "%d functions, %.0f%% documented\n\n", docs.Stats.Total, docs.Stats.Coverage)

	for _, fn := range docs.Functions {
		title := fn.Name
		if fn.Class != "" {
			title = fn.Class + "." + fn.Name
		}
		fmt.Fprintf(&b, "## %s\n\n", title)
		fmt.Fprintf(&b, "```python\n%s\n```\n\n", fn.Signature)

		if len(fn.Decorators) > 0 {
			fmt.Fprintf(&b, "Decorators: `%s`\n\n", strings.Join(fn.Decorators, "`, `"))
		}
		if fn.Summary != "" {
			b.WriteString(fn.Summary)
			b.WriteString("\n\n")
		}

		if len(fn.Sections.Params) > 0 {
			b.WriteString("**Arguments**\n\n")
			for _, p := range fn.Sections.Params {
				fmt.Fprintf(&b, "- `%s`: %s\n", p.Name, p.Description)
			}
			b.WriteString("\n")
		}
		if fn.Sections.Returns != "" {
			fmt.Fprintf(&b, "**Returns**: %s\n\n", fn.Sections.Returns)
		}
		if fn.Sections.Yields != "" {
			fmt.Fprintf(&b, "**Yields**: %s\n\n", fn.Sections.Yields)
		}
		if len(fn.Sections.Raises) > 0 {
			b.WriteString("**Raises**\n\n")
			for _, r := range fn.Sections.Raises {
				fmt.Fprintf(&b, "- `%s`: %s\n", r.Exception, r.Description)
			}
			b.WriteString("\n")
		}

		if len(fn.Calls) > 0 {
			fmt.Fprintf(&b, "Calls: %s\n\n", strings.Join(fn.Calls, ", "))
		}
		if len(fn.CalledBy) > 0 {
			fmt.Fprintf(&b, "Called by: %s\n\n", strings.Join(fn.CalledBy, ", "))
		}
	}
	return b.String()
}

// RenderRST formats module docs as reStructuredText.
func RenderRST(docs *ModuleDocs) string {
	var b strings.Builder
	b.WriteString(docs.Module)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", len(docs.Module)))
	b.WriteString("\n\n")

	if docs.Docstring != "" {
		b.WriteString(docs.Docstring)
		b.WriteString("\n\n")
	}

	for _, fn := range docs.Functions {
		title := fn.Name
		if fn.Class != "" {
			title = fn.Class + "." + fn.Name
		}
		b.WriteString(title)
		b.WriteString("\n")
		b.WriteString(strings.Repeat("-", len(title)))
		b.WriteString("\n\n")

		fmt.Fprintf(&b, ".. code-block:: python\n\n   %s\n\n", fn.Signature)

		if fn.Summary != "" {
			b.WriteString(fn.Summary)
			b.WriteString("\n\n")
		}
		for _, p := range fn.Sections.Params {
			fmt.Fprintf(&b, ":param %s: %s\n", p.Name, p.Description)
		}
		if fn.Sections.Returns != "" {
			fmt.Fprintf(&b, ":returns: %s\n", fn.Sections.Returns)
		}
		for _, r := range fn.Sections.Raises {
			fmt.Fprintf(&b, ":raises %s: %s\n", r.Exception, r.Description)
		}
		if len(fn.Sections.Params) > 0 || fn.Sections.Returns != "" || len(fn.Sections.Raises) > 0 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
