// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/invowk/varmerge/pkg/metadata"
)

// markdownReport renders a resolution as Markdown tables.
func markdownReport(res *resolution) string {
	var sb strings.Builder
	ns := res.Namespace

	sb.WriteString("# Resolved namespace\n\n")
	fmt.Fprintf(&sb, "Packages: %s\n", codeList(res.Packages))

	fields := ns.Fields()
	sb.WriteString("\n## Variables\n\n")
	if len(fields) == 0 {
		sb.WriteString("_none_\n")
	} else {
		sb.WriteString("| Name | Flags | Dependency | Shape |\n|---|---|---|---|\n")
		for _, name := range slices.Sorted(maps.Keys(fields)) {
			m := fields[name]
			fmt.Fprintf(&sb, "| `%s` | %s | %s | %s |\n", name, flagCell(m), m.Dependency(), shapeCell(m))
		}
	}

	sparse := ns.SparseFields()
	sb.WriteString("\n## Sparse variables\n\n")
	if len(sparse) == 0 {
		sb.WriteString("_none_\n")
	} else {
		sb.WriteString("| Name | Id | Flags | Dependency | Shape |\n|---|---|---|---|---|\n")
		for _, name := range slices.Sorted(maps.Keys(sparse)) {
			for _, m := range sparse[name] {
				fmt.Fprintf(&sb, "| `%s` | %d | %s | %s | %s |\n", name, m.SparseID(), flagCell(m), m.Dependency(), shapeCell(m))
			}
		}
	}

	swarms := ns.Swarms()
	sb.WriteString("\n## Swarms\n")
	if len(swarms) == 0 {
		sb.WriteString("\n_none_\n")
	}
	for _, name := range slices.Sorted(maps.Keys(swarms)) {
		fmt.Fprintf(&sb, "\n### `%s` (%s)\n\n", name, swarms[name])
		values := ns.SwarmValues(name)
		if len(values) == 0 {
			sb.WriteString("_no values_\n")
			continue
		}
		sb.WriteString("| Value | Flags | Shape |\n|---|---|---|\n")
		for _, value := range slices.Sorted(maps.Keys(values)) {
			m := values[value]
			fmt.Fprintf(&sb, "| `%s` | %s | %s |\n", value, flagCell(m), shapeCell(m))
		}
	}

	if len(res.Diagnostics) > 0 {
		sb.WriteString("\n## Warnings\n\n")
		for _, d := range res.Diagnostics {
			fmt.Fprintf(&sb, "- %s\n", d.Message)
		}
	}

	return sb.String()
}

func codeList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = "`" + item + "`"
	}
	return strings.Join(quoted, ", ")
}

func flagCell(m metadata.Metadata) string {
	names := m.Flags().Names()
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}

func shapeCell(m metadata.Metadata) string {
	shape := m.Shape()
	if len(shape) == 0 {
		return "-"
	}
	dims := make([]string, len(shape))
	for i, d := range shape {
		dims[i] = fmt.Sprint(d)
	}
	return strings.Join(dims, "x")
}
