package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"lintgate/internal/deps"
)

const versionColumnWidth = 40

// renderToolTable lists every probed tool with its version and state.
func renderToolTable(statuses []deps.Status, colorize bool) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Tool", "Command", "Version", "Status"})

	for _, dep := range statuses {
		version := dep.Version
		if version == "" {
			version = "-"
		}
		state := toolStateLabel(dep)
		if colorize {
			state = statusColors[toolStatus(dep)].Sprint(state)
		}
		tw.AppendRow(table.Row{dep.Name, dep.Command, version, state})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Version", WidthMax: versionColumnWidth, WidthMaxEnforcer: text.WrapSoft},
	})
	return tw.Render()
}
