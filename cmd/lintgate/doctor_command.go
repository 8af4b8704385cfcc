package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lintgate/internal/config"
	"lintgate/internal/deps"
	"lintgate/internal/preflight"
)

type doctorReport struct {
	Root         string           `json:"root"`
	ConfigPath   string           `json:"config_path,omitempty"`
	Checks       []doctorCheck    `json:"checks"`
	Dependencies []doctorDepEntry `json:"dependencies"`
	Ready        bool             `json:"ready"`
}

type doctorCheck struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}

type doctorDepEntry struct {
	Name      string `json:"name"`
	Command   string `json:"command"`
	Optional  bool   `json:"optional"`
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Report repository readiness and external tool availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			checks := preflight.RunAll(cfg)
			statuses := preflight.CheckSystemDeps(cfg)
			report := buildDoctorReport(cfg, checks, statuses)
			if ctx.configExists {
				report.ConfigPath = ctx.configPath
			}

			if jsonOutput {
				if err := writeJSON(cmd, report); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				for _, line := range doctorLines(report, checks, statuses, colorize) {
					fmt.Fprintln(out, line)
				}
			}

			if !report.Ready {
				return exitWith(exitFailure)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func buildDoctorReport(cfg *config.Config, checks []preflight.Result, statuses []deps.Status) doctorReport {
	report := doctorReport{
		Root:  cfg.Root,
		Ready: len(deps.MissingRequired(statuses)) == 0,
	}
	for _, check := range checks {
		report.Checks = append(report.Checks, doctorCheck{Name: check.Name, Passed: check.Passed, Detail: check.Detail})
		if !check.Passed {
			report.Ready = false
		}
	}
	for _, status := range statuses {
		report.Dependencies = append(report.Dependencies, doctorDepEntry{
			Name:      status.Name,
			Command:   status.Command,
			Optional:  status.Optional,
			Available: status.Available,
			Version:   status.Version,
			Detail:    status.Detail,
		})
	}
	return report
}

func doctorLines(report doctorReport, checks []preflight.Result, statuses []deps.Status, colorize bool) []string {
	lines := renderSectionHeader("Repository", colorize)
	lines = append(lines, renderStatusLine("Root", statusInfo, report.Root, colorize))
	source := "defaults (no lintgate.toml)"
	if report.ConfigPath != "" {
		source = report.ConfigPath
	}
	lines = append(lines, renderStatusLine("Config", statusInfo, source, colorize))
	for _, check := range checks {
		lines = append(lines, renderStatusLine(check.Name, checkStatus(check.Passed), check.Detail, colorize))
	}

	lines = append(lines, "")
	lines = append(lines, renderSectionHeader("Tools", colorize)...)
	lines = append(lines, dependencyLines(statuses, colorize)...)
	if len(statuses) > 0 {
		lines = append(lines, "", renderToolTable(statuses, colorize))
	}
	return lines
}

func dependencyLines(statuses []deps.Status, colorize bool) []string {
	lines := make([]string, 0, len(statuses)+1)
	var missing []string
	for _, dep := range statuses {
		if dep.Available {
			message := "Ready"
			if dep.Command != "" {
				message = fmt.Sprintf("Ready (command: %s)", dep.Command)
			}
			lines = append(lines, renderStatusLine(dep.Name, statusOK, message, colorize))
			continue
		}

		detail := strings.TrimSpace(dep.Detail)
		if detail == "" {
			detail = "not available"
		}
		lines = append(lines, renderStatusLine(dep.Name, toolStatus(dep), detail, colorize))
		missing = append(missing, dep.Name)
	}
	if len(missing) > 0 {
		lines = append(lines, renderStatusLine("Missing tools", statusWarn, strings.Join(missing, ", "), colorize))
	}
	return lines
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
