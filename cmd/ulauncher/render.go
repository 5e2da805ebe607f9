// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/ulauncher/ulauncher/internal/app/launch"
	"github.com/ulauncher/ulauncher/internal/config"
	"github.com/ulauncher/ulauncher/internal/envmod"
	"github.com/ulauncher/ulauncher/internal/execution"
	"github.com/ulauncher/ulauncher/internal/issue"
	"github.com/ulauncher/ulauncher/internal/launcher"
	"github.com/ulauncher/ulauncher/internal/loader"
	"github.com/ulauncher/ulauncher/internal/resolve"
)

// classifyLaunchError maps launch failures to issue catalog IDs. Zero means the
// failure has no catalog entry.
func classifyLaunchError(err error) issue.Id {
	var ae *issue.ActionableError
	switch {
	case errors.As(err, &ae) && ae.Issue != 0:
		return ae.Issue
	case errors.Is(err, launch.ErrInvalidConfigDir):
		return issue.LauncherDirNotFoundId
	case errors.Is(err, launch.ErrDescriptionNotFound):
		return issue.DescriptionNotFoundId
	case errors.Is(err, loader.ErrUnexpectedContent),
		errors.Is(err, loader.ErrUnsupportedFormat),
		errors.Is(err, envmod.ErrInvalidVarValue):
		return issue.DescriptionParseErrorId
	case errors.Is(err, launcher.ErrLauncherNotRegistered):
		return issue.LauncherNotRegisteredId
	case errors.Is(err, launcher.ErrMissingRequiredConfig):
		return issue.MissingRequiredConfigId
	case errors.Is(err, resolve.ErrResolve):
		return issue.EnvResolveFailedId
	case errors.Is(err, execution.ErrStart):
		return issue.ProcessStartFailedId
	case errors.Is(err, config.ErrInvalidConfig):
		return issue.ConfigLoadFailedId
	default:
		return 0
	}
}

// launchError wraps a launch failure with its operation, resource and a
// suggestion matching its catalog entry.
func launchError(err error, software, dir string) error {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return err
	}

	ctx := issue.NewErrorContext().
		WithOperation("launch " + software).
		WithResource(dir).
		Wrap(err)

	switch id := classifyLaunchError(err); id {
	case issue.LauncherDirNotFoundId:
		ctx = ctx.WithIssue(id).WithSuggestion("Create the directory or pass --launcher-dir")
	case issue.DescriptionNotFoundId:
		ctx = ctx.WithIssue(id).WithSuggestion(fmt.Sprintf("Add %s.json, %s.toml or %s.cue to the launcher directory", software, software, software))
	case issue.DescriptionParseErrorId:
		ctx = ctx.WithIssue(id).WithSuggestion("Check the description against the expected layout")
	case issue.LauncherNotRegisteredId:
		ctx = ctx.WithIssue(id).WithSuggestion("Run 'ulauncher launchers' to list the available launcher types")
	case issue.MissingRequiredConfigId:
		ctx = ctx.WithIssue(id).WithSuggestion("Add the missing key under \"config\" in the description")
	case issue.EnvResolveFailedId:
		ctx = ctx.WithIssue(id).WithSuggestion("Run 'ulauncher env " + software + "' to inspect the environment")
	case issue.ProcessStartFailedId:
		ctx = ctx.WithIssue(id).WithSuggestion("Check that the shell and executable exist")
	case issue.ConfigLoadFailedId:
		ctx = ctx.WithIssue(id).WithSuggestion("Run 'ulauncher config show' to inspect the configuration")
	}

	return ctx.BuildError()
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// renderError prints err followed by the catalog page it maps to, rendered
// with the glamour style matching scheme.
func renderError(w io.Writer, err error, verbose bool, scheme config.ColorScheme) {
	fmt.Fprintf(w, "\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))

	id := classifyLaunchError(err)
	if id == 0 {
		return
	}
	if entry := issue.Get(id); entry != nil {
		rendered, renderErr := entry.Render(glamourStyle(scheme))
		if renderErr == nil {
			fmt.Fprint(w, rendered)
		}
	}
}

func glamourStyle(scheme config.ColorScheme) string {
	if scheme == config.ColorSchemeLight {
		return "light"
	}
	return "dark"
}
