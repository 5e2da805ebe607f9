// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

// Issue identifiers.
const (
	LauncherDirNotFoundId Id = iota + 1
	DescriptionNotFoundId
	DescriptionParseErrorId
	LauncherNotRegisteredId
	MissingRequiredConfigId
	EnvResolveFailedId
	ProcessStartFailedId
	ConfigLoadFailedId
)

type (
	// Id identifies a catalog issue.
	Id int

	// MarkdownMsg is the Markdown body of an issue page.
	MarkdownMsg string

	// HttpLink is a documentation URL.
	HttpLink string

	// Issue is a catalog page explaining a well-known failure.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
	}
)

var (
	render = glamour.Render

	launcherDirNotFoundIssue = &Issue{
		id: LauncherDirNotFoundId,
		mdMsg: `
# Launcher directory not found

The directory holding the launcher descriptions does not exist or is not a directory.

## Things you can try
- Pass the directory explicitly:
~~~
$ ulauncher run --launcher-dir /path/to/launchers maya
~~~
- Or set it in your configuration:
~~~cue
launcher_dir: "/path/to/launchers"
~~~
- Or export ` + "`ULAUNCHER_LAUNCHER_DIR`" + `.`,
	}

	descriptionNotFoundIssue = &Issue{
		id: DescriptionNotFoundId,
		mdMsg: `
# No launcher description found

Every software needs a description named after it in the launcher directory,
for example ` + "`maya.json`" + `, ` + "`maya.toml`" + ` or ` + "`maya.cue`" + `.

## Minimal description
~~~json
{
  "launcherType": "bin",
  "config": {"executable": "/usr/bin/maya"}
}
~~~

## Things you can try
- List the launcher directory:
~~~
$ ulauncher config show
~~~
- Check the spelling of the software name.`,
	}

	descriptionParseErrorIssue = &Issue{
		id: DescriptionParseErrorId,
		mdMsg: `
# Invalid launcher description

The description could not be decoded or does not have the expected shape.

## Expected shape
- ` + "`launcherType`" + `: name of a registered launcher kind
- ` + "`config`" + `: object with the launcher configuration
- ` + "`env`" + `: object with optional ` + "`prepend`" + `, ` + "`append`" + `, ` + "`override`" + ` objects and an ` + "`unset`" + ` array
- ` + "`addons`" + `: object of addon name to ` + "`{\"env\": ...}`" + `

Values in ` + "`prepend`" + `, ` + "`append`" + ` and ` + "`override`" + ` are a string or a list of strings.`,
	}

	launcherNotRegisteredIssue = &Issue{
		id: LauncherNotRegisteredId,
		mdMsg: `
# Unknown launcher type

The ` + "`launcherType`" + ` of the description does not name a registered launcher kind.

## Things you can try
- List the registered kinds and their required configuration:
~~~
$ ulauncher launchers
~~~`,
	}

	missingRequiredConfigIssue = &Issue{
		id: MissingRequiredConfigId,
		mdMsg: `
# Missing launcher configuration

The launcher kind requires configuration keys the description does not define.
The ` + "`bin`" + ` kind requires ` + "`executable`" + `.

## Things you can try
~~~
$ ulauncher launchers
~~~`,
	}

	envResolveFailedIssue = &Issue{
		id: EnvResolveFailedId,
		mdMsg: `
# Environment value could not be resolved

A value in the description references variables or runs ` + "`$(command)`" + `
substitutions. Resolution failed because the evaluation wrote to stderr or the
value is not valid shell syntax.

## Things you can try
- Preview the generated environment without launching:
~~~
$ ulauncher env maya
~~~
- Run the substitution by hand in a shell with the same environment.`,
	}

	processStartFailedIssue = &Issue{
		id: ProcessStartFailedId,
		mdMsg: `
# The process could not be started

The shell used to run launchers could not be spawned, or the working directory
is not accessible.

## Things you can try
- Check the configured shell:
~~~cue
shell: "/bin/sh"
~~~
- Check the ` + "`cwd`" + ` configured for the launcher.`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration

The configuration file could not be read or does not match the schema.

## Things you can try
- Show the location and current values:
~~~
$ ulauncher config path
$ ulauncher config show
~~~
- Recreate a default file:
~~~
$ ulauncher config init
~~~`,
	}

	issues = map[Id]*Issue{
		launcherDirNotFoundIssue.id:   launcherDirNotFoundIssue,
		descriptionNotFoundIssue.id:   descriptionNotFoundIssue,
		descriptionParseErrorIssue.id: descriptionParseErrorIssue,
		launcherNotRegisteredIssue.id: launcherNotRegisteredIssue,
		missingRequiredConfigIssue.id: missingRequiredConfigIssue,
		envResolveFailedIssue.id:      envResolveFailedIssue,
		processStartFailedIssue.id:    processStartFailedIssue,
		configLoadFailedIssue.id:      configLoadFailedIssue,
	}
)

// Id returns the issue identifier.
func (i *Issue) Id() Id { return i.id }

// MarkdownMsg returns the raw Markdown body.
func (i *Issue) MarkdownMsg() MarkdownMsg { return i.mdMsg }

// DocLinks returns a copy of the documentation links.
func (i *Issue) DocLinks() []HttpLink { return slices.Clone(i.docLinks) }

// Render renders the page with the glamour style at stylePath ("dark", "light",
// "notty" or a JSON style file).
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.docLinks) > 0 {
		md += "\n\n## See also\n"
		for _, link := range i.docLinks {
			md += "- " + string(link) + "\n"
		}
	}
	return render(md, stylePath)
}

// Values returns every catalog issue ordered by id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

// Get returns the issue for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
