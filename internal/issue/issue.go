// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	ManifestNotFoundId Id = iota + 1
	ManifestParseErrorId
	DuplicateProviderId
	UnsatisfiedRequirementId
	SparseMismatchId
	AmbiguousOverridableId
	UnknownDependencyId
	FieldKindConflictId
	ConfigLoadFailedId
	DependencyCycleId
	PermissionDeniedId
)

type (
	Id int

	MarkdownMsg string

	HttpLink string

	Issue struct {
		id       Id          // ID used to lookup the issue
		mdMsg    MarkdownMsg // Markdown text that will be rendered
		docLinks []HttpLink
		extLinks []HttpLink // external links that might be useful for the user
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue with the glamour style at stylePath ("dark", "light",
// "notty" or a JSON style file).
func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n## See also:\n"
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "](" + string(link) + ")\n"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "](" + string(link) + ")\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	manifestNotFoundIssue = &Issue{
		id: ManifestNotFoundId,
		mdMsg: `
# No package manifests found!

varmerge looked for package manifests but found none.

## Search locations (in order):
1. Paths given on the command line
2. ` + "`includes`" + ` from your config file
3. The current directory

Manifests are files named ` + "`*.varpkg.cue`" + `, ` + "`*.varpkg.toml`" + `, ` + "`*.varpkg.yaml`" + ` or ` + "`*.varpkg.yml`" + `.

## Things you can try:
- Pass a directory or file explicitly:
~~~
$ varmerge resolve ./packages
~~~

- Add the directory to your config:
~~~cue
includes: ["/path/to/packages"]
~~~`,
	}

	manifestParseErrorIssue = &Issue{
		id: ManifestParseErrorId,
		mdMsg: `
# Failed to parse package manifest!

A manifest does not match the expected structure.

## Example manifest:
~~~cue
package: "hydro"

fields: [
  {name: "rho", flags: ["Cell", "FillGhost"], dependency: "provides"},
  {name: "eps", flags: ["Cell"], dependency: "requires"},
]

sparse_fields: [
  {name: "frac", id: 1, flags: ["Cell"], dependency: "provides"},
]

swarms: [
  {
    name: "tracers"
    dependency: "provides"
    values: [{name: "id", flags: ["Integer"]}]
  },
]
~~~

## Things you can try:
- Check the path printed with the error; it names the offending value
- Dependencies must be one of ` + "`private`, `provides`, `requires`, `overridable`" + `
- Flag names are case-insensitive (` + "`Cell`, `FillGhost`, `Vector`" + `...)`,
	}

	duplicateProviderIssue = &Issue{
		id: DuplicateProviderId,
		mdMsg: `
# Variable provided by more than one package!

Only one package may provide a variable. Every other package must require it, or
declare it overridable to offer a default.

## Things you can try:
- Change all but one ` + "`provides`" + ` declaration to ` + "`requires`" + `
- Use ` + "`overridable`" + ` for defaults that another package may replace
- Use ` + "`private`" + ` if each package needs its own copy`,
	}

	unsatisfiedRequirementIssue = &Issue{
		id: UnsatisfiedRequirementId,
		mdMsg: `
# Required variable is never provided!

A package requires a variable that no package provides.

## Things you can try:
- Include the package that provides it
- Declare it ` + "`provides`" + ` in one package
- Check the spelling of the variable name`,
	}

	sparseMismatchIssue = &Issue{
		id: SparseMismatchId,
		mdMsg: `
# Sparse variants disagree!

All variants of a sparse field must share the same flags and shape.

## Things you can try:
- Compare the flags and shape of every variant of the field
- Rename the field if the variants are really different quantities`,
	}

	ambiguousOverridableIssue = &Issue{
		id: AmbiguousOverridableId,
		mdMsg: `
# Ambiguous default!

Several packages offer a default for the same variable and none provides it.
The declaration from the package with the lowest label wins.

## Things you can try:
- Make one package provide the variable
- Remove the extra defaults
- Run without ` + "`--strict`" + ` to accept the default`,
	}

	unknownDependencyIssue = &Issue{
		id: UnknownDependencyId,
		mdMsg: `
# Unknown dependency kind!

A declaration reached resolution without one of the four dependency kinds.

## Things you can try:
- Set ` + "`dependency`" + ` to ` + "`private`, `provides`, `requires` or `overridable`" + `
- Leave it empty to mean ` + "`provides`",
	}

	fieldKindConflictIssue = &Issue{
		id: FieldKindConflictId,
		mdMsg: `
# Plain and sparse field share a name!

A resolved name can hold either a plain field or sparse variants, never both.

## Things you can try:
- Declare the field sparse (with an ` + "`id`" + `) in every package, or plain in every package
- Rename one of the fields`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file could not be read or does not match the schema.

## Things you can try:
- Show the file varmerge uses:
~~~
$ varmerge config path
~~~

- Write a fresh default file:
~~~
$ varmerge config init --force
~~~

- Check the CUE syntax of the file`,
	}

	dependencyCycleIssue = &Issue{
		id: DependencyCycleId,
		mdMsg: `
# Package dependency cycle!

Packages require each other's variables in a loop, so no provider-first order exists.
Resolution itself still succeeds; only ` + "`varmerge graph`" + ` needs an order.

## Things you can try:
- Move the shared variables into one package
- Break the loop by making one side ` + "`overridable`",
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

varmerge could not read a manifest or write its output.

## Things you can try:
- Check file and directory permissions
- Write the output somewhere you own with ` + "`--output`",
	}

	issues = map[Id]*Issue{
		manifestNotFoundIssue.Id():       manifestNotFoundIssue,
		manifestParseErrorIssue.Id():     manifestParseErrorIssue,
		duplicateProviderIssue.Id():      duplicateProviderIssue,
		unsatisfiedRequirementIssue.Id(): unsatisfiedRequirementIssue,
		sparseMismatchIssue.Id():         sparseMismatchIssue,
		ambiguousOverridableIssue.Id():   ambiguousOverridableIssue,
		unknownDependencyIssue.Id():      unknownDependencyIssue,
		fieldKindConflictIssue.Id():      fieldKindConflictIssue,
		configLoadFailedIssue.Id():       configLoadFailedIssue,
		dependencyCycleIssue.Id():        dependencyCycleIssue,
		permissionDeniedIssue.Id():       permissionDeniedIssue,
	}
)

// Values returns every issue ordered by id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for i := range maps.Values(issues) {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
