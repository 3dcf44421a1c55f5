// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"

	"github.com/modboot/modboot/pkg/modinit"
)

type Id int

const (
	ConfigLoadFailedId Id = iota + 1
	ModulesNotFoundId
	DependenciesNotFoundId
	DuplicateShortNameId
	DependencyCycleId
	SetupFailedId
	FinalizationFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // documentation of the formats involved
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

// Render renders the guidance with the given glamour style ("dark", "light",
// "notty", ...).
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

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load the configuration!

modboot reads one configuration file with a table per module.

## Things you can try:
- Check the file for syntax errors
- Quote section names that contain dots:
~~~toml
[modinit]
modules = ["modboot.store", "modboot.cache"]

["modboot.store"]
capacity = 128
~~~

- Print what modboot actually sees:
~~~
$ modboot config show
~~~`,
		docLinks: []HttpLink{"https://toml.io/en/v1.0.0", "https://cuelang.org/docs/"},
	}

	modulesNotFoundIssue = &Issue{
		id: ModulesNotFoundId,
		mdMsg: `
# Some configured modules do not exist!

Every name in ` + "`modinit.modules`" + ` must be a fully-qualified module name.

## Things you can try:
- Check the spelling of the names listed above
- List the modules this binary knows about:
~~~
$ modboot modules
~~~`,
	}

	dependenciesNotFoundIssue = &Issue{
		id: DependenciesNotFoundId,
		mdMsg: `
# Required dependencies are not configured!

Modules refer to their dependencies by short name, the last part of the
module name. Every required dependency must be configured as well.

## Things you can try:
- Add the missing modules to ` + "`modinit.modules`" + `
- Remove the modules that require them`,
	}

	duplicateShortNameIssue = &Issue{
		id: DuplicateShortNameId,
		mdMsg: `
# Configured modules share a short name!

Dependencies are resolved by short name, so two configured modules such as
` + "`acme.store`" + ` and ` + "`other.store`" + ` cannot be told apart.

## Things you can try:
- Configure only one of the conflicting modules`,
	}

	dependencyCycleIssue = &Issue{
		id: DependencyCycleId,
		mdMsg: `
# Dependency cycle detected!

The modules listed above depend on each other, so no order exists in which
each of them comes after all of its dependencies.

## Things you can try:
- Make one of the dependencies in each cycle optional
- For finalization cycles, stop deferring on a module that waits for you
- Inspect the order modboot computes:
~~~
$ modboot plan
~~~`,
	}

	setupFailedIssue = &Issue{
		id: SetupFailedId,
		mdMsg: `
# A module failed to initialize!

The module's setup returned an error or an unusable result. No module
was returned.

## Things you can try:
- Check the module's configuration section
- Re-run with ` + "`--verbose`" + ` to trace every module as it is set up`,
	}

	finalizationFailedIssue = &Issue{
		id: FinalizationFailedId,
		mdMsg: `
# A module failed to finalize!

Every module was set up, but one of them could not complete finalization.

## Things you can try:
- Re-run with ` + "`--verbose`" + ` to trace deferrals
- Make sure modules only defer on configured modules, and only once`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		modulesNotFoundIssue.Id():      modulesNotFoundIssue,
		dependenciesNotFoundIssue.Id(): dependenciesNotFoundIssue,
		duplicateShortNameIssue.Id():   duplicateShortNameIssue,
		dependencyCycleIssue.Id():      dependencyCycleIssue,
		setupFailedIssue.Id():          setupFailedIssue,
		finalizationFailedIssue.Id():   finalizationFailedIssue,
	}
)

// Values returns every issue ordered by Id.
func Values() []*Issue {
	res := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		res = append(res, i)
	}
	slices.SortFunc(res, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return res
}

func Get(id Id) *Issue {
	return issues[id]
}

// ForError returns the guidance matching err, or nil when there is none.
func ForError(err error) *Issue {
	var (
		actionable  *ActionableError
		missingMods *modinit.MissingModulesError
		missingDeps *modinit.MissingDependenciesError
		duplicates  *modinit.DuplicateShortNameError
		finalize    *modinit.FinalizationFailedError
	)
	switch {
	case err == nil:
		return nil
	case errors.As(err, &missingMods):
		return Get(ModulesNotFoundId)
	case errors.As(err, &missingDeps):
		return Get(DependenciesNotFoundId)
	case errors.As(err, &duplicates):
		return Get(DuplicateShortNameId)
	case errors.Is(err, modinit.ErrCycle):
		return Get(DependencyCycleId)
	case errors.As(err, &finalize),
		errors.Is(err, modinit.ErrInitialization) && isDeferralError(err):
		return Get(FinalizationFailedId)
	case errors.Is(err, modinit.ErrInitialization):
		return Get(SetupFailedId)
	case errors.As(err, &actionable):
		return Get(ConfigLoadFailedId)
	default:
		return nil
	}
}

func isDeferralError(err error) bool {
	var (
		empty        *modinit.EmptyDeferralError
		unknown      *modinit.UnknownDeferralTargetError
		inconsistent *modinit.InconsistentDeferralError
	)
	return errors.As(err, &empty) || errors.As(err, &unknown) || errors.As(err, &inconsistent)
}
