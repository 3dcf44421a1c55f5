// SPDX-License-Identifier: MPL-2.0

package modinit

import (
	"errors"
	"slices"
)

type (
	// Descriptor pairs a configured module's names with its definition and
	// configuration section.
	Descriptor struct {
		Name       string
		ShortName  string
		Config     Section
		Definition *Definition
	}

	// DependencyMap maps a fully-qualified module name to the fully-qualified
	// names of the modules it depends on.
	DependencyMap map[string][]string

	// collection is the output of collectDependencies.
	collection struct {
		modules []Descriptor
		deps    DependencyMap
	}
)

// collectDependencies locates every configured module and resolves its
// declared dependencies against the short names of the configured modules.
// Missing modules and missing required dependencies are each reported once,
// listing every offender.
func collectDependencies(locator Locator, cfg Config) (*collection, error) {
	names, _ := cfg.Modules()

	var modules []Descriptor
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if name == InitSection || seen[name] {
			continue
		}
		seen[name] = true
		modules = append(modules, Descriptor{
			Name:      name,
			ShortName: ShortName(name),
			Config:    cfg.Section(name),
		})
	}

	if err := checkShortNames(modules); err != nil {
		return nil, err
	}

	var missing []string
	for i := range modules {
		def, err := locator.Locate(modules[i].Name)
		if errors.Is(err, ErrModuleNotFound) {
			missing = append(missing, modules[i].Name)
			continue
		}
		if err != nil {
			return nil, &InitializationError{Module: modules[i].Name, Reason: "cannot load module", Cause: err}
		}
		if def.Setup == nil {
			return nil, &InitializationError{Module: modules[i].Name, Reason: "it has no setup function"}
		}
		modules[i].Definition = def
	}
	if len(missing) > 0 {
		return nil, &MissingModulesError{Names: missing}
	}

	deps, err := resolveDependencies(modules)
	if err != nil {
		return nil, err
	}
	return &collection{modules: modules, deps: deps}, nil
}

// checkShortNames rejects configurations in which two modules share a short
// name, since dependencies are resolved by short name.
func checkShortNames(modules []Descriptor) error {
	byShort := make(map[string][]string, len(modules))
	var shorts []string
	for _, m := range modules {
		if _, ok := byShort[m.ShortName]; !ok {
			shorts = append(shorts, m.ShortName)
		}
		byShort[m.ShortName] = append(byShort[m.ShortName], m.Name)
	}

	var dups []DuplicateShortName
	for _, short := range shorts {
		if len(byShort[short]) > 1 {
			dups = append(dups, DuplicateShortName{ShortName: short, Modules: byShort[short]})
		}
	}
	if len(dups) > 0 {
		return &DuplicateShortNameError{Duplicates: dups}
	}
	return nil
}

// resolveDependencies maps declared short-name dependencies to full names,
// dropping unresolved optional ones.
func resolveDependencies(modules []Descriptor) (DependencyMap, error) {
	fullName := make(map[string]string, len(modules))
	for _, m := range modules {
		fullName[m.ShortName] = m.Name
	}

	deps := make(DependencyMap, len(modules))
	requiredBy := make(map[string][]string)
	var missingOrder []string
	for _, m := range modules {
		resolved := []string{}
		for _, dep := range m.Definition.Requires {
			if name, ok := fullName[dep.Name]; ok {
				if !slices.Contains(resolved, name) {
					resolved = append(resolved, name)
				}
				continue
			}
			if dep.Optional {
				continue
			}
			if _, ok := requiredBy[dep.Name]; !ok {
				missingOrder = append(missingOrder, dep.Name)
			}
			requiredBy[dep.Name] = append(requiredBy[dep.Name], m.Name)
		}
		deps[m.Name] = resolved
	}

	if len(missingOrder) > 0 {
		missing := make([]MissingDependency, len(missingOrder))
		for i, name := range missingOrder {
			missing[i] = MissingDependency{Name: name, RequiredBy: requiredBy[name]}
		}
		return nil, &MissingDependenciesError{Missing: missing}
	}
	return deps, nil
}
