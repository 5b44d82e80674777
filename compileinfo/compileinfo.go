// Package compileinfo reports how the running binary was built, so results
// can be traced back to the code and numerical libraries that produced them.
package compileinfo

import (
	"fmt"
	"os"
	"runtime/debug"
	"sort"
	"strings"
)

// NumericalModules are the dependencies whose versions can change the
// numbers an analysis produces.
var NumericalModules = []string{
	"gonum.org/v1/gonum",
	"github.com/montanaflynn/stats",
	"github.com/glycerine/golang-fisher-exact",
}

type CompileInfo struct {
	Binary     string
	Module     string
	Version    string
	GoVersion  string
	Commit     string
	CommitTime string
	Modified   bool

	// Deps maps each of NumericalModules that is linked in to its version.
	Deps map[string]string
}

func (c CompileInfo) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s (module %s %s) was built with %s", c.Binary, c.Module, c.Version, c.GoVersion)
	if c.Commit != "" {
		fmt.Fprintf(&b, " at commit %s (%s)", c.Commit, c.CommitTime)
	}
	b.WriteString(".")
	if c.Modified {
		b.WriteString(" Files in the repo were modified after that commit.")
	}

	if len(c.Deps) > 0 {
		deps := make([]string, 0, len(c.Deps))
		for path, version := range c.Deps {
			deps = append(deps, path+"@"+version)
		}
		sort.Strings(deps)
		fmt.Fprintf(&b, " Numerical libraries: %s.", strings.Join(deps, ", "))
	}

	return b.String()
}

// FromBuildInfo extracts the build details from z.
func FromBuildInfo(z *debug.BuildInfo) CompileInfo {
	out := CompileInfo{
		Binary:    z.Path,
		Module:    z.Main.Path,
		Version:   z.Main.Version,
		GoVersion: z.GoVersion,
		Deps:      make(map[string]string),
	}

	for _, s := range z.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Commit = s.Value
		case "vcs.time":
			out.CommitTime = s.Value
		case "vcs.modified":
			out.Modified = s.Value == "true"
		}
	}

	wanted := make(map[string]struct{}, len(NumericalModules))
	for _, path := range NumericalModules {
		wanted[path] = struct{}{}
	}
	for _, dep := range z.Deps {
		if dep == nil {
			continue
		}
		if _, exists := wanted[dep.Path]; exists {
			out.Deps[dep.Path] = dep.Version
		}
	}

	return out
}

func Get() CompileInfo {
	z, ok := debug.ReadBuildInfo()
	if !ok {
		return CompileInfo{}
	}

	return FromBuildInfo(z)
}

func PrintToStdErr() {
	fmt.Fprintf(os.Stderr, "%s\n", Get())
}
