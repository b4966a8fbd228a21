// Package compileinfo reports how the running binary was built, so that trend
// tables can be traced back to the exact code that produced them.
package compileinfo

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"
)

type CompileInfo struct {
	Package    string
	Version    string
	GoVersion  string
	Commit     string
	CommitTime string
	Modified   bool

	// Numerics lists the versions of the libraries that the slopes depend
	// on, as "path@version".
	Numerics []string
}

// numericModules affect the numbers in the output tables.
var numericModules = map[string]struct{}{
	"gonum.org/v1/gonum":            {},
	"github.com/montanaflynn/stats": {},
	"github.com/gocarina/gocsv":     {},
}

func (c CompileInfo) String() string {
	mod := ""
	if c.Modified {
		mod = " Files in the repo were modified after that commit."
	}

	deps := ""
	if len(c.Numerics) > 0 {
		deps = " Numerics: " + strings.Join(c.Numerics, ", ") + "."
	}

	return fmt.Sprintf("This %s binary (%s) was built with %s at commit %v at time %v.%s%s", c.Package, c.Version, c.GoVersion, c.Commit, c.CommitTime, mod, deps)
}

func fromBuildInfo(z *debug.BuildInfo) CompileInfo {
	out := CompileInfo{
		GoVersion: z.GoVersion,
		Package:   z.Path,
		Version:   z.Main.Version,
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

	for _, dep := range z.Deps {
		if _, ok := numericModules[dep.Path]; ok {
			out.Numerics = append(out.Numerics, dep.Path+"@"+dep.Version)
		}
	}

	return out
}

func Get() CompileInfo {
	z, ok := debug.ReadBuildInfo()
	if !ok {
		return CompileInfo{}
	}

	return fromBuildInfo(z)
}

func PrintToStdErr() {
	fmt.Fprintf(os.Stderr, "%s\n", Get())
}
