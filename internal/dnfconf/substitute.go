package dnfconf

import (
	"regexp"
	"strings"
)

// Vars holds the substitution variables available inside repository
// definitions.
type Vars struct {
	ReleaseVer string
	BaseArch   string
}

// varPattern matches $releasever, ${releasever}, $basearch and
// ${basearch} case-insensitively: the feature files historically write
// $RELEASEVER while DNF documentation uses lowercase.
var varPattern = regexp.MustCompile(`(?i)\$(?:\{(releasever|basearch)\}|(releasever|basearch))`)

// Substitute expands substitution variables in s. Unknown variables are
// left untouched.
func Substitute(s string, vars Vars) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := varPattern.FindStringSubmatch(match)
		variable := name[1]
		if variable == "" {
			variable = name[2]
		}
		switch strings.ToLower(variable) {
		case "releasever":
			return vars.ReleaseVer
		case "basearch":
			return vars.BaseArch
		}
		return match
	})
}
