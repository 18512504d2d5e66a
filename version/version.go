/*package version controls the version of lightcone and decides which earlier
output directories the current source can safely resume.*/
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// SourceVersion is the version string representing the semantic version number
// of the source code.
const SourceVersion = "0.4.1"

// Parse parses a semantic version number string and returns an error if
// the string is invalid.
func Parse(s string) (major, minor, patch int, err error) {
	toks := strings.Split(s, ".")
	errMsg := fmt.Errorf("The version string '%s' does not take the form "+
		"of three period-separated non-negative numbers.", s)

	if len(toks) != 3 {
		return -1, -1, -1, errMsg
	}

	vals := [3]int{}
	for i := range toks {
		vals[i], err = strconv.Atoi(toks[i])
		if err != nil || vals[i] < 0 {
			return -1, -1, -1, errMsg
		}
	}

	return vals[0], vals[1], vals[2], nil
}

// Later returns true if s1 represents a later version of the source than
// s2. An error is returned if either is invalid.
func Later(s1, s2 string) (bool, error) {
	major1, minor1, patch1, err := Parse(s1)
	if err != nil {
		return false, err
	}
	major2, minor2, patch2, err := Parse(s2)
	if err != nil {
		return false, err
	}

	if major1 != major2 {
		return major1 > major2, nil
	} else if minor1 != minor2 {
		return minor1 > minor2, nil
	}
	return patch1 > patch2, nil
}

// Compatible returns true if shells written by version s can be mixed with
// shells written by the current source: the major and minor numbers must
// agree.
func Compatible(s string) (bool, error) {
	major, minor, _, err := Parse(s)
	if err != nil {
		return false, err
	}
	smajor, sminor, _, _ := Parse(SourceVersion)
	return major == smajor && minor == sminor, nil
}
