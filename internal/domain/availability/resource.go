package availability

import (
	_ "embed"
	"strings"
	"sync"

	"github.com/rxn4chemistry/rxn-availability/pkg/errors"
)

//go:embed resources/common_compounds.txt
var commonCompoundsRaw string

var (
	commonCompoundsOnce sync.Once
	commonCompounds     []string
	commonCompoundsErr  error
)

// DefaultCompounds returns the bundled list of compounds available by
// default.  The list is parsed once and cached; a missing or empty bundled
// resource is reported with code ErrCodeResourceMissing.
func DefaultCompounds() ([]string, error) {
	commonCompoundsOnce.Do(func() {
		for _, line := range strings.Split(commonCompoundsRaw, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			commonCompounds = append(commonCompounds, line)
		}
		if len(commonCompounds) == 0 {
			commonCompoundsErr = errors.New(errors.ErrCodeResourceMissing,
				"bundled compound list is missing or empty").
				WithDetail("resource=common_compounds.txt")
		}
	})
	return commonCompounds, commonCompoundsErr
}
