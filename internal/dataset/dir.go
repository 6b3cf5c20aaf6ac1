// Session directory allocation
package dataset

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
)

// uniqueDirCap bounds the suffix probe so a pathological directory tree can't
// spin the search forever.
const uniqueDirCap = 10000

// UniqueDir resolves a session root from the requested base name: the base
// itself if unused, otherwise base_1, base_2, ... The check is plain
// stat-then-use; it is not atomic against concurrent processes.
func UniqueDir(base string) (string, error) {
	if _, err := os.Stat(base); os.IsNotExist(err) {
		return base, nil
	}
	for i := 1; i < uniqueDirCap; i++ {
		candidate := fmt.Sprintf("%s_%d", base, i)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate, nil
		}
	}
	return "", errors.Errorf("no unused directory name for base %s after %d tries", base, uniqueDirCap)
}
