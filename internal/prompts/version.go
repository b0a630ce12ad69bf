package prompts

import (
	"fmt"
	"strconv"
	"strings"
)

// InitialVersion is the label of a newly created record.
const InitialVersion = "1.0.0"

// NextPatch increments the patch component of a "major.minor.patch" label.
// Major and minor never change.
func NextPatch(label string) (string, error) {
	parts := strings.Split(label, ".")
	if len(parts) != 3 {
		return "", fmt.Errorf("malformed version %q", label)
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return "", fmt.Errorf("malformed version %q", label)
		}
		nums[i] = n
	}

	return fmt.Sprintf("%d.%d.%d", nums[0], nums[1], nums[2]+1), nil
}
