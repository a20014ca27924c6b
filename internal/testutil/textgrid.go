package testutil

import (
	"fmt"
	"strings"
)

// Label is one interval of a fixture tier.
type Label struct {
	Start, End float64
	Text       string
}

// FixtureTier is a named interval tier for [TextGrid].
type FixtureTier struct {
	Name   string
	Labels []Label
}

// TextGrid renders tiers as a Praat long-format TextGrid. Gaps between
// labels are not filled; callers provide contiguous intervals.
func TextGrid(xmax float64, tiers ...FixtureTier) string {
	var b strings.Builder
	b.WriteString("File type = \"ooTextFile\"\nObject class = \"TextGrid\"\n\n")
	fmt.Fprintf(&b, "xmin = 0 \nxmax = %g \ntiers? <exists> \nsize = %d \nitem []: \n", xmax, len(tiers))
	for i, tier := range tiers {
		fmt.Fprintf(&b, "    item [%d]:\n", i+1)
		b.WriteString("        class = \"IntervalTier\" \n")
		fmt.Fprintf(&b, "        name = %q \n", tier.Name)
		fmt.Fprintf(&b, "        xmin = 0 \n        xmax = %g \n", xmax)
		fmt.Fprintf(&b, "        intervals: size = %d \n", len(tier.Labels))
		for j, l := range tier.Labels {
			fmt.Fprintf(&b, "        intervals [%d]:\n", j+1)
			fmt.Fprintf(&b, "            xmin = %g \n            xmax = %g \n", l.Start, l.End)
			fmt.Fprintf(&b, "            text = \"%s\" \n", strings.ReplaceAll(l.Text, `"`, `""`))
		}
	}
	return b.String()
}
