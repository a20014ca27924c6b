package time_test

import (
	"fmt"

	timestats "github.com/cwbudde/algo-phonetics/stats/time"
)

func ExampleZeroCrossingRate() {
	zcr := timestats.ZeroCrossingRate([]float64{1, -1, 1, -1})
	fmt.Printf("rms=%.1f zcr=%.1f\n", timestats.RMS([]float64{1, -1, 1, -1}), zcr)

	// Output:
	// rms=1.0 zcr=1.0
}
