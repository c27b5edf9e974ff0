package pathloss

import (
	"fmt"
	"io"
)

// WriteFIReport writes the human-readable Floating Intercept summary.
func WriteFIReport(w io.Writer, r FIResult) error {
	_, err := fmt.Fprintf(w,
		"--- Floating Intercept (FI) Model ---\n"+
			"RMSE: %.4f\n"+
			"Alpha: %.4f\n"+
			"Beta: %.4f\n"+
			"Shadowing (Std Dev): %.4f\n",
		r.RMSE, r.Alpha, r.Beta, r.ShadowingStd)
	return err
}

// WriteCIReport writes the human-readable Close-In summary. A blank line
// separates it from a preceding FI report.
func WriteCIReport(w io.Writer, r CIResult) error {
	_, err := fmt.Fprintf(w,
		"\n--- Close-In (CI) Model ---\n"+
			"RMSE: %.4f\n"+
			"Path Loss Exponent (PLE): %.4f\n"+
			"Shadowing (Std Dev): %.4f\n",
		r.RMSE, r.PLE, r.ShadowingStd)
	return err
}
