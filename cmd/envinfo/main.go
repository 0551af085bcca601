// Command envinfo prints the properties of the grain envelope shapes.
//
// Usage:
//
//	envinfo [flags] [envelope-name ...]
//
// Without arguments it prints every shape.
//
// Examples:
//
//	envinfo hann
//	envinfo -size 512 tukey welch
//	envinfo -alpha 0.25 tukey
//	envinfo -list
package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-granular/dsp/window"
)

func main() {
	size := flag.Int("size", window.DefaultTableSize, "table length in points")
	alpha := flag.Float64("alpha", math.NaN(), "taper fraction of the tukey envelope")
	list := flag.Bool("list", false, "list available envelope names")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: envinfo [flags] [envelope-name ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints gain, bandwidth and shape of grain envelope tables.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *list {
		for _, t := range window.Types() {
			fmt.Println(t)
		}
		return
	}

	types, err := resolveTypes(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v (use -list to see available)\n", err)
		os.Exit(1)
	}

	var opts []window.Option
	if !math.IsNaN(*alpha) {
		opts = append(opts, window.WithAlpha(*alpha))
	}

	if err := printTable(os.Stdout, types, *size, opts); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func resolveTypes(names []string) ([]window.Type, error) {
	if len(names) == 0 {
		return window.Types(), nil
	}

	types := make([]window.Type, 0, len(names))
	for _, name := range names {
		t, err := window.ParseType(name)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
}

func printTable(w io.Writer, types []window.Type, size int, opts []window.Option) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Envelope\tSize\tCoherent Gain\tENBW [bins]\tBW 3dB [bins]\tPeak\tMid\tUnimodal\n")
	fmt.Fprintf(tw, "--------\t----\t-------------\t-----------\t-------------\t----\t---\t--------\n")

	for _, t := range types {
		table, err := window.NewTable(t, size, opts...)
		if err != nil {
			return err
		}
		a := window.Analyze(table.Coefficients())

		fmt.Fprintf(tw, "%s\t%d\t%.6f\t%.4f\t%.4f\t%.4f\t%.4f\t%t\n",
			t,
			table.Len(),
			a.CoherentGain,
			a.ENBW,
			a.Bandwidth3dB,
			a.Peak,
			table.At(0.5),
			a.Unimodal,
		)
	}
	return tw.Flush()
}
