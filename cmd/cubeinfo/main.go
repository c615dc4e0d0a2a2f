// Command cubeinfo prints cube and wavelength summaries, and converts a
// saved session to an HTML chart report.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"specview/internal/cube"
	"specview/internal/export"
	"specview/internal/spectral"
)

func main() {
	wvlPath := flag.String("w", "", "Path to wavelength file")
	report := flag.String("report", "", "Convert a session JSON to an HTML report")
	flag.Parse()

	if *report != "" {
		if err := writeReport(*report); err != nil {
			fmt.Fprintf(os.Stderr, "Report failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if flag.NArg() == 0 {
		fmt.Println("Usage: cubeinfo [-w <wavelengths>] <cube>")
		fmt.Println("       cubeinfo -report <session.json>")
		os.Exit(1)
	}

	path := flag.Arg(0)
	c, err := cube.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load cube: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("=== %s ===\n", path)
	fmt.Printf("rows:  %d\n", c.Rows)
	fmt.Printf("cols:  %d\n", c.Cols)
	fmt.Printf("bands: %d\n", c.Bands)
	if !c.Geo.IsZero() {
		x0, y0 := c.Geo.Forward(0, 0)
		x1, y1 := c.Geo.Forward(float64(c.Cols-1), float64(c.Rows-1))
		fmt.Printf("geo:   (%g, %g) .. (%g, %g)\n", x0, y0, x1, y1)
	}

	if lo, hi, err := spectral.Extrema(c.Data); err == nil {
		fmt.Printf("range: %g .. %g\n", lo, hi)
	} else {
		fmt.Println("range: no finite values")
	}

	if *wvlPath == "" {
		return
	}
	wvls, err := cube.LoadWavelengths(*wvlPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load wavelengths: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\n=== %s ===\n", *wvlPath)
	fmt.Printf("wavelengths: %d (%g .. %g)\n", len(wvls), wvls[0], wvls[len(wvls)-1])
	if err := c.Validate(wvls); err != nil {
		fmt.Printf("mismatch: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("axis matches the cube")
}

func writeReport(sessionPath string) error {
	sess, err := export.ReadSession(sessionPath)
	if err != nil {
		return err
	}
	htmlPath := sessionPath[:len(sessionPath)-len(filepath.Ext(sessionPath))] + ".html"
	if err := sess.WriteReport(htmlPath); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%d spectra)\n", htmlPath, len(sess.Entries))
	return nil
}
