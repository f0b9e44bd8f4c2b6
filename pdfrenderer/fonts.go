package pdfrenderer

import (
	"fmt"
	"os"

	"github.com/go-pdf/fpdf"
)

// candidateFont is one platform-specific TTF this resolver probes for, in
// preference order.
type candidateFont struct {
	family string
	paths  []string
}

// SystemFontResolver probes a known list of platform font paths and falls
// back to the monospace font at FallbackTTFPath if none are found (§4.7's
// font-handling rule). It never hard-codes a single absolute path as the
// only option.
type SystemFontResolver struct {
	// ExtraCandidates are deployment-specific font locations probed ahead of
	// the built-in list. candidateFont's fields are unexported, so entries
	// can only be constructed inside this package.
	ExtraCandidates []candidateFont
	// FallbackTTFPath is used when no candidate resolves; must be a
	// monospace font covering the full Polish alphabet.
	FallbackTTFPath string
}

var defaultCandidates = []candidateFont{
	{
		family: "DejaVuSans",
		paths: []string{
			"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
			"/usr/share/fonts/dejavu/DejaVuSans.ttf",
			"/Library/Fonts/DejaVuSans.ttf",
		},
	},
	{
		family: "LiberationSans",
		paths: []string{
			"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
			"/usr/share/fonts/liberation/LiberationSans-Regular.ttf",
		},
	},
	{
		family: "NotoSans",
		paths: []string{
			"/usr/share/fonts/truetype/noto/NotoSans-Regular.ttf",
			"/usr/share/fonts/noto/NotoSans-Regular.ttf",
		},
	},
}

func (r *SystemFontResolver) Resolve(pdf *fpdf.Fpdf) (string, error) {
	for _, candidates := range [][]candidateFont{r.ExtraCandidates, defaultCandidates} {
		for _, c := range candidates {
			for _, path := range c.paths {
				if fileExists(path) {
					pdf.AddUTF8Font(c.family, "", path)
					return c.family, nil
				}
			}
		}
	}

	if r.FallbackTTFPath != "" && fileExists(r.FallbackTTFPath) {
		pdf.AddUTF8Font("Fallback", "", r.FallbackTTFPath)
		return "Fallback", nil
	}

	return "", fmt.Errorf("pdfrenderer: no font covering the Polish alphabet found on this system")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
