package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

var bannerLines = []string{
	"  _       _        _        ",
	" (_)_ __ | |_ __ _| | _____ ",
	" | | '_ \\| __/ _` | |/ / _ \\",
	" | | | | | || (_| |   <  __/",
	" |_|_| |_|\\__\\__,_|_|\\_\\___|",
}

var bannerColors = []string{"#34d399", "#2dd4bf", "#22d3ee", "#38bdf8", "#60a5fa"}

// PrintBanner writes the intake banner and version to w.
// Colors degrade to whatever the terminal supports.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()

	fmt.Fprintln(w)
	for i, line := range bannerLines {
		fmt.Fprintln(w, termenv.String(line).Foreground(p.Color(bannerColors[i])))
	}
	if v := strings.TrimSpace(version); v != "" {
		fmt.Fprintln(w, termenv.String("  v"+v).Faint())
	}
	fmt.Fprintln(w)
}
