// CalcBuild - wall finish estimator
//
// Estimates paint, render and insulation quantities and costs from a list
// of rectangular rooms. Run without arguments to open the desktop editor.
//
// Build:
//   go build -o calcbuild ./cmd/calcbuild
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o calcbuild.exe ./cmd/calcbuild
//
// Using fyne-cross (recommended for proper packaging):
//   go install github.com/fyne-io/fyne-cross@latest
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64

package main

import (
	"fmt"
	"os"

	"github.com/piwi3910/CalcBuild/cmd/calcbuild/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
