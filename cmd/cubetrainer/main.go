// cubetrainer - terminal speedcubing timer and CFOP trainer.
package main

import (
	"github.com/SeamusWaldron/cubetrainer/internal/cli"
)

func main() {
	cli.Execute()
}
