package main

import (
	"os"

	"github.com/splitleasesharath/emergency-report/cmd"
)

func main() {
	if err := cmd.Run(); err != nil {
		os.Exit(1)
	}
}
