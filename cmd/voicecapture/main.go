package main

import (
	"os"

	"github.com/DikshantV/PrepBettr-sub012/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
