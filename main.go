package main

import (
	"os"

	"github.com/attenda/attenda/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
