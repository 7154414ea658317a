package main

import (
	"os"

	"github.com/GoStageSetting/GoStageSetting/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
