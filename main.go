package main

import (
	"os"

	"github.com/threatsmith/threatsmith/cmd"
)

func main() {
	code := cmd.Execute()
	os.Exit(code)
}
