package main

import (
	"os"

	"github.com/thenoetrevino/tracker/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
