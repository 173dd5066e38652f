package main

import (
	"github.com/eldamar-labs/epoch-distributor/cmd"
)

func main() {
	cmd.Execute()
}
