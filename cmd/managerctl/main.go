package main

import (
	"github.com/Plabrum/managerlab-sub002/internal/cli"
)

func main() {
	cli.Execute()
}
