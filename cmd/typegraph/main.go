package main

import (
	"github.com/archscope/typegraph/cmd/typegraph/commands"
)

func main() {
	commands.Execute()
}
