package main

import "github.com/lineglot/lineglot/cmd"

func main() {
	cmd.Execute()
}
