package main

import "github.com/bnema/fluxwl/cmd"

func main() {
	cmd.Execute()
}
