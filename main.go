package main

import "github.com/papapumpkin/tabula/cmd"

func main() {
	cmd.Execute()
}
