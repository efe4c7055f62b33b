package main

import "github.com/zurstadt/isnad2network/cmd"

func main() {
	cmd.Execute()
}
