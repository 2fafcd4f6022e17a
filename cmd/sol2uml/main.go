package main

import "github.com/MainbaseT/sol2uml/cmd"

func main() {
	cmd.Execute()
}
