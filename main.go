package main

import "cardcommand/cmd"

func main() {
	cmd.Execute()
}
