package main

import "connector/cmd"

func main() {
	cmd.Execute()
}
