package main

import "dupgroup/cmd"

func main() {
	cmd.Execute()
}
