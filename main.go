package main

import "deebee/cmd"

func main() {
	cmd.Execute()
}
