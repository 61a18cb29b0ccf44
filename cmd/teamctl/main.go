package main

import "teammatch/cmd/teamctl/cmd"

func main() {
	cmd.Execute()
}
