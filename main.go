package main

import "github.com/KaramelBytes/harvestrank-cli/cmd"

func main() {
	cmd.Execute()
}
