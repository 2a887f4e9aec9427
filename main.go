package main

import "github.com/avalanche-team1-africa/org-pulse/cmd"

func main() {
	cmd.Execute()
}
