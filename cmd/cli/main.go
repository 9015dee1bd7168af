package main

import "pharmacy-dashboard/cmd/cli/cmd"

func main() {
	cmd.Execute()
}
