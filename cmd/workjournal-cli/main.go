package main

import "workjournal/cmd/workjournal-cli/cmd"

func main() {
	cmd.Execute()
}
