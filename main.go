package main

import "github.com/fakeyudi/fitflex/cmd"

func main() {
	cmd.Execute()
}
