package main

import "github.com/momeni/fleetflow/cmd/ffweb/command"

func main() {
	command.Execute()
}
