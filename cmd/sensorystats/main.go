package main

import "github.com/emiliopalmerini/sensorystats/internal/cli"

func main() {
	cli.Execute()
}
