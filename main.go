package main

import "HealthifyGo/cmd"

func main() {
	cmd.Execute()
}
