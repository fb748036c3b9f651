package main

import "github.com/Aquilabot/SmartPC-API/cmd"

func main() {
	cmd.Execute()
}
