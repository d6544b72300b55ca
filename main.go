package main

import "country-api/cmd"

func main() {
	cmd.Execute()
}
