package main

import "github.com/Pranav2188/water-pollution-quirklab/cmd/quirkctl/cmd"

func main() {
	cmd.Execute()
}
