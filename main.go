package main

import "github.com/NJRca/Metapod/cmd"

func main() {
	cmd.Execute()
}
