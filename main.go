package main

import "github.com/patternforge/patternforge/cmd"

func main() {
	cmd.Execute()
}
