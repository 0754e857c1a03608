package main

import "github.com/cthiebaud/bwv-zeug/cmd"

func main() {
	cmd.Execute()
}
