package main

import "github.com/fastask/fastask/cmd"

func main() {
	cmd.Execute()
}
