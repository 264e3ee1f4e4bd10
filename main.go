package main

import "github.com/naka-gawa/pr-reactions/cmd"

func main() {
	cmd.Execute()
}
