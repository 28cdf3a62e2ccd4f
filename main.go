package main

import "github.com/naka-gawa/github-year-review/cmd"

func main() {
	cmd.Execute()
}
