package main

import "github.com/courtside/nbaquant/cmd"

func main() {
	cmd.Execute()
}
