package main

import "github.com/tzwzx/check-all-go/cmd"

func main() {
	cmd.Execute()
}
