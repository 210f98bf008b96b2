package main

import "github.com/osmech/workshop-management/cmd"

func main() {
	cmd.Execute()
}
