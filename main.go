package main

import "github.com/chayanin/inventory-api/cmd"

func main() {
	cmd.Execute()
}
