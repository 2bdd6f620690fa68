package main

import "github.com/caregate/caregate/cmd/caregate/cmd"

func main() {
	cmd.Execute()
}
