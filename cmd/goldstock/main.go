package main

import "github.com/safar/goldstock/internal/cmd"

func main() {
	cmd.Execute()
}
