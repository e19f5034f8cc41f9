/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"github.com/ssargent/gsbgrid/cmd/gsb/cmd"
)

func main() {
	cmd.Execute()
}
