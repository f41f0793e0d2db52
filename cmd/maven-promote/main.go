package main

import "maven-promote/internal/cli"

func main() {
	cli.Execute()
}
