package main

import "github.com/chrisdamba/freshmix/cmd"

func main() {
	cmd.Execute()
}
