package main

import "github.com/databroomhq/databroom-cli/cmd"

func main() {
	cmd.Execute()
}
