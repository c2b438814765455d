package main

import "github.com/theirongolddev/prorata/cmd"

func main() {
	cmd.Execute()
}
