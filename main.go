package main

import "github.com/theirongolddev/spendcast/cmd"

func main() {
	cmd.Execute()
}
