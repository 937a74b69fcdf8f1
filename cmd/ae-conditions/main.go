package main

import "github.com/oshokin/ae-conditions/cmd/ae-conditions/cmd"

func main() {
	cmd.Execute()
}
