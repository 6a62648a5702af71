package main

import "github.com/toyz/delegate/pkg/delegatecmd"

func main() {
	delegatecmd.Main()
}
