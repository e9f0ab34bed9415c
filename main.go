package main

import (
	"github.com/rubixchain/rubix-dapp/cmd"
)

func main() {
	cmd.Execute()
}
