package main

import "erp-portal/cmd/portal/cli"

func main() {
	cli.InitAndExecute()
}
