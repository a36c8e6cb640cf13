package main

import "github.com/cmmeyer1800/accountabilidash/cmd/dash"

func main() {
	dash.Execute()
}
