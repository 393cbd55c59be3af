package main

import "github.com/akwasiboateng/campus-market/cmd"

func main() {
	cmd.Execute()
}
