package main

import "github.com/Tiliavir/trivial-timesheet/cmd"

func main() {
	cmd.Execute()
}
