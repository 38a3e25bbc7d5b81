package main

import "github.com/inovacc/countrydesk/cmd"

func main() {
	cmd.Execute()
}
