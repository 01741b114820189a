package main

import "github.com/vibast-solutions/ms-go-adminpanel/cmd"

func main() {
	cmd.Execute()
}
