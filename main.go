package main

import "github.com/frahmantamala/procurement-portal/cmd"

func main() {
	cmd.Execute()
}
