package main

import "github.com/ValentinKolb/lDDB/cmd"

func main() {
	cmd.Execute()
}
