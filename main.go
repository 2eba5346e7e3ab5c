package main

import "github.com/ValentinKolb/chunkDB/cmd"

func main() {
	cmd.Execute()
}
