package main

import "activity-portal/cmd/server"

func main() {
	server.Init()
	server.Run()
}
