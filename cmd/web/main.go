package main

import "webstarter/internal/app"

func main() {
	app.Run()
}
