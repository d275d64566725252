package main

import "github.com/adanyl0v/todo-assistant/internal/app"

func main() {
	app.InitDefaultLogger()
	app.MustReadEnv()
	app.MustInitApplicationLogger()

	app.MustOpenStorage()
	defer app.CloseStorage()

	app.MustListenAndServeHTTP()
}
