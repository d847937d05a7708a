package main

import (
	"Dayplan/FiberConfig"
	"Dayplan/Models"
)

func main() {
	Models.Connect()
	FiberConfig.FiberConfig()
}
