package main

import (
	"github.com/robotalks/ledlink/pkg/console"
	"github.com/robotalks/ledlink/pkg/link"
)

//go-build: CGO_ENABLED=0

func init() {
	link.SetupFlags()
}

func main() {
	console.Main()
}
