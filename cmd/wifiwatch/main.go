package main

import (
	"github.com/haiminh/wifiwatch/internal/cli"
)

func main() {
	cli.Execute()
}
