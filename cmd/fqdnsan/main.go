// cmd/fqdnsan/main.go
package main

import (
	"fqdnsan/internal/app"
	"fqdnsan/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
