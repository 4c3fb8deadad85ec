package main

import (
	"os"

	"github.com/biosecret/portfolio-api/cmd"
)

// @title Portfolio API
// @version 1.0
// @description Projects, comments and per-user todos behind bearer-token auth.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token.
func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
