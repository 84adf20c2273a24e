package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gigboard/marketplace/internal/cli"
)

// @title                       Freelance Marketplace API
// @version                     1.0
// @description                 Clients post jobs, freelancers send proposals.
// @BasePath                    /
// @securityDefinitions.apikey  SessionAuth
// @in                          header
// @name                        Authorization
func main() {
	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
