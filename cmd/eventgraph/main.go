// @title           eventgraph API
// @version         1.0
// @description     GraphQL API for events and the users who create them.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import "eventgraph/cmd/eventgraph/cmd"

func main() {
	cmd.Execute()
}
