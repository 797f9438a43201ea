/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/codio-labs/codio-api/cmd"

// @title           Codio API
// @version         1.0.0
// @description     Extracts code from programming videos so viewers can pause and copy what is on screen
// @contact.name    API Support
// @contact.url     https://github.com/codio-labs/codio-api
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:8080
// @BasePath        /
// @schemes         http https
func main() {
	cmd.Execute()
}
