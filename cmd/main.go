// cmd/main.go
package main

import (
	"pix-bank-api/app"
)

// @title           Pix-Bank API
// @version         1.0
// @description     REST API for a retail banking demo with pix transfers.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
