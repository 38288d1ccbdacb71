package main

import (
	"context"
	"time"

	"github.com/shandysiswandi/vendorauth/internal/app"
)

const shutdownGrace = 10 * time.Second

// @title           Vendor Auth API
// @version         1.0
// @description     Passwordless vendor login: a one-time code is emailed, then exchanged for a bearer token.
// @contact.name    Vendor Onboarding Team
// @contact.email   noreply@vendor-onboarding.com
// @license.name    MIT
// @license.url     https://mit-license.org/
// @server          http://localhost:8080
// @securityDefinitions.apikey  BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT.
func main() {
	vendorAuth := app.New()
	<-vendorAuth.Start()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	vendorAuth.Stop(ctx)
}
