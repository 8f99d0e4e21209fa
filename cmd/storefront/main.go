// Package main is the entry point for the GrowthLabPro storefront.
//
//	@title			GrowthLabPro Storefront API
//	@version		1.0
//	@description	Catalog, cart and Stripe Checkout orchestration plus the contact form relay for growthlabpro.com.
//
//	@contact.name	GrowthLabPro
//	@contact.url	https://growthlabpro.com
//
//	@host			localhost:8080
//	@BasePath		/
package main

func main() {
	Execute()
}
