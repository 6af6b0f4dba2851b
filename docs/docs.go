// Package docs holds the OpenAPI document served at /swagger.
// Regenerate from the handler annotations with `swag init -g cmd/server/main.go -o docs --v3.1`.
package docs

import "github.com/swaggo/swag/v2"

//go:generate swag init -g ../cmd/server/main.go -d ../ -o . --v3.1

const docTemplate = `{
    "openapi": "3.1.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "servers": [{"url": "{{.BasePath}}"}],
    "components": {
        "securitySchemes": {
            "BearerAuth": {"type": "apiKey", "in": "header", "name": "Authorization"},
            "SessionAuth": {"type": "apiKey", "in": "header", "name": "X-Session-ID"}
        }
    },
    "security": [{"BearerAuth": []}, {"SessionAuth": []}],
    "tags": [
        {"name": "auth", "description": "Login, token refresh and logout"},
        {"name": "customers", "description": "Tenant-scoped customer records"},
        {"name": "products", "description": "Tenant-scoped products and SKU generation"},
        {"name": "invoices", "description": "Invoices, totals, numbering and PDF export"},
        {"name": "settings", "description": "Per-tenant invoice defaults"},
        {"name": "reports", "description": "Receivables summary"},
        {"name": "system", "description": "Health and metrics"}
    ],
    "paths": {
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Log in with email and password", "security": [], "responses": {"200": {"description": "Token pair"}, "401": {"description": "Invalid credentials"}}}},
        "/auth/refresh": {"post": {"tags": ["auth"], "summary": "Refresh an access token", "security": [], "responses": {"200": {"description": "Token pair"}, "401": {"description": "Invalid token"}}}},
        "/auth/logout": {"post": {"tags": ["auth"], "summary": "Revoke the current token and session", "responses": {"200": {"description": "Logged out"}}}},
        "/auth/me": {"get": {"tags": ["auth"], "summary": "Current principal", "responses": {"200": {"description": "User"}}}},
        "/customers": {
            "get": {"tags": ["customers"], "summary": "List customers", "responses": {"200": {"description": "Page of customers"}}},
            "post": {"tags": ["customers"], "summary": "Create a customer", "responses": {"201": {"description": "Created"}, "400": {"description": "Validation failed"}}}
        },
        "/customers/search": {"get": {"tags": ["customers"], "summary": "Search customers by name", "responses": {"200": {"description": "Matches"}}}},
        "/customers/{id}": {
            "get": {"tags": ["customers"], "summary": "Get a customer", "responses": {"200": {"description": "Customer"}, "404": {"description": "Not found"}}},
            "put": {"tags": ["customers"], "summary": "Partially update a customer", "responses": {"200": {"description": "Customer"}}},
            "delete": {"tags": ["customers"], "summary": "Delete a customer", "responses": {"204": {"description": "Deleted"}}}
        },
        "/products": {
            "get": {"tags": ["products"], "summary": "List products", "responses": {"200": {"description": "Page of products"}}},
            "post": {"tags": ["products"], "summary": "Create a product", "responses": {"201": {"description": "Created"}, "409": {"description": "SKU taken"}}}
        },
        "/products/search": {"get": {"tags": ["products"], "summary": "Search products by name", "responses": {"200": {"description": "Matches"}}}},
        "/products/sku": {"get": {"tags": ["products"], "summary": "Generate a free SKU", "responses": {"200": {"description": "SKU"}, "503": {"description": "Identifier space exhausted"}}}},
        "/products/{id}": {
            "get": {"tags": ["products"], "summary": "Get a product", "responses": {"200": {"description": "Product"}}},
            "put": {"tags": ["products"], "summary": "Partially update a product", "responses": {"200": {"description": "Product"}}},
            "delete": {"tags": ["products"], "summary": "Delete a product", "responses": {"204": {"description": "Deleted"}}}
        },
        "/invoices": {
            "get": {"tags": ["invoices"], "summary": "List invoices", "responses": {"200": {"description": "Page of invoices"}}},
            "post": {"tags": ["invoices"], "summary": "Create an invoice", "responses": {"201": {"description": "Created"}, "409": {"description": "Number taken"}}}
        },
        "/invoices/search": {"get": {"tags": ["invoices"], "summary": "Search invoices", "responses": {"200": {"description": "Matches"}}}},
        "/invoices/next-number": {"get": {"tags": ["invoices"], "summary": "Generate a free invoice number", "responses": {"200": {"description": "Invoice number"}, "503": {"description": "Identifier space exhausted"}}}},
        "/invoices/calculate": {"post": {"tags": ["invoices"], "summary": "Preview line amounts and totals", "responses": {"200": {"description": "Totals"}}}},
        "/invoices/{id}": {
            "get": {"tags": ["invoices"], "summary": "Get an invoice", "responses": {"200": {"description": "Invoice"}}},
            "put": {"tags": ["invoices"], "summary": "Partially update an invoice", "responses": {"200": {"description": "Invoice"}}},
            "delete": {"tags": ["invoices"], "summary": "Delete an invoice", "responses": {"204": {"description": "Deleted"}}}
        },
        "/invoices/{id}/pdf": {"get": {"tags": ["invoices"], "summary": "Render the invoice as PDF", "responses": {"200": {"description": "PDF document"}, "503": {"description": "Export disabled"}, "504": {"description": "Render timed out"}}}},
        "/settings": {
            "get": {"tags": ["settings"], "summary": "Get tenant settings", "responses": {"200": {"description": "Settings"}}},
            "put": {"tags": ["settings"], "summary": "Save tenant settings", "responses": {"200": {"description": "Settings"}}}
        },
        "/reports/summary": {"get": {"tags": ["reports"], "summary": "Receivables summary", "responses": {"200": {"description": "Summary"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Invoicer API",
	Description:      "Multi-tenant GST invoicing backend",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
