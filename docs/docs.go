// Package docs registers the OpenAPI description served at /swagger/.
// Regenerate with: swag init -g cmd/app/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "name": "X-API-Key", "in": "header"}
    },
    "security": [{"ApiKeyAuth": []}],
    "paths": {
        "/api/v1/platforms": {"get": {"tags": ["platforms"], "summary": "List supported platforms", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/platforms/links": {"get": {"tags": ["platforms"], "summary": "Link status for the caller", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/platforms/{platform}": {"delete": {"tags": ["platforms"], "summary": "Disconnect platform", "parameters": [{"name": "platform", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}},
        "/api/v1/platforms/{platform}/verification": {
            "post": {"tags": ["verification"], "summary": "Start verification", "parameters": [{"name": "platform", "in": "path", "required": true, "type": "string"}], "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}},
            "delete": {"tags": ["verification"], "summary": "Cancel verification", "parameters": [{"name": "platform", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/platforms/{platform}/verification/confirm": {"post": {"tags": ["verification"], "summary": "Confirm verification", "parameters": [{"name": "platform", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "410": {"description": "Gone"}, "422": {"description": "Unprocessable Entity"}}}},
        "/api/v1/platforms/{platform}/sync": {"post": {"tags": ["sync"], "summary": "Sync one platform", "parameters": [{"name": "platform", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}, "503": {"description": "Service Unavailable"}}}},
        "/api/v1/sync": {"post": {"tags": ["sync"], "summary": "Sync all platforms", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/stats": {"get": {"tags": ["sync"], "summary": "Cached stats", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/admin/sweep": {"post": {"tags": ["admin"], "summary": "Trigger a sweep", "responses": {"202": {"description": "Accepted"}, "409": {"description": "Conflict"}}}},
        "/healthz": {"get": {"tags": ["health"], "summary": "Liveness probe", "responses": {"200": {"description": "OK"}}}},
        "/readyz": {"get": {"tags": ["health"], "summary": "Readiness probe", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}},
        "/version": {"get": {"tags": ["health"], "summary": "Build information", "responses": {"200": {"description": "OK"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "CodeLedger API",
	Description:      "Competitive programming and GitHub profile aggregation.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
