// Package docs registers the OpenAPI description served at /swagger.
// Regenerate with: swag init -g cmd/server/main.go -o docs
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
    "paths": {
        "/ocr": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["ocr"],
                "summary": "Run OCR across models",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/service.RunInput"}}],
                "responses": {"200": {"description": "Extraction results"}, "400": {"description": "Validation error"}}
            }
        },
        "/models": {
            "get": {
                "produces": ["application/json"],
                "tags": ["ocr"],
                "summary": "List known models",
                "responses": {"200": {"description": "Model catalog"}}
            }
        },
        "/score": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["scoring"],
                "summary": "Score extracted text against ground truth",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handler.ScoreRequest"}}],
                "responses": {"200": {"description": "Accuracy and word diff"}, "400": {"description": "Validation error"}, "413": {"description": "Body too large"}}
            }
        },
        "/normalize": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["scoring"],
                "summary": "Strip LaTeX-style markup",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handler.NormalizeRequest"}}],
                "responses": {"200": {"description": "Normalized text"}, "400": {"description": "Validation error"}, "413": {"description": "Body too large"}}
            }
        },
        "/test-areas": {
            "get": {
                "produces": ["application/json"],
                "tags": ["test-areas"],
                "summary": "List test areas",
                "parameters": [
                    {"type": "integer", "default": 0, "name": "offset", "in": "query"},
                    {"type": "integer", "default": 20, "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "List of test areas"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["test-areas"],
                "summary": "Create a test area",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/service.CreateTestAreaInput"}}],
                "responses": {"201": {"description": "Test area created"}, "400": {"description": "Validation error"}}
            }
        },
        "/test-areas/import": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["test-areas"],
                "summary": "Import test areas",
                "parameters": [{"type": "file", "name": "file", "in": "formData", "required": true}],
                "responses": {"201": {"description": "Test areas created"}, "400": {"description": "Missing file or malformed sheet"}}
            }
        },
        "/test-areas/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["test-areas"],
                "summary": "Get test area by ID",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "Test area details"}, "404": {"description": "Test area not found"}}
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["test-areas"],
                "summary": "Update a test area",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/service.UpdateTestAreaInput"}}
                ],
                "responses": {"200": {"description": "Test area updated"}, "404": {"description": "Test area not found"}}
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["test-areas"],
                "summary": "Delete a test area",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "Test area deleted"}, "404": {"description": "Test area not found"}}
            }
        },
        "/test-areas/{id}/runs": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["test-areas"],
                "summary": "Run a test area",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/service.RunTestInput"}}
                ],
                "responses": {"200": {"description": "Run recorded"}, "400": {"description": "Validation error"}}
            }
        },
        "/test-areas/{id}/export": {
            "get": {
                "produces": ["text/csv", "application/json"],
                "tags": ["test-areas"],
                "summary": "Export test area results",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"enum": ["csv", "xlsx", "json"], "type": "string", "default": "csv", "name": "format", "in": "query"}
                ],
                "responses": {"200": {"description": "Export file"}, "400": {"description": "Unsupported format"}}
            }
        },
        "/test-areas/{id}/leaderboard": {
            "get": {
                "produces": ["application/json"],
                "tags": ["reports"],
                "summary": "Rank every stored result",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "Leaderboard"}}
            }
        },
        "/images": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["images"],
                "summary": "Upload an image",
                "parameters": [{"type": "file", "name": "file", "in": "formData", "required": true}],
                "responses": {"201": {"description": "Image stored"}, "503": {"description": "Storage not configured"}}
            }
        }
    },
    "definitions": {
        "handler.NormalizeRequest": {
            "type": "object",
            "properties": {"text": {"type": "string"}}
        },
        "handler.ScoreRequest": {
            "type": "object",
            "properties": {
                "expected": {"type": "string"},
                "actual": {"type": "string"},
                "normalize": {"type": "boolean"}
            }
        },
        "service.CreateTestAreaInput": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string"},
                "image_url": {"type": "string"},
                "ground_truth": {"type": "string"}
            }
        },
        "service.UpdateTestAreaInput": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "image_url": {"type": "string"},
                "ground_truth": {"type": "string"}
            }
        },
        "service.RunInput": {
            "type": "object",
            "required": ["image_url", "models"],
            "properties": {
                "image_url": {"type": "string"},
                "system_prompt": {"type": "string"},
                "user_prompt": {"type": "string"},
                "models": {"type": "array", "items": {"type": "string"}},
                "temperature": {"type": "number"},
                "batch_size": {"type": "integer"}
            }
        },
        "service.RunTestInput": {
            "type": "object",
            "properties": {
                "system_prompt": {"type": "string"},
                "user_prompt": {"type": "string"},
                "temperature": {"type": "number"},
                "batch_size": {"type": "integer"},
                "models": {"type": "array", "items": {"type": "string"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "OCR Bench API",
	Description:      "Runs images through vision-language models and scores the extracted text against ground truth.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
