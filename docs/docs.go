// Package docs registers the OpenAPI document served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {"name": "MIT", "url": "https://opensource.org/licenses/MIT"},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/top": {
            "get": {
                "description": "Ranks instruments by summed trade size, descending, ties by id",
                "produces": ["application/json"],
                "tags": ["analytics"],
                "summary": "Most traded instruments",
                "parameters": [
                    {"type": "integer", "example": 20, "description": "Number of instruments", "name": "k", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.TopKResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/v1/vwap": {
            "get": {
                "description": "VWAP over the Top-K volumes, or over the listed ids when ids is given",
                "produces": ["application/json"],
                "tags": ["analytics"],
                "summary": "Volume weighted average price",
                "parameters": [
                    {"type": "integer", "example": 20, "description": "Rank size when ids is empty", "name": "k", "in": "query"},
                    {"type": "string", "example": "AAPL.,MSFT.", "description": "Comma separated identities", "name": "ids", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.VWAPResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/v1/interval": {
            "get": {
                "description": "Distinct identities with at least one trade in [start, end], sorted",
                "produces": ["application/json"],
                "tags": ["analytics"],
                "summary": "Instruments traded in a minute interval",
                "parameters": [
                    {"type": "integer", "example": 0, "description": "First minute, inclusive", "name": "start", "in": "query", "required": true},
                    {"type": "integer", "example": 30, "description": "Last minute, inclusive", "name": "end", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.IntervalResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/healthz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/readyz": {
            "get": {
                "description": "Ready once the interval index is built and the database (if any) answers",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "message": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        },
        "dto.RankingItem": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "example": "AAPL."},
                "total_size": {"type": "number", "example": 1250000}
            }
        },
        "dto.TopKResponse": {
            "type": "object",
            "properties": {
                "k": {"type": "integer", "example": 20},
                "stocks": {"type": "array", "items": {"$ref": "#/definitions/dto.RankingItem"}}
            }
        },
        "dto.VWAPResponse": {
            "type": "object",
            "properties": {
                "missing": {"type": "array", "items": {"type": "string"}},
                "prices": {"type": "object", "additionalProperties": {"type": "number"}}
            }
        },
        "dto.IntervalResponse": {
            "type": "object",
            "properties": {
                "count": {"type": "integer", "example": 2},
                "end": {"type": "integer", "example": 30},
                "start": {"type": "integer", "example": 0},
                "stocks": {"type": "array", "items": {"type": "string"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "tickpulse API",
	Description:      "Trade analytics over minute-bar datasets: most traded, VWAP and interval lookups.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
