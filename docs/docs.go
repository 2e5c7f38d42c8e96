// Package docs serves the Swagger 2.0 document for the HTTP API.
//
// The template is maintained by hand and mirrors the swag annotations on the
// v1 handlers; the v1 router tests fail when a route is missing from it.
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
        "/applicants": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["applicants"],
                "summary": "List all biodata (Admin only)",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/v1.ApplicantListResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Creates the caller's biodata on first call and overwrites it afterwards",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["applicants"],
                "summary": "Create or update own biodata",
                "parameters": [
                    {
                        "description": "Biodata",
                        "name": "applicant",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/domain.ApplicantInput"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/v1.UpsertResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            }
        },
        "/applicants/export": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Downloads every profile as an Excel workbook (default) or CSV",
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "text/csv"],
                "tags": ["applicants"],
                "summary": "Export all biodata (Admin only)",
                "parameters": [
                    {"type": "string", "description": "xlsx or csv", "name": "format", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            }
        },
        "/applicants/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["applicants"],
                "summary": "Get own biodata",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/v1.ApplicantResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            }
        },
        "/applicants/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["applicants"],
                "summary": "Get biodata by id (Admin only)",
                "parameters": [
                    {"type": "integer", "description": "Applicant ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/v1.ApplicantResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["applicants"],
                "summary": "Delete biodata (Admin only)",
                "parameters": [
                    {"type": "integer", "description": "Applicant ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.MessageBody"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.ErrorBody"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorBody"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "domain.Applicant": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "user_id": {"type": "integer"},
                "position": {"type": "string"},
                "full_name": {"type": "string"},
                "national_id": {"type": "string"},
                "birth_place": {"type": "string"},
                "birth_date": {"type": "string"},
                "gender": {"type": "string"},
                "religion": {"type": "string"},
                "blood_type": {"type": "string"},
                "marital_status": {"type": "string"},
                "id_card_address": {"type": "string"},
                "domicile_address": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "emergency_contact": {"type": "string"},
                "education": {"type": "array", "items": {"type": "object", "additionalProperties": true}},
                "training": {"type": "array", "items": {"type": "object", "additionalProperties": true}},
                "work_history": {"type": "array", "items": {"type": "object", "additionalProperties": true}},
                "skills": {"type": "string"},
                "placement_willingness": {"type": "string"},
                "expected_income": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"},
                "username": {"type": "string"},
                "user_email": {"type": "string"}
            }
        },
        "domain.ApplicantInput": {
            "type": "object",
            "required": ["full_name"],
            "properties": {
                "position": {"type": "string", "maxLength": 150},
                "full_name": {"type": "string", "maxLength": 200},
                "national_id": {"type": "string", "maxLength": 32},
                "birth_place": {"type": "string", "maxLength": 100},
                "birth_date": {"type": "string", "example": "1999-12-31"},
                "gender": {"type": "string", "maxLength": 20},
                "religion": {"type": "string", "maxLength": 50},
                "blood_type": {"type": "string", "maxLength": 5},
                "marital_status": {"type": "string", "maxLength": 50},
                "id_card_address": {"type": "string", "maxLength": 500},
                "domicile_address": {"type": "string", "maxLength": 500},
                "email": {"type": "string"},
                "phone": {"type": "string", "example": "+62 812-3456-7890"},
                "emergency_contact": {"type": "string", "maxLength": 200},
                "education": {"type": "array", "items": {"type": "object", "additionalProperties": true}},
                "training": {"type": "array", "items": {"type": "object", "additionalProperties": true}},
                "work_history": {"type": "array", "items": {"type": "object", "additionalProperties": true}},
                "skills": {"type": "string", "maxLength": 2000},
                "placement_willingness": {"type": "string", "maxLength": 100},
                "expected_income": {"type": "string", "maxLength": 100}
            }
        },
        "response.ErrorBody": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "errors": {"type": "array", "items": {"type": "string"}}
            }
        },
        "response.MessageBody": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "v1.ApplicantListResponse": {
            "type": "object",
            "properties": {
                "applicants": {"type": "array", "items": {"$ref": "#/definitions/domain.Applicant"}}
            }
        },
        "v1.ApplicantResponse": {
            "type": "object",
            "properties": {
                "applicant": {"$ref": "#/definitions/domain.Applicant"}
            }
        },
        "v1.UpsertResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "applicant": {"$ref": "#/definitions/domain.Applicant"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Applicant Biodata API",
	Description:      "Record-owner service for applicant biodata.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
