package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Class Insights API",
        "description": "Teaching activity dashboard over the Fb and App class sheets",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Imports", "description": "Loading a year of class sheets"},
        {"name": "Dashboard", "description": "Filtered statistics, rankings and exports"}
    ],
    "parameters": {
        "start": {"name": "start", "in": "query", "type": "string", "format": "date", "description": "First day, YYYY-MM-DD"},
        "end": {"name": "end", "in": "query", "type": "string", "format": "date", "description": "Last day, YYYY-MM-DD"},
        "product": {"name": "product", "in": "query", "type": "array", "items": {"type": "string"}, "collectionFormat": "multi"},
        "course": {"name": "course", "in": "query", "type": "array", "items": {"type": "string"}, "collectionFormat": "multi"},
        "teacher": {"name": "teacher", "in": "query", "type": "array", "items": {"type": "string"}, "collectionFormat": "multi"},
        "subject": {"name": "subject", "in": "query", "type": "array", "items": {"type": "string"}, "collectionFormat": "multi"},
        "issueType": {"name": "issue_type", "in": "query", "type": "array", "items": {"type": "string"}, "collectionFormat": "multi"},
        "q": {"name": "q", "in": "query", "type": "string", "description": "Case-insensitive substring over every field"}
    },
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check, ready once a dataset is loaded",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "No dataset imported yet"}
                }
            }
        },
        "/metrics": {
            "get": {
                "summary": "Prometheus metrics",
                "produces": ["text/plain"],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/imports": {
            "post": {
                "tags": ["Imports"],
                "summary": "Import a year of class sheets",
                "parameters": [
                    {"name": "payload", "in": "body", "required": false, "schema": {"$ref": "#/definitions/ImportRequest"}}
                ],
                "responses": {
                    "200": {"description": "Imported", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "202": {"description": "Queued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Unknown year or invalid payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Superseded by a newer import", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Upstream sheet failure", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Import queue full", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/imports/status": {
            "get": {
                "tags": ["Imports"],
                "summary": "Import pipeline status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/dashboard/summary": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Filtered and platform totals with issue share",
                "parameters": [
                    {"$ref": "#/parameters/start"}, {"$ref": "#/parameters/end"}, {"$ref": "#/parameters/product"},
                    {"$ref": "#/parameters/course"}, {"$ref": "#/parameters/teacher"}, {"$ref": "#/parameters/subject"},
                    {"$ref": "#/parameters/issueType"}, {"$ref": "#/parameters/q"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid date", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/dashboard/teachers": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Per-teacher statistics and contributions",
                "parameters": [
                    {"$ref": "#/parameters/start"}, {"$ref": "#/parameters/end"}, {"$ref": "#/parameters/product"},
                    {"$ref": "#/parameters/course"}, {"$ref": "#/parameters/teacher"}, {"$ref": "#/parameters/subject"},
                    {"$ref": "#/parameters/issueType"}, {"$ref": "#/parameters/q"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/dashboard/teachers/{name}": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Teacher drill-down with records",
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"},
                    {"$ref": "#/parameters/start"}, {"$ref": "#/parameters/end"}, {"$ref": "#/parameters/product"},
                    {"$ref": "#/parameters/course"}, {"$ref": "#/parameters/subject"}, {"$ref": "#/parameters/issueType"},
                    {"$ref": "#/parameters/q"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Teacher has no classes in the view", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/dashboard/rankings": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Top teachers by metric with an Others bucket",
                "parameters": [
                    {"name": "metric", "in": "query", "type": "string", "enum": ["class_count", "total_duration", "total_attendance"]},
                    {"name": "top", "in": "query", "type": "integer", "minimum": 0, "maximum": 500},
                    {"$ref": "#/parameters/start"}, {"$ref": "#/parameters/end"}, {"$ref": "#/parameters/product"},
                    {"$ref": "#/parameters/course"}, {"$ref": "#/parameters/teacher"}, {"$ref": "#/parameters/subject"},
                    {"$ref": "#/parameters/issueType"}, {"$ref": "#/parameters/q"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/dashboard/compare": {
            "post": {
                "tags": ["Dashboard"],
                "summary": "Compare two teacher groups, ignoring the teacher filter",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CompareRequest"}},
                    {"$ref": "#/parameters/start"}, {"$ref": "#/parameters/end"}, {"$ref": "#/parameters/product"},
                    {"$ref": "#/parameters/course"}, {"$ref": "#/parameters/subject"}, {"$ref": "#/parameters/issueType"},
                    {"$ref": "#/parameters/q"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/dashboard/records": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Filtered records, newest first",
                "parameters": [
                    {"name": "limit", "in": "query", "type": "integer", "minimum": 1, "maximum": 1000},
                    {"name": "offset", "in": "query", "type": "integer", "minimum": 0},
                    {"$ref": "#/parameters/start"}, {"$ref": "#/parameters/end"}, {"$ref": "#/parameters/product"},
                    {"$ref": "#/parameters/course"}, {"$ref": "#/parameters/teacher"}, {"$ref": "#/parameters/subject"},
                    {"$ref": "#/parameters/issueType"}, {"$ref": "#/parameters/q"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/dashboard/options": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Selectable values per filter dimension",
                "parameters": [
                    {"$ref": "#/parameters/start"}, {"$ref": "#/parameters/end"}, {"$ref": "#/parameters/product"},
                    {"$ref": "#/parameters/course"}, {"$ref": "#/parameters/teacher"}, {"$ref": "#/parameters/subject"},
                    {"$ref": "#/parameters/issueType"}, {"$ref": "#/parameters/q"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/dashboard/export": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Download the teacher table",
                "produces": ["text/csv", "application/pdf", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf", "xlsx"]},
                    {"$ref": "#/parameters/start"}, {"$ref": "#/parameters/end"}, {"$ref": "#/parameters/product"},
                    {"$ref": "#/parameters/course"}, {"$ref": "#/parameters/teacher"}, {"$ref": "#/parameters/subject"},
                    {"$ref": "#/parameters/issueType"}, {"$ref": "#/parameters/q"}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "ImportRequest": {
            "type": "object",
            "properties": {
                "year": {"type": "integer", "description": "Defaults to DEFAULT_YEAR"},
                "refresh": {"type": "boolean", "description": "Bypass and reset the sheet cache"},
                "async": {"type": "boolean", "description": "Queue the import and return 202"}
            }
        },
        "CompareRequest": {
            "type": "object",
            "properties": {
                "group1": {"type": "array", "items": {"type": "string"}},
                "group2": {"type": "array", "items": {"type": "string"}}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
