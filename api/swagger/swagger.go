package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Workspace Admin API",
        "description": "Multi-tenant workspace administration with form assignments and PDF report generation",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "tags": [
        {"name": "Workspaces", "description": "Workspace tenants and branding"},
        {"name": "Members", "description": "Workspace member roster"},
        {"name": "Units", "description": "Organizational unit hierarchy"},
        {"name": "FormTemplates", "description": "Reusable form definitions"},
        {"name": "FormAssignments", "description": "Form assignment lifecycle"},
        {"name": "Reports", "description": "PDF report generation and history"},
        {"name": "Exports", "description": "Asynchronous CSV/PDF exports"},
        {"name": "Public", "description": "Unauthenticated slug endpoints"}
    ],
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
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/workspaces": {
            "get": {
                "tags": ["Workspaces"],
                "summary": "List workspaces",
                "parameters": [
                    {"name": "type", "in": "query", "type": "string"},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Workspaces"],
                "summary": "Create workspace",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateWorkspaceRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/workspaces/{workspaceId}": {
            "get": {
                "tags": ["Workspaces"],
                "summary": "Get workspace",
                "parameters": [
                    {"name": "workspaceId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Workspaces"],
                "summary": "Update workspace",
                "parameters": [
                    {"name": "workspaceId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateWorkspaceRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Workspaces"],
                "summary": "Deactivate workspace",
                "parameters": [
                    {"name": "workspaceId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/workspaces/{workspaceId}/members": {
            "get": {
                "tags": ["Members"],
                "summary": "List members",
                "parameters": [
                    {"name": "workspaceId", "in": "path", "required": true, "type": "string"},
                    {"name": "unitId", "in": "query", "type": "string"},
                    {"name": "role", "in": "query", "type": "string"},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Members"],
                "summary": "Add member",
                "parameters": [
                    {"name": "workspaceId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateMemberRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/workspaces/{workspaceId}/units": {
            "get": {
                "tags": ["Units"],
                "summary": "Unit hierarchy",
                "parameters": [
                    {"name": "workspaceId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Units"],
                "summary": "Create unit",
                "parameters": [
                    {"name": "workspaceId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateUnitRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/workspaces/{workspaceId}/form-assignments": {
            "post": {
                "tags": ["FormAssignments"],
                "summary": "Assign form to member",
                "parameters": [
                    {"name": "workspaceId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateAssignmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/generate": {
            "post": {
                "tags": ["Reports"],
                "summary": "Generate a PDF report",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateReportRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports": {
            "post": {
                "tags": ["Exports"],
                "summary": "Queue an export job",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/public/assignments/{slug}": {
            "get": {
                "tags": ["Public"],
                "summary": "View assignment form",
                "parameters": [
                    {"name": "slug", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Inactive"},
                    "404": {"description": "Unknown slug"}
                }
            }
        },
        "/public/reports/{reference}/verify": {
            "get": {
                "tags": ["Public"],
                "summary": "Verify report reference",
                "parameters": [
                    {"name": "reference", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "CreateWorkspaceRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "type": {"type": "string", "enum": ["EDUCATION", "CORPORATE", "NON_PROFIT", "GOVERNMENT"]},
                "logoUrl": {"type": "string"},
                "primaryColor": {"type": "string"},
                "secondaryColor": {"type": "string"},
                "defaultReportType": {"type": "string"}
            },
            "required": ["name", "type"]
        },
        "UpdateWorkspaceRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "logoUrl": {"type": "string"},
                "primaryColor": {"type": "string"},
                "secondaryColor": {"type": "string"},
                "defaultReportType": {"type": "string"},
                "active": {"type": "boolean"}
            }
        },
        "CreateMemberRequest": {
            "type": "object",
            "properties": {
                "fullName": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string", "enum": ["OWNER", "ADMIN", "MEMBER"]},
                "unitId": {"type": "string"},
                "profile": {"type": "object"}
            },
            "required": ["fullName", "email", "role"]
        },
        "CreateUnitRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "parentId": {"type": "string"}
            },
            "required": ["name"]
        },
        "CreateAssignmentRequest": {
            "type": "object",
            "properties": {
                "templateId": {"type": "string"},
                "memberId": {"type": "string"},
                "allowMultiple": {"type": "boolean"}
            },
            "required": ["templateId", "memberId"]
        },
        "GenerateReportRequest": {
            "type": "object",
            "properties": {
                "reportData": {"type": "object"},
                "filename": {"type": "string"},
                "workspaceId": {"type": "string"}
            },
            "required": ["reportData"]
        },
        "ExportRequest": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "enum": ["members", "assignments", "reports"]},
                "workspaceId": {"type": "string"},
                "unitId": {"type": "string"},
                "format": {"type": "string", "enum": ["csv", "pdf"]}
            },
            "required": ["type", "workspaceId", "format"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
                "pagination": {"$ref": "#/definitions/Pagination"},
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
