package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Classroll API",
        "description": "Class, group and attendance management backed by a remote school data service.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {
            "name": "Authentication",
            "description": "Dashboard sessions"
        },
        {
            "name": "Groups",
            "description": "Group membership"
        },
        {
            "name": "Classes",
            "description": "Classes and their groups"
        },
        {
            "name": "Students",
            "description": "Student roster and imports"
        },
        {
            "name": "Teachers",
            "description": "Teacher directory"
        },
        {
            "name": "Attendance",
            "description": "Sessions, matrix, capture and exports"
        },
        {
            "name": "Sync",
            "description": "Backend refresh"
        },
        {
            "name": "Audit",
            "description": "Audit trail"
        },
        {
            "name": "Observability",
            "description": "Metrics"
        }
    ],
    "paths": {
        "/auth/login": {
            "post": {"tags": ["Authentication"], "summary": "Authenticate user", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/auth/logout": {
            "post": {"tags": ["Authentication"], "summary": "Close the current session", "security": [{"BearerAuth": []}], "responses": {"204": {"description": "No Content"}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/auth/me": {
            "get": {"tags": ["Authentication"], "summary": "Current user", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/groups": {
            "get": {"tags": ["Groups"], "summary": "List groups", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "post": {"tags": ["Groups"], "summary": "Create group", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateGroupRequest"}}], "security": [{"BearerAuth": []}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/groups/{id}": {
            "get": {"tags": ["Groups"], "summary": "Get group detail", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "description": "ID"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "put": {"tags": ["Groups"], "summary": "Update group", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "description": "ID"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateGroupRequest"}}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "delete": {"tags": ["Groups"], "summary": "Delete group", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "description": "ID"}], "security": [{"BearerAuth": []}], "responses": {"204": {"description": "No Content"}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/groups/{id}/students": {
            "get": {"tags": ["Groups"], "summary": "List group members", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "description": "ID"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/groups/{id}/classes/{classId}": {
            "post": {"tags": ["Groups"], "summary": "Attach a class to a group", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "description": "ID"}, {"name": "classId", "in": "path", "required": true, "type": "string", "description": "ID"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/classes": {
            "get": {"tags": ["Classes"], "summary": "List classes", "parameters": [{"name": "teacher_id", "in": "query", "required": false, "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "post": {"tags": ["Classes"], "summary": "Create class", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateClassRequest"}}], "security": [{"BearerAuth": []}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/classes/{id}": {
            "get": {"tags": ["Classes"], "summary": "Get class detail", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "description": "ID"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/classes/{id}/students": {
            "get": {"tags": ["Classes"], "summary": "List students of a class", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "description": "ID"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/classes/{id}/groups": {
            "get": {"tags": ["Classes"], "summary": "List groups hosted by a class", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "description": "ID"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/students": {
            "get": {"tags": ["Students"], "summary": "List students", "parameters": [{"name": "class_id", "in": "query", "required": false, "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "post": {"tags": ["Students"], "summary": "Create student", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentInput"}}], "security": [{"BearerAuth": []}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/students/import": {
            "post": {"tags": ["Students"], "summary": "Import students from a CSV or XLSX roster", "consumes": ["multipart/form-data"], "parameters": [{"name": "file", "in": "formData", "required": true, "type": "file"}], "security": [{"BearerAuth": []}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/students/{id}": {
            "get": {"tags": ["Students"], "summary": "Get student detail", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "description": "ID"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/students/{id}/groups": {
            "get": {"tags": ["Students"], "summary": "List the group a student belongs to", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "description": "ID"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/teachers": {
            "get": {"tags": ["Teachers"], "summary": "List teachers", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "post": {"tags": ["Teachers"], "summary": "Register teacher", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTeacherRequest"}}], "security": [{"BearerAuth": []}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/teachers/{teacherId}": {
            "get": {"tags": ["Teachers"], "summary": "Get teacher detail", "parameters": [{"name": "teacherId", "in": "path", "required": true, "type": "string", "description": "ID"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/teachers/{teacherId}/groups": {
            "get": {"tags": ["Teachers"], "summary": "List the groups a teacher teaches", "parameters": [{"name": "teacherId", "in": "path", "required": true, "type": "string", "description": "ID"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/teachers/{teacherId}/classes": {
            "get": {"tags": ["Teachers"], "summary": "List the classes a teacher teaches", "parameters": [{"name": "teacherId", "in": "path", "required": true, "type": "string", "description": "ID"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/attendance/sessions": {
            "get": {"tags": ["Attendance"], "summary": "List attendance sessions", "parameters": [{"name": "teacher_id", "in": "query", "required": false, "type": "string"}, {"name": "group_id", "in": "query", "required": true, "type": "string"}, {"name": "class_id", "in": "query", "required": true, "type": "string"}, {"name": "academic_year_id", "in": "query", "required": true, "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/attendance/matrix": {
            "get": {"tags": ["Attendance"], "summary": "Student by date attendance matrix", "parameters": [{"name": "teacher_id", "in": "query", "required": false, "type": "string"}, {"name": "group_id", "in": "query", "required": true, "type": "string"}, {"name": "class_id", "in": "query", "required": true, "type": "string"}, {"name": "academic_year_id", "in": "query", "required": true, "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/attendance/stats": {
            "get": {"tags": ["Attendance"], "summary": "Attendance totals", "parameters": [{"name": "teacher_id", "in": "query", "required": false, "type": "string"}, {"name": "group_id", "in": "query", "required": true, "type": "string"}, {"name": "class_id", "in": "query", "required": true, "type": "string"}, {"name": "academic_year_id", "in": "query", "required": true, "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/attendance/capture": {
            "post": {"tags": ["Attendance"], "summary": "Capture attendance from a photo", "consumes": ["multipart/form-data"], "parameters": [{"name": "photo", "in": "formData", "type": "file"}, {"name": "teacher_id", "in": "formData", "type": "string"}, {"name": "class_id", "in": "formData", "required": true, "type": "string"}, {"name": "group_id", "in": "formData", "required": true, "type": "string"}, {"name": "academic_year_id", "in": "formData", "required": true, "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/attendance/capture/status": {
            "get": {"tags": ["Attendance"], "summary": "Whether a capture is running for a teacher", "parameters": [{"name": "teacher_id", "in": "query", "required": false, "type": "string"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/attendance/export": {
            "post": {"tags": ["Attendance"], "summary": "Export the attendance matrix", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportRequest"}}], "security": [{"BearerAuth": []}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/exports/{token}": {
            "get": {"tags": ["Attendance"], "summary": "Download a rendered export", "parameters": [{"name": "token", "in": "path", "required": true, "type": "string", "description": "Signed download token"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/sync": {
            "post": {"tags": ["Sync"], "summary": "Refresh students, classes and groups from the backend", "parameters": [{"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/SyncRequest"}}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/consistency": {
            "get": {"tags": ["Groups"], "summary": "Check membership invariants", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/admin/metrics": {
            "get": {"tags": ["Observability"], "summary": "Counter summary", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/admin/audit": {
            "get": {"tags": ["Audit"], "summary": "List audit entries", "parameters": [{"name": "resource", "in": "query", "required": false, "type": "string"}, {"name": "resource_id", "in": "query", "required": false, "type": "string"}, {"name": "limit", "in": "query", "type": "integer"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}},
            "required": ["email", "password"]
        },
        "CreateGroupRequest": {
            "type": "object",
            "properties": {"name": {"type": "string"}, "description": {"type": "string"}, "student_ids": {"type": "array", "items": {"type": "string"}}, "class_ids": {"type": "array", "items": {"type": "string"}}, "speciality": {"type": "string"}, "academic_year": {"type": "object", "properties": {"id": {"type": "string"}, "name": {"type": "string"}}}},
            "required": ["name", "class_ids"]
        },
        "UpdateGroupRequest": {
            "type": "object",
            "properties": {"name": {"type": "string"}, "description": {"type": "string"}, "student_ids": {"type": "array", "items": {"type": "string"}}, "class_ids": {"type": "array", "items": {"type": "string"}}}
        },
        "CreateClassRequest": {
            "type": "object",
            "properties": {"name": {"type": "string"}, "teacher_id": {"type": "string"}, "description": {"type": "string"}},
            "required": ["name"]
        },
        "StudentInput": {
            "type": "object",
            "properties": {"name": {"type": "string"}, "email": {"type": "string"}, "class_id": {"type": "string"}},
            "required": ["name", "email", "class_id"]
        },
        "CreateTeacherRequest": {
            "type": "object",
            "properties": {"name": {"type": "string"}, "email": {"type": "string"}},
            "required": ["name", "email"]
        },
        "ExportRequest": {
            "type": "object",
            "properties": {"teacher_id": {"type": "string"}, "group_id": {"type": "string"}, "class_id": {"type": "string"}, "academic_year_id": {"type": "string"}, "format": {"type": "string", "enum": ["pdf", "csv", "xlsx"]}},
            "required": ["group_id", "class_id", "academic_year_id", "format"]
        },
        "SyncRequest": {
            "type": "object",
            "properties": {"teacher_id": {"type": "string"}, "group_id": {"type": "string"}, "academic_year_id": {"type": "string"}}
        },
        "APIError": {
            "type": "object",
            "properties": {"code": {"type": "string"}, "message": {"type": "string"}, "status": {"type": "integer"}, "details": {"type": "object"}}
        },
        "ResponseMeta": {
            "type": "object",
            "properties": {"request_id": {"type": "string"}, "count": {"type": "integer"}}
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {"data": {"type": "object"}, "error": {"$ref": "#/definitions/APIError"}, "meta": {"$ref": "#/definitions/ResponseMeta"}}
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
