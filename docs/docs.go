// Package docs holds the Swagger 2.0 document for the API, built from the
// controllers' godoc annotations. Regenerate with `go generate ./cmd/api`.
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
        "/api/assessments/sessions": {
            "post": {
                "description": "Loads previously saved answers and starts the countdown",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "assessments"
                ],
                "summary": "Start a test",
                "parameters": [
                    {
                        "description": "Test",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/assessment.startSessionRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/assessment.SessionState"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                }
            }
        },
        "/api/assessments/sessions/{id}": {
            "delete": {
                "description": "Ends the session; unsubmitted answers are saved once",
                "tags": [
                    "assessments"
                ],
                "summary": "Leave a test",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Session ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    }
                }
            },
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "assessments"
                ],
                "summary": "Get test session state",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Session ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/assessment.SessionState"
                        }
                    }
                }
            }
        },
        "/api/assessments/sessions/{id}/answers": {
            "put": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "assessments"
                ],
                "summary": "Answer a question",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Session ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Answer",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/assessment.answerRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/assessment.SessionState"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                }
            }
        },
        "/api/assessments/sessions/{id}/submit": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "assessments"
                ],
                "summary": "Submit a test for grading",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Session ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/assessment.SessionState"
                        }
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    },
                    "502": {
                        "description": "Bad Gateway",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                }
            }
        },
        "/api/assessments/tests": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "assessments"
                ],
                "summary": "List tests",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/assessment.Test"
                            }
                        }
                    }
                }
            }
        },
        "/api/auth/callback": {
            "get": {
                "description": "Exchanges the authorization code for tokens",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "auth"
                ],
                "summary": "Complete sign in",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Authorization code",
                        "name": "code",
                        "in": "query",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Login state",
                        "name": "state",
                        "in": "query",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/auth.TokenResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                }
            }
        },
        "/api/auth/login": {
            "get": {
                "description": "Redirects the browser to the identity provider",
                "tags": [
                    "auth"
                ],
                "summary": "Sign in",
                "responses": {
                    "302": {
                        "description": "Found"
                    }
                }
            }
        },
        "/api/auth/logout": {
            "get": {
                "description": "Redirects the browser to the identity provider's logout page",
                "tags": [
                    "auth"
                ],
                "summary": "Sign out",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Where to land after logout",
                        "name": "return_to",
                        "in": "query"
                    }
                ],
                "responses": {
                    "302": {
                        "description": "Found"
                    }
                }
            }
        },
        "/api/auth/me": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "auth"
                ],
                "summary": "Current user",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/identity.User"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                }
            }
        },
        "/api/auth/refresh": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "auth"
                ],
                "summary": "Refresh the access token",
                "parameters": [
                    {
                        "description": "Refresh token",
                        "name": "input",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/auth.RefreshRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/auth.TokenResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                }
            }
        },
        "/api/import/schemas": {
            "get": {
                "description": "Returns the schema of every table that accepts bulk imports",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "import"
                ],
                "summary": "List target tables",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/import_feature.TableSchema"
                            }
                        }
                    }
                }
            }
        },
        "/api/import/sessions": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "import"
                ],
                "summary": "Start an import wizard",
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/import_feature.State"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                }
            }
        },
        "/api/import/sessions/{id}": {
            "delete": {
                "tags": [
                    "import"
                ],
                "summary": "Close an import wizard",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Session ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    }
                }
            },
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "import"
                ],
                "summary": "Get import wizard state",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Session ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/import_feature.State"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                }
            }
        },
        "/api/import/sessions/{id}/back": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "import"
                ],
                "summary": "Go back one step",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Session ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/import_feature.State"
                        }
                    }
                }
            }
        },
        "/api/import/sessions/{id}/confirm": {
            "post": {
                "description": "Enters the Submit step and starts the upload in the background",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "import"
                ],
                "summary": "Confirm and submit",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Session ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "202": {
                        "description": "Accepted",
                        "schema": {
                            "$ref": "#/definitions/import_feature.State"
                        }
                    }
                }
            }
        },
        "/api/import/sessions/{id}/continue": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "import"
                ],
                "summary": "Continue to Preview",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Session ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/import_feature.State"
                        }
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                }
            }
        },
        "/api/import/sessions/{id}/file": {
            "post": {
                "description": "Parses a CSV or XLSX file and moves the wizard to the Map step",
                "consumes": [
                    "multipart/form-data"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "import"
                ],
                "summary": "Choose the source file",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Session ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "file",
                        "description": "Import File",
                        "name": "file",
                        "in": "formData",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Target table",
                        "name": "target_table",
                        "in": "formData",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/import_feature.State"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    },
                    "413": {
                        "description": "Request Entity Too Large",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                }
            }
        },
        "/api/import/sessions/{id}/mapping": {
            "put": {
                "description": "Assigns a source column to a field, or clears it with target \"none\"",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "import"
                ],
                "summary": "Edit the column mapping",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Session ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Mapping change",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/import_feature.setMappingRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/import_feature.State"
                        }
                    }
                }
            }
        },
        "/api/import/sessions/{id}/rejections": {
            "get": {
                "produces": [
                    "text/csv"
                ],
                "tags": [
                    "import"
                ],
                "summary": "Download rejected rows",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Session ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    },
                    "502": {
                        "description": "Bad Gateway",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                }
            }
        },
        "/api/import/sessions/{id}/reset": {
            "post": {
                "description": "Discards the file, mapping and submission and returns to Upload",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "import"
                ],
                "summary": "Start over",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Session ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/import_feature.State"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                }
            }
        },
        "/api/import/sessions/{id}/retry": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "import"
                ],
                "summary": "Retry a failed submission",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Session ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "202": {
                        "description": "Accepted",
                        "schema": {
                            "$ref": "#/definitions/import_feature.State"
                        }
                    }
                }
            }
        },
        "/api/import/sessions/{id}/table": {
            "put": {
                "description": "Switches the target table during the Map step and re-runs auto-matching",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "import"
                ],
                "summary": "Change the target table",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Session ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Target table",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/import_feature.changeTableRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/import_feature.State"
                        }
                    }
                }
            }
        },
        "/api/sweeps": {
            "get": {
                "description": "Recent idle-session sweep runs, newest first",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "sweep"
                ],
                "summary": "List sweep runs",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Maximum runs to return",
                        "name": "limit",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/cron_feature.SweepRun"
                            }
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                }
            }
        },
        "/api/sweeps/run": {
            "post": {
                "description": "Close idle import and assessment sessions immediately",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "sweep"
                ],
                "summary": "Run sweep",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/cron_feature.SweepRun"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                }
            }
        },
        "/health": {
            "get": {
                "description": "Reports the resolved backend URL and session store reachability",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "system"
                ],
                "summary": "Service health",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/system.HealthStatus"
                        }
                    },
                    "503": {
                        "description": "Service Unavailable",
                        "schema": {
                            "$ref": "#/definitions/system.HealthStatus"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "assessment.Option": {
            "type": "object",
            "properties": {
                "key": {
                    "type": "string"
                },
                "text": {
                    "type": "string"
                }
            }
        },
        "assessment.Question": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "options": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/assessment.Option"
                    }
                },
                "prompt": {
                    "type": "string"
                },
                "trait": {
                    "type": "string"
                }
            }
        },
        "assessment.Result": {
            "type": "object",
            "properties": {
                "holland_code": {
                    "type": "string"
                },
                "kind": {
                    "$ref": "#/definitions/backend.GradeKind"
                },
                "score": {
                    "type": "number"
                },
                "test_name": {
                    "type": "string"
                },
                "traits": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "number"
                    }
                }
            }
        },
        "assessment.SessionState": {
            "type": "object",
            "properties": {
                "answered": {
                    "type": "integer"
                },
                "answers": {
                    "$ref": "#/definitions/backend.Answers"
                },
                "error": {
                    "type": "string"
                },
                "id": {
                    "type": "string"
                },
                "redirect": {
                    "type": "string"
                },
                "result": {
                    "$ref": "#/definitions/assessment.Result"
                },
                "status": {
                    "$ref": "#/definitions/assessment.Status"
                },
                "test_name": {
                    "type": "string"
                },
                "timer": {
                    "$ref": "#/definitions/assessment.TimerState"
                },
                "title": {
                    "type": "string"
                },
                "total": {
                    "type": "integer"
                },
                "updated_at": {
                    "type": "string"
                }
            }
        },
        "assessment.Status": {
            "type": "string",
            "enum": [
                "in_progress",
                "submitting",
                "submitted",
                "expired"
            ],
            "x-enum-comments": {
                "StatusExpired": "StatusExpired means time ran out and the automatic submit failed."
            },
            "x-enum-varnames": [
                "StatusInProgress",
                "StatusSubmitting",
                "StatusSubmitted",
                "StatusExpired"
            ]
        },
        "assessment.Test": {
            "type": "object",
            "properties": {
                "duration_minutes": {
                    "type": "integer"
                },
                "kind": {
                    "$ref": "#/definitions/backend.GradeKind"
                },
                "name": {
                    "type": "string"
                },
                "questions": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/assessment.Question"
                    }
                },
                "title": {
                    "type": "string"
                }
            }
        },
        "assessment.TimerState": {
            "type": "object",
            "properties": {
                "expired": {
                    "type": "boolean"
                },
                "formatted_time": {
                    "type": "string"
                },
                "percentage": {
                    "type": "number"
                },
                "remaining_seconds": {
                    "type": "integer"
                },
                "submitting": {
                    "type": "boolean"
                },
                "total_seconds": {
                    "type": "integer"
                },
                "urgency": {
                    "$ref": "#/definitions/assessment.Urgency"
                }
            }
        },
        "assessment.Urgency": {
            "type": "string",
            "enum": [
                "normal",
                "warning",
                "critical"
            ],
            "x-enum-varnames": [
                "UrgencyNormal",
                "UrgencyWarning",
                "UrgencyCritical"
            ]
        },
        "assessment.answerRequest": {
            "type": "object",
            "properties": {
                "option": {
                    "type": "string"
                },
                "question_id": {
                    "type": "string"
                }
            }
        },
        "assessment.startSessionRequest": {
            "type": "object",
            "properties": {
                "test_name": {
                    "type": "string"
                }
            }
        },
        "auth.RefreshRequest": {
            "type": "object",
            "properties": {
                "refresh_token": {
                    "type": "string"
                }
            }
        },
        "auth.TokenResponse": {
            "type": "object",
            "properties": {
                "access_token": {
                    "type": "string"
                },
                "refresh_token": {
                    "type": "string"
                },
                "user": {
                    "$ref": "#/definitions/identity.User"
                }
            }
        },
        "backend.Answers": {
            "type": "object",
            "additionalProperties": {
                "type": "string"
            }
        },
        "backend.GradeKind": {
            "type": "string",
            "enum": [
                "percentage",
                "traits"
            ],
            "x-enum-varnames": [
                "GradeKindPercentage",
                "GradeKindTraits"
            ]
        },
        "backend.ImportJob": {
            "type": "object",
            "properties": {
                "completed_at": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string"
                },
                "error_message": {
                    "type": "string"
                },
                "has_rejections": {
                    "type": "boolean"
                },
                "id": {
                    "type": "string"
                },
                "invalid_rows": {
                    "type": "integer"
                },
                "started_at": {
                    "type": "string"
                },
                "status": {
                    "$ref": "#/definitions/backend.JobStatus"
                },
                "target_table": {
                    "type": "string"
                },
                "total_rows": {
                    "type": "integer"
                },
                "valid_rows": {
                    "type": "integer"
                }
            }
        },
        "backend.JobStatus": {
            "type": "string",
            "enum": [
                "pending",
                "processing",
                "completed",
                "failed"
            ],
            "x-enum-varnames": [
                "JobStatusPending",
                "JobStatusProcessing",
                "JobStatusCompleted",
                "JobStatusFailed"
            ]
        },
        "cron_feature.SweepResult": {
            "type": "object",
            "properties": {
                "closed": {
                    "type": "integer"
                },
                "error": {
                    "type": "string"
                },
                "sweeper": {
                    "type": "string"
                }
            }
        },
        "cron_feature.SweepRun": {
            "type": "object",
            "properties": {
                "completed_at": {
                    "type": "string"
                },
                "duration_ms": {
                    "type": "integer"
                },
                "id": {
                    "type": "string"
                },
                "results": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/cron_feature.SweepResult"
                    }
                },
                "started_at": {
                    "type": "string"
                },
                "status": {
                    "$ref": "#/definitions/cron_feature.SweepStatus"
                },
                "trigger": {
                    "type": "string"
                }
            }
        },
        "cron_feature.SweepStatus": {
            "type": "string",
            "enum": [
                "success",
                "partial",
                "failed"
            ],
            "x-enum-varnames": [
                "SweepStatusSuccess",
                "SweepStatusPartial",
                "SweepStatusFailed"
            ]
        },
        "identity.User": {
            "type": "object",
            "properties": {
                "email": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "sub": {
                    "type": "string"
                }
            }
        },
        "import_feature.ColumnMapping": {
            "type": "object",
            "additionalProperties": {
                "type": "string"
            }
        },
        "import_feature.FieldDefinition": {
            "type": "object",
            "properties": {
                "description": {
                    "type": "string"
                },
                "label": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "required": {
                    "type": "boolean"
                },
                "type": {
                    "$ref": "#/definitions/import_feature.FieldType"
                }
            }
        },
        "import_feature.FieldType": {
            "type": "string",
            "enum": [
                "text",
                "number",
                "boolean",
                "date",
                "foreign_key"
            ],
            "x-enum-varnames": [
                "FieldTypeText",
                "FieldTypeNumber",
                "FieldTypeBoolean",
                "FieldTypeDate",
                "FieldTypeForeignKey"
            ]
        },
        "import_feature.FileInfo": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "size": {
                    "type": "integer"
                }
            }
        },
        "import_feature.State": {
            "type": "object",
            "properties": {
                "can_continue": {
                    "type": "boolean"
                },
                "file": {
                    "$ref": "#/definitions/import_feature.FileInfo"
                },
                "headers": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "id": {
                    "type": "string"
                },
                "mapping": {
                    "$ref": "#/definitions/import_feature.ColumnMapping"
                },
                "preview_rows": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "additionalProperties": {
                            "type": "string"
                        }
                    }
                },
                "step": {
                    "$ref": "#/definitions/import_feature.Step"
                },
                "submission": {
                    "$ref": "#/definitions/import_feature.Submission"
                },
                "suggestions": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "array",
                        "items": {
                            "$ref": "#/definitions/import_feature.Suggestion"
                        }
                    }
                },
                "target_table": {
                    "$ref": "#/definitions/import_feature.TargetTable"
                },
                "total_rows": {
                    "type": "integer"
                },
                "updated_at": {
                    "type": "string"
                },
                "violations": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "import_feature.Step": {
            "type": "string",
            "enum": [
                "upload",
                "map",
                "preview",
                "submit"
            ],
            "x-enum-varnames": [
                "StepUpload",
                "StepMap",
                "StepPreview",
                "StepSubmit"
            ]
        },
        "import_feature.Submission": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "string"
                },
                "job": {
                    "$ref": "#/definitions/backend.ImportJob"
                },
                "job_id": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "phase": {
                    "$ref": "#/definitions/import_feature.SubmitPhase"
                },
                "upload_progress": {
                    "type": "integer"
                }
            }
        },
        "import_feature.SubmitPhase": {
            "type": "string",
            "enum": [
                "idle",
                "uploading",
                "polling",
                "completed",
                "failed"
            ],
            "x-enum-varnames": [
                "PhaseIdle",
                "PhaseUploading",
                "PhasePolling",
                "PhaseCompleted",
                "PhaseFailed"
            ]
        },
        "import_feature.Suggestion": {
            "type": "object",
            "properties": {
                "field": {
                    "type": "string"
                },
                "label": {
                    "type": "string"
                },
                "score": {
                    "type": "number"
                }
            }
        },
        "import_feature.TableSchema": {
            "type": "object",
            "properties": {
                "display_name": {
                    "type": "string"
                },
                "fields": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/import_feature.FieldDefinition"
                    }
                },
                "target_table": {
                    "$ref": "#/definitions/import_feature.TargetTable"
                }
            }
        },
        "import_feature.TargetTable": {
            "type": "string",
            "enum": [
                "scholarships",
                "programs"
            ],
            "x-enum-varnames": [
                "TableScholarships",
                "TablePrograms"
            ]
        },
        "import_feature.changeTableRequest": {
            "type": "object",
            "properties": {
                "target_table": {
                    "$ref": "#/definitions/import_feature.TargetTable"
                }
            }
        },
        "import_feature.setMappingRequest": {
            "type": "object",
            "properties": {
                "source": {
                    "type": "string"
                },
                "target": {
                    "type": "string"
                }
            }
        },
        "system.HealthStatus": {
            "type": "object",
            "properties": {
                "api_base_url": {
                    "type": "string"
                },
                "environment": {
                    "type": "string"
                },
                "status": {
                    "type": "string"
                },
                "store": {
                    "type": "string"
                },
                "store_ok": {
                    "type": "boolean"
                },
                "uptime": {
                    "type": "string"
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Career Console API",
	Description:      "Bulk import wizard and timed aptitude tests for the career recommendation platform.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
