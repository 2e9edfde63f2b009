package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "description": "TaskBoard API Documentation",
        "title": "TaskBoard API",
        "version": "1.0"
    },
    "host": "localhost:8080",
    "basePath": "/api/v1",
    "schemes": ["http"],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Health"],
                "summary": "Health Check",
                "description": "Check if server is running",
                "responses": {
                    "200": {
                        "description": "Server is healthy"
                    }
                }
            }
        },
        "/api/v1/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "User Registration",
                "description": "Register a new account and receive a token pair",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {
                        "in": "body",
                        "name": "user",
                        "description": "Registration data",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "email": {
                                    "type": "string",
                                    "example": "user@example.com"
                                },
                                "username": {
                                    "type": "string",
                                    "example": "testuser"
                                },
                                "password": {
                                    "type": "string",
                                    "example": "password123"
                                },
                                "first_name": {
                                    "type": "string",
                                    "example": "Test"
                                },
                                "last_name": {
                                    "type": "string",
                                    "example": "User"
                                }
                            }
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Account created"
                    },
                    "400": {
                        "description": "Invalid input"
                    },
                    "409": {
                        "description": "Email or username already taken"
                    }
                }
            }
        },
        "/api/v1/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "User Login",
                "description": "Login with email and password",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {
                        "in": "body",
                        "name": "credentials",
                        "description": "Login credentials",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "email": {
                                    "type": "string",
                                    "example": "user@example.com"
                                },
                                "password": {
                                    "type": "string",
                                    "example": "password123"
                                }
                            }
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Login successful"
                    },
                    "401": {
                        "description": "Invalid credentials"
                    }
                }
            }
        },
        "/api/v1/boards": {
            "get": {
                "tags": ["Boards"],
                "summary": "List Boards",
                "description": "List the boards the caller is a member of",
                "produces": ["application/json"],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Board list"
                    },
                    "401": {
                        "description": "Unauthorized"
                    }
                }
            },
            "post": {
                "tags": ["Boards"],
                "summary": "Create Board",
                "description": "Create a board owned by the caller",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "board",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "name": {
                                    "type": "string",
                                    "example": "Roadmap"
                                },
                                "description": {
                                    "type": "string",
                                    "example": "Q4 planning"
                                }
                            }
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Board created"
                    },
                    "400": {
                        "description": "Invalid input"
                    }
                }
            }
        },
        "/api/v1/boards/{id}/invitations": {
            "post": {
                "tags": ["Invitations"],
                "summary": "Invite to Board",
                "description": "Invite an email address to the board. Known addresses join immediately, unknown ones get a pending invitation.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "integer",
                        "required": true
                    },
                    {
                        "in": "body",
                        "name": "invitation",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "invitee_email": {
                                    "type": "string",
                                    "example": "friend@example.com"
                                },
                                "role": {
                                    "type": "string",
                                    "enum": ["admin", "member"],
                                    "example": "member"
                                }
                            }
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Membership or invitation created"
                    },
                    "403": {
                        "description": "Caller cannot invite"
                    },
                    "409": {
                        "description": "Already a member or already invited"
                    }
                }
            }
        },
        "/api/v1/tasks": {
            "get": {
                "tags": ["Tasks"],
                "summary": "List Tasks",
                "description": "List tasks visible to the caller with optional filters",
                "produces": ["application/json"],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "in": "query",
                        "name": "search",
                        "type": "string"
                    },
                    {
                        "in": "query",
                        "name": "status",
                        "type": "string",
                        "enum": ["todo", "in-progress", "done"]
                    },
                    {
                        "in": "query",
                        "name": "priority",
                        "type": "string",
                        "enum": ["low", "medium", "high"]
                    },
                    {
                        "in": "query",
                        "name": "board",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Task list"
                    },
                    "401": {
                        "description": "Unauthorized"
                    }
                }
            }
        },
        "/api/v1/users/me": {
            "get": {
                "tags": ["Users"],
                "summary": "Get Current User",
                "description": "Get information about the currently authenticated user",
                "produces": ["application/json"],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "User information"
                    },
                    "401": {
                        "description": "Unauthorized"
                    }
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Type 'Bearer' followed by a space and JWT token"
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http"},
	Title:            "TaskBoard API",
	Description:      "TaskBoard API Documentation",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
