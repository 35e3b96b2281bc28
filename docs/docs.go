// Package docs registers GreenGauge's OpenAPI description with swag so
// http-swagger can serve it at /swagger/doc.json. Keep it in step with the
// handler annotations (swag init -g main.go).
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/signup": {
            "post": {
                "tags": ["Auth"],
                "summary": "Create an account",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/auth.SignupRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/auth.AuthResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "409": {"description": "Username taken", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/signin": {
            "post": {
                "tags": ["Auth"],
                "summary": "Sign in",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/auth.SigninRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/auth.AuthResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Auth"],
                "summary": "Exchange a refresh token for a new access token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/auth.RefreshTokenRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/auth.AuthResponse"}},
                    "401": {"description": "Invalid token", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/users/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Get current user's profile",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/users.UserProfileResponse"}},
                    "401": {"description": "Invalid or missing token", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Update current user's profile",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/users.UpdateUserProfileRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/users.UserProfileResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/save-purchase": {
            "post": {
                "tags": ["Ledger"],
                "summary": "Record a purchase",
                "description": "Numeric metrics may be numbers or numeric strings.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/ledger.SavePurchaseRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ledger.SavePurchaseResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/purchase-history/{userId}": {
            "get": {
                "tags": ["Ledger"],
                "summary": "Purchase history, newest first",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "userId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ledger.PurchaseHistoryResponse"}}
                }
            }
        },
        "/purchase-history/{userId}/impact": {
            "get": {
                "tags": ["Ledger"],
                "summary": "Environmental impact summary",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "userId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ledger.ImpactResponse"}}
                }
            }
        },
        "/leaderboard": {
            "get": {
                "tags": ["Leaderboard"],
                "summary": "Leaderboard",
                "produces": ["application/json"],
                "parameters": [{"type": "integer", "name": "limit", "in": "query", "description": "Number of users (1-100)"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/leaderboard.LeaderboardResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "500": {"description": "Aggregation failed", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/leaderboard/snapshots/latest": {
            "get": {
                "tags": ["Leaderboard"],
                "summary": "Latest leaderboard snapshot",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/leaderboard.Snapshot"}},
                    "404": {"description": "No snapshot yet", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/events": {
            "get": {
                "tags": ["Events"],
                "summary": "Live event stream",
                "description": "Server-sent events: purchase.recorded and leaderboard.snapshot.",
                "produces": ["text/event-stream"],
                "responses": {"200": {"description": "Event stream"}}
            }
        },
        "/upload-product": {
            "post": {
                "tags": ["Analysis"],
                "summary": "Analyze a product photo",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "parameters": [{"type": "file", "name": "productImage", "in": "formData", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/analysis.Analysis"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "502": {"description": "Analysis failed", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/stores": {
            "get": {
                "tags": ["Places"],
                "summary": "Find sustainable stores",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "number", "name": "lat", "in": "query", "required": true},
                    {"type": "number", "name": "lng", "in": "query", "required": true},
                    {"type": "string", "name": "q", "in": "query"},
                    {"type": "string", "name": "type", "in": "query", "enum": ["zero_waste", "refill_station", "ethical_market", "all"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/places.StoresResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "502": {"description": "Search failed", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/api/posts": {
            "get": {
                "tags": ["Posts"],
                "summary": "List posts",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/posts.Summary"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Posts"],
                "summary": "Create a post",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "title", "in": "formData", "required": true},
                    {"type": "string", "name": "content", "in": "formData", "required": true},
                    {"type": "file", "name": "image", "in": "formData", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/posts.Post"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/api/posts/{id}": {
            "get": {
                "tags": ["Posts"],
                "summary": "Get a post with its comments",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/posts.Detail"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/api/posts/{id}/comments": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Posts"],
                "summary": "Comment on a post",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/comments.NewCommentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/comments.Comment"}},
                    "404": {"description": "Post not found", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/api/posts/{id}/like": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Posts"],
                "summary": "Like or unlike a post",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/posts.LikeResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "apperror.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "field": {"type": "string"}
            }
        },
        "auth.SignupRequest": {
            "type": "object",
            "required": ["username", "firstName", "lastName", "password"],
            "properties": {
                "username": {"type": "string", "example": "jane@example.com"},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "password": {"type": "string", "minLength": 6}
            }
        },
        "auth.SigninRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "auth.RefreshTokenRequest": {
            "type": "object",
            "required": ["refreshToken"],
            "properties": {"refreshToken": {"type": "string"}}
        },
        "auth.AuthResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "token": {"type": "string"},
                "refreshToken": {"type": "string"},
                "tokenType": {"type": "string"},
                "expiresAt": {"type": "string"},
                "user": {"$ref": "#/definitions/users.UserProfileResponse"}
            }
        },
        "users.UserProfileResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "username": {"type": "string"},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "createdAt": {"type": "string"}
            }
        },
        "users.UpdateUserProfileRequest": {
            "type": "object",
            "properties": {
                "firstName": {"type": "string"},
                "lastName": {"type": "string"}
            }
        },
        "ledger.ProductMetricsInput": {
            "type": "object",
            "required": ["product", "eco_score", "water_usage", "carbon_footprint"],
            "properties": {
                "product": {"type": "string", "example": "Plastic Bottle"},
                "eco_score": {"type": "string", "example": "3"},
                "water_usage": {"type": "string", "example": "3"},
                "carbon_footprint": {"type": "string", "example": "0.08"},
                "waste_generated": {"type": "string", "example": "0.02"}
            }
        },
        "ledger.ProductMetrics": {
            "type": "object",
            "properties": {
                "product": {"type": "string"},
                "eco_score": {"type": "number"},
                "water_usage": {"type": "number"},
                "carbon_footprint": {"type": "number"},
                "waste_generated": {"type": "number"}
            }
        },
        "ledger.SavePurchaseRequest": {
            "type": "object",
            "required": ["userId", "purchased", "alternative"],
            "properties": {
                "userId": {"type": "string"},
                "purchased": {"$ref": "#/definitions/ledger.ProductMetricsInput"},
                "alternative": {"$ref": "#/definitions/ledger.ProductMetricsInput"}
            }
        },
        "ledger.PurchaseEntry": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "userId": {"type": "string"},
                "purchaseDate": {"type": "string"},
                "purchased": {"$ref": "#/definitions/ledger.ProductMetrics"},
                "alternative": {"$ref": "#/definitions/ledger.ProductMetrics"}
            }
        },
        "ledger.SavePurchaseResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "purchase": {"$ref": "#/definitions/ledger.PurchaseEntry"}
            }
        },
        "ledger.PurchaseHistoryResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "purchases": {"type": "array", "items": {"$ref": "#/definitions/ledger.PurchaseEntry"}}
            }
        },
        "ledger.ImpactSummary": {
            "type": "object",
            "properties": {
                "purchases": {"type": "integer"},
                "averageEcoScore": {"type": "number"},
                "averageAlternativeEcoScore": {"type": "number"},
                "carbonSaved": {"type": "number"},
                "waterSaved": {"type": "number"},
                "wasteSaved": {"type": "number"},
                "wasteCompared": {"type": "integer"}
            }
        },
        "ledger.ImpactResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "impact": {"$ref": "#/definitions/ledger.ImpactSummary"}
            }
        },
        "leaderboard.Row": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "username": {"type": "string"},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "eco_score": {"type": "integer"},
                "average": {"type": "number"},
                "purchases": {"type": "integer"}
            }
        },
        "leaderboard.LeaderboardResponse": {
            "type": "object",
            "properties": {
                "users": {"type": "array", "items": {"$ref": "#/definitions/leaderboard.Row"}}
            }
        },
        "leaderboard.Snapshot": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "takenAt": {"type": "string"},
                "size": {"type": "integer"},
                "entries": {"type": "array", "items": {"$ref": "#/definitions/leaderboard.Row"}}
            }
        },
        "analysis.ProductReport": {
            "type": "object",
            "properties": {
                "product": {"type": "string"},
                "eco_score": {"type": "string"},
                "carbon_footprint": {"type": "string"},
                "water_usage": {"type": "string"},
                "waste_generated": {"type": "string"}
            }
        },
        "analysis.Analysis": {
            "type": "object",
            "properties": {
                "product_searched": {"$ref": "#/definitions/analysis.ProductReport"},
                "better_alternative_product": {"$ref": "#/definitions/analysis.ProductReport"}
            }
        },
        "places.Store": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "address": {"type": "string"},
                "rating": {"type": "number"},
                "types": {"type": "array", "items": {"type": "string"}},
                "vicinity": {"type": "string"},
                "geometry": {
                    "type": "object",
                    "properties": {
                        "location": {
                            "type": "object",
                            "properties": {"lat": {"type": "number"}, "lng": {"type": "number"}}
                        }
                    }
                }
            }
        },
        "places.StoresResponse": {
            "type": "object",
            "properties": {
                "stores": {"type": "array", "items": {"$ref": "#/definitions/places.Store"}}
            }
        },
        "posts.Summary": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "content": {"type": "string"},
                "image_url": {"type": "string"},
                "slug": {"type": "string"},
                "created_at": {"type": "string"},
                "profiles": {"type": "object", "properties": {"username": {"type": "string"}}},
                "likes_count": {"type": "integer"},
                "comments_count": {"type": "integer"}
            }
        },
        "posts.Detail": {
            "allOf": [
                {"$ref": "#/definitions/posts.Summary"},
                {
                    "type": "object",
                    "properties": {
                        "comments": {"type": "array", "items": {"$ref": "#/definitions/comments.Comment"}}
                    }
                }
            ]
        },
        "posts.Post": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "creatorId": {"type": "string"},
                "title": {"type": "string"},
                "content": {"type": "string"},
                "image_url": {"type": "string"},
                "slug": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "posts.LikeResponse": {
            "type": "object",
            "properties": {"likes": {"type": "integer"}}
        },
        "comments.NewCommentRequest": {
            "type": "object",
            "required": ["content"],
            "properties": {"content": {"type": "string", "maxLength": 2000}}
        },
        "comments.Comment": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "postId": {"type": "string"},
                "userId": {"type": "string"},
                "content": {"type": "string"},
                "created_at": {"type": "string"},
                "profiles": {"type": "object", "properties": {"username": {"type": "string"}}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type 'Bearer YOUR_JWT_TOKEN' to authorize",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "GreenGauge API",
	Description:      "Track the eco impact of purchases, compare users on a leaderboard and share greener swaps.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
