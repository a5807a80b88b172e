// Package docs holds the OpenAPI description served at /swagger/doc.json.
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
        "/predict/{team}": {
            "get": {
                "security": [{"ApiKey": []}],
                "description": "Predicts formation, starting XI and substitutes for the team's next (or given) fixture",
                "produces": ["application/json"],
                "tags": ["Predictions"],
                "summary": "Predict lineup",
                "parameters": [
                    {"type": "string", "description": "Team name", "name": "team", "in": "path", "required": true},
                    {"type": "integer", "description": "Fixture ID", "name": "fixture", "in": "query"},
                    {"type": "boolean", "default": true, "description": "Use news signals", "name": "news", "in": "query"},
                    {"type": "boolean", "default": true, "description": "Use injury signals", "name": "injuries", "in": "query"},
                    {"type": "boolean", "default": true, "description": "Use player form", "name": "form", "in": "query"},
                    {"type": "boolean", "default": true, "description": "Use recent lineups", "name": "historical", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.LineupPrediction"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/predictions/recent": {
            "get": {
                "security": [{"ApiKey": []}],
                "produces": ["application/json"],
                "tags": ["Predictions"],
                "summary": "Recent predictions",
                "parameters": [
                    {"type": "integer", "default": 10, "description": "Max rows (1-100)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.PredictionRecord"}}}
                }
            }
        },
        "/predictions/{id}": {
            "get": {
                "security": [{"ApiKey": []}],
                "produces": ["application/json"],
                "tags": ["Predictions"],
                "summary": "Get stored prediction",
                "parameters": [
                    {"type": "string", "description": "Prediction ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.PredictionRecord"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/teams/{team}/predictions": {
            "get": {
                "security": [{"ApiKey": []}],
                "produces": ["application/json"],
                "tags": ["Predictions"],
                "summary": "Team prediction history",
                "parameters": [
                    {"type": "string", "description": "Team name", "name": "team", "in": "path", "required": true},
                    {"type": "integer", "default": 10, "description": "Max rows (1-100)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.PredictionRecord"}}}
                }
            }
        },
        "/teams/{team}/last-lineup": {
            "get": {
                "security": [{"ApiKey": []}],
                "produces": ["application/json"],
                "tags": ["Teams"],
                "summary": "Last lineup",
                "parameters": [
                    {"type": "string", "description": "Team name", "name": "team", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.LastLineupResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/analytics/injuries/{team}": {
            "get": {
                "security": [{"ApiKey": []}],
                "produces": ["application/json"],
                "tags": ["Analytics"],
                "summary": "Team injuries",
                "parameters": [
                    {"type": "string", "description": "Team name", "name": "team", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.InjuriesResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/analytics/news/{team}": {
            "get": {
                "security": [{"ApiKey": []}],
                "produces": ["application/json"],
                "tags": ["Analytics"],
                "summary": "Team news insight",
                "parameters": [
                    {"type": "string", "description": "Team name", "name": "team", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.NewsInsight"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/analytics/player-availability/{team}/{player}": {
            "get": {
                "security": [{"ApiKey": []}],
                "produces": ["application/json"],
                "tags": ["Analytics"],
                "summary": "Player availability",
                "parameters": [
                    {"type": "string", "description": "Team name", "name": "team", "in": "path", "required": true},
                    {"type": "string", "description": "Player name", "name": "player", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.PlayerAvailability"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "request_id": {"type": "string"}
            }
        },
        "models.PlayerRecord": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "number": {"type": "integer"},
                "position": {"type": "string"},
                "detail": {"type": "string"},
                "age": {"type": "integer"}
            }
        },
        "models.LineupPrediction": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "team_name": {"type": "string"},
                "team_id": {"type": "integer"},
                "fixture_id": {"type": "integer"},
                "opponent": {"type": "string"},
                "match_date": {"type": "string"},
                "formation": {"type": "string"},
                "starting_xi": {"type": "array", "items": {"$ref": "#/definitions/models.PlayerRecord"}},
                "substitutes": {"type": "array", "items": {"$ref": "#/definitions/models.PlayerRecord"}},
                "confidence": {"type": "number"},
                "key_insights": {"type": "array", "items": {"type": "string"}},
                "player_scores": {"type": "object", "additionalProperties": {"type": "number"}},
                "injury_impact": {"type": "number"},
                "predicted_at": {"type": "string"},
                "cached": {"type": "boolean"}
            }
        },
        "models.PredictionRecord": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "team_name": {"type": "string"},
                "fixture_id": {"type": "integer"},
                "formation": {"type": "string"},
                "lineup": {"type": "object"},
                "confidence": {"type": "number"},
                "created_at": {"type": "string"},
                "created_by": {"type": "string"}
            }
        },
        "models.LastLineupResponse": {
            "type": "object",
            "properties": {
                "team": {"type": "string"},
                "formation": {"type": "string"},
                "players": {"type": "array", "items": {"$ref": "#/definitions/models.PlayerRecord"}}
            }
        },
        "models.InjuriesResponse": {
            "type": "object",
            "properties": {
                "team": {"type": "string"},
                "injuries": {"type": "array", "items": {"type": "object"}},
                "long_term": {"type": "array", "items": {"type": "object"}},
                "impact_score": {"type": "number"},
                "total_injured": {"type": "integer"}
            }
        },
        "models.NewsInsight": {
            "type": "object",
            "properties": {
                "likely_starters": {"type": "object", "additionalProperties": {"type": "number"}},
                "doubtful": {"type": "object", "additionalProperties": {"type": "number"}},
                "ruled_out": {"type": "object", "additionalProperties": {"type": "number"}},
                "formation_hint": {"type": "string"},
                "confidence": {"type": "number"},
                "source_count": {"type": "integer"}
            }
        },
        "models.PlayerAvailability": {
            "type": "object",
            "properties": {
                "player_name": {"type": "string"},
                "available": {"type": "boolean"},
                "status": {"type": "string"},
                "reason": {"type": "string"},
                "severity": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "ApiKey": {
            "type": "apiKey",
            "name": "X-API-Key",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Lineup Prediction API",
	Description:      "Predicts football starting lineups from squad, injury, news and history data.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
