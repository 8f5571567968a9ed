// Package docs holds the OpenAPI document served at /swagger.
// Regenerate with: swag init -g cmd/server/main.go
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
		"/api/rpc/auth.signIn": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Sign in",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Request",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.SignInRequest"
						}
					}
				]
			}
		},
		"/api/rpc/auth.signOut": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Sign out",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/rpc/profile.getMe": {
			"get": {
				"tags": [
					"profile"
				],
				"summary": "Current user",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/rpc/profile.getOnboarding": {
			"get": {
				"tags": [
					"profile"
				],
				"summary": "Next onboarding step",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/rpc/profile.getFactions": {
			"get": {
				"tags": [
					"profile"
				],
				"summary": "Branches a participant can belong to",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/rpc/freshmens.register": {
			"post": {
				"tags": [
					"freshmens"
				],
				"summary": "Register as a freshman",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Request",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.RegisterFreshmanRequest"
						}
					}
				]
			}
		},
		"/api/rpc/freshmens.redeemPasscode": {
			"post": {
				"tags": [
					"freshmens"
				],
				"summary": "Redeem a sophomore's passcode",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Request",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.RedeemPasscodeRequest"
						}
					}
				]
			}
		},
		"/api/rpc/freshmens.revealHint": {
			"post": {
				"tags": [
					"freshmens"
				],
				"summary": "Reveal the next hint of the paired sophomore",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/rpc/freshmens.getMyPair": {
			"get": {
				"tags": [
					"freshmens"
				],
				"summary": "The freshman's pair",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/rpc/freshmens.getVerses": {
			"get": {
				"tags": [
					"freshmens"
				],
				"summary": "The freshman's main page",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/rpc/freshmens.getRevealedHints": {
			"get": {
				"tags": [
					"freshmens"
				],
				"summary": "Hints revealed so far",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/rpc/sophomores.register": {
			"post": {
				"tags": [
					"sophomores"
				],
				"summary": "Register as a sophomore",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/rpc/sophomores.submitHints": {
			"post": {
				"tags": [
					"sophomores"
				],
				"summary": "Submit hints",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Request",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.SubmitHintsRequest"
						}
					}
				]
			}
		},
		"/api/rpc/sophomores.getMyHints": {
			"get": {
				"tags": [
					"sophomores"
				],
				"summary": "The sophomore's own hints",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/rpc/sophomores.getMyPasscode": {
			"get": {
				"tags": [
					"sophomores"
				],
				"summary": "The sophomore's current passcode",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/rpc/sophomores.getMyPairs": {
			"get": {
				"tags": [
					"sophomores"
				],
				"summary": "Pairs the sophomore belongs to",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/rpc/resin.getMyQuota": {
			"get": {
				"tags": [
					"resin"
				],
				"summary": "Resin left across all pools",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/rpc/resin.createTodayResinPool": {
			"post": {
				"tags": [
					"resin"
				],
				"summary": "Claim today's resin",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/rpc/hints.getPrices": {
			"get": {
				"tags": [
					"hints"
				],
				"summary": "Reveal price per hint index",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/rpc/hints.getSlugs": {
			"get": {
				"tags": [
					"hints"
				],
				"summary": "Hint catalog in reveal order",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/api/rpc/pairs.assign": {
			"post": {
				"tags": [
					"pairs"
				],
				"summary": "Pair a freshman with a sophomore",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Request",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.AssignPairRequest"
						}
					}
				],
				"security": [
					{
						"AdminKey": []
					}
				]
			}
		},
		"/api/cron/resin": {
			"get": {
				"tags": [
					"cron"
				],
				"summary": "Create today's resin pool for every freshman",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				},
				"security": [
					{
						"AdminKey": []
					}
				]
			}
		},
		"/ws/pair/{id}": {
			"get": {
				"tags": [
					"websocket"
				],
				"summary": "WebSocket connection for pair updates",
				"parameters": [
					{
						"type": "integer",
						"description": "Pair ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {}
			}
		}
	},
	"definitions": {
		"handlers.ErrorResponse": {
			"type": "object",
			"properties": {
				"code": {
					"type": "string",
					"example": "BAD_REQUEST"
				},
				"error": {
					"type": "string",
					"example": "something went wrong"
				}
			}
		},
		"handlers.SignInRequest": {
			"type": "object",
			"properties": {
				"email": {
					"type": "string"
				},
				"name": {
					"type": "string"
				},
				"image": {
					"type": "string"
				}
			},
			"required": [
				"email"
			]
		},
		"handlers.RegisterFreshmanRequest": {
			"type": "object",
			"properties": {
				"first_name": {
					"type": "string"
				},
				"last_name": {
					"type": "string"
				},
				"nickname": {
					"type": "string"
				},
				"branch": {
					"type": "string",
					"enum": [
						"IT",
						"DSBA",
						"BIT",
						"AIT"
					]
				},
				"phone": {
					"type": "string"
				},
				"facebook_url": {
					"type": "string"
				},
				"instagram_url": {
					"type": "string"
				}
			},
			"required": [
				"first_name",
				"last_name",
				"nickname",
				"branch"
			]
		},
		"handlers.RedeemPasscodeRequest": {
			"type": "object",
			"properties": {
				"passcode": {
					"type": "string",
					"example": "K7WQ2M"
				}
			},
			"required": [
				"passcode"
			]
		},
		"handlers.HintItem": {
			"type": "object",
			"properties": {
				"slug": {
					"type": "string"
				},
				"content": {
					"type": "string"
				}
			},
			"required": [
				"slug",
				"content"
			]
		},
		"handlers.SubmitHintsRequest": {
			"type": "object",
			"properties": {
				"hints": {
					"type": "array",
					"maxItems": 10,
					"minItems": 1,
					"items": {
						"$ref": "#/definitions/handlers.HintItem"
					}
				}
			},
			"required": [
				"hints"
			]
		},
		"handlers.AssignPairRequest": {
			"type": "object",
			"properties": {
				"freshman_id": {
					"type": "integer"
				},
				"sophomore_id": {
					"type": "integer"
				}
			},
			"required": [
				"freshman_id",
				"sophomore_id"
			]
		}
	},
	"securityDefinitions": {
		"AdminKey": {
			"type": "apiKey",
			"name": "X-Admin-Key",
			"in": "header"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:		  "1.0",
	Host:			 "localhost:8080",
	BasePath:		 "/",
	Schemes:		  []string{},
	Title:			"Sairahut API",
	Description:	  "Registration and resin / passcode / hint economy for the Sairahut onboarding event",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:		"{{",
	RightDelim:	   "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
