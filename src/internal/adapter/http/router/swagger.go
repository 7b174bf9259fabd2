package router

import (
	"fmt"
	"net/http"
)

func registerSwaggerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/", http.StatusMovedPermanently)
	})

	mux.HandleFunc("/swagger/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, swaggerHTML, "/swagger/openapi.json")
	})

	mux.HandleFunc("/swagger/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(openAPI))
	})
}

const swaggerHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <title>Account Balance Service API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = function() {
      window.ui = SwaggerUIBundle({
        url: "%s",
        dom_id: "#swagger-ui"
      });
    };
  </script>
</body>
</html>`

const openAPI = `{
  "openapi": "3.0.3",
  "info": {
    "title": "Account Balance Service API",
    "version": "1.0.0"
  },
  "paths": {
    "/transaction/use": {
      "post": {
        "summary": "Use account balance",
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {"$ref": "#/components/schemas/UseBalanceRequest"}
            }
          }
        },
        "responses": {
          "200": {"description": "Balance used"},
          "400": {"description": "Validation error or account owner mismatch"},
          "404": {"description": "User or account not found"},
          "409": {"description": "Account is being used by another transaction"},
          "422": {"description": "Amount exceeds balance or account unregistered"},
          "500": {"description": "Internal error"}
        }
      }
    },
    "/transaction/cancel": {
      "post": {
        "summary": "Cancel a balance use",
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {"$ref": "#/components/schemas/CancelBalanceRequest"}
            }
          }
        },
        "responses": {
          "200": {"description": "Balance cancelled"},
          "400": {"description": "Validation error or transaction account mismatch"},
          "404": {"description": "Transaction or account not found"},
          "409": {"description": "Account is being used by another transaction"},
          "422": {"description": "Partial cancel or transaction older than one year"},
          "500": {"description": "Internal error"}
        }
      }
    },
    "/transaction/{transactionId}": {
      "get": {
        "summary": "Query a transaction",
        "parameters": [
          {"name": "transactionId", "in": "path", "required": true, "schema": {"type": "string"}}
        ],
        "responses": {
          "200": {"description": "Transaction found"},
          "404": {"description": "Transaction not found"}
        }
      }
    },
    "/account": {
      "post": {
        "summary": "Create account",
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["userId"],
                "properties": {
                  "userId": {"type": "integer", "minimum": 1},
                  "initialBalance": {"type": "integer", "minimum": 0}
                }
              }
            }
          }
        },
        "responses": {
          "201": {"description": "Created"},
          "400": {"description": "Validation error"},
          "404": {"description": "User not found"},
          "422": {"description": "User already owns 10 accounts"}
        }
      },
      "delete": {
        "summary": "Unregister account",
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["userId", "accountNumber"],
                "properties": {
                  "userId": {"type": "integer", "minimum": 1},
                  "accountNumber": {"type": "string", "pattern": "^[0-9]{10}$"}
                }
              }
            }
          }
        },
        "responses": {
          "200": {"description": "Unregistered"},
          "400": {"description": "Validation error or account owner mismatch"},
          "404": {"description": "User or account not found"},
          "409": {"description": "Account is being used by another transaction"},
          "422": {"description": "Balance not empty or already unregistered"}
        }
      },
      "get": {
        "summary": "List accounts of a user",
        "parameters": [
          {"name": "user_id", "in": "query", "required": true, "schema": {"type": "integer", "minimum": 1}}
        ],
        "responses": {
          "200": {"description": "Accounts"},
          "404": {"description": "User not found"}
        }
      }
    },
    "/account/{id}": {
      "get": {
        "summary": "Get account by id",
        "parameters": [
          {"name": "id", "in": "path", "required": true, "schema": {"type": "integer", "minimum": 1}}
        ],
        "responses": {
          "200": {"description": "Account found"},
          "404": {"description": "Account not found"}
        }
      }
    },
    "/metrics": {
      "get": {
        "summary": "Prometheus metrics",
        "responses": {
          "200": {"description": "Metrics in Prometheus text format"}
        }
      }
    }
  },
  "components": {
    "schemas": {
      "UseBalanceRequest": {
        "type": "object",
        "required": ["userId", "accountNumber", "amount"],
        "properties": {
          "userId": {"type": "integer", "minimum": 1},
          "accountNumber": {"type": "string", "pattern": "^[0-9]{10}$"},
          "amount": {"type": "integer", "minimum": 10, "maximum": 1000000000}
        }
      },
      "CancelBalanceRequest": {
        "type": "object",
        "required": ["transactionId", "accountNumber", "amount"],
        "properties": {
          "transactionId": {"type": "string"},
          "accountNumber": {"type": "string", "pattern": "^[0-9]{10}$"},
          "amount": {"type": "integer", "minimum": 10, "maximum": 1000000000}
        }
      }
    }
  }
}`
