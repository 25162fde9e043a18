package rest

import (
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/ghodss/yaml"
	"github.com/go-chi/chi/v5"
)

//go:generate go run ../../cmd/openapi-gen/main.go -path .

// NewOpenAPI3 instantiates the OpenAPI specification for this service.
func NewOpenAPI3() openapi3.T {
	swagger := openapi3.T{
		OpenAPI: "3.0.0",
		Info: &openapi3.Info{
			Title:       "Personal task tracker API",
			Description: "REST APIs used for keeping track of personal to-do tasks",
			Version:     "0.0.0",
			License: &openapi3.License{
				Name: "MIT",
				URL:  "https://opensource.org/licenses/MIT",
			},
		},
		Servers: openapi3.Servers{
			&openapi3.Server{
				Description: "Local development",
				URL:         "http://127.0.0.1:9234",
			},
		},
	}

	priority := openapi3.NewIntegerSchema().WithMin(0).WithMax(4)
	priority.Description = "0 Urgent, 1 High, 2 Medium, 3 Low, 4 None"

	swagger.Components.Schemas = openapi3.Schemas{
		"Priority": openapi3.NewSchemaRef("", priority),
		"Task": openapi3.NewSchemaRef("",
			openapi3.NewObjectSchema().
				WithProperty("id", openapi3.NewStringSchema()).
				WithProperty("title", openapi3.NewStringSchema()).
				WithProperty("description", openapi3.NewStringSchema()).
				WithPropertyRef("priority", &openapi3.SchemaRef{
					Ref: "#/components/schemas/Priority",
				}).
				WithProperty("completed", openapi3.NewBoolSchema()).
				WithProperty("createdAt", openapi3.NewDateTimeSchema())),
		"User": openapi3.NewSchemaRef("",
			openapi3.NewObjectSchema().
				WithProperty("name", openapi3.NewStringSchema()).
				WithProperty("email", openapi3.NewStringSchema())),
		"Session": openapi3.NewSchemaRef("",
			openapi3.NewObjectSchema().
				WithProperty("state", openapi3.NewStringSchema().
					WithEnum("anonymous_login", "anonymous_register", "authenticated")).
				WithPropertyRef("user", &openapi3.SchemaRef{
					Ref: "#/components/schemas/User",
				})),
	}

	swagger.Components.RequestBodies = openapi3.RequestBodies{
		"CreateTasksRequest": &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().
				WithDescription("Request used for creating a task.").
				WithRequired(true).
				WithJSONSchema(openapi3.NewObjectSchema().
					WithProperty("title", openapi3.NewStringSchema().WithMinLength(1)).
					WithProperty("description", openapi3.NewStringSchema()).
					WithPropertyRef("priority", &openapi3.SchemaRef{
						Ref: "#/components/schemas/Priority",
					})),
		},
		"UpdateTasksRequest": &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().
				WithDescription("Request used for updating a task, missing fields keep their current values.").
				WithRequired(true).
				WithJSONSchema(openapi3.NewObjectSchema().
					WithProperty("title", openapi3.NewStringSchema().WithMinLength(1)).
					WithProperty("description", openapi3.NewStringSchema()).
					WithPropertyRef("priority", &openapi3.SchemaRef{
						Ref: "#/components/schemas/Priority",
					}).
					WithProperty("completed", openapi3.NewBoolSchema())),
		},
		"LoginRequest": &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().
				WithDescription("Request used for logging in or registering.").
				WithRequired(true).
				WithJSONSchema(openapi3.NewObjectSchema().
					WithProperty("name", openapi3.NewStringSchema().WithMinLength(1)).
					WithProperty("email", openapi3.NewStringSchema().WithMinLength(1))),
		},
	}

	taskResponse := func(description string) *openapi3.ResponseRef {
		return &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription(description).
				WithJSONSchema(openapi3.NewObjectSchema().
					WithPropertyRef("task", &openapi3.SchemaRef{
						Ref: "#/components/schemas/Task",
					})),
		}
	}

	sessionResponse := func(description string) *openapi3.ResponseRef {
		return &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription(description).
				WithContent(openapi3.NewContentWithJSONSchemaRef(&openapi3.SchemaRef{
					Ref: "#/components/schemas/Session",
				})),
		}
	}

	errorResponse := func(description string) *openapi3.ResponseRef {
		return &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription(description).
				WithJSONSchema(openapi3.NewObjectSchema().
					WithProperty("error", openapi3.NewStringSchema())),
		}
	}

	idParameter := openapi3.Parameters{
		&openapi3.ParameterRef{
			Value: openapi3.NewPathParameter("id").
				WithSchema(openapi3.NewStringSchema()),
		},
	}

	swagger.Paths = openapi3.Paths{
		"/session": &openapi3.PathItem{
			Get: &openapi3.Operation{
				OperationID: "ReadSession",
				Responses: openapi3.Responses{
					"200": sessionResponse("Current session"),
				},
			},
			Post: &openapi3.Operation{
				OperationID: "Login",
				RequestBody: &openapi3.RequestBodyRef{
					Ref: "#/components/requestBodies/LoginRequest",
				},
				Responses: openapi3.Responses{
					"400": errorResponse("Request has invalid values or the session is already authenticated"),
					"500": errorResponse("Response when errors happen."),
					"201": sessionResponse("Authenticated session"),
				},
			},
			Delete: &openapi3.Operation{
				OperationID: "Logout",
				Responses: openapi3.Responses{
					"500": errorResponse("Response when errors happen."),
					"200": sessionResponse("Anonymous session, every task is discarded"),
				},
			},
		},
		"/tasks": &openapi3.PathItem{
			Get: &openapi3.Operation{
				OperationID: "ListTasks",
				Parameters: openapi3.Parameters{
					&openapi3.ParameterRef{
						Value: openapi3.NewQueryParameter("priority").
							WithSchema(openapi3.NewStringSchema()).
							WithDescription("Priority number or label, omit it to list every task"),
					},
				},
				Responses: openapi3.Responses{
					"400": errorResponse("Invalid priority"),
					"401": errorResponse("Login required"),
					"200": &openapi3.ResponseRef{
						Value: openapi3.NewResponse().
							WithDescription("Tasks, most recent first").
							WithJSONSchema(openapi3.NewObjectSchema().
								WithProperty("tasks", openapi3.NewArraySchema().
									WithItems(openapi3.NewObjectSchema()))),
					},
				},
			},
			Post: &openapi3.Operation{
				OperationID: "CreateTask",
				RequestBody: &openapi3.RequestBodyRef{
					Ref: "#/components/requestBodies/CreateTasksRequest",
				},
				Responses: openapi3.Responses{
					"400": errorResponse("Request has invalid values"),
					"401": errorResponse("Login required"),
					"500": errorResponse("Response when errors happen."),
					"201": taskResponse("Task was created"),
				},
			},
		},
		"/tasks/{id}": &openapi3.PathItem{
			Get: &openapi3.Operation{
				OperationID: "ReadTask",
				Parameters:  idParameter,
				Responses: openapi3.Responses{
					"401": errorResponse("Login required"),
					"404": errorResponse("Task not found"),
					"200": taskResponse("Task was found"),
				},
			},
			Put: &openapi3.Operation{
				OperationID: "UpdateTask",
				Parameters:  idParameter,
				RequestBody: &openapi3.RequestBodyRef{
					Ref: "#/components/requestBodies/UpdateTasksRequest",
				},
				Responses: openapi3.Responses{
					"400": errorResponse("Request has invalid values"),
					"401": errorResponse("Login required"),
					"404": errorResponse("Task not found"),
					"500": errorResponse("Response when errors happen."),
					"200": taskResponse("Task was updated"),
				},
			},
			Delete: &openapi3.Operation{
				OperationID: "DeleteTask",
				Parameters:  idParameter,
				Responses: openapi3.Responses{
					"401": errorResponse("Login required"),
					"500": errorResponse("Response when errors happen."),
					"200": &openapi3.ResponseRef{
						Value: openapi3.NewResponse().WithDescription("Task was deleted, or never existed"),
					},
				},
			},
		},
		"/tasks/{id}/toggle": &openapi3.PathItem{
			Post: &openapi3.Operation{
				OperationID: "ToggleTask",
				Parameters:  idParameter,
				Responses: openapi3.Responses{
					"401": errorResponse("Login required"),
					"404": errorResponse("Task not found"),
					"500": errorResponse("Response when errors happen."),
					"200": taskResponse("Task completion was flipped"),
				},
			},
		},
	}

	return swagger
}

// RegisterOpenAPI serves the OpenAPI 3 document as JSON and YAML.
func RegisterOpenAPI(r chi.Router) {
	swagger := NewOpenAPI3()

	r.Get("/openapi3.json", func(w http.ResponseWriter, r *http.Request) {
		renderResponse(w, &swagger, http.StatusOK)
	})

	r.Get("/openapi3.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-yaml")

		data, err := yaml.Marshal(&swagger)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusOK)

		_, _ = w.Write(data)
	})
}
