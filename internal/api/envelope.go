package api

import (
	"strconv"

	"github.com/danielgtaylor/huma/v2"
)

// ResponseEnvelope is the outer structure of every successful response.
type ResponseEnvelope struct {
	Status int `json:"status"`
	Data   any `json:"data"`
}

// EnvelopeTransformer wraps response bodies as {status, data}, where status
// mirrors the numeric HTTP status code. Error bodies are emitted by APIError
// directly and pass through untouched.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	if _, ok := v.(*APIError); ok {
		return v, nil
	}
	code, err := strconv.Atoi(status)
	if err != nil {
		code = 200
	}
	return &ResponseEnvelope{
		Status: code,
		Data:   v,
	}, nil
}
