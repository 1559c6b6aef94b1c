package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/curioapp/curio-server/internal/theme"
)

func (s *Server) registerAestheticRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listAesthetics",
		Method:      http.MethodGet,
		Path:        "/api/v1/aesthetics",
		Summary:     "List aesthetics",
		Description: "Returns the available theme aesthetics and their palettes",
		Tags:        []string{"Aesthetics"},
	}, s.handleListAesthetics)
}

// AestheticListResponse contains the theme catalog.
type AestheticListResponse struct {
	Aesthetics []theme.Aesthetic `json:"aesthetics" doc:"Available aesthetics in display order"`
}

// AestheticListOutput wraps the theme catalog for Huma.
type AestheticListOutput struct {
	Body AestheticListResponse
}

func (s *Server) handleListAesthetics(ctx context.Context, _ *struct{}) (*AestheticListOutput, error) {
	return &AestheticListOutput{Body: AestheticListResponse{Aesthetics: theme.All()}}, nil
}
