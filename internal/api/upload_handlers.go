package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/curioapp/curio-server/internal/errors"
	"github.com/curioapp/curio-server/internal/uploads"
)

func (s *Server) registerUploadRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createDirectUpload",
		Method:      http.MethodPost,
		Path:        "/api/v1/uploads",
		Summary:     "Create direct upload",
		Description: "Issues a presigned URL the client can PUT an image to",
		Tags:        []string{"Uploads"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateDirectUpload)
}

// DirectUploadRequest is the request body for a direct upload grant.
type DirectUploadRequest struct {
	Filename string `json:"filename" validate:"required,max=255" doc:"Original filename, the extension is kept"`
}

// DirectUploadInput wraps the direct upload request for Huma.
type DirectUploadInput struct {
	Authorization string `header:"Authorization"`
	Body          DirectUploadRequest
}

// DirectUploadOutput wraps the upload grant for Huma.
type DirectUploadOutput struct {
	Body uploads.DirectUpload
}

func (s *Server) handleCreateDirectUpload(ctx context.Context, input *DirectUploadInput) (*DirectUploadOutput, error) {
	if _, err := s.RequireUser(ctx); err != nil {
		return nil, err
	}
	if s.services.Uploads == nil {
		return nil, domainerrors.Internal("image uploads are not configured")
	}
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	grant, err := s.services.Uploads.CreateDirectUpload(ctx, input.Body.Filename)
	if err != nil {
		return nil, domainerrors.Internal("could not create upload URL").WithCause(err)
	}
	return &DirectUploadOutput{Body: *grant}, nil
}
