package api

import (
	"github.com/curioapp/curio-server/internal/identity"
	"github.com/curioapp/curio-server/internal/service"
	"github.com/curioapp/curio-server/internal/uploads"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Verifier identity.Verifier
	Auth     *service.AuthService
	User     *service.UserService
	Tab      *service.TabService
	Review   *service.ReviewService
	Bookmark *service.BookmarkService
	Uploads  uploads.Issuer // nil when object storage is not configured
}
