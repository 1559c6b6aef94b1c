package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/curioapp/curio-server/internal/api/dto"
	"github.com/curioapp/curio-server/internal/domain"
	"github.com/curioapp/curio-server/internal/service"
	"github.com/curioapp/curio-server/internal/store"
	"github.com/curioapp/curio-server/internal/theme"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listUsers",
		Method:      http.MethodGet,
		Path:        "/api/v1/users",
		Summary:     "List users",
		Description: "Returns a paginated user directory with optional search and sorting",
		Tags:        []string{"Users"},
	}, s.handleListUsers)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Get current profile",
		Description: "Returns the caller's profile, provisioning one on first contact",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCurrentUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "onboardUser",
		Method:      http.MethodPost,
		Path:        "/api/v1/users/me",
		Summary:     "Complete onboarding",
		Description: "Sets the caller's chosen username",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleOnboard)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateProfile",
		Method:      http.MethodPatch,
		Path:        "/api/v1/users/me",
		Summary:     "Update profile",
		Description: "Applies a partial update to the caller's profile",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateTheme",
		Method:      http.MethodPut,
		Path:        "/api/v1/users/me/theme",
		Summary:     "Update theme",
		Description: "Sets the caller's aesthetic and palette selection",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateTheme)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUserByUsername",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{username}",
		Summary:     "Get user",
		Description: "Returns a public profile by username",
		Tags:        []string{"Users"},
	}, s.handleGetUserByUsername)
}

// === DTOs ===

// ProfileResponse contains a user profile in API responses.
type ProfileResponse struct {
	ID          string    `json:"id" doc:"User ID"`
	Username    string    `json:"username" doc:"Unique handle"`
	Bio         string    `json:"bio,omitempty" doc:"Profile bio"`
	AvatarURL   string    `json:"avatar_url,omitempty" doc:"Avatar image URL"`
	AvatarColor string    `json:"avatar_color" doc:"Fallback avatar color"`
	Aesthetic   string    `json:"aesthetic" doc:"Selected aesthetic slug"`
	Palette     string    `json:"palette" doc:"Selected palette name"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update time"`
}

// StyledProfileResponse adds the computed style to a profile.
type StyledProfileResponse struct {
	ProfileResponse
	Style theme.Style `json:"style" doc:"Computed style for the selected theme"`
}

// ProfileOutput wraps a styled profile for Huma.
type ProfileOutput struct {
	Body StyledProfileResponse
}

// UserSummaryResponse is one row of the user directory.
type UserSummaryResponse struct {
	ID           string `json:"id" doc:"User ID"`
	Username     string `json:"username" doc:"Unique handle"`
	Bio          string `json:"bio,omitempty" doc:"Profile bio"`
	AvatarURL    string `json:"avatar_url,omitempty" doc:"Avatar image URL"`
	AvatarColor  string `json:"avatar_color" doc:"Fallback avatar color"`
	IsBookmarked bool   `json:"is_bookmarked" doc:"Whether the caller bookmarked this user"`
}

// ListUsersInput contains parameters for the user directory.
type ListUsersInput struct {
	Authorization string `header:"Authorization"`
	Search        string `query:"search" doc:"Case-insensitive username substring"`
	Sort          string `query:"sort" enum:"newest,most_popular,most_reviews,recently_active" doc:"Sort order, defaults to newest"`
	dto.PageQuery
}

// ListUsersOutput wraps the user directory page for Huma.
type ListUsersOutput struct {
	Body dto.ListResponse[UserSummaryResponse]
}

// OnboardRequest is the request body for onboarding.
type OnboardRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30" doc:"Chosen username"`
}

// OnboardInput wraps the onboarding request for Huma.
type OnboardInput struct {
	Authorization string `header:"Authorization"`
	Body          OnboardRequest
}

// UpdateProfileRequest is the request body for profile updates.
type UpdateProfileRequest struct {
	Username  *string `json:"username,omitempty" validate:"omitempty,min=3,max=30" doc:"New username"`
	Bio       *string `json:"bio,omitempty" validate:"omitempty,max=500" doc:"New bio"`
	AvatarURL *string `json:"avatar_url,omitempty" validate:"omitempty,url,max=2048" doc:"New avatar URL"`
}

// UpdateProfileInput wraps the profile update request for Huma.
type UpdateProfileInput struct {
	Authorization string `header:"Authorization"`
	Body          UpdateProfileRequest
}

// UpdateThemeRequest is the request body for theme selection.
type UpdateThemeRequest struct {
	Aesthetic string `json:"aesthetic" validate:"required,max=50" doc:"Aesthetic slug"`
	Palette   string `json:"palette" validate:"required,max=50" doc:"Palette name"`
}

// UpdateThemeInput wraps the theme update request for Huma.
type UpdateThemeInput struct {
	Authorization string `header:"Authorization"`
	Body          UpdateThemeRequest
}

// GetUserInput contains parameters for a public profile lookup.
type GetUserInput struct {
	Username string `path:"username" doc:"Username to look up"`
}

// === Handlers ===

func (s *Server) handleListUsers(ctx context.Context, input *ListUsersInput) (*ListUsersOutput, error) {
	callerID, err := s.OptionalUserID(ctx)
	if err != nil {
		return nil, err
	}

	page, err := input.PageQuery.Resolve()
	if err != nil {
		return nil, err
	}

	listing, err := s.services.User.ListUsers(ctx, callerID, store.UserFilter{
		Search: input.Search,
		Sort:   store.UserSort(input.Sort),
		Page:   page,
	})
	if err != nil {
		return nil, err
	}

	items := make([]UserSummaryResponse, len(listing.Users))
	for i, u := range listing.Users {
		items[i] = UserSummaryResponse{
			ID:           u.ID,
			Username:     u.Username,
			Bio:          u.Bio,
			AvatarURL:    u.AvatarURL,
			AvatarColor:  u.AvatarColor,
			IsBookmarked: listing.Bookmarked[u.ID],
		}
	}

	return &ListUsersOutput{
		Body: dto.ListResponse[UserSummaryResponse]{
			Items: items,
			Meta:  dto.NewListMeta(page, listing.Total),
		},
	}, nil
}

func (s *Server) handleGetCurrentUser(ctx context.Context, _ *dto.AuthedInput) (*ProfileOutput, error) {
	user, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	return &ProfileOutput{Body: mapStyledProfile(user)}, nil
}

func (s *Server) handleOnboard(ctx context.Context, input *OnboardInput) (*ProfileOutput, error) {
	ident, err := RequireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	user, err := s.services.User.Onboard(ctx, ident.ID, input.Body.Username)
	if err != nil {
		return nil, err
	}
	return &ProfileOutput{Body: mapStyledProfile(user)}, nil
}

func (s *Server) handleUpdateProfile(ctx context.Context, input *UpdateProfileInput) (*ProfileOutput, error) {
	user, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	updated, err := s.services.User.UpdateProfile(ctx, user.ID, service.ProfileUpdate{
		Username:  input.Body.Username,
		Bio:       input.Body.Bio,
		AvatarURL: input.Body.AvatarURL,
	})
	if err != nil {
		return nil, err
	}
	return &ProfileOutput{Body: mapStyledProfile(updated)}, nil
}

func (s *Server) handleUpdateTheme(ctx context.Context, input *UpdateThemeInput) (*ProfileOutput, error) {
	user, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	updated, err := s.services.User.UpdateTheme(ctx, user.ID, input.Body.Aesthetic, input.Body.Palette)
	if err != nil {
		return nil, err
	}
	return &ProfileOutput{Body: mapStyledProfile(updated)}, nil
}

func (s *Server) handleGetUserByUsername(ctx context.Context, input *GetUserInput) (*ProfileOutput, error) {
	user, err := s.services.User.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	return &ProfileOutput{Body: mapStyledProfile(user)}, nil
}

func mapStyledProfile(user *domain.User) StyledProfileResponse {
	return StyledProfileResponse{
		ProfileResponse: mapProfileResponse(user),
		Style:           theme.Resolve(user.Aesthetic, user.Palette),
	}
}
