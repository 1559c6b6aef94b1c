package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/curioapp/curio-server/internal/color"
	"github.com/curioapp/curio-server/internal/domain"
	domainerrors "github.com/curioapp/curio-server/internal/errors"
	"github.com/curioapp/curio-server/internal/id"
	"github.com/curioapp/curio-server/internal/store"
	"github.com/curioapp/curio-server/internal/theme"
	"github.com/curioapp/curio-server/internal/username"
)

// provisionRetries bounds the random-username retry loop. Collisions are
// rare, so exhausting this means something is systematically wrong.
const provisionRetries = 5

// UserService owns profile lifecycle: auto-provisioning, onboarding,
// profile updates, and user listings.
type UserService struct {
	store  store.Store
	logger *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(st store.Store, logger *slog.Logger) *UserService {
	return &UserService{
		store:  st,
		logger: logger,
	}
}

// ResolveExternal returns the local profile for a verified external
// identity, creating one with a random username on first contact. Two
// concurrent first requests race on the external_id uniqueness constraint;
// the loser reads back the winner's row.
func (s *UserService) ResolveExternal(ctx context.Context, externalID string) (*domain.User, error) {
	user, err := s.store.GetUserByExternalID(ctx, externalID)
	if err == nil {
		return user, nil
	}
	if !store.IsNotFound(err) {
		return nil, fmt.Errorf("look up external identity: %w", err)
	}

	for attempt := 0; attempt < provisionRetries; attempt++ {
		name, err := username.Generate()
		if err != nil {
			return nil, fmt.Errorf("generate username: %w", err)
		}
		candidate, err := s.newUser(externalID, name)
		if err != nil {
			return nil, err
		}

		err = s.store.CreateUser(ctx, candidate)
		if err == nil {
			s.logger.Info("provisioned user",
				"user_id", candidate.ID,
				"username", candidate.Username,
				"attempt", attempt+1,
			)
			return candidate, nil
		}
		if domainerrors.Is(err, store.ErrUsernameTaken) {
			continue
		}
		if domainerrors.Is(err, store.ErrExternalIDExists) {
			// Lost the provisioning race; the winner's row is ours.
			return s.store.GetUserByExternalID(ctx, externalID)
		}
		return nil, fmt.Errorf("provision user: %w", err)
	}

	s.logger.Error("username generation exhausted retries", "external_id", externalID)
	return nil, domainerrors.Internal("could not allocate a username")
}

// Onboard completes a profile with a user-chosen username. If the profile
// was already auto-provisioned this renames it; either way the username
// must be valid and free.
func (s *UserService) Onboard(ctx context.Context, externalID, chosen string) (*domain.User, error) {
	if err := username.Validate(chosen); err != nil {
		return nil, domainerrors.Validation(err.Error())
	}

	user, err := s.store.GetUserByExternalID(ctx, externalID)
	if store.IsNotFound(err) {
		user, err = s.newUser(externalID, chosen)
		if err != nil {
			return nil, err
		}
		if err := s.store.CreateUser(ctx, user); err != nil {
			if domainerrors.Is(err, store.ErrUsernameTaken) {
				return nil, domainerrors.Conflictf("username %q is taken", chosen)
			}
			return nil, fmt.Errorf("create user: %w", err)
		}
		s.logger.Info("onboarded user", "user_id", user.ID, "username", chosen)
		return user, nil
	}
	if err != nil {
		return nil, fmt.Errorf("look up external identity: %w", err)
	}

	user.Username = chosen
	user.AvatarColor = color.ForName(chosen)
	if err := s.store.UpdateUser(ctx, user); err != nil {
		if domainerrors.Is(err, store.ErrUsernameTaken) {
			return nil, domainerrors.Conflictf("username %q is taken", chosen)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	s.logger.Info("onboarded user", "user_id", user.ID, "username", chosen)
	return user, nil
}

func (s *UserService) newUser(externalID, name string) (*domain.User, error) {
	userID, err := id.Generate("user")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	now := time.Now()
	return &domain.User{
		ID:          userID,
		ExternalID:  externalID,
		Username:    name,
		AvatarColor: color.ForName(name),
		Role:        domain.RoleUser,
		Aesthetic:   theme.DefaultAesthetic,
		Palette:     theme.DefaultPalette,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.store.GetUser(ctx, userID)
}

// GetByUsername retrieves a public profile by its unique username.
func (s *UserService) GetByUsername(ctx context.Context, name string) (*domain.User, error) {
	return s.store.GetUserByUsername(ctx, name)
}

// ProfileUpdate carries the PATCHable profile fields. Nil means unchanged.
type ProfileUpdate struct {
	Username  *string
	Bio       *string
	AvatarURL *string
}

// UpdateProfile applies a partial profile update for the caller.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Username != nil && *update.Username != user.Username {
		if err := username.Validate(*update.Username); err != nil {
			return nil, domainerrors.Validation(err.Error())
		}
		user.Username = *update.Username
		user.AvatarColor = color.ForName(user.Username)
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	if update.AvatarURL != nil {
		user.AvatarURL = *update.AvatarURL
	}
	user.UpdatedAt = time.Now()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		if domainerrors.Is(err, store.ErrUsernameTaken) {
			return nil, domainerrors.Conflictf("username %q is taken", user.Username)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.logger.Info("profile updated", "user_id", userID)
	return user, nil
}

// UpdateTheme sets the caller's aesthetic and palette. Unknown values fall
// back through the theme resolution chain rather than erroring.
func (s *UserService) UpdateTheme(ctx context.Context, userID, aesthetic, palette string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	style := theme.Resolve(aesthetic, palette)
	user.Aesthetic = style.Aesthetic
	user.Palette = style.Palette.Name
	user.UpdatedAt = time.Now()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update theme: %w", err)
	}
	return user, nil
}

// UserListing is one page of users with the caller's bookmark state
// resolved for the whole page at once.
type UserListing struct {
	Users      []*domain.User
	Bookmarked map[string]bool
	Total      int
}

// ListUsers returns a page of users. When callerID is non-empty, the
// caller's user-bookmark edges for the page are resolved in one query.
func (s *UserService) ListUsers(ctx context.Context, callerID string, filter store.UserFilter) (*UserListing, error) {
	if filter.Sort == "" {
		filter.Sort = store.UserSortNewest
	}
	if !filter.Sort.Valid() {
		return nil, domainerrors.Validationf("unknown sort order %q", filter.Sort)
	}

	users, total, err := s.store.ListUsers(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	bookmarked, err := s.store.GetBookmarkedUserIDs(ctx, callerID, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve user bookmarks: %w", err)
	}

	return &UserListing{
		Users:      users,
		Bookmarked: bookmarked,
		Total:      total,
	}, nil
}
