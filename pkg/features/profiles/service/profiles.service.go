package profileservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	profilestruct "github.com/Gamequic/DigCardBackend/pkg/features/profiles/struct"
	"github.com/Gamequic/DigCardBackend/utils"

	"go.uber.org/zap"
)

var (
	ErrNotFound = errors.New("profile not found")
	// ErrRejected wraps writes the store refused, e.g. a taken profile key.
	ErrRejected = errors.New("profile rejected by store")
	ErrInvalid  = errors.New("invalid profile")
)

// Store persists profiles and finds them by profile key.
type Store interface {
	Insert(ctx context.Context, profile *profilestruct.Profile) error
	FindAll(ctx context.Context) ([]profilestruct.Profile, error)
	FindByKey(ctx context.Context, profileKey string) (*profilestruct.Profile, error)
	// ReplaceByKey swaps the whole matched record for profile and returns the
	// stored result.
	ReplaceByKey(ctx context.Context, profileKey string, profile *profilestruct.Profile) (*profilestruct.Profile, error)
	DeleteByKey(ctx context.Context, profileKey string) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type Service struct {
	store  Store
	logger *zap.Logger
}

func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Create stores a new profile and returns its key.
func (s *Service) Create(ctx context.Context, req profilestruct.SaveProfile) (string, error) {
	if strings.TrimSpace(req.Name) == "" {
		return "", fmt.Errorf("%w: name must not be blank", ErrInvalid)
	}

	profile := req.Profile()
	profile.ProfileKey = utils.GenerateSlug(profile.Name)

	if err := s.store.Insert(ctx, &profile); err != nil {
		return "", err
	}

	s.logger.Info("Profile saved", zap.String("profileKey", profile.ProfileKey), zap.String("id", profile.ID.Hex()))
	return profile.ProfileKey, nil
}

func (s *Service) Find(ctx context.Context) ([]profilestruct.Profile, error) {
	profiles, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if profiles == nil {
		profiles = []profilestruct.Profile{}
	}
	return profiles, nil
}

func (s *Service) FindOne(ctx context.Context, profileKey string) (*profilestruct.Profile, error) {
	return s.store.FindByKey(ctx, normalizeKey(profileKey))
}

// Update replaces the profile found by profileKey. The key is re-derived when
// the payload names the profile.
func (s *Service) Update(ctx context.Context, profileKey string, req profilestruct.UpdateProfile) (*profilestruct.Profile, error) {
	profileKey = normalizeKey(profileKey)

	profile := req.Profile()
	switch {
	case profile.Name == "":
		profile.ProfileKey = profileKey
	case strings.TrimSpace(profile.Name) == "":
		return nil, fmt.Errorf("%w: name must not be blank", ErrInvalid)
	default:
		profile.ProfileKey = utils.GenerateSlug(profile.Name)
	}

	updated, err := s.store.ReplaceByKey(ctx, profileKey, &profile)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Profile updated", zap.String("from", profileKey), zap.String("profileKey", updated.ProfileKey))
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, profileKey string) error {
	profileKey = normalizeKey(profileKey)
	if err := s.store.DeleteByKey(ctx, profileKey); err != nil {
		return err
	}

	s.logger.Info("Profile deleted", zap.String("profileKey", profileKey))
	return nil
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func normalizeKey(profileKey string) string {
	return strings.ToLower(strings.TrimSpace(profileKey))
}
