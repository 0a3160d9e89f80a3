package profileservice

import (
	"context"
	"errors"
	"fmt"
	"testing"

	profilestruct "github.com/Gamequic/DigCardBackend/pkg/features/profiles/struct"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// memoryStore keeps profiles in insertion order and enforces unique keys.
type memoryStore struct {
	profiles []profilestruct.Profile
	err      error
}

func (m *memoryStore) Insert(ctx context.Context, profile *profilestruct.Profile) error {
	if m.err != nil {
		return m.err
	}
	if _, i := m.find(profile.ProfileKey); i >= 0 {
		return fmt.Errorf("%w: profile key already in use", ErrRejected)
	}
	profile.ID = primitive.NewObjectID()
	m.profiles = append(m.profiles, *profile)
	return nil
}

func (m *memoryStore) FindAll(ctx context.Context) ([]profilestruct.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.profiles, nil
}

func (m *memoryStore) FindByKey(ctx context.Context, profileKey string) (*profilestruct.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, i := m.find(profileKey)
	if i < 0 {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *memoryStore) ReplaceByKey(ctx context.Context, profileKey string, profile *profilestruct.Profile) (*profilestruct.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	existing, i := m.find(profileKey)
	if i < 0 {
		return nil, ErrNotFound
	}
	if other, j := m.find(profile.ProfileKey); j >= 0 && other.ID != existing.ID {
		return nil, fmt.Errorf("%w: profile key already in use", ErrRejected)
	}
	replacement := *profile
	replacement.ID = existing.ID
	m.profiles[i] = replacement
	return &replacement, nil
}

func (m *memoryStore) DeleteByKey(ctx context.Context, profileKey string) error {
	if m.err != nil {
		return m.err
	}
	_, i := m.find(profileKey)
	if i < 0 {
		return ErrNotFound
	}
	m.profiles = append(m.profiles[:i], m.profiles[i+1:]...)
	return nil
}

func (m *memoryStore) Ping(ctx context.Context) error { return m.err }
func (m *memoryStore) Close(ctx context.Context) error { return nil }

func (m *memoryStore) find(profileKey string) (profilestruct.Profile, int) {
	for i, p := range m.profiles {
		if p.ProfileKey == profileKey {
			return p, i
		}
	}
	return profilestruct.Profile{}, -1
}

func newTestService() (*Service, *memoryStore) {
	store := &memoryStore{}
	return NewService(store, zap.NewNop()), store
}

func janeDoe() profilestruct.SaveProfile {
	return profilestruct.SaveProfile{
		Name:         "Jane Doe",
		JobTitle:     "Designer",
		ProfileImage: "https://cdn.example.com/jane.png",
		Phone:        "+1 555 0100",
		Email:        "jane@example.com",
		SocialLinks: &profilestruct.SocialLinks{
			Instagram: "https://instagram.com/janedoe",
			Whatsapp:  "https://wa.me/15550100",
		},
	}
}

func TestCreateReturnsSlug(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	for name, want := range map[string]string{
		"Jane Doe":        "jane-doe",
		"Anna Marie Lee":  "anna-marie-lee",
		"  Spaced  Out ":  "-spaced-out-",
		"UPPER lower Mix": "upper-lower-mix",
	} {
		key, err := s.Create(ctx, profilestruct.SaveProfile{Name: name})
		require.NoError(t, err)
		assert.Equal(t, want, key, name)
	}
}

func TestCreateThenFindRoundTrip(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()
	req := janeDoe()

	key, err := s.Create(ctx, req)
	require.NoError(t, err)

	got, err := s.FindOne(ctx, key)
	require.NoError(t, err)
	assert.False(t, got.ID.IsZero())
	assert.Equal(t, "jane-doe", got.ProfileKey)
	assert.Equal(t, req.Name, got.Name)
	assert.Equal(t, req.JobTitle, got.JobTitle)
	assert.Equal(t, req.ProfileImage, got.ProfileImage)
	assert.Equal(t, req.Phone, got.Phone)
	assert.Equal(t, req.Email, got.Email)
	assert.Equal(t, *req.SocialLinks, *got.SocialLinks)
}

func TestFindOneIgnoresCase(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	_, err := s.Create(ctx, janeDoe())
	require.NoError(t, err)

	got, err := s.FindOne(ctx, "Jane-Doe")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.Name)
}

// Multi-word names used to be unreachable because only the first hyphen of
// the key was turned back into a space. Keys are stored now.
func TestMultiWordNameIsFound(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	key, err := s.Create(ctx, profilestruct.SaveProfile{Name: "Anna Marie Lee"})
	require.NoError(t, err)
	require.Equal(t, "anna-marie-lee", key)

	got, err := s.FindOne(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "Anna Marie Lee", got.Name)
}

func TestCreateRejectsBlankName(t *testing.T) {
	s, store := newTestService()

	_, err := s.Create(context.Background(), profilestruct.SaveProfile{Name: "   "})
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Empty(t, store.profiles)
}

func TestCreateDuplicateKeyIsRejected(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	_, err := s.Create(ctx, janeDoe())
	require.NoError(t, err)

	_, err = s.Create(ctx, profilestruct.SaveProfile{Name: "JANE DOE"})
	assert.ErrorIs(t, err, ErrRejected)
}

func TestFindReturnsEmptySlice(t *testing.T) {
	s, _ := newTestService()

	profiles, err := s.Find(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, profiles)
	assert.Empty(t, profiles)
}

func TestUnknownKeyIsNotFound(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	_, err := s.FindOne(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Update(ctx, "nobody", profilestruct.UpdateProfile{JobTitle: "Engineer"})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.Delete(ctx, "nobody"), ErrNotFound)
}

func TestUpdateReplacesEveryField(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	key, err := s.Create(ctx, janeDoe())
	require.NoError(t, err)

	updated, err := s.Update(ctx, key, profilestruct.UpdateProfile{Name: "Jane Doe", JobTitle: "Engineer"})
	require.NoError(t, err)

	assert.Equal(t, "Engineer", updated.JobTitle)
	assert.Empty(t, updated.Email)
	assert.Empty(t, updated.Phone)
	assert.Empty(t, updated.ProfileImage)
	assert.Nil(t, updated.SocialLinks)

	got, err := s.FindOne(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestUpdateWithoutNameKeepsKey(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	key, err := s.Create(ctx, janeDoe())
	require.NoError(t, err)

	updated, err := s.Update(ctx, key, profilestruct.UpdateProfile{JobTitle: "Engineer"})
	require.NoError(t, err)
	assert.Equal(t, "jane-doe", updated.ProfileKey)
	assert.Empty(t, updated.Name)

	_, err = s.FindOne(ctx, "jane-doe")
	assert.NoError(t, err)
}

func TestUpdateRenameMovesKey(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	key, err := s.Create(ctx, janeDoe())
	require.NoError(t, err)

	updated, err := s.Update(ctx, key, profilestruct.UpdateProfile{Name: "Jane Smith"})
	require.NoError(t, err)
	assert.Equal(t, "jane-smith", updated.ProfileKey)

	_, err = s.FindOne(ctx, "jane-doe")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.FindOne(ctx, "jane-smith")
	assert.NoError(t, err)
}

func TestUpdateRejectsBlankName(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	key, err := s.Create(ctx, janeDoe())
	require.NoError(t, err)

	_, err = s.Update(ctx, key, profilestruct.UpdateProfile{Name: " \t"})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestDeleteIsIdempotentInEffect(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	assert.ErrorIs(t, s.Delete(ctx, "jane-doe"), ErrNotFound)

	key, err := s.Create(ctx, janeDoe())
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, key))

	assert.ErrorIs(t, s.Delete(ctx, key), ErrNotFound)
	_, err = s.FindOne(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreFailuresPassThrough(t *testing.T) {
	s, store := newTestService()
	ctx := context.Background()
	down := errors.New("server selection timeout")
	store.err = down

	_, err := s.Find(ctx)
	assert.ErrorIs(t, err, down)
	_, err = s.FindOne(ctx, "jane-doe")
	assert.ErrorIs(t, err, down)
	assert.ErrorIs(t, s.Ping(ctx), down)
}
