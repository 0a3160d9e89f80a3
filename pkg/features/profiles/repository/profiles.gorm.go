package profilerepository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	profileservice "github.com/Gamequic/DigCardBackend/pkg/features/profiles/service"
	profilestruct "github.com/Gamequic/DigCardBackend/pkg/features/profiles/struct"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// profileRecord is the relational row of a profile. Ids are ObjectID hex
// strings so both stores hand out the same shape of _id.
type profileRecord struct {
	ID           string `gorm:"primaryKey;size:24"`
	ProfileKey   string `gorm:"uniqueIndex;size:255;not null"`
	Name         string
	JobTitle     string
	ProfileImage string
	HeaderImage  string
	Phone        string
	Email        string
	SocialLinks  profilestruct.SocialLinks `gorm:"embedded;embeddedPrefix:social_"`
	CreatedAt    time.Time                 `gorm:"autoCreateTime;default:CURRENT_TIMESTAMP;index"`
}

func (profileRecord) TableName() string {
	return "profiles"
}

// GormStore keeps profiles in a postgres or sqlite table.
type GormStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewGormStore(db *gorm.DB, logger *zap.Logger) *GormStore {
	return &GormStore{db: db, logger: logger}
}

func (s *GormStore) AutoMigrate() error {
	if err := s.db.AutoMigrate(&profileRecord{}); err != nil {
		return err
	}
	s.logger.Info("Profiles table migrated")
	return nil
}

func (s *GormStore) Insert(ctx context.Context, profile *profilestruct.Profile) error {
	record := toRecord(profile)
	record.ID = primitive.NewObjectID().Hex()

	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return gormWriteError(err)
	}

	profile.ID = objectID(record.ID)
	return nil
}

func (s *GormStore) FindAll(ctx context.Context) ([]profilestruct.Profile, error) {
	var records []profileRecord
	if err := s.db.WithContext(ctx).Order("created_at, id").Find(&records).Error; err != nil {
		return nil, err
	}

	profiles := make([]profilestruct.Profile, 0, len(records))
	for _, record := range records {
		profiles = append(profiles, fromRecord(record))
	}
	return profiles, nil
}

func (s *GormStore) FindByKey(ctx context.Context, profileKey string) (*profilestruct.Profile, error) {
	var record profileRecord
	err := s.db.WithContext(ctx).Where("profile_key = ?", profileKey).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, profileservice.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	profile := fromRecord(record)
	return &profile, nil
}

func (s *GormStore) ReplaceByKey(ctx context.Context, profileKey string, profile *profilestruct.Profile) (*profilestruct.Profile, error) {
	var updated profileRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing profileRecord
		if err := tx.Where("profile_key = ?", profileKey).First(&existing).Error; err != nil {
			return err
		}

		updated = toRecord(profile)
		updated.ID = existing.ID
		updated.CreatedAt = existing.CreatedAt
		// Save writes every column, zero values included.
		return tx.Save(&updated).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, profileservice.ErrNotFound
	}
	if err != nil {
		return nil, gormWriteError(err)
	}

	result := fromRecord(updated)
	return &result, nil
}

func (s *GormStore) DeleteByKey(ctx context.Context, profileKey string) error {
	res := s.db.WithContext(ctx).Where("profile_key = ?", profileKey).Delete(&profileRecord{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return profileservice.ErrNotFound
	}
	return nil
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) Close(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toRecord(profile *profilestruct.Profile) profileRecord {
	record := profileRecord{
		ProfileKey:   profile.ProfileKey,
		Name:         profile.Name,
		JobTitle:     profile.JobTitle,
		ProfileImage: profile.ProfileImage,
		HeaderImage:  profile.HeaderImage,
		Phone:        profile.Phone,
		Email:        profile.Email,
	}
	if profile.SocialLinks != nil {
		record.SocialLinks = *profile.SocialLinks
	}
	return record
}

func fromRecord(record profileRecord) profilestruct.Profile {
	profile := profilestruct.Profile{
		ID:           objectID(record.ID),
		ProfileKey:   record.ProfileKey,
		Name:         record.Name,
		JobTitle:     record.JobTitle,
		ProfileImage: record.ProfileImage,
		HeaderImage:  record.HeaderImage,
		Phone:        record.Phone,
		Email:        record.Email,
	}
	if record.SocialLinks != (profilestruct.SocialLinks{}) {
		links := record.SocialLinks
		profile.SocialLinks = &links
	}
	return profile
}

func objectID(hex string) primitive.ObjectID {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID
	}
	return id
}

func gormWriteError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(strings.ToLower(err.Error()), "unique constraint") {
		return fmt.Errorf("%w: profile key already in use", profileservice.ErrRejected)
	}
	return err
}
