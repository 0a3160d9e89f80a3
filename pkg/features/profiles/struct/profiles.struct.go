package profilestruct

import "go.mongodb.org/mongo-driver/bson/primitive"

type SocialLinks struct {
	Website   string `json:"website,omitempty" bson:"website,omitempty" validate:"omitempty,max=2048"`
	Instagram string `json:"instagram,omitempty" bson:"instagram,omitempty" validate:"omitempty,max=2048"`
	Facebook  string `json:"facebook,omitempty" bson:"facebook,omitempty" validate:"omitempty,max=2048"`
	Telegram  string `json:"telegram,omitempty" bson:"telegram,omitempty" validate:"omitempty,max=2048"`
	Tiktok    string `json:"tiktok,omitempty" bson:"tiktok,omitempty" validate:"omitempty,max=2048"`
	Youtube   string `json:"youtube,omitempty" bson:"youtube,omitempty" validate:"omitempty,max=2048"`
	Whatsapp  string `json:"whatsapp,omitempty" bson:"whatsapp,omitempty" validate:"omitempty,max=2048"`
	Maps      string `json:"maps,omitempty" bson:"maps,omitempty" validate:"omitempty,max=2048"`
	Snapchat  string `json:"snapchat,omitempty" bson:"snapchat,omitempty" validate:"omitempty,max=2048"`
}

// Profile is the stored document. Empty fields are left out of both the
// document and the JSON output.
type Profile struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	ProfileKey   string             `json:"profileKey,omitempty" bson:"profileKey,omitempty"`
	Name         string             `json:"name,omitempty" bson:"name,omitempty"`
	JobTitle     string             `json:"jobTitle,omitempty" bson:"jobTitle,omitempty"`
	ProfileImage string             `json:"profileImage,omitempty" bson:"profileImage,omitempty"`
	HeaderImage  string             `json:"headerImage,omitempty" bson:"headerImage,omitempty"`
	Phone        string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Email        string             `json:"email,omitempty" bson:"email,omitempty"`
	SocialLinks  *SocialLinks       `json:"socialLinks,omitempty" bson:"socialLinks,omitempty"`
}

// Request payloads

type SaveProfile struct {
	Name         string       `json:"name" validate:"required,max=120"`
	JobTitle     string       `json:"jobTitle" validate:"omitempty,max=120"`
	ProfileImage string       `json:"profileImage" validate:"omitempty,max=2048"`
	HeaderImage  string       `json:"headerImage" validate:"omitempty,max=2048"`
	Phone        string       `json:"phone" validate:"omitempty,max=32"`
	Email        string       `json:"email" validate:"omitempty,email"`
	SocialLinks  *SocialLinks `json:"socialLinks"`
}

// UpdateProfile replaces the whole record. Name may be omitted, in which case
// the record keeps the key it was found by.
type UpdateProfile struct {
	Name         string       `json:"name" validate:"omitempty,max=120"`
	JobTitle     string       `json:"jobTitle" validate:"omitempty,max=120"`
	ProfileImage string       `json:"profileImage" validate:"omitempty,max=2048"`
	HeaderImage  string       `json:"headerImage" validate:"omitempty,max=2048"`
	Phone        string       `json:"phone" validate:"omitempty,max=32"`
	Email        string       `json:"email" validate:"omitempty,email"`
	SocialLinks  *SocialLinks `json:"socialLinks"`
}

func (p SaveProfile) Profile() Profile {
	return Profile{
		Name:         p.Name,
		JobTitle:     p.JobTitle,
		ProfileImage: p.ProfileImage,
		HeaderImage:  p.HeaderImage,
		Phone:        p.Phone,
		Email:        p.Email,
		SocialLinks:  p.SocialLinks.normalize(),
	}
}

func (p UpdateProfile) Profile() Profile {
	return SaveProfile(p).Profile()
}

func (l *SocialLinks) normalize() *SocialLinks {
	if l == nil || *l == (SocialLinks{}) {
		return nil
	}
	links := *l
	return &links
}
