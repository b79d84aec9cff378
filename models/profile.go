package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type AthleteProfile struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	PrimarySport    string             `bson:"primarySport" json:"primarySport"`
	SecondarySports []string           `bson:"secondarySports" json:"secondarySports"`
	Positions       []string           `bson:"positions" json:"positions"`
}

type CoachProfile struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"userId" json:"userId"`
	Specialization []string           `bson:"specialization" json:"specialization"`
	Qualifications []string           `bson:"qualifications" json:"qualifications"`
}

type AcademyProfile struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	Name       string             `bson:"name" json:"name"`
	Type       string             `bson:"type" json:"type"`
	Sports     []string           `bson:"sports" json:"sports"`
	AgeGroups  []string           `bson:"ageGroups" json:"ageGroups"`
	Facilities []string           `bson:"facilities" json:"facilities"`
}

// Profile is one of the role profile documents above.
type Profile interface {
	Collection() string
}

func (AthleteProfile) Collection() string { return "athlete_profiles" }
func (CoachProfile) Collection() string   { return "coach_profiles" }
func (AcademyProfile) Collection() string { return "academy_profiles" }

// NewProfileFor returns the default role profile created alongside a new
// user. Onboarding fills in the details later.
func NewProfileFor(u *User) Profile {
	switch u.Role {
	case RoleAthlete:
		return &AthleteProfile{
			UserID:          u.ID,
			PrimarySport:    "Soccer",
			SecondarySports: []string{},
			Positions:       []string{},
		}
	case RoleCoach:
		return &CoachProfile{
			UserID:         u.ID,
			Specialization: []string{},
			Qualifications: []string{},
		}
	case RoleAcademy:
		return &AcademyProfile{
			UserID:     u.ID,
			Name:       u.Name,
			Type:       "Academy",
			Sports:     []string{},
			AgeGroups:  []string{},
			Facilities: []string{},
		}
	}
	return nil
}
