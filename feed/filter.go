package feed

import (
	"gameon/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoleVisibility lists, per viewer role, the author roles whose public posts
// the viewer is shown.
//
// Every role currently maps to all three roles, so the role clause matches
// any author and the feed degenerates to "all public posts". That is the
// observed product behaviour and is kept as is.
var RoleVisibility = map[models.Role][]models.Role{
	models.RoleAthlete: {models.RoleCoach, models.RoleAcademy, models.RoleAthlete},
	models.RoleCoach:   {models.RoleAthlete, models.RoleAcademy, models.RoleCoach},
	models.RoleAcademy: {models.RoleAthlete, models.RoleCoach, models.RoleAcademy},
}

// Filter selects the posts of one viewer's feed. A post matches when its
// visibility equals Visibility and, unless the filter is unrestricted, at
// least one of the clauses holds: author in AuthorIDs, any sports tag in
// Tags, author role in AuthorRoles.
type Filter struct {
	Visibility  models.Visibility
	AuthorIDs   []primitive.ObjectID
	Tags        []string
	AuthorRoles []models.Role
}

// BuildFilter derives the feed filter for viewer given the ids of the users
// it is connected to.
func BuildFilter(viewer *models.User, followed []primitive.ObjectID) Filter {
	f := Filter{Visibility: models.VisibilityPublic}

	seen := make(map[primitive.ObjectID]struct{}, len(followed))
	for _, id := range followed {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		f.AuthorIDs = append(f.AuthorIDs, id)
	}

	if len(viewer.Interests) > 0 {
		f.Tags = append([]string(nil), viewer.Interests...)
	}

	if roles, ok := RoleVisibility[viewer.Role]; ok {
		f.AuthorRoles = append([]models.Role(nil), roles...)
	}
	return f
}

// Unrestricted reports whether no clause applies, in which case every post
// with the required visibility matches.
func (f Filter) Unrestricted() bool {
	return len(f.AuthorIDs) == 0 && len(f.Tags) == 0 && len(f.AuthorRoles) == 0
}

// Matches evaluates the filter against a single post. It is the in-memory
// form of the $match stages database.FeedPipeline builds, and the two must
// agree.
func (f Filter) Matches(p *models.Post, authorRole models.Role) bool {
	if p.Visibility != f.Visibility {
		return false
	}
	if f.Unrestricted() {
		return true
	}
	for _, id := range f.AuthorIDs {
		if p.AuthorID == id {
			return true
		}
	}
	for _, tag := range p.SportsTags {
		for _, want := range f.Tags {
			if tag == want {
				return true
			}
		}
	}
	for _, role := range f.AuthorRoles {
		if authorRole == role {
			return true
		}
	}
	return false
}
