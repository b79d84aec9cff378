// Package sports is the fixed catalog of sports users pick interests from.
package sports

import "strings"

type Category string

const (
	CategoryTeam         Category = "team"
	CategoryIndividual   Category = "individual"
	CategoryCombat       Category = "combat"
	CategoryFitness      Category = "fitness"
	CategoryRecreational Category = "recreational"
	CategoryOther        Category = "other"
)

type Sport struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Icon     string   `json:"icon"`
	Category Category `json:"category"`
}

var catalog = []Sport{
	{ID: "soccer", Name: "Soccer", Icon: "⚽", Category: CategoryTeam},
	{ID: "basketball", Name: "Basketball", Icon: "🏀", Category: CategoryTeam},
	{ID: "cricket", Name: "Cricket", Icon: "🏏", Category: CategoryTeam},
	{ID: "american-football", Name: "American Football", Icon: "🏈", Category: CategoryTeam},
	{ID: "rugby", Name: "Rugby", Icon: "🏉", Category: CategoryTeam},
	{ID: "volleyball", Name: "Volleyball", Icon: "🏐", Category: CategoryTeam},
	{ID: "hockey", Name: "Hockey", Icon: "🏒", Category: CategoryTeam},
	{ID: "baseball", Name: "Baseball", Icon: "⚾", Category: CategoryTeam},

	{ID: "tennis", Name: "Tennis", Icon: "🎾", Category: CategoryIndividual},
	{ID: "badminton", Name: "Badminton", Icon: "🏸", Category: CategoryIndividual},
	{ID: "table-tennis", Name: "Table Tennis", Icon: "🏓", Category: CategoryIndividual},
	{ID: "golf", Name: "Golf", Icon: "⛳", Category: CategoryIndividual},
	{ID: "athletics", Name: "Athletics", Icon: "🏃", Category: CategoryIndividual},
	{ID: "swimming", Name: "Swimming", Icon: "🏊", Category: CategoryIndividual},
	{ID: "cycling", Name: "Cycling", Icon: "🚴", Category: CategoryIndividual},
	{ID: "running", Name: "Running", Icon: "👟", Category: CategoryIndividual},

	{ID: "boxing", Name: "Boxing", Icon: "🥊", Category: CategoryCombat},
	{ID: "mma", Name: "MMA", Icon: "🥋", Category: CategoryCombat},
	{ID: "wrestling", Name: "Wrestling", Icon: "🤼", Category: CategoryCombat},
	{ID: "judo", Name: "Judo", Icon: "🥋", Category: CategoryCombat},
	{ID: "karate", Name: "Karate", Icon: "🥋", Category: CategoryCombat},
	{ID: "taekwondo", Name: "Taekwondo", Icon: "🥋", Category: CategoryCombat},

	{ID: "yoga", Name: "Yoga", Icon: "🧘", Category: CategoryFitness},
	{ID: "pilates", Name: "Pilates", Icon: "🤸", Category: CategoryFitness},
	{ID: "crossfit", Name: "CrossFit", Icon: "🏋️", Category: CategoryFitness},
	{ID: "weightlifting", Name: "Weightlifting", Icon: "🏋️", Category: CategoryFitness},
	{ID: "gymnastics", Name: "Gymnastics", Icon: "🤸", Category: CategoryFitness},

	{ID: "skateboarding", Name: "Skateboarding", Icon: "🛹", Category: CategoryRecreational},
	{ID: "surfing", Name: "Surfing", Icon: "🏄", Category: CategoryRecreational},
	{ID: "rock-climbing", Name: "Rock Climbing", Icon: "🧗", Category: CategoryRecreational},
	{ID: "skiing", Name: "Skiing", Icon: "⛷️", Category: CategoryRecreational},
	{ID: "snowboarding", Name: "Snowboarding", Icon: "🏂", Category: CategoryRecreational},

	{ID: "esports", Name: "Esports", Icon: "🎮", Category: CategoryOther},
	{ID: "chess", Name: "Chess", Icon: "♟️", Category: CategoryOther},
	{ID: "archery", Name: "Archery", Icon: "🏹", Category: CategoryOther},
	{ID: "rowing", Name: "Rowing", Icon: "🚣", Category: CategoryOther},
	{ID: "triathlon", Name: "Triathlon", Icon: "🏊", Category: CategoryOther},
}

// All returns a copy of the catalog in display order.
func All() []Sport {
	return append([]Sport(nil), catalog...)
}

func ByID(id string) (Sport, bool) {
	for _, s := range catalog {
		if s.ID == id {
			return s, true
		}
	}
	return Sport{}, false
}

// ByName matches a display name case-insensitively.
func ByName(name string) (Sport, bool) {
	name = strings.TrimSpace(name)
	for _, s := range catalog {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return Sport{}, false
}

// Grouped returns the catalog keyed by category.
func Grouped() map[Category][]Sport {
	out := make(map[Category][]Sport)
	for _, s := range catalog {
		out[s.Category] = append(out[s.Category], s)
	}
	return out
}
