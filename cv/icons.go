package cv

import "strings"

// DefaultInterestIcon is used when no keyword matches.
const DefaultInterestIcon = "heart"

// checked in order, first substring match wins
var interestIcons = []struct {
	keyword string
	icon    string
}{
	{"voyage", "plane"},
	{"photo", "camera"},
	{"sport", "futbol"},
	{"musique", "music"},
	{"lecture", "book"},
	{"film", "film"},
	{"cuisine", "utensils"},
	{"art", "palette"},
	{"design", "palette"},
	{"tech", "code"},
	{"jeux", "gamepad"},
	{"nature", "tree"},
	{"randonnée", "hiking"},
	{"yoga", "spa"},
	{"meditation", "spa"},
	{"écriture", "pen"},
	{"peinture", "palette"},
	{"danse", "music"},
	{"théâtre", "masks"},
	{"science", "flask"},
	{"histoire", "landmark"},
	{"politique", "vote-yea"},
	{"bénévolat", "hands-helping"},
	{"entrepreneuriat", "lightbulb"},
	{"innovation", "rocket"},
}

// InterestIcon picks an icon name for an interest.
func InterestIcon(interest string) string {
	lower := strings.ToLower(interest)
	for _, entry := range interestIcons {
		if strings.Contains(lower, entry.keyword) {
			return entry.icon
		}
	}
	return DefaultInterestIcon
}
