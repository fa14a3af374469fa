package catalog

// Pack is one of the 13 fixed thematic question groups.
type Pack string

const (
	PackChildhood      Pack = "childhood"
	PackParentsHome    Pack = "parents_home"
	PackSchool         Pack = "school"
	PackYouth          Pack = "youth"
	PackWork           Pack = "work"
	PackLove           Pack = "love"
	PackChildrenFamily Pack = "children_family"
	PackPlaces         Pack = "places"
	PackHardships      Pack = "hardships"
	PackAchievements   Pack = "achievements"
	PackTraditions     Pack = "traditions"
	PackFavorites      Pack = "favorites"
	PackLaterYears     Pack = "later_years"
)

// AllPacks returns the 13 packs in declaration order. The order doubles
// as the tie-break rule when two packs have equal coverage.
func AllPacks() []Pack {
	return []Pack{
		PackChildhood,
		PackParentsHome,
		PackSchool,
		PackYouth,
		PackWork,
		PackLove,
		PackChildrenFamily,
		PackPlaces,
		PackHardships,
		PackAchievements,
		PackTraditions,
		PackFavorites,
		PackLaterYears,
	}
}

// comfortPacks are safe ground for early-stage users.
var comfortPacks = map[Pack]bool{
	PackChildhood:   true,
	PackParentsHome: true,
	PackTraditions:  true,
	PackFavorites:   true,
}

// sensitivePacks are withheld until the user has warmed up on comfort
// material.
var sensitivePacks = map[Pack]bool{
	PackHardships:  true,
	PackLove:       true,
	PackLaterYears: true,
}

// IsComfort reports whether p is one of the comfort packs.
func IsComfort(p Pack) bool { return comfortPacks[p] }

// IsSensitive reports whether p is one of the sensitive packs.
func IsSensitive(p Pack) bool { return sensitivePacks[p] }

// ValidPack reports whether p names one of the 13 fixed packs.
func ValidPack(p Pack) bool {
	for _, known := range AllPacks() {
		if p == known {
			return true
		}
	}
	return false
}

// DisplayName returns the user-facing pack label.
func DisplayName(p Pack) string {
	switch p {
	case PackChildhood:
		return "Детство"
	case PackParentsHome:
		return "Родительский дом"
	case PackSchool:
		return "Школа"
	case PackYouth:
		return "Юность"
	case PackWork:
		return "Работа"
	case PackLove:
		return "Любовь"
	case PackChildrenFamily:
		return "Дети и семья"
	case PackPlaces:
		return "Места"
	case PackHardships:
		return "Трудные времена"
	case PackAchievements:
		return "Достижения"
	case PackTraditions:
		return "Традиции"
	case PackFavorites:
		return "Любимое"
	case PackLaterYears:
		return "Зрелые годы"
	default:
		return string(p)
	}
}
