package catalog

// Category kinds used to build the default catalog.
const (
	kindSkill = iota
	kindActivity
	kindBoss
)

type entry struct {
	name string
	kind int
}

// layout mirrors the line order of the hiscore service's lite response.
// The service inserts new categories mid-list; every later index shifts with it.
var layout = []entry{
	{"Overall", kindSkill},
	{"Attack", kindSkill},
	{"Defence", kindSkill},
	{"Strength", kindSkill},
	{"Hitpoints", kindSkill},
	{"Ranged", kindSkill},
	{"Prayer", kindSkill},
	{"Magic", kindSkill},
	{"Cooking", kindSkill},
	{"Woodcutting", kindSkill},
	{"Fletching", kindSkill},
	{"Fishing", kindSkill},
	{"Firemaking", kindSkill},
	{"Crafting", kindSkill},
	{"Smithing", kindSkill},
	{"Mining", kindSkill},
	{"Herblore", kindSkill},
	{"Agility", kindSkill},
	{"Thieving", kindSkill},
	{"Slayer", kindSkill},
	{"Farming", kindSkill},
	{"Runecraft", kindSkill},
	{"Hunter", kindSkill},
	{"Construction", kindSkill},

	{"League Points", kindActivity},
	{"Deadman Points", kindActivity},
	{"Bounty Hunter - Hunter", kindActivity},
	{"Bounty Hunter - Rogue", kindActivity},
	{"Bounty Hunter (Legacy) - Hunter", kindActivity},
	{"Bounty Hunter (Legacy) - Rogue", kindActivity},
	{"Clue Scrolls (All)", kindActivity},
	{"Clue Scrolls (Beginner)", kindActivity},
	{"Clue Scrolls (Easy)", kindActivity},
	{"Clue Scrolls (Medium)", kindActivity},
	{"Clue Scrolls (Hard)", kindActivity},
	{"Clue Scrolls (Elite)", kindActivity},
	{"Clue Scrolls (Master)", kindActivity},
	{"LMS - Rank", kindActivity},
	{"PvP Arena - Rank", kindActivity},
	{"Soul Wars Zeal", kindActivity},
	{"Rifts Closed", kindActivity},
	{"Colosseum Glory", kindActivity},
	{"Collections Logged", kindActivity},

	{"Abyssal Sire", kindBoss},
	{"Alchemical Hydra", kindBoss},
	{"Amoxliatl", kindBoss},
	{"Araxxor", kindBoss},
	{"Artio", kindBoss},
	{"Barrows Chests", kindBoss},
	{"Bryophyta", kindBoss},
	{"Callisto", kindBoss},
	{"Calvar'ion", kindBoss},
	{"Cerberus", kindBoss},
	{"Chambers of Xeric", kindBoss},
	{"Chambers of Xeric: CM", kindBoss},
	{"Chaos Elemental", kindBoss},
	{"Chaos Fanatic", kindBoss},
	{"Commander Zilyana", kindBoss},
	{"Corporeal Beast", kindBoss},
	{"Crazy Archaeologist", kindBoss},
	{"Dagannoth Prime", kindBoss},
	{"Dagannoth Rex", kindBoss},
	{"Dagannoth Supreme", kindBoss},
	{"Deranged Archaeologist", kindBoss},
	{"Doom of Mokhaiotl", kindBoss},
	{"Duke Sucellus", kindBoss},
	{"General Graardor", kindBoss},
	{"Giant Mole", kindBoss},
	{"Grotesque Guardians", kindBoss},
	{"Hespori", kindBoss},
	{"Kalphite Queen", kindBoss},
	{"King Black Dragon", kindBoss},
	{"Kraken", kindBoss},
	{"Kree'arra", kindBoss},
	{"K'ril Tsutsaroth", kindBoss},
	{"Lunar Chests", kindBoss},
	{"Mimic", kindBoss},
	{"Nex", kindBoss},
	{"The Nightmare", kindBoss},
	{"Phosani's Nightmare", kindBoss},
	{"Obor", kindBoss},
	{"Phantom Muspah", kindBoss},
	{"Sarachnis", kindBoss},
	{"Scorpia", kindBoss},
	{"Scurrius", kindBoss},
	{"Skotizo", kindBoss},
	{"Sol Heredit", kindBoss},
	{"Spindel", kindBoss},
	{"Tempoross", kindBoss},
	{"The Gauntlet", kindBoss},
	{"The Corrupted Gauntlet", kindBoss},
	{"The Hueycoatl", kindBoss},
	{"The Leviathan", kindBoss},
	{"The Royal Titans", kindBoss},
	{"The Whisperer", kindBoss},
	{"Theatre of Blood", kindBoss},
	{"Theatre of Blood: HM", kindBoss},
	{"Thermonuclear Smoke Devil", kindBoss},
	{"Tombs of Amascut", kindBoss},
	{"Tombs of Amascut: Expert", kindBoss},
	{"TzKal-Zuk", kindBoss},
	{"TzTok-Jad", kindBoss},
	{"Vardorvis", kindBoss},
	{"Venenatis", kindBoss},
	{"Vet'ion", kindBoss},
	{"Vorkath", kindBoss},
	{"Wintertodt", kindBoss},
	{"Yama", kindBoss},
	{"Zalcano", kindBoss},
	{"Zulrah", kindBoss},
}

var defaultCatalog = buildDefault()

func buildDefault() *Catalog {
	categories := make([]Category, len(layout))
	for i, e := range layout {
		categories[i] = Category{
			Name:              e.name,
			APIIndex:          i,
			ExperienceBearing: e.kind == kindSkill,
			Aggregate:         i == 0,
		}
	}
	return MustNew(categories...)
}

// Default returns the catalog matching the current hiscore response layout.
func Default() *Catalog { return defaultCatalog }
