package detective

// Item is an object a suspect may carry. Items are identified by their index in the catalog.
type Item struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// Profile is the display identity of a suspect.
type Profile struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// DefaultItems returns the item catalog used by [DefaultConfig].
func DefaultItems() []Item {
	return []Item{
		{Name: "hat", Icon: "🎩"},
		{Name: "watch", Icon: "⌚"},
		{Name: "wand", Icon: "🪄"},
		{Name: "glasses", Icon: "👓"},
		{Name: "key", Icon: "🔑"},
		{Name: "ring", Icon: "💍"},
		{Name: "book", Icon: "📕"},
		{Name: "crown", Icon: "👑"},
		{Name: "scarf", Icon: "🧣"},
		{Name: "shield", Icon: "🛡️"},
	}
}

// DefaultSuspects returns the suspect roster used by [DefaultConfig].
func DefaultSuspects() []Profile {
	return []Profile{
		{Name: "The Wizard", Icon: "🧙‍♂️"},
		{Name: "The Vampire", Icon: "🧛"},
		{Name: "The Clown", Icon: "🤡"},
		{Name: "The Mermaid", Icon: "🧜‍♀️"},
		{Name: "The Supervillain", Icon: "🦹"},
		{Name: "The Ghost", Icon: "👻"},
		{Name: "The Robot", Icon: "🤖"},
		{Name: "The Fairy", Icon: "🧚"},
		{Name: "The Pirate", Icon: "🏴‍☠️"},
		{Name: "The Ninja", Icon: "🥷"},
		{Name: "The Alien", Icon: "👽"},
		{Name: "The Elf", Icon: "🧝"},
	}
}
