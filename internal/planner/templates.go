package planner

// fallbackCategory is used whenever a location's category is empty or has no
// template set of its own.
const fallbackCategory = "general"

// activityTemplates maps a location category to its description templates.
// "{name}" is replaced with the location's name.
var activityTemplates = map[string][]string{
	"general": {
		"Visit {name} and enjoy the surroundings.",
		"Explore the beauty of {name}.",
		"Spend some time at {name}.",
	},
	"adventure": {
		"Explore {name} for a thrilling experience!",
		"Go on an adventure at {name} and feel the adrenaline rush!",
		"Discover the excitement of {name}!",
	},
	"leisure": {
		"Relax and enjoy your time at {name}.",
		"Take a peaceful break at {name}.",
		"Unwind with a leisurely visit to {name}.",
	},
	"food": {
		"Taste delicious dishes at {name}.",
		"Experience the local cuisine at {name}.",
		"Savor the flavors of {name}!",
	},
	"culture": {
		"Immerse yourself in the culture at {name}.",
		"Discover the history and heritage of {name}.",
		"Explore the cultural wonders at {name}.",
	},
	"nature": {
		"Enjoy the serene beauty of {name}.",
		"Discover nature's wonders at {name}.",
		"Get close to nature with a visit to {name}.",
	},
}
