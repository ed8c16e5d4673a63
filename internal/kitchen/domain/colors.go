package domain

// BackgroundColors is the fixed palette a resource card may use. The values
// are Tailwind class names because the web client applies them directly.
var BackgroundColors = []string{
	"bg-red-400",
	"bg-orange-400",
	"bg-amber-400",
	"bg-yellow-400",
	"bg-lime-400",
	"bg-green-400",
	"bg-emerald-400",
	"bg-teal-400",
	"bg-cyan-400",
	"bg-sky-400",
	"bg-blue-400",
	"bg-indigo-400",
	"bg-violet-400",
	"bg-purple-400",
	"bg-fuchsia-400",
	"bg-pink-400",
	"bg-rose-400",
}

// IsValidColor reports whether c is one of the allowed background colors.
func IsValidColor(c string) bool {
	for _, v := range BackgroundColors {
		if v == c {
			return true
		}
	}
	return false
}
