package registration

// Gender values.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// Interest values.
const (
	InterestSports  = "sports"
	InterestMusic   = "music"
	InterestReading = "reading"
	InterestTravel  = "travel"
)

// Country codes.
const (
	CountryRussia  = "ru"
	CountryUSA     = "us"
	CountryGermany = "de"
	CountryFrance  = "fr"
	CountryJapan   = "jp"
)

// Hobby levels.
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
	LevelExpert       = "expert"
)

// Option pairs an enum value with its display label.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var (
	genders = []Option{
		{Value: GenderMale, Label: "Male"},
		{Value: GenderFemale, Label: "Female"},
		{Value: GenderOther, Label: "Other"},
	}
	interests = []Option{
		{Value: InterestSports, Label: "Sports"},
		{Value: InterestMusic, Label: "Music"},
		{Value: InterestReading, Label: "Reading"},
		{Value: InterestTravel, Label: "Travel"},
	}
	countries = []Option{
		{Value: CountryRussia, Label: "Russia"},
		{Value: CountryUSA, Label: "USA"},
		{Value: CountryGermany, Label: "Germany"},
		{Value: CountryFrance, Label: "France"},
		{Value: CountryJapan, Label: "Japan"},
	}
	levels = []Option{
		{Value: LevelBeginner, Label: "Beginner"},
		{Value: LevelIntermediate, Label: "Intermediate"},
		{Value: LevelAdvanced, Label: "Advanced"},
		{Value: LevelExpert, Label: "Expert"},
	}
)

// Genders returns the gender options in display order.
func Genders() []Option { return cloneOptions(genders) }

// Interests returns the interest options in display order.
func Interests() []Option { return cloneOptions(interests) }

// Countries returns the country options in display order.
func Countries() []Option { return cloneOptions(countries) }

// HobbyLevels returns the hobby level options in display order.
func HobbyLevels() []Option { return cloneOptions(levels) }

// IsGender reports whether value is a known gender.
func IsGender(value string) bool { return contains(genders, value) }

// IsInterest reports whether value is a known interest.
func IsInterest(value string) bool { return contains(interests, value) }

// IsCountry reports whether value is a known country code.
func IsCountry(value string) bool { return contains(countries, value) }

// IsHobbyLevel reports whether value is a known hobby level.
func IsHobbyLevel(value string) bool { return contains(levels, value) }

// Values extracts the raw values from a list of options.
func Values(options []Option) []string {
	out := make([]string, 0, len(options))
	for _, option := range options {
		out = append(out, option.Value)
	}
	return out
}

func contains(options []Option, value string) bool {
	for _, option := range options {
		if option.Value == value {
			return true
		}
	}
	return false
}

func cloneOptions(in []Option) []Option {
	return append([]Option(nil), in...)
}
