package people

const (
	// AGE_OF_MAJORITY is the age at which a person is registered
	// through the 'adult' paths rather than the 'child' ones.
	AGE_OF_MAJORITY = 18

	MAX_HUMAN_AGE = 120

	AGE_OF_SENIORITY = 65
)

// AgeRange is an inclusive range of ages in whole years.
type AgeRange struct {
	Start int
	End   int
}

var (
	TEENAGE         = AgeRange{Start: 13, End: 19}
	YOUNG_ADULTHOOD = AgeRange{Start: 20, End: 35}
	MIDDLE_AGE      = AgeRange{Start: 45, End: AGE_OF_SENIORITY}
)

// Gender choices
const (
	FEMALE = "F"
	MALE   = "M"
)

// Interpersonal relationship choices
const (
	ROMANTIC     = "R"
	MARITAL      = "M"
	PARENT_CHILD = "PC"
	SIBLING      = "S"
)

// Choice pairs a stored value with its display label.
type Choice struct {
	Value string
	Label string
}

var (
	GENDER_CHOICES = []Choice{
		{Value: FEMALE, Label: "Female"},
		{Value: MALE, Label: "Male"},
	}

	INTERPERSONAL_RELATIONSHIP_CHOICES = []Choice{
		{Value: ROMANTIC, Label: "Romantic"},
		{Value: MARITAL, Label: "Marital"},
		{Value: PARENT_CHILD, Label: "Parent-child"},
		{Value: SIBLING, Label: "Sibling"},
	}

	// FAMILIAL_RELATIONSHIPS is the subset of relationship kinds used as
	// defaults on the family registration forms. The first entry is the
	// initial value for the 'relation' field.
	FAMILIAL_RELATIONSHIPS = []string{PARENT_CHILD, SIBLING}
)

// IsValidChoice reports whether value is one of the given choices.
func IsValidChoice(value string, choices []Choice) bool {
	for _, choice := range choices {
		if choice.Value == value {
			return true
		}
	}

	return false
}
