package registration

import "slices"

// Hobby is one entry of the hobbies array field.
type Hobby struct {
	Name  string `json:"name"`
	Level string `json:"level"`
}

// Draft is the in-memory registration record being edited. Age is nil while
// the user has not entered a value; Hobbies is nil for variants without the
// array field so the preview omits it.
type Draft struct {
	Name          string   `json:"firstName"`
	Surname       string   `json:"lastName"`
	Email         string   `json:"email"`
	Password      string   `json:"password"`
	Age           *int     `json:"age"`
	Gender        string   `json:"gender"`
	Interests     []string `json:"interests"`
	Country       string   `json:"country"`
	Subscribe     bool     `json:"newsletter"`
	AcceptedTerms bool     `json:"terms"`
	Bio           string   `json:"bio"`
	FavoriteColor string   `json:"color"`
	BirthDate     string   `json:"date"`
	Hobbies       []Hobby  `json:"hobbies,omitempty"`
}

// NewHobby returns the entry appended by "add hobby".
func NewHobby() Hobby {
	return Hobby{Level: LevelBeginner}
}

// Clone returns a deep copy of the draft.
func (d Draft) Clone() Draft {
	out := d
	if d.Age != nil {
		age := *d.Age
		out.Age = &age
	}
	if d.Interests != nil {
		out.Interests = append([]string{}, d.Interests...)
	}
	if d.Hobbies != nil {
		out.Hobbies = append([]Hobby{}, d.Hobbies...)
	}
	return out
}

// Equal reports whether two drafts hold the same values. A nil and an empty
// interests list compare equal; hobbies compare by entries.
func (d Draft) Equal(other Draft) bool {
	if d.Name != other.Name ||
		d.Surname != other.Surname ||
		d.Email != other.Email ||
		d.Password != other.Password ||
		d.Gender != other.Gender ||
		d.Country != other.Country ||
		d.Subscribe != other.Subscribe ||
		d.AcceptedTerms != other.AcceptedTerms ||
		d.Bio != other.Bio ||
		d.FavoriteColor != other.FavoriteColor ||
		d.BirthDate != other.BirthDate {
		return false
	}
	if (d.Age == nil) != (other.Age == nil) {
		return false
	}
	if d.Age != nil && *d.Age != *other.Age {
		return false
	}
	return slices.Equal(d.Interests, other.Interests) && slices.Equal(d.Hobbies, other.Hobbies)
}

// Redacted returns a copy safe for logs.
func (d Draft) Redacted() Draft {
	out := d.Clone()
	if out.Password != "" {
		out.Password = "[redacted]"
	}
	return out
}
