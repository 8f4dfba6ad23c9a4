package contextset

// MaxFavicons is how many non-primary favicons the context chip shows.
const MaxFavicons = 3

// View is the display aggregate of a set. It is derived on demand and
// never stored.
type View struct {
	Members []Document
	// Primary is the active document when it is a member of the set.
	Primary    Document
	HasPrimary bool
	// Favicons holds up to MaxFavicons icons of non-primary members.
	Favicons []string
	// Remaining counts non-primary members beyond Favicons.
	Remaining int
}

// Count is the number of members.
func (v View) Count() int { return len(v.Members) }

// NewView computes the aggregate of set with primaryID as the active document.
func NewView(set Set, primaryID string) View {
	v := View{Members: set.Documents()}

	var others []Document
	for _, d := range v.Members {
		if d.ID == primaryID && !v.HasPrimary {
			v.Primary = d
			v.HasPrimary = true
			continue
		}
		others = append(others, d)
	}

	shown := min(len(others), MaxFavicons)
	v.Favicons = make([]string, 0, shown)
	for _, d := range others[:shown] {
		v.Favicons = append(v.Favicons, d.Favicon)
	}
	v.Remaining = len(others) - shown
	return v
}
