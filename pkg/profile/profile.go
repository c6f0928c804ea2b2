package profile

// Profile holds cross-session inferred user characteristics. Tag fields are
// sets with exact-string dedup; PreferredStyle is last-write-wins.
type Profile struct {
	Interests             []string
	PersonalityTraits     []string
	CommunicationPatterns []string
	PreferredStyle        string
}

// Delta is one round of inferred additions.
type Delta struct {
	Interests             []string
	PersonalityTraits     []string
	CommunicationPatterns []string
	PreferredStyle        string
}

func (d Delta) IsEmpty() bool {
	return len(d.Interests) == 0 &&
		len(d.PersonalityTraits) == 0 &&
		len(d.CommunicationPatterns) == 0 &&
		d.PreferredStyle == ""
}

func (p *Profile) IsEmpty() bool {
	return len(p.Interests) == 0 &&
		len(p.PersonalityTraits) == 0 &&
		len(p.CommunicationPatterns) == 0 &&
		p.PreferredStyle == ""
}

// Merge applies a delta: set union on the tag fields, style replaced only
// when the delta carries a non-empty value. Merging the same delta twice
// yields the same profile as merging it once.
func (p *Profile) Merge(d Delta) {
	p.Interests = unionTags(p.Interests, d.Interests)
	p.PersonalityTraits = unionTags(p.PersonalityTraits, d.PersonalityTraits)
	p.CommunicationPatterns = unionTags(p.CommunicationPatterns, d.CommunicationPatterns)
	if d.PreferredStyle != "" {
		p.PreferredStyle = d.PreferredStyle
	}
}

// Clone returns an independent copy so callers can hand profiles across
// goroutines without sharing slices.
func (p *Profile) Clone() *Profile {
	return &Profile{
		Interests:             append([]string(nil), p.Interests...),
		PersonalityTraits:     append([]string(nil), p.PersonalityTraits...),
		CommunicationPatterns: append([]string(nil), p.CommunicationPatterns...),
		PreferredStyle:        p.PreferredStyle,
	}
}

func unionTags(existing, incoming []string) []string {
	if len(incoming) == 0 {
		return existing
	}
	seen := make(map[string]bool, len(existing))
	for _, tag := range existing {
		seen[tag] = true
	}
	out := existing
	for _, tag := range incoming {
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
