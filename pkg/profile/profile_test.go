package profile

import (
	"reflect"
	"testing"
)

func TestMergeUnionsTags(t *testing.T) {
	p := &Profile{Interests: []string{"technology"}}
	p.Merge(Delta{Interests: []string{"technology", "travel"}})

	want := []string{"technology", "travel"}
	if !reflect.DeepEqual(p.Interests, want) {
		t.Errorf("Interests = %v, want %v", p.Interests, want)
	}
}

func TestMergeIdempotent(t *testing.T) {
	delta := Delta{
		Interests:             []string{"food", "health"},
		PersonalityTraits:     []string{"inquisitive"},
		CommunicationPatterns: []string{"short questions"},
		PreferredStyle:        "concise",
	}

	once := &Profile{}
	once.Merge(delta)

	twice := &Profile{}
	twice.Merge(delta)
	twice.Merge(delta)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("merging the same delta twice changed the profile:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestMergeStyleLastWriteWins(t *testing.T) {
	p := &Profile{PreferredStyle: "detailed"}

	p.Merge(Delta{PreferredStyle: "concise"})
	if p.PreferredStyle != "concise" {
		t.Errorf("PreferredStyle = %q, want %q", p.PreferredStyle, "concise")
	}

	// Empty style in a delta leaves the current value alone
	p.Merge(Delta{Interests: []string{"travel"}})
	if p.PreferredStyle != "concise" {
		t.Errorf("empty delta style overwrote the profile: %q", p.PreferredStyle)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	p := &Profile{Interests: []string{"technology"}}
	c := p.Clone()
	c.Interests = append(c.Interests, "business")
	c.Merge(Delta{PreferredStyle: "concise"})

	if len(p.Interests) != 1 || p.PreferredStyle != "" {
		t.Errorf("mutating the clone changed the original: %+v", p)
	}
}

func TestDeltaIsEmpty(t *testing.T) {
	if !(Delta{}).IsEmpty() {
		t.Error("zero delta should be empty")
	}
	if (Delta{PreferredStyle: "concise"}).IsEmpty() {
		t.Error("delta with a style should not be empty")
	}
	if (Delta{Interests: []string{"food"}}).IsEmpty() {
		t.Error("delta with interests should not be empty")
	}
}
