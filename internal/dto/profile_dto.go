package dto

type GetProfileResponse struct {
	Interests              []string `json:"interests"`
	PersonalityTraits      []string `json:"personality_traits"`
	CommunicationPatterns  []string `json:"communication_patterns"`
	PreferredResponseStyle string   `json:"preferred_response_style"`
}
