package mapper

import (
	"encoding/json"

	"docassist-be/internal/entity"
	"docassist-be/internal/model"

	"gorm.io/datatypes"
)

type UserProfileMapper struct{}

func NewUserProfileMapper() *UserProfileMapper {
	return &UserProfileMapper{}
}

func (m *UserProfileMapper) ToEntity(p *model.UserProfile) *entity.UserProfile {
	if p == nil {
		return nil
	}
	return &entity.UserProfile{
		Id:                     p.Id,
		UserId:                 p.UserId,
		Interests:              jsonToTags(p.Interests),
		PersonalityTraits:      jsonToTags(p.PersonalityTraits),
		PreferredResponseStyle: p.PreferredResponseStyle,
		CommunicationPatterns:  jsonToTags(p.CommunicationPatterns),
		CreatedAt:              p.CreatedAt,
		UpdatedAt:              timestampToEntity(p.UpdatedAt),
	}
}

func (m *UserProfileMapper) ToModel(p *entity.UserProfile) *model.UserProfile {
	if p == nil {
		return nil
	}
	return &model.UserProfile{
		Id:                     p.Id,
		UserId:                 p.UserId,
		Interests:              tagsToJSON(p.Interests),
		PersonalityTraits:      tagsToJSON(p.PersonalityTraits),
		PreferredResponseStyle: p.PreferredResponseStyle,
		CommunicationPatterns:  tagsToJSON(p.CommunicationPatterns),
		CreatedAt:              p.CreatedAt,
		UpdatedAt:              timestampToModel(p.UpdatedAt),
	}
}

func jsonToTags(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return []string{}
	}
	return tags
}

func tagsToJSON(tags []string) datatypes.JSON {
	if tags == nil {
		tags = []string{}
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(raw)
}
