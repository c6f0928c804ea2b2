package service

import (
	"context"
	"time"

	"docassist-be/internal/dto"
	"docassist-be/internal/entity"
	"docassist-be/internal/pkg/logger"
	"docassist-be/internal/repository/memory"
	"docassist-be/internal/repository/specification"
	"docassist-be/internal/repository/unitofwork"
	"docassist-be/pkg/events"
	"docassist-be/pkg/llm"
	"docassist-be/pkg/nats"
	"docassist-be/pkg/profile"

	"github.com/google/uuid"
)

type IProfileService interface {
	GetProfile(ctx context.Context, userId uuid.UUID) (*dto.GetProfileResponse, error)
	ResetProfile(ctx context.Context, userId uuid.UUID) error

	// Store exposes the backing profile store for context assembly.
	Store() *profile.Store

	// AnalyzeAndApply infers a profile delta from the session turns and
	// merges it. Best-effort: it never fails the turn it derives from.
	AnalyzeAndApply(ctx context.Context, userId string, turns []llm.Message)
}

// profilePersistence adapts the profile store onto the repository layer with
// a go-cache hot layer in front of the database.
type profilePersistence struct {
	uowFactory unitofwork.RepositoryFactory
	hotCache   *memory.ProfileCache
}

func (p *profilePersistence) Load(ctx context.Context, userId string) (*profile.Profile, error) {
	if cached, found := p.hotCache.Get(userId); found {
		return profileFromEntity(cached), nil
	}

	uid, err := uuid.Parse(userId)
	if err != nil {
		return nil, err
	}

	uow := p.uowFactory.NewUnitOfWork(ctx)
	stored, err := uow.UserProfileRepository().FindOne(ctx, specification.UserOwnedBy{UserID: uid})
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, nil
	}

	p.hotCache.Save(userId, stored)
	return profileFromEntity(stored), nil
}

func (p *profilePersistence) Save(ctx context.Context, userId string, prof *profile.Profile) error {
	uid, err := uuid.Parse(userId)
	if err != nil {
		return err
	}

	uow := p.uowFactory.NewUnitOfWork(ctx)
	stored, err := uow.UserProfileRepository().FindOne(ctx, specification.UserOwnedBy{UserID: uid})
	if err != nil {
		return err
	}

	now := time.Now()
	if stored == nil {
		stored = &entity.UserProfile{
			Id:        uuid.New(),
			UserId:    uid,
			CreatedAt: now,
		}
		applyProfileToEntity(prof, stored, now)
		if err := uow.UserProfileRepository().Create(ctx, stored); err != nil {
			return err
		}
	} else {
		applyProfileToEntity(prof, stored, now)
		if err := uow.UserProfileRepository().Update(ctx, stored); err != nil {
			return err
		}
	}

	p.hotCache.Save(userId, stored)
	return nil
}

func (p *profilePersistence) Delete(ctx context.Context, userId string) error {
	uid, err := uuid.Parse(userId)
	if err != nil {
		return err
	}

	uow := p.uowFactory.NewUnitOfWork(ctx)
	if err := uow.UserProfileRepository().DeleteByUserId(ctx, uid); err != nil {
		return err
	}
	p.hotCache.Delete(userId)
	return nil
}

func profileFromEntity(e *entity.UserProfile) *profile.Profile {
	return &profile.Profile{
		Interests:             append([]string(nil), e.Interests...),
		PersonalityTraits:     append([]string(nil), e.PersonalityTraits...),
		CommunicationPatterns: append([]string(nil), e.CommunicationPatterns...),
		PreferredStyle:        e.PreferredResponseStyle,
	}
}

func applyProfileToEntity(p *profile.Profile, e *entity.UserProfile, now time.Time) {
	e.Interests = append([]string(nil), p.Interests...)
	e.PersonalityTraits = append([]string(nil), p.PersonalityTraits...)
	e.CommunicationPatterns = append([]string(nil), p.CommunicationPatterns...)
	e.PreferredResponseStyle = p.PreferredStyle
	e.UpdatedAt = &now
}

type profileService struct {
	store          *profile.Store
	analyzer       *profile.Analyzer
	llmAnalyzer    *profile.LLMAnalyzer
	eventPublisher *nats.Publisher
	logger         logger.ILogger
}

func NewProfileService(
	uowFactory unitofwork.RepositoryFactory,
	hotCache *memory.ProfileCache,
	llmAnalyzer *profile.LLMAnalyzer,
	eventPublisher *nats.Publisher,
	log logger.ILogger,
) IProfileService {
	persistence := &profilePersistence{
		uowFactory: uowFactory,
		hotCache:   hotCache,
	}
	return &profileService{
		store:          profile.NewStore(persistence),
		analyzer:       profile.NewAnalyzer(),
		llmAnalyzer:    llmAnalyzer,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *profileService) Store() *profile.Store {
	return s.store
}

func (s *profileService) GetProfile(ctx context.Context, userId uuid.UUID) (*dto.GetProfileResponse, error) {
	p, err := s.store.Get(ctx, userId.String())
	if err != nil {
		return nil, err
	}
	return &dto.GetProfileResponse{
		Interests:              emptyIfNil(p.Interests),
		PersonalityTraits:      emptyIfNil(p.PersonalityTraits),
		CommunicationPatterns:  emptyIfNil(p.CommunicationPatterns),
		PreferredResponseStyle: p.PreferredStyle,
	}, nil
}

func (s *profileService) ResetProfile(ctx context.Context, userId uuid.UUID) error {
	return s.store.Reset(ctx, userId.String())
}

func (s *profileService) AnalyzeAndApply(ctx context.Context, userId string, turns []llm.Message) {
	delta := s.analyzer.Analyze(turns)

	if s.llmAnalyzer != nil {
		llmDelta := s.llmAnalyzer.Analyze(ctx, turns)
		delta.Interests = append(delta.Interests, llmDelta.Interests...)
		delta.PersonalityTraits = append(delta.PersonalityTraits, llmDelta.PersonalityTraits...)
		delta.CommunicationPatterns = append(delta.CommunicationPatterns, llmDelta.CommunicationPatterns...)
		if llmDelta.PreferredStyle != "" {
			delta.PreferredStyle = llmDelta.PreferredStyle
		}
	}

	if delta.IsEmpty() {
		return
	}

	if _, err := s.store.Update(ctx, userId, delta); err != nil {
		s.logger.Warn("profile", "Failed to apply profile delta", map[string]interface{}{
			"user_id": userId,
			"error":   err.Error(),
		})
		return
	}

	if s.eventPublisher != nil {
		evt := events.New(events.TypeProfileUpdated, map[string]interface{}{
			"user_id": userId,
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("profile", "Failed to publish profile event", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
}

func emptyIfNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
