package mapper

import (
	"rag-knowledge-be/internal/entity"
	"rag-knowledge-be/internal/model"
)

type SourceMapper struct{}

func NewSourceMapper() *SourceMapper {
	return &SourceMapper{}
}

func (m *SourceMapper) ToEntity(s *model.Source) *entity.Source {
	if s == nil {
		return nil
	}

	var reason *entity.RejectReason
	if s.RejectionReason != nil {
		r := entity.RejectReason(*s.RejectionReason)
		reason = &r
	}

	return &entity.Source{
		Id:              s.Id,
		Path:            s.Path,
		Kind:            entity.SourceKind(s.Kind),
		IsAccepted:      s.IsAccepted,
		RejectionReason: reason,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func (m *SourceMapper) ToModel(s *entity.Source) *model.Source {
	if s == nil {
		return nil
	}

	var reason *string
	if s.RejectionReason != nil {
		r := string(*s.RejectionReason)
		reason = &r
	}

	return &model.Source{
		Id:              s.Id,
		Path:            s.Path,
		Kind:            string(s.Kind),
		IsAccepted:      s.IsAccepted,
		RejectionReason: reason,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func (m *SourceMapper) ToEntities(sources []*model.Source) []*entity.Source {
	entities := make([]*entity.Source, len(sources))
	for i, s := range sources {
		entities[i] = m.ToEntity(s)
	}
	return entities
}
