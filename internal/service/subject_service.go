package service

import (
	"context"
	"fmt"

	"github.com/stemsi/exstem-console/internal/model"
)

// SubjectSource lists question-bank subjects.
type SubjectSource interface {
	ListSubjects(ctx context.Context) ([]model.Subject, error)
}

type SubjectService struct {
	source SubjectSource
}

func NewSubjectService(source SubjectSource) *SubjectService {
	return &SubjectService{source: source}
}

func (s *SubjectService) GetAll(ctx context.Context) ([]model.Subject, error) {
	subjects, err := s.source.ListSubjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	if subjects == nil {
		subjects = []model.Subject{}
	}
	return subjects, nil
}
