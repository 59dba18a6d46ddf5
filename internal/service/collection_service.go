package service

import (
	"context"
	"strings"

	"github.com/pagemill/pagemill/internal/model"
	appErr "github.com/pagemill/pagemill/internal/pkg/errors"
	"github.com/pagemill/pagemill/internal/pkg/timeutil"
	"github.com/pagemill/pagemill/internal/store"
)

type CollectionService struct {
	collections store.CollectionStore
}

func NewCollectionService(collections store.CollectionStore) *CollectionService {
	return &CollectionService{collections: collections}
}

func (s *CollectionService) Create(ctx context.Context, name string) (*model.Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, appErr.ErrInvalid
	}
	collection := &model.Collection{
		ID:    newID(),
		Name:  name,
		Ctime: timeutil.NowUnix(),
	}
	if err := s.collections.Create(ctx, collection); err != nil {
		return nil, err
	}
	return collection, nil
}

func (s *CollectionService) Get(ctx context.Context, id string) (*model.Collection, error) {
	return s.collections.Get(ctx, id)
}

func (s *CollectionService) List(ctx context.Context) ([]*model.Collection, error) {
	return s.collections.List(ctx)
}

func (s *CollectionService) Delete(ctx context.Context, id string) error {
	return s.collections.Delete(ctx, id)
}
