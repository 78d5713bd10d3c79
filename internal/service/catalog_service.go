package service

import (
	"alcyxob/training-planner/internal/domain"
	"alcyxob/training-planner/internal/repository"
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Service Interface ---

// CatalogService manages the organization-scoped name catalogs referenced by
// sessions: goals, muscle groups and equipment.
type CatalogService interface {
	CreateItem(ctx context.Context, orgID primitive.ObjectID, kind domain.CatalogKind, author domain.Author, name string) (*domain.CatalogItem, error)
	ListItems(ctx context.Context, orgID primitive.ObjectID, kind domain.CatalogKind) ([]domain.CatalogItem, error)
	RenameItem(ctx context.Context, orgID primitive.ObjectID, kind domain.CatalogKind, itemID primitive.ObjectID, author domain.Author, name string) (*domain.CatalogItem, error)
	DeleteItem(ctx context.Context, orgID primitive.ObjectID, kind domain.CatalogKind, itemID primitive.ObjectID) error
}

// --- Service Implementation ---

type catalogService struct {
	repos map[domain.CatalogKind]repository.CatalogRepository
	clock Clock
}

// NewCatalogService creates a catalog service over one repository per kind.
func NewCatalogService(repos map[domain.CatalogKind]repository.CatalogRepository, clock Clock) CatalogService {
	return &catalogService{repos: repos, clock: clock}
}

func (s *catalogService) CreateItem(ctx context.Context, orgID primitive.ObjectID, kind domain.CatalogKind, author domain.Author, name string) (*domain.CatalogItem, error) {
	repo, err := s.repo(kind)
	if err != nil {
		return nil, err
	}
	if err := validateAuthor(author); err != nil {
		return nil, err
	}
	name, err = requireName(name)
	if err != nil {
		return nil, err
	}

	item := &domain.CatalogItem{
		OrganizationID: orgID,
		Name:           name,
		CreatedBy:      author,
	}
	if _, err := repo.Create(ctx, item); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, domain.NewConflictError("%s %q already exists", kind, name)
		}
		return nil, fmt.Errorf("creating %s item: %w", kind, err)
	}
	return item, nil
}

func (s *catalogService) ListItems(ctx context.Context, orgID primitive.ObjectID, kind domain.CatalogKind) ([]domain.CatalogItem, error) {
	repo, err := s.repo(kind)
	if err != nil {
		return nil, err
	}
	return repo.ListByOrganization(ctx, orgID)
}

func (s *catalogService) RenameItem(ctx context.Context, orgID primitive.ObjectID, kind domain.CatalogKind, itemID primitive.ObjectID, author domain.Author, name string) (*domain.CatalogItem, error) {
	repo, err := s.repo(kind)
	if err != nil {
		return nil, err
	}
	if err := validateAuthor(author); err != nil {
		return nil, err
	}
	name, err = requireName(name)
	if err != nil {
		return nil, err
	}
	item, err := getOwnedItem(ctx, repo, orgID, itemID)
	if err != nil {
		return nil, err
	}

	item.Name = name
	item.EditedBy = edited(item.EditedBy, author, s.clock.now())
	if err := repo.Update(ctx, item); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, domain.NewConflictError("%s %q already exists", kind, name)
		}
		return nil, notFoundOr(err, domain.RefCatalogItem, "%s %s not found", kind, itemID.Hex())
	}
	return item, nil
}

func (s *catalogService) DeleteItem(ctx context.Context, orgID primitive.ObjectID, kind domain.CatalogKind, itemID primitive.ObjectID) error {
	repo, err := s.repo(kind)
	if err != nil {
		return err
	}
	if _, err := getOwnedItem(ctx, repo, orgID, itemID); err != nil {
		return err
	}
	if err := repo.Delete(ctx, itemID); err != nil {
		return notFoundOr(err, domain.RefCatalogItem, "%s %s not found", kind, itemID.Hex())
	}
	return nil
}

func (s *catalogService) repo(kind domain.CatalogKind) (repository.CatalogRepository, error) {
	repo, ok := s.repos[kind]
	if !ok || !kind.Valid() {
		return nil, domain.NewNotFoundError(domain.RefCatalogItem, "unknown catalog %q", kind)
	}
	return repo, nil
}

func getOwnedItem(ctx context.Context, repo repository.CatalogRepository, orgID, itemID primitive.ObjectID) (*domain.CatalogItem, error) {
	item, err := repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, notFoundOr(err, domain.RefCatalogItem, "catalog item %s not found", itemID.Hex())
	}
	if item.OrganizationID != orgID {
		return nil, domain.NewNotFoundError(domain.RefCatalogItem, "catalog item %s not found", itemID.Hex())
	}
	return item, nil
}
