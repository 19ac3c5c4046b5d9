package uploads

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/google/uuid"

	"sim-backend/internal/fixtures"
	"sim-backend/internal/initiatives"
	"sim-backend/internal/organizations"
	"sim-backend/internal/shared/storage/object"
	"sim-backend/internal/shared/util"
	"sim-backend/internal/sim"
)

// ErrInvalidDataset wraps YAML decode and validation failures.
var ErrInvalidDataset = errors.New("invalid portfolio dataset")

type OrganizationImporter interface {
	Import(ctx context.Context, profile sim.OrganizationProfile) (organizations.Organization, error)
}

type InitiativeImporter interface {
	Import(ctx context.Context, r sim.Initiative) (initiatives.Initiative, error)
}

// Service imports uploaded YAML portfolios. Every imported record gets a new
// id so uploads never overwrite existing organizations.
type Service struct {
	Orgs        OrganizationImporter
	Initiatives InitiativeImporter
	Store       object.ObjectStore
}

// ImportedOrganization maps a dataset id to the id it was stored under.
type ImportedOrganization struct {
	SourceID string `json:"sourceId"`
	ID       string `json:"id"`
	Name     string `json:"name"`
}

// Result describes one import.
type Result struct {
	UploadID        string                 `json:"uploadId"`
	ObjectKey       string                 `json:"objectKey,omitempty"`
	Organizations   []ImportedOrganization `json:"organizations"`
	InitiativeCount int                    `json:"initiativeCount"`
}

// UploadKey is where the original file is archived.
func UploadKey(userID, uploadID, fileName string) (string, error) {
	name, err := util.SanitizeSegment(fileName)
	if err != nil {
		return "", fmt.Errorf("upload key: %w", err)
	}
	return path.Join("uploads", util.HashKey(userID), uploadID+"-"+name), nil
}

// ImportPortfolio validates data as a fixtures document, archives it and
// creates its organizations and initiatives.
func (s *Service) ImportPortfolio(ctx context.Context, userID, fileName string, data []byte) (Result, error) {
	ds, err := fixtures.Load(bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}
	orgs := ds.Organizations()
	if len(orgs) == 0 {
		return Result{}, fmt.Errorf("%w: no organizations", ErrInvalidDataset)
	}

	res := Result{UploadID: uuid.NewString(), Organizations: make([]ImportedOrganization, 0, len(orgs))}
	if s.Store != nil {
		key, err := UploadKey(userID, res.UploadID, fileName)
		if err != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
		}
		if _, err := s.Store.Put(ctx, key, "application/yaml", bytes.NewReader(data)); err != nil {
			return Result{}, fmt.Errorf("archive upload: %w", err)
		}
		res.ObjectKey = key
	}

	for _, profile := range orgs {
		sourceID := profile.ID
		profile.ID = uuid.NewString()
		org, err := s.Orgs.Import(ctx, profile)
		if err != nil {
			return Result{}, fmt.Errorf("organization %s: %w", sourceID, err)
		}
		res.Organizations = append(res.Organizations, ImportedOrganization{SourceID: sourceID, ID: org.ID, Name: org.Name})

		for _, record := range ds.Initiatives(sourceID) {
			record.ID = uuid.NewString()
			record.OrganizationID = org.ID
			if _, err := s.Initiatives.Import(ctx, record); err != nil {
				return Result{}, fmt.Errorf("initiative %s: %w", record.Name, err)
			}
			res.InitiativeCount++
		}
	}
	return res, nil
}
