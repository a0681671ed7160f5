package record

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/mfanajozi/dipapa/core"
	"github.com/mfanajozi/dipapa/core/table"
)

var (
	// errors
	ErrNotFound        = errors.New("record not found")
	ErrReadOnly        = errors.New("record source is read-only")
	ErrInvalidResource = errors.New("invalid resource name")
	ErrMissingID       = errors.New("record has no id")
)

type (
	// Repository is a store of records grouped by resource (users, events, visitors, ...).
	Repository interface {
		// QueryRecords returns every record of resource in source order.
		QueryRecords(ctx context.Context, resource string) ([]table.Record, error)
		// GetRecord returns ErrNotFound when resource has no record with id.
		GetRecord(ctx context.Context, resource, id string) (table.Record, error)
		// CreateRecords appends records to resource, replacing any record with the same id.
		CreateRecords(ctx context.Context, resource string, records ...table.Record) error
	}

	Service struct {
		repo   Repository
		logger core.Logger
	}
)

func NewService(repo Repository, logger core.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Query returns the records of resource. Source failures are logged and wrapped.
func (svc *Service) Query(ctx context.Context, resource string) ([]table.Record, error) {
	resource, err := cleanResource(resource)
	if err != nil {
		return nil, err
	}
	recs, err := svc.repo.QueryRecords(ctx, resource)
	if err != nil {
		if ctx.Err() == nil {
			svc.logger.Error(fmt.Sprintf("querying %s records", resource), err)
		}
		return nil, errors.Wrapf(err, "querying %s records", resource)
	}
	return recs, nil
}

func (svc *Service) Get(ctx context.Context, resource, id string) (table.Record, error) {
	resource, err := cleanResource(resource)
	if err != nil {
		return nil, err
	}
	id = core.CleanString(id)
	if id == "" {
		return nil, ErrNotFound
	}
	rec, err := svc.repo.GetRecord(ctx, resource, id)
	if err != nil {
		if errors.Cause(err) != ErrNotFound {
			svc.logger.Error(fmt.Sprintf("getting %s record %q", resource, id), err)
		}
		return nil, errors.Wrapf(err, "getting %s record", resource)
	}
	return rec, nil
}

// Seed stores records under resource. Every record must carry an id.
func (svc *Service) Seed(ctx context.Context, resource string, records ...table.Record) error {
	resource, err := cleanResource(resource)
	if err != nil {
		return err
	}
	for i, rec := range records {
		if rec.ID() == "" {
			return errors.Wrapf(ErrMissingID, "%s record #%d", resource, i+1)
		}
	}
	if err := svc.repo.CreateRecords(ctx, resource, records...); err != nil {
		return errors.Wrapf(err, "seeding %s records", resource)
	}
	svc.logger.Info(fmt.Sprintf("seeded %d %s records", len(records), resource))
	return nil
}

func cleanResource(resource string) (string, error) {
	resource = core.CleanString(resource, true /* lower */)
	if resource == "" {
		return "", ErrInvalidResource
	}
	for _, r := range resource {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_') {
			return "", errors.Wrapf(ErrInvalidResource, "%q", resource)
		}
	}
	return resource, nil
}
