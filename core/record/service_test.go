package record_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfanajozi/dipapa/core/record"
	"github.com/mfanajozi/dipapa/core/table"
	"github.com/mfanajozi/dipapa/testutil"
)

type failingRepo struct {
	record.Repository
	err error
}

func (r failingRepo) QueryRecords(context.Context, string) ([]table.Record, error) {
	return nil, r.err
}

func TestService_Query(t *testing.T) {
	logger := &testutil.Logger{}
	svc := record.NewService(testutil.FixtureRepository(t), logger)
	ctx := context.Background()

	recs, err := svc.Query(ctx, " Visitors ")
	require.NoError(t, err)
	assert.Len(t, recs, 5)

	recs, err = svc.Query(ctx, "nothing_here")
	require.NoError(t, err)
	assert.Empty(t, recs)

	_, err = svc.Query(ctx, "../etc")
	assert.Equal(t, record.ErrInvalidResource, errors.Cause(err))
	_, err = svc.Query(ctx, "")
	assert.Equal(t, record.ErrInvalidResource, errors.Cause(err))
	assert.Empty(t, logger.Lines())
}

func TestService_Query_sourceError(t *testing.T) {
	logger := &testutil.Logger{}
	srcErr := errors.New("connection refused")
	svc := record.NewService(failingRepo{err: srcErr}, logger)

	_, err := svc.Query(context.Background(), "users")
	assert.Equal(t, srcErr, errors.Cause(err))
	assert.Equal(t, []string{"ERROR: querying users records"}, logger.Lines())
}

func TestService_Get(t *testing.T) {
	logger := &testutil.Logger{}
	svc := record.NewService(testutil.FixtureRepository(t), logger)
	ctx := context.Background()

	rec, err := svc.Get(ctx, "users", "u1")
	require.NoError(t, err)
	assert.Equal(t, "John", rec["first_name"])

	_, err = svc.Get(ctx, "users", "u404")
	assert.Equal(t, record.ErrNotFound, errors.Cause(err))
	_, err = svc.Get(ctx, "users", "  ")
	assert.Equal(t, record.ErrNotFound, errors.Cause(err))
	assert.Empty(t, logger.Lines(), "not found is not logged")
}

func TestService_Seed(t *testing.T) {
	logger := &testutil.Logger{}
	repo := testutil.FixtureRepository(t)
	svc := record.NewService(repo, logger)
	ctx := context.Background()

	err := svc.Seed(ctx, "support", table.Record{"title": "no id"})
	assert.Equal(t, record.ErrMissingID, errors.Cause(err))

	require.NoError(t, svc.Seed(ctx, "support", table.Record{"id": "t9", "title": "Leaking tap", "status": "Open"}))
	recs, err := svc.Query(ctx, "support")
	require.NoError(t, err)
	assert.Equal(t, "t9", recs[len(recs)-1].ID())
	assert.Equal(t, []string{"INFO: seeded 1 support records"}, logger.Lines())
}
