package sqlxrepos

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfanajozi/dipapa/core/record"
	"github.com/mfanajozi/dipapa/core/table"
	"github.com/mfanajozi/dipapa/testutil"
)

func TestRecordRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewRecordRepository(testutil.PrepareDB(t))

	recs, err := repo.QueryRecords(ctx, "stipends")
	require.NoError(t, err)
	assert.Empty(t, recs)

	testutil.CreateRecords(t, repo, "stipends",
		table.Record{"id": "s2", "student_id": "ST12346", "amount": 1500, "status": "Pending"},
		table.Record{"id": "s1", "student_id": "ST12345", "amount": 1000, "status": "Approved"},
	)
	testutil.CreateRecords(t, repo, "stipends",
		table.Record{"id": "s3", "student_id": "ST12347", "amount": 1200, "status": "Approved"},
		table.Record{"id": "s2", "student_id": "ST12346", "amount": 1500, "status": "Processing"},
	)
	testutil.CreateRecords(t, repo, "visitors", table.Record{"id": "s1", "full_name": "Same id, other resource"})

	recs, err = repo.QueryRecords(ctx, "stipends")
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, []string{"s2", "s1", "s3"}, []string{recs[0].ID(), recs[1].ID(), recs[2].ID()})
	assert.Equal(t, "Processing", recs[0]["status"], "upsert replaces the data")
	assert.Equal(t, float64(1500), recs[0]["amount"])

	rec, err := repo.GetRecord(ctx, "visitors", "s1")
	require.NoError(t, err)
	assert.Equal(t, "Same id, other resource", rec["full_name"])

	_, err = repo.GetRecord(ctx, "stipends", "s9")
	assert.Equal(t, record.ErrNotFound, err)
}

func TestRecordRepository_fixtures(t *testing.T) {
	ctx := context.Background()
	repo := NewRecordRepository(testutil.PrepareDB(t))

	for _, fx := range testutil.Fixtures(t) {
		testutil.CreateRecords(t, repo, fx.Resource, fx.Records...)
	}

	recs, err := repo.QueryRecords(ctx, "queries")
	require.NoError(t, err)
	require.Len(t, recs, 5)
	assert.Equal(t, "q1", recs[0].ID())
	_, hasNotes := recs[3]["notes"]
	assert.False(t, hasNotes)
}
