package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/health-signal-classifier/internal/database/dbtest"
)

func TestClassificationRepository(t *testing.T) {
	pg := dbtest.Start(t)

	repo := NewClassificationRepository(pg.DB.Pool, testLogger())
	assert.NoError(t, repo.Health(context.Background()))

	exerciseStore(t, repo)
}
