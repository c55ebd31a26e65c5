package job

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/infrastructure/storage"
	"library-backend/internal/shared"
)

func task(t *testing.T, p shared.DeletePicturePayload) *asynq.Task {
	t.Helper()
	data, err := json.Marshal(p)
	require.NoError(t, err)
	return asynq.NewTask(shared.TypeDeleteMemberPicture, data)
}

func TestDeletePictureHandler(t *testing.T) {
	root := t.TempDir()
	store, err := storage.NewLocalStore(root, "/uploads")
	require.NoError(t, err)
	ctx := context.Background()

	path, err := store.Save(ctx, "members/member_x_1.jpg", []byte("img"), "image/jpeg")
	require.NoError(t, err)

	h := NewDeletePictureHandler(store)
	require.NoError(t, h.ProcessTask(ctx, task(t, shared.DeletePicturePayload{Path: path, Reason: "superseded"})))

	_, err = os.Stat(filepath.Join(root, "members", "member_x_1.jpg"))
	assert.True(t, os.IsNotExist(err))
}

func TestDeletePictureHandlerSkipsBadPayloads(t *testing.T) {
	store, err := storage.NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)
	h := NewDeletePictureHandler(store)
	ctx := context.Background()

	err = h.ProcessTask(ctx, asynq.NewTask(shared.TypeDeleteMemberPicture, []byte("{not json")))
	assert.True(t, errors.Is(err, asynq.SkipRetry))

	err = h.ProcessTask(ctx, task(t, shared.DeletePicturePayload{}))
	assert.True(t, errors.Is(err, asynq.SkipRetry))

	err = h.ProcessTask(ctx, task(t, shared.DeletePicturePayload{Path: "/uploads/../../etc/passwd"}))
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}
