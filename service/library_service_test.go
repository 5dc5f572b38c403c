package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/studyforge/backend/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	published []uuid.UUID
	err       error
}

func (p *fakePublisher) PublishProcessRequest(ctx context.Context, libraryID uuid.UUID) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, libraryID)
	return nil
}

func TestUploadCreatesProcessingRecordAndTriggersPipeline(t *testing.T) {
	repo := newFakeLibraryRepo()
	store := newFakeObjectStore()
	publisher := &fakePublisher{}
	library := NewLibraryService(repo, store, publisher, quietLogger())

	userID := uuid.New()
	data := []byte(gofakeit.Sentence(200))

	item, err := library.Upload(context.Background(), userID, "", "lecture.mp3", "audio/mpeg", data)
	require.NoError(t, err)

	assert.Equal(t, "lecture.mp3", item.Title)
	assert.Equal(t, "lecture.mp3", item.OriginalFilename)
	assert.Equal(t, "audio/mpeg", item.FileType)
	assert.Equal(t, int64(len(data)), item.SizeBytes)
	assert.Equal(t, models.StatusProcessing, item.Status)
	assert.Nil(t, item.Transcript)

	assert.True(t, strings.HasPrefix(item.StoragePath, userID.String()+"/"))
	assert.True(t, strings.HasSuffix(item.StoragePath, "-lecture.mp3"))

	stored, ok := store.objects[item.StoragePath]
	require.True(t, ok, "blob should be stored before the record is created")
	assert.Equal(t, data, stored)

	require.Len(t, publisher.published, 1)
	assert.Equal(t, item.ID, publisher.published[0])
}

func TestUploadKeepsExplicitTitle(t *testing.T) {
	repo := newFakeLibraryRepo()
	library := NewLibraryService(repo, newFakeObjectStore(), &fakePublisher{}, quietLogger())

	item, err := library.Upload(context.Background(), uuid.New(), "Biology 101", "lecture.mp3", "audio/mpeg", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "Biology 101", item.Title)
}

func TestUploadPublishFailureMarksRecordFailed(t *testing.T) {
	repo := newFakeLibraryRepo()
	publisher := &fakePublisher{err: errors.New("broker unreachable")}
	library := NewLibraryService(repo, newFakeObjectStore(), publisher, quietLogger())

	item, err := library.Upload(context.Background(), uuid.New(), "", "lecture.mp3", "audio/mpeg", []byte("x"))
	require.NoError(t, err)

	stored := repo.items[item.ID]
	assert.Equal(t, models.StatusFailed, stored.Status)
	require.NotNil(t, stored.ErrorMessage)
	assert.Contains(t, *stored.ErrorMessage, "enqueue")
}

func TestDeleteRemovesBlobAndRow(t *testing.T) {
	item := processingItem()
	repo := newFakeLibraryRepo(item)
	store := newFakeObjectStore()
	store.objects[item.StoragePath] = []byte("media-bytes")
	library := NewLibraryService(repo, store, &fakePublisher{}, quietLogger())

	err := library.Delete(context.Background(), item.UserID, item.ID)
	require.NoError(t, err)

	assert.Contains(t, store.removed, item.StoragePath)
	_, exists := repo.items[item.ID]
	assert.False(t, exists)
}

func TestDeleteMissingRecordIsNoError(t *testing.T) {
	library := NewLibraryService(newFakeLibraryRepo(), newFakeObjectStore(), &fakePublisher{}, quietLogger())
	err := library.Delete(context.Background(), uuid.New(), uuid.New())
	assert.NoError(t, err)
}

func TestDeleteMissingBlobStillDeletesRow(t *testing.T) {
	item := processingItem()
	repo := newFakeLibraryRepo(item)
	store := newFakeObjectStore()
	store.removeErr = fmt.Errorf("object %s does not exist", item.StoragePath)
	library := NewLibraryService(repo, store, &fakePublisher{}, quietLogger())

	err := library.Delete(context.Background(), item.UserID, item.ID)
	require.NoError(t, err)

	_, exists := repo.items[item.ID]
	assert.False(t, exists)
}

func TestDeleteForeignItemDenied(t *testing.T) {
	item := processingItem()
	repo := newFakeLibraryRepo(item)
	library := NewLibraryService(repo, newFakeObjectStore(), &fakePublisher{}, quietLogger())

	err := library.Delete(context.Background(), uuid.New(), item.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)
	_, exists := repo.items[item.ID]
	assert.True(t, exists)
}

func TestGetChecksOwnership(t *testing.T) {
	item := processingItem()
	repo := newFakeLibraryRepo(item)
	library := NewLibraryService(repo, newFakeObjectStore(), &fakePublisher{}, quietLogger())

	got, err := library.Get(context.Background(), item.UserID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, got.ID)

	_, err = library.Get(context.Background(), uuid.New(), item.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = library.Get(context.Background(), item.UserID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
