package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/rms/internal/cache"
	"github.com/stwalsh4118/rms/internal/logger"
	"github.com/stwalsh4118/rms/internal/models"
	"github.com/stwalsh4118/rms/internal/repository"
	"github.com/stwalsh4118/rms/internal/storage"
)

type propertyMocks struct {
	properties *MockPropertyRepository
	rooms      *MockRoomRepository
	images     *MockImageStore
}

func newPropertyService(withImages bool) (PropertyService, propertyMocks) {
	m := propertyMocks{
		properties: new(MockPropertyRepository),
		rooms:      new(MockRoomRepository),
		images:     new(MockImageStore),
	}
	var images storage.ImageStore
	if withImages {
		images = m.images
	}
	return NewPropertyService(m.properties, m.rooms, images, cache.NewNoop(), logger.New("test")), m
}

func TestCreateProperty(t *testing.T) {
	svc, m := newPropertyService(false)
	ctx := context.Background()
	owner := uuid.New()

	m.properties.On("Create", ctx, mock.MatchedBy(func(p *models.Property) bool {
		return p.Name == "Oakwood" && p.OwnerID == owner && p.ID != uuid.Nil
	})).Return(nil)

	p, err := svc.CreateProperty(ctx, owner, CreatePropertyInput{Name: " Oakwood ", Address: "1 Elm St", Price: dec("250000")})

	require.NoError(t, err)
	assert.Equal(t, "Oakwood", p.Name)
	assert.Equal(t, "1 Elm St", p.Address)
	m.properties.AssertExpectations(t)
}

func TestCreateProperty_Validation(t *testing.T) {
	svc, m := newPropertyService(false)

	_, err := svc.CreateProperty(context.Background(), uuid.New(), CreatePropertyInput{Name: " "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateProperty(context.Background(), uuid.New(), CreatePropertyInput{Name: "X", Price: dec("-1")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	m.properties.AssertNotCalled(t, "Create")
}

func TestGetProperty_NotFound(t *testing.T) {
	svc, m := newPropertyService(false)
	ctx := context.Background()
	owner, id := uuid.New(), uuid.New()

	m.properties.On("GetByID", ctx, owner, id).Return(nil, nil)

	_, err := svc.GetProperty(ctx, owner, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListProperties_PresignsImages(t *testing.T) {
	svc, m := newPropertyService(true)
	ctx := context.Background()
	owner := uuid.New()

	key := "properties/a/b.jpg"
	withImage := models.Property{ID: uuid.New(), Name: "Oakwood", Image: &key}
	plain := models.Property{ID: uuid.New(), Name: "Pinecrest"}

	m.properties.On("ListByOwner", ctx, owner).Return([]models.Property{withImage, plain}, nil)
	m.rooms.On("ListByProperty", ctx, withImage.ID).Return([]models.RoomWithTenant{{Room: models.Room{RoomNo: "101"}}}, nil)
	m.rooms.On("ListByProperty", ctx, plain.ID).Return([]models.RoomWithTenant{}, nil)
	m.images.On("PresignedURL", ctx, key, storage.PresignExpiry).Return("http://minio/signed", nil)

	details, err := svc.ListProperties(ctx, owner)

	require.NoError(t, err)
	require.Len(t, details, 2)
	assert.Equal(t, "http://minio/signed", details[0].ImageURL)
	assert.Len(t, details[0].Rooms, 1)
	assert.Empty(t, details[1].ImageURL)
	m.images.AssertExpectations(t)
}

func TestCreateRoom(t *testing.T) {
	svc, m := newPropertyService(false)
	ctx := context.Background()
	owner := uuid.New()
	property := models.Property{ID: uuid.New(), OwnerID: owner}

	m.properties.On("GetByID", ctx, owner, property.ID).Return(&property, nil)
	m.rooms.On("Create", ctx, mock.MatchedBy(func(r *models.Room) bool {
		return r.RoomNo == "101" && !r.IsOccupied && r.PropertyID == property.ID
	})).Return(nil)

	room, err := svc.CreateRoom(ctx, owner, property.ID, "101", dec("1000"))

	require.NoError(t, err)
	assert.False(t, room.IsOccupied)
	assert.True(t, room.RentAmount.Equal(dec("1000")))
	m.rooms.AssertExpectations(t)
}

func TestCreateRoom_Errors(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	property := models.Property{ID: uuid.New(), OwnerID: owner}

	t.Run("rent must be positive", func(t *testing.T) {
		svc, m := newPropertyService(false)
		_, err := svc.CreateRoom(ctx, owner, property.ID, "101", dec("0"))
		assert.ErrorIs(t, err, ErrInvalidInput)
		m.rooms.AssertNotCalled(t, "Create")
	})

	t.Run("property of another owner", func(t *testing.T) {
		svc, m := newPropertyService(false)
		m.properties.On("GetByID", ctx, owner, property.ID).Return(nil, nil)
		_, err := svc.CreateRoom(ctx, owner, property.ID, "101", dec("1000"))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("duplicate room number", func(t *testing.T) {
		svc, m := newPropertyService(false)
		m.properties.On("GetByID", ctx, owner, property.ID).Return(&property, nil)
		m.rooms.On("Create", ctx, mock.Anything).Return(repository.ErrDuplicateRoom)

		_, err := svc.CreateRoom(ctx, owner, property.ID, "101", dec("1000"))

		assert.ErrorIs(t, err, ErrConflict)
		var fe *FieldError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, "room_no", fe.Field)
	})
}

func TestListRooms(t *testing.T) {
	svc, m := newPropertyService(false)
	ctx := context.Background()
	owner := uuid.New()
	property := models.Property{ID: uuid.New()}

	m.properties.On("GetByID", ctx, owner, property.ID).Return(&property, nil)
	m.rooms.On("ListByProperty", ctx, property.ID).Return([]models.RoomWithTenant{
		{Room: models.Room{RoomNo: "101", IsOccupied: true}, Tenant: &models.Tenant{Name: "Alice"}},
	}, nil)

	rooms, err := svc.ListRooms(ctx, owner, property.ID)

	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "Alice", rooms[0].Tenant.Name)
}

func TestUploadPropertyImage(t *testing.T) {
	svc, m := newPropertyService(true)
	ctx := context.Background()
	owner := uuid.New()
	old := "properties/old.png"
	property := models.Property{ID: uuid.New(), Image: &old}
	body := strings.NewReader("fake-png")

	isNewKey := mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "properties/"+property.ID.String()+"/") && strings.HasSuffix(key, ".png")
	})

	m.properties.On("GetByID", ctx, owner, property.ID).Return(&property, nil)
	m.images.On("Upload", ctx, isNewKey, body, int64(8), "image/png").Return(nil)
	m.properties.On("UpdateImage", ctx, owner, property.ID, isNewKey).Return(true, nil)
	m.images.On("Delete", ctx, old).Return(nil)
	m.images.On("PresignedURL", ctx, isNewKey, storage.PresignExpiry).Return("http://minio/new", nil)

	url, err := svc.UploadPropertyImage(ctx, owner, property.ID, ImageUpload{Reader: body, Size: 8, ContentType: "image/png"})

	require.NoError(t, err)
	assert.Equal(t, "http://minio/new", url)
	m.images.AssertExpectations(t)
	m.properties.AssertExpectations(t)
}

func TestUploadPropertyImage_StorageDisabled(t *testing.T) {
	svc, m := newPropertyService(false)

	_, err := svc.UploadPropertyImage(context.Background(), uuid.New(), uuid.New(), ImageUpload{ContentType: "image/png"})

	assert.ErrorIs(t, err, ErrUnavailable)
	m.properties.AssertNotCalled(t, "GetByID")
}

func TestUploadPropertyImage_UnsupportedType(t *testing.T) {
	svc, m := newPropertyService(true)
	ctx := context.Background()
	owner := uuid.New()
	property := models.Property{ID: uuid.New()}

	m.properties.On("GetByID", ctx, owner, property.ID).Return(&property, nil)

	_, err := svc.UploadPropertyImage(ctx, owner, property.ID, ImageUpload{ContentType: "application/pdf"})

	assert.ErrorIs(t, err, ErrInvalidInput)
	m.images.AssertNotCalled(t, "Upload")
}

func TestUploadPropertyImage_RemovesOrphanOnSaveFailure(t *testing.T) {
	svc, m := newPropertyService(true)
	ctx := context.Background()
	owner := uuid.New()
	property := models.Property{ID: uuid.New()}
	dbErr := errors.New("update failed")

	m.properties.On("GetByID", ctx, owner, property.ID).Return(&property, nil)
	m.images.On("Upload", ctx, mock.Anything, mock.Anything, mock.Anything, "image/jpeg").Return(nil)
	m.properties.On("UpdateImage", ctx, owner, property.ID, mock.Anything).Return(false, dbErr)
	m.images.On("Delete", ctx, mock.Anything).Return(nil)

	_, err := svc.UploadPropertyImage(ctx, owner, property.ID, ImageUpload{Reader: strings.NewReader("x"), Size: 1, ContentType: "image/jpeg"})

	assert.ErrorIs(t, err, dbErr)
	m.images.AssertExpectations(t)
	m.images.AssertNotCalled(t, "PresignedURL")
}
