package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stwalsh4118/rms/internal/cache"
	"github.com/stwalsh4118/rms/internal/logger"
	"github.com/stwalsh4118/rms/internal/models"
	"github.com/stwalsh4118/rms/internal/repository"
	"github.com/stwalsh4118/rms/internal/storage"
)

// CreatePropertyInput holds the client-settable property fields.
type CreatePropertyInput struct {
	Name        string
	Address     string
	Description string
	Price       decimal.Decimal
}

// ImageUpload is an image file received from a client.
type ImageUpload struct {
	Reader      io.Reader
	ContentType string
	Size        int64
}

// PropertyDetail is a property with its rooms and a browsable image URL.
type PropertyDetail struct {
	ImageURL string
	Rooms    []models.RoomWithTenant
	Property models.Property
}

// PropertyService manages the owner's catalog of properties and rooms.
type PropertyService interface {
	CreateProperty(ctx context.Context, ownerID uuid.UUID, in CreatePropertyInput) (*models.Property, error)
	ListProperties(ctx context.Context, ownerID uuid.UUID) ([]PropertyDetail, error)
	GetProperty(ctx context.Context, ownerID, propertyID uuid.UUID) (*PropertyDetail, error)

	// CreateRoom adds a vacant room. Errors: ErrNotFound, ErrInvalidInput,
	// ErrConflict when the room number is taken in the property.
	CreateRoom(ctx context.Context, ownerID, propertyID uuid.UUID, roomNo string, rent decimal.Decimal) (*models.Room, error)

	ListRooms(ctx context.Context, ownerID, propertyID uuid.UUID) ([]models.RoomWithTenant, error)

	// UploadPropertyImage stores the image and returns a presigned URL for it.
	// Returns ErrUnavailable when no object storage is configured.
	UploadPropertyImage(ctx context.Context, ownerID, propertyID uuid.UUID, upload ImageUpload) (string, error)
}

type propertyService struct {
	properties repository.PropertyRepository
	rooms      repository.RoomRepository
	images     storage.ImageStore
	reports    cache.ReportCache
	log        *logger.Logger
}

// NewPropertyService creates a new instance of PropertyService. images may
// be nil when object storage is not configured.
func NewPropertyService(
	properties repository.PropertyRepository,
	rooms repository.RoomRepository,
	images storage.ImageStore,
	reports cache.ReportCache,
	log *logger.Logger,
) PropertyService {
	return &propertyService{
		properties: properties,
		rooms:      rooms,
		images:     images,
		reports:    reports,
		log:        log,
	}
}

func (s *propertyService) CreateProperty(ctx context.Context, ownerID uuid.UUID, in CreatePropertyInput) (*models.Property, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fieldError(ErrInvalidInput, "name", "This field is required.")
	}
	if in.Price.IsNegative() {
		return nil, fieldError(ErrInvalidInput, "price", "Price must not be negative.")
	}

	p := &models.Property{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        name,
		Address:     strings.TrimSpace(in.Address),
		Description: in.Description,
		Price:       in.Price,
	}
	if err := s.properties.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create property: %w", err)
	}

	invalidateReports(ctx, s.reports, s.log, ownerID)
	s.log.Info("Property created", logger.Fields{
		"property_id": p.ID.String(),
		"owner_id":    ownerID.String(),
	})
	return p, nil
}

func (s *propertyService) ListProperties(ctx context.Context, ownerID uuid.UUID) ([]PropertyDetail, error) {
	props, err := s.properties.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}

	details := make([]PropertyDetail, 0, len(props))
	for _, p := range props {
		d, err := s.detail(ctx, p)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, nil
}

func (s *propertyService) GetProperty(ctx context.Context, ownerID, propertyID uuid.UUID) (*PropertyDetail, error) {
	p, err := s.lookup(ctx, ownerID, propertyID)
	if err != nil {
		return nil, err
	}
	d, err := s.detail(ctx, *p)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *propertyService) lookup(ctx context.Context, ownerID, propertyID uuid.UUID) (*models.Property, error) {
	p, err := s.properties.GetByID(ctx, ownerID, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load property: %w", err)
	}
	if p == nil {
		return nil, fieldError(ErrNotFound, "property", "Property not found.")
	}
	return p, nil
}

func (s *propertyService) detail(ctx context.Context, p models.Property) (PropertyDetail, error) {
	rooms, err := s.rooms.ListByProperty(ctx, p.ID)
	if err != nil {
		return PropertyDetail{}, fmt.Errorf("failed to list rooms: %w", err)
	}

	d := PropertyDetail{Property: p, Rooms: rooms}
	if p.Image != nil && s.images != nil {
		u, err := s.images.PresignedURL(ctx, *p.Image, storage.PresignExpiry)
		if err != nil {
			s.log.Warn("Failed to presign property image", logger.Fields{
				"property_id": p.ID.String(),
				"error":       err.Error(),
			})
		} else {
			d.ImageURL = u
		}
	}
	return d, nil
}

func (s *propertyService) CreateRoom(ctx context.Context, ownerID, propertyID uuid.UUID, roomNo string, rent decimal.Decimal) (*models.Room, error) {
	roomNo = strings.TrimSpace(roomNo)
	if roomNo == "" {
		return nil, fieldError(ErrInvalidInput, "room_no", "This field is required.")
	}
	if !rent.IsPositive() {
		return nil, fieldError(ErrInvalidInput, "rent_amount", "Rent amount must be greater than zero.")
	}
	if _, err := s.lookup(ctx, ownerID, propertyID); err != nil {
		return nil, err
	}

	room := &models.Room{
		ID:         uuid.New(),
		PropertyID: propertyID,
		RoomNo:     roomNo,
		RentAmount: rent,
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		if errors.Is(err, repository.ErrDuplicateRoom) {
			return nil, fieldError(ErrConflict, "room_no", "Room %s already exists in this property.", roomNo)
		}
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	invalidateReports(ctx, s.reports, s.log, ownerID)
	s.log.Info("Room created", logger.Fields{
		"room_id":     room.ID.String(),
		"property_id": propertyID.String(),
		"room_no":     roomNo,
	})
	return room, nil
}

func (s *propertyService) ListRooms(ctx context.Context, ownerID, propertyID uuid.UUID) ([]models.RoomWithTenant, error) {
	if _, err := s.lookup(ctx, ownerID, propertyID); err != nil {
		return nil, err
	}
	rooms, err := s.rooms.ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

func (s *propertyService) UploadPropertyImage(ctx context.Context, ownerID, propertyID uuid.UUID, upload ImageUpload) (string, error) {
	if s.images == nil {
		return "", fmt.Errorf("%w: object storage", ErrUnavailable)
	}
	p, err := s.lookup(ctx, ownerID, propertyID)
	if err != nil {
		return "", err
	}

	key, err := storage.ObjectKey(p.ID, upload.ContentType)
	if err != nil {
		return "", fieldError(ErrInvalidInput, "image", "Image must be JPEG, PNG, WebP or GIF.")
	}
	if err := s.images.Upload(ctx, key, upload.Reader, upload.Size, upload.ContentType); err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	updated, err := s.properties.UpdateImage(ctx, ownerID, p.ID, key)
	if err != nil || !updated {
		if delErr := s.images.Delete(ctx, key); delErr != nil {
			s.log.Warn("Failed to remove orphaned image", logger.Fields{"key": key, "error": delErr.Error()})
		}
		if err != nil {
			return "", fmt.Errorf("failed to save image reference: %w", err)
		}
		return "", fieldError(ErrNotFound, "property", "Property not found.")
	}

	if p.Image != nil {
		if err := s.images.Delete(ctx, *p.Image); err != nil {
			s.log.Warn("Failed to remove previous image", logger.Fields{"key": *p.Image, "error": err.Error()})
		}
	}

	s.log.Info("Property image uploaded", logger.Fields{
		"property_id": p.ID.String(),
		"key":         key,
		"size":        upload.Size,
	})
	return s.images.PresignedURL(ctx, key, storage.PresignExpiry)
}
