package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	apierrors "github.com/stwalsh4118/rms/internal/errors"
	"github.com/stwalsh4118/rms/internal/models"
	"github.com/stwalsh4118/rms/internal/services"
)

// MaxImageBytes caps property image uploads.
const MaxImageBytes = 10 << 20

// PropertyHandler serves the property and room catalog.
type PropertyHandler struct {
	service services.PropertyService
}

// NewPropertyHandler creates a new PropertyHandler instance.
func NewPropertyHandler(service services.PropertyService) *PropertyHandler {
	return &PropertyHandler{service: service}
}

// CreatePropertyRequest is the body of POST /api/v1/properties.
type CreatePropertyRequest struct {
	Name        string          `json:"name" binding:"required,max=255"`
	Address     string          `json:"address" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// CreateRoomRequest is the body of POST /api/v1/properties/:id/rooms.
type CreateRoomRequest struct {
	RoomNo     string          `json:"room_no" binding:"required,max=50"`
	RentAmount decimal.Decimal `json:"rent_amount"`
}

// RoomResponse is a room as returned by the catalog endpoints.
type RoomResponse struct {
	ID           uuid.UUID       `json:"id"`
	PropertyID   uuid.UUID       `json:"property"`
	PropertyName string          `json:"property_name,omitempty"`
	RoomNo       string          `json:"room_no"`
	RentAmount   decimal.Decimal `json:"rent_amount"`
	IsOccupied   bool            `json:"is_occupied"`
	TenantName   *string         `json:"tenant_name"`
	CreatedAt    time.Time       `json:"created_at"`
}

// PropertyResponse is a property with its rooms.
type PropertyResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Address     string          `json:"address"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       *string         `json:"image"`
	Owner       uuid.UUID       `json:"owner"`
	Rooms       []RoomResponse  `json:"rooms"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ImageResponse is returned after an image upload.
type ImageResponse struct {
	ImageURL string `json:"image_url"`
}

func toRoomResponse(r models.RoomWithTenant) RoomResponse {
	resp := RoomResponse{
		ID:           r.Room.ID,
		PropertyID:   r.Room.PropertyID,
		PropertyName: r.PropertyName,
		RoomNo:       r.Room.RoomNo,
		RentAmount:   r.Room.RentAmount,
		IsOccupied:   r.Room.IsOccupied,
		CreatedAt:    r.Room.CreatedAt,
	}
	if r.Occupancy().Occupied() {
		name := r.Tenant.Name
		resp.TenantName = &name
	}
	return resp
}

func toPropertyResponse(d *services.PropertyDetail) PropertyResponse {
	resp := PropertyResponse{
		ID:          d.Property.ID,
		Name:        d.Property.Name,
		Address:     d.Property.Address,
		Description: d.Property.Description,
		Price:       d.Property.Price,
		Owner:       d.Property.OwnerID,
		Rooms:       make([]RoomResponse, 0, len(d.Rooms)),
		CreatedAt:   d.Property.CreatedAt,
		UpdatedAt:   d.Property.UpdatedAt,
	}
	if d.ImageURL != "" {
		url := d.ImageURL
		resp.Image = &url
	}
	for _, r := range d.Rooms {
		resp.Rooms = append(resp.Rooms, toRoomResponse(r))
	}
	return resp
}

// Create handles POST /api/v1/properties.
func (h *PropertyHandler) Create(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var req CreatePropertyRequest
	if !bindJSON(c, &req) {
		return
	}

	property, err := h.service.CreateProperty(c.Request.Context(), owner, services.CreatePropertyInput{
		Name:        req.Name,
		Address:     req.Address,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		apierrors.DomainError(c, err)
		return
	}

	created(c, toPropertyResponse(&services.PropertyDetail{Property: *property}))
}

// List handles GET /api/v1/properties.
func (h *PropertyHandler) List(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	details, err := h.service.ListProperties(c.Request.Context(), owner)
	if err != nil {
		apierrors.DomainError(c, err)
		return
	}

	resp := make([]PropertyResponse, 0, len(details))
	for i := range details {
		resp = append(resp, toPropertyResponse(&details[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// Get handles GET /api/v1/properties/:id.
func (h *PropertyHandler) Get(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "Property")
	if !ok {
		return
	}

	detail, err := h.service.GetProperty(c.Request.Context(), owner, id)
	if err != nil {
		apierrors.DomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPropertyResponse(detail))
}

// UploadImage handles PUT /api/v1/properties/:id/image as multipart/form-data
// with the file in the "image" field.
func (h *PropertyHandler) UploadImage(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "Property")
	if !ok {
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		apierrors.BadRequest(c, "An image file is required", map[string]interface{}{"image": "This field is required"})
		return
	}
	if header.Size > MaxImageBytes {
		apierrors.BadRequest(c, "Image is too large", map[string]interface{}{"image": "Must be at most 10 MB"})
		return
	}

	file, err := header.Open()
	if err != nil {
		apierrors.InternalServerError(c, "Failed to read uploaded image", err)
		return
	}
	defer file.Close()

	url, err := h.service.UploadPropertyImage(c.Request.Context(), owner, id, services.ImageUpload{
		Reader:      file,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	})
	if err != nil {
		apierrors.DomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, ImageResponse{ImageURL: url})
}

// CreateRoom handles POST /api/v1/properties/:id/rooms.
func (h *PropertyHandler) CreateRoom(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "Property")
	if !ok {
		return
	}
	var req CreateRoomRequest
	if !bindJSON(c, &req) {
		return
	}

	room, err := h.service.CreateRoom(c.Request.Context(), owner, id, req.RoomNo, req.RentAmount)
	if err != nil {
		apierrors.DomainError(c, err)
		return
	}
	created(c, toRoomResponse(models.RoomWithTenant{Room: *room}))
}

// ListRooms handles GET /api/v1/properties/:id/rooms.
func (h *PropertyHandler) ListRooms(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "Property")
	if !ok {
		return
	}

	rooms, err := h.service.ListRooms(c.Request.Context(), owner, id)
	if err != nil {
		apierrors.DomainError(c, err)
		return
	}

	resp := make([]RoomResponse, 0, len(rooms))
	for _, r := range rooms {
		resp = append(resp, toRoomResponse(r))
	}
	c.JSON(http.StatusOK, resp)
}
