// services/guest_service.go
package services

import (
	"errors"
	"log"
	"strings"

	"hotel-pms/models"

	"gorm.io/gorm"
)

type GuestService struct {
	DB *gorm.DB
}

func NewGuestService(db *gorm.DB) *GuestService {
	return &GuestService{DB: db}
}

func (s *GuestService) Create(guest models.Guest) (*models.Guest, error) {
	if strings.TrimSpace(guest.FirstName) == "" && strings.TrimSpace(guest.LastName) == "" {
		return nil, errors.New("validation: guest needs a name")
	}
	if strings.TrimSpace(guest.Email) == "" {
		log.Println("⚠️ Guest created without an email.")
	}
	if err := s.DB.Create(&guest).Error; err != nil {
		return nil, err
	}
	return &guest, nil
}

func (s *GuestService) GetAll() ([]models.Guest, error) {
	var guests []models.Guest
	err := s.DB.Order("id DESC").Find(&guests).Error
	return guests, err
}

func (s *GuestService) GetByID(id uint) (*models.Guest, error) {
	var guest models.Guest
	if err := s.DB.First(&guest, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGuestNotFound
		}
		return nil, err
	}
	return &guest, nil
}

func (s *GuestService) Update(id uint, updates map[string]interface{}) (*models.Guest, error) {
	var guest models.Guest
	if err := s.DB.First(&guest, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGuestNotFound
		}
		return nil, err
	}

	for _, k := range []string{"id", "ID", "created_at", "updated_at"} {
		delete(updates, k)
	}
	if len(updates) == 0 {
		return &guest, nil
	}

	if err := s.DB.Model(&guest).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}
