package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"hotel-pms/config"
	"hotel-pms/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type hotelSettingsPayload struct {
	Name               string `json:"name"`
	Address            string `json:"address"`
	Phone              string `json:"phone"`
	Email              string `json:"email"`
	CheckInTime        string `json:"check_in_time"`
	CheckOutTime       string `json:"check_out_time"`
	AutoCheckInEnabled bool   `json:"auto_check_in_enabled"`
}

func validDeskTime(s string) bool {
	if s == "" {
		return true
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

func GetHotelSettings(c *gin.Context) {
	var hotel models.HotelSetting
	if err := config.DB.First(&hotel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{"hotel": models.HotelSetting{}})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"hotel": hotel})
}

func UpdateHotelSettings(c *gin.Context) {
	var payload hotelSettingsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payload.CheckInTime = strings.TrimSpace(payload.CheckInTime)
	payload.CheckOutTime = strings.TrimSpace(payload.CheckOutTime)
	if !validDeskTime(payload.CheckInTime) || !validDeskTime(payload.CheckOutTime) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_in_time and check_out_time must be HH:MM"})
		return
	}

	var hotel models.HotelSetting
	err := config.DB.First(&hotel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			hotel = models.HotelSetting{
				Name:               payload.Name,
				Address:            payload.Address,
				Phone:              payload.Phone,
				Email:              payload.Email,
				CheckInTime:        payload.CheckInTime,
				CheckOutTime:       payload.CheckOutTime,
				AutoCheckInEnabled: payload.AutoCheckInEnabled,
			}
			if err := config.DB.Create(&hotel).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"hotel": hotel})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	hotel.Name = payload.Name
	hotel.Address = payload.Address
	hotel.Phone = payload.Phone
	hotel.Email = payload.Email
	hotel.CheckInTime = payload.CheckInTime
	hotel.CheckOutTime = payload.CheckOutTime
	hotel.AutoCheckInEnabled = payload.AutoCheckInEnabled

	if err := config.DB.Save(&hotel).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"hotel": hotel})
}
