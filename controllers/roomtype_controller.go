package controllers

import (
	"net/http"
	"strings"

	"hotel-pms/config"
	"hotel-pms/models"

	"github.com/gin-gonic/gin"
)

func GetRoomTypes(c *gin.Context) {
	var types []models.RoomType
	config.DB.Order("id").Find(&types)
	c.JSON(http.StatusOK, types)
}

func CreateRoomType(c *gin.Context) {
	var rt models.RoomType
	if err := c.ShouldBindJSON(&rt); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rt.TypeName = strings.TrimSpace(rt.TypeName)
	if rt.TypeName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type_name is required"})
		return
	}
	if rt.MaxOccupancy <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "max_occupancy must be greater than zero"})
		return
	}

	if err := config.DB.Create(&rt).Error; err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") || strings.Contains(err.Error(), "UNIQUE constraint failed") {
			c.JSON(http.StatusConflict, gin.H{"error": "room type already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, rt)
}

func UpdateRoomType(c *gin.Context) {
	var rt models.RoomType
	if err := config.DB.First(&rt, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "room type not found"})
		return
	}

	var payload struct {
		TypeName     *string  `json:"type_name"`
		Description  *string  `json:"description"`
		MaxOccupancy *int     `json:"max_occupancy"`
		BaseRate     *float64 `json:"base_rate"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if payload.TypeName != nil {
		rt.TypeName = strings.TrimSpace(*payload.TypeName)
	}
	if payload.Description != nil {
		rt.Description = *payload.Description
	}
	if payload.MaxOccupancy != nil {
		if *payload.MaxOccupancy <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "max_occupancy must be greater than zero"})
			return
		}
		rt.MaxOccupancy = *payload.MaxOccupancy
	}
	if payload.BaseRate != nil {
		rt.BaseRate = *payload.BaseRate
	}

	if err := config.DB.Save(&rt).Error; err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") || strings.Contains(err.Error(), "UNIQUE constraint failed") {
			c.JSON(http.StatusConflict, gin.H{"error": "room type already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rt)
}

func DeleteRoomType(c *gin.Context) {
	id := c.Param("id")

	var count int64
	if err := config.DB.Model(&models.Room{}).Where("room_type_id = ?", id).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "rooms still reference this room type"})
		return
	}

	res := config.DB.Delete(&models.RoomType{}, id)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "room type not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Room type deleted"})
}
