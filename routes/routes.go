package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"hotel-pms/controllers"
	"hotel-pms/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter wires the controller instances onto the API routes.
func SetupRouter(
	rc *controllers.RoomController,
	gc *controllers.GuestController,
	bc *controllers.BookingController,
	nac *controllers.NightAuditController,
) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logger(), gin.Recovery())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		guests := api.Group("/guests")
		{
			guests.GET("", gc.GetGuests)
			guests.GET("/:id", gc.GetGuest)
			guests.POST("", gc.CreateGuest)
			guests.PUT("/:id", gc.UpdateGuest)
		}

		bookings := api.Group("/bookings")
		{
			bookings.GET("", bc.GetBookings)
			bookings.POST("", bc.CreateBooking)

			// /auto-checkin ต้องอยู่ก่อน /:id
			bookings.POST("/auto-checkin", bc.AutoCheckIn)

			bookings.GET("/:id", bc.GetBookingDetails)
			bookings.PATCH("/:id", bc.UpdateBooking)
			bookings.POST("/:id/checkin", bc.CheckIn)
			bookings.POST("/:id/checkout", bc.CheckOut)
			bookings.POST("/:id/cancel", bc.Cancel)
			bookings.GET("/:id/history", bc.GetHistory)
		}

		rooms := api.Group("/rooms")
		{
			rooms.GET("", rc.GetRooms)
			rooms.POST("", rc.CreateRoom)

			// /sync ต้องอยู่ก่อน /:id
			rooms.POST("/sync", rc.SyncRoomStatuses)

			rooms.GET("/:id", rc.GetRoom)
			rooms.PATCH("/:id", rc.UpdateRoom)
			rooms.PUT("/:id", rc.UpdateRoom)
			rooms.PATCH("/:id/status", rc.UpdateRoomStatus)
			rooms.DELETE("/:id", rc.DeleteRoom)
		}

		roomTypes := api.Group("/room-types")
		{
			roomTypes.GET("", controllers.GetRoomTypes)
			roomTypes.POST("", controllers.CreateRoomType)
			roomTypes.PATCH("/:id", controllers.UpdateRoomType)
			roomTypes.DELETE("/:id", controllers.DeleteRoomType)
		}

		nightAudit := api.Group("/night-audit")
		{
			nightAudit.GET("/preview", nac.Preview)
			nightAudit.POST("/run", nac.Run)
			nightAudit.GET("/runs", nac.ListRuns)
			nightAudit.GET("/runs/:id", nac.GetRun)
			nightAudit.GET("/runs/:id/details", nac.GetRunDetails)
		}

		settings := api.Group("/settings")
		{
			settings.GET("/hotel", controllers.GetHotelSettings)
			settings.PUT("/hotel", controllers.UpdateHotelSettings)
		}
	}

	return r
}
