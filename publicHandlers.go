package main

import (
	"net/http"

	"bitbucket.org/akitdaekm/membership_backend/models"
	"github.com/gin-gonic/gin"
)

func listOfficeBearersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		level := models.OfficeBearerLevel(c.Query("level"))
		district := c.Query("district")
		bearers, err := models.ListOfficeBearers(c.Request.Context(), level, district)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"officeBearers": bearers})
	}
}

func listGalleryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		itemType := models.GalleryItemType(c.Query("type"))
		items, err := models.ListGalleryItems(c.Request.Context(), itemType)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"galleryItems": items})
	}
}
