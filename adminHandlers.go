package main

import (
	"net/http"
	"time"

	"bitbucket.org/akitdaekm/membership_backend/models"
	"github.com/gin-gonic/gin"
)

func listMembersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := adminIdFromSession(c); !ok {
			return
		}
		members, err := models.ListMembers(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"members": members})
	}
}

func getMemberHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := adminIdFromSession(c); !ok {
			return
		}
		member, err := models.GetMemberById(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"member": member})
	}
}

// updateMemberStatusHandler takes bundled officer votes and an optional status
// change. Session enforcement lives in the model: unauthenticated requests
// can't cast votes, and votes are checked against the caller's role there.
func updateMemberStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.StatusUpdateInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		member, err := models.UpdateMemberStatus(c.Request.Context(), c.Param("id"), input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"member": member})
	}
}

func verifyPaymentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := adminIdFromSession(c); !ok {
			return
		}
		ctx, span := tracer.Start(c.Request.Context(), "payment.verify")
		defer span.End()
		result, err := models.VerifyPayment(ctx, c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func exportMembersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := adminIdFromSession(c); !ok {
			return
		}
		buf, err := models.ExportMembersExcel(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		filename := "members-" + time.Now().Format("2006-01-02") + ".xlsx"
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Data(http.StatusOK,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			buf.Bytes())
	}
}

func listAdminsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c) {
			return
		}
		admins, err := models.ListAdmins(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"admins": admins})
	}
}

func createOfficeBearerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := adminIdFromSession(c); !ok {
			return
		}
		var input models.OfficeBearerInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name and position are required"})
			return
		}
		bearer, err := models.CreateOfficeBearer(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"officeBearer": bearer})
	}
}

func updateOfficeBearerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := adminIdFromSession(c); !ok {
			return
		}
		var input models.OfficeBearerInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name and position are required"})
			return
		}
		bearer, err := models.UpdateOfficeBearer(c.Request.Context(), c.Param("id"), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"officeBearer": bearer})
	}
}

func deleteOfficeBearerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := adminIdFromSession(c); !ok {
			return
		}
		if err := models.DeleteOfficeBearer(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func createGalleryItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := adminIdFromSession(c); !ok {
			return
		}
		var input models.GalleryItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "type and title are required"})
			return
		}
		item, err := models.CreateGalleryItem(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"galleryItem": item})
	}
}

func deleteGalleryItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := adminIdFromSession(c); !ok {
			return
		}
		if err := models.DeleteGalleryItem(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
