package main

import (
	"net/http"

	"bitbucket.org/akitdaekm/membership_backend/models"
	"github.com/gin-gonic/gin"
)

func memberMeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		memberId, ok := memberIdFromSession(c)
		if !ok {
			return
		}
		member, err := models.GetMemberById(c.Request.Context(), memberId)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"member": member})
	}
}

type addressUpdateInput struct {
	models.MemberAddressUpdate
	Otp string `json:"otp" binding:"required"`
}

// updateMemberAddressHandler changes contact details, which double as login
// identifiers, so it demands a fresh OTP on top of the session.
func updateMemberAddressHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		memberId, ok := memberIdFromSession(c)
		if !ok {
			return
		}
		var input addressUpdateInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err, "otp and address fields are required")
			return
		}
		if !otpMatches(c.Request.Context(), memberId, input.Otp) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid otp"})
			return
		}
		member, err := models.UpdateMemberAddress(c.Request.Context(), memberId, input.MemberAddressUpdate)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"member": member})
	}
}

func submitPaymentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		memberId, ok := memberIdFromSession(c)
		if !ok {
			return
		}
		var input models.NewPayment
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err, "transactionId is required")
			return
		}
		payment, err := models.SubmitPayment(c.Request.Context(), memberId, input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"payment": payment})
	}
}

func listMyPaymentsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		memberId, ok := memberIdFromSession(c)
		if !ok {
			return
		}
		payments, err := models.ListPaymentsForMember(c.Request.Context(), memberId)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"payments": payments})
	}
}
