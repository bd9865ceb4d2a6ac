package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strconv"
	"strings"

	"bitbucket.org/akitdaekm/membership_backend/config"
	"bitbucket.org/akitdaekm/membership_backend/models"
	"bitbucket.org/akitdaekm/membership_backend/utils"
	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const maxUploadSizeBytes int64 = 5 * 1024 * 1024

var imageMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

var gstMimeTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
}

// saveUpload streams one multipart file to the storage backend and returns its
// access URL.
func saveUpload(ctx context.Context, fh *multipart.FileHeader, folder string, allowed map[string]bool) (string, error) {
	if fh.Size > maxUploadSizeBytes {
		return "", utils.NewValidationError("file size exceeds 5MB limit")
	}
	contentType := fh.Header.Get("Content-Type")
	if !allowed[contentType] {
		return "", utils.NewValidationError("unsupported file type: " + contentType)
	}
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	objectKey := path.Join(folder, utils.GenerateUniqueFilename(fh.Filename))
	return utils.GetStorage().Save(ctx, objectKey, contentType, f)
}

// registerHandler is the public application form: a multipart request with a
// "data" JSON part (the application fields), a required "gstFile", and an
// optional "partnerPhoto_<i>" per partner.
func registerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()
		ctx := c.Request.Context()

		var input models.NewMember
		raw := c.PostForm("data")
		if raw == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "data is required"})
			return
		}
		if err := json.Unmarshal([]byte(raw), &input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid application data"})
			return
		}

		gstFile, err := c.FormFile("gstFile")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "GST document is required"})
			return
		}
		gstURL, err := saveUpload(ctx, gstFile, "members/gst", gstMimeTypes)
		if err != nil {
			respondError(c, err)
			return
		}
		input.GstFile = gstURL

		for i := range input.Partners {
			fh, err := c.FormFile("partnerPhoto_" + strconv.Itoa(i))
			if err != nil {
				continue
			}
			photoURL, err := saveUpload(ctx, fh, "members/partners", imageMimeTypes)
			if err != nil {
				respondError(c, err)
				return
			}
			input.Partners[i].PhotoFile = photoURL
		}

		member, err := models.RegisterMember(ctx, &input)
		if err != nil {
			respondError(c, err)
			return
		}

		logger.WithFields(logrus.Fields{
			"field":     "register",
			"member_id": member.ID,
			"company":   member.CompanyName,
		}).Info("application received")

		c.JSON(http.StatusCreated, gin.H{"member": member})
	}
}

// galleryUploadHandler ingests one photo for the public gallery and generates
// its thumbnail inline.
func galleryUploadHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := adminIdFromSession(c); !ok {
			return
		}
		ctx := c.Request.Context()

		title := strings.TrimSpace(c.PostForm("title"))
		if title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
			return
		}
		fh, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
			return
		}
		if fh.Size > maxUploadSizeBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file size exceeds 5MB limit"})
			return
		}
		contentType := fh.Header.Get("Content-Type")
		if !imageMimeTypes[contentType] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported image type"})
			return
		}

		f, err := fh.Open()
		if err != nil {
			respondError(c, err)
			return
		}
		data, err := io.ReadAll(io.LimitReader(f, maxUploadSizeBytes+1))
		_ = f.Close()
		if err != nil {
			respondError(c, err)
			return
		}

		img, err := imaging.Decode(bytes.NewReader(data))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image"})
			return
		}
		thumbnail := imaging.Resize(img, 400, 0, imaging.Lanczos)
		var thumbBuf bytes.Buffer
		if err := imaging.Encode(&thumbBuf, thumbnail, imaging.JPEG); err != nil {
			respondError(c, err)
			return
		}

		storage := utils.GetStorage()
		name := utils.GenerateUniqueFilename(fh.Filename)
		fileURL, err := storage.Save(ctx, path.Join("gallery", name), contentType, bytes.NewReader(data))
		if err != nil {
			respondError(c, err)
			return
		}
		thumbURL, err := storage.Save(ctx, path.Join("gallery", "thumbnails", name+".jpg"), "image/jpeg", &thumbBuf)
		if err != nil {
			respondError(c, err)
			return
		}

		item, err := models.CreateGalleryItem(ctx, &models.GalleryItemInput{
			Type:     models.GalleryItemTypePhoto,
			Title:    title,
			FileUrl:  fileURL,
			ThumbUrl: thumbURL,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"galleryItem": item})
	}
}

// bearerPhotoUploadHandler stores an office bearer portrait; the returned URL
// goes into the subsequent create/update call.
func bearerPhotoUploadHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := adminIdFromSession(c); !ok {
			return
		}
		fh, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
			return
		}
		photoURL, err := saveUpload(c.Request.Context(), fh, "office-bearers", imageMimeTypes)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"photoFile": photoURL})
	}
}
