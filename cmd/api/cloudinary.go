package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// for cloudinary uploadParams
func boolPtr(b bool) *bool {
	return &b
}

func (app *application) deletePhotoFromCloudinary(photoURL string) error {
	publicID, err := extractPublicIDFromURL(photoURL)
	if err != nil {
		return fmt.Errorf("failed to extract public ID: %w", err)
	}

	_, err = app.cld.Upload.Destroy(context.Background(), uploader.DestroyParams{
		PublicID: publicID,
	})
	if err != nil {
		return fmt.Errorf("failed to delete photo from Cloudinary: %w", err)
	}

	return nil
}

// extractPublicIDFromURL pulls the public ID out of a Cloudinary asset URL.
func extractPublicIDFromURL(photoURL string) (string, error) {
	parsedURL, err := url.Parse(photoURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}

	pathParts := strings.Split(parsedURL.Path, "/")
	for i, part := range pathParts {
		if part == "upload" && i+1 < len(pathParts) {
			return strings.Join(pathParts[i+1:], "/"), nil
		}
	}

	return "", errors.New("failed to extract public ID from URL")
}

func (app *application) uploadFacilityPhoto(file io.Reader, facilityID int64) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := app.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:       fmt.Sprintf("%d_%d", facilityID, time.Now().UnixMilli()),
		Overwrite:      boolPtr(false),
		Folder:         "facility_photos",
		Transformation: "w_1200,h_800,c_fill,q_auto",
	})
	if err != nil {
		return "", err
	}
	return resp.SecureURL, nil
}

// uploadFacilityPhotoHandler godoc
//
//	@Summary		Upload a facility photo
//	@Description	Uploads one photo (JPEG or PNG, up to 5MB) and appends its URL to the facility's gallery
//	@Tags			facilities
//	@Accept			mpfd
//	@Produce		json
//	@Param			facilityID	path		int		true	"Facility ID"
//	@Param			photo		formData	file	true	"Photo file"
//	@Success		201			{object}	map[string]string
//	@Failure		400			{object}	error	"Bad Request"
//	@Failure		403			{object}	error	"Forbidden"
//	@Failure		500			{object}	error	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/facilities/{facilityID}/photos [post]
func (app *application) uploadFacilityPhotoHandler(w http.ResponseWriter, r *http.Request) {
	facilityID, err := parseIDParam(r, "facilityID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(5 << 20); err != nil {
		app.badRequestResponse(w, r, errors.New("unable to parse form, file size limit is 5MB"))
		return
	}

	file, fileHeader, err := r.FormFile("photo")
	if err != nil {
		app.badRequestResponse(w, r, errors.New("unable to retrieve file"))
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType != "image/jpeg" && contentType != "image/png" {
		app.badRequestResponse(w, r, errors.New("only JPEG and PNG images are allowed"))
		return
	}

	photoURL, err := app.uploadFacilityPhoto(file, facilityID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.store.Facilities.AddPhotoURL(r.Context(), facilityID, photoURL); err != nil {
		// The asset is already in Cloudinary; clean it up so the gallery and
		// storage stay in sync.
		if delErr := app.deletePhotoFromCloudinary(photoURL); delErr != nil {
			app.logger.Errorw("rolling back cloudinary upload", "error", delErr)
		}
		app.bookingErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, map[string]string{"photo_url": photoURL}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteFacilityPhotoHandler godoc
//
//	@Summary		Delete a facility photo
//	@Description	Removes a photo from the facility's gallery and from Cloudinary
//	@Tags			facilities
//	@Produce		json
//	@Param			facilityID	path	int		true	"Facility ID"
//	@Param			photo_url	query	string	true	"Photo URL to remove"
//	@Success		204
//	@Failure		400	{object}	error	"Bad Request"
//	@Failure		403	{object}	error	"Forbidden"
//	@Failure		404	{object}	error	"Not Found"
//	@Security		ApiKeyAuth
//	@Router			/facilities/{facilityID}/photos [delete]
func (app *application) deleteFacilityPhotoHandler(w http.ResponseWriter, r *http.Request) {
	facilityID, err := parseIDParam(r, "facilityID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	photoURL := r.URL.Query().Get("photo_url")
	if photoURL == "" {
		app.badRequestResponse(w, r, errors.New("photo_url is required"))
		return
	}

	if err := app.store.Facilities.RemovePhotoURL(r.Context(), facilityID, photoURL); err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	if err := app.deletePhotoFromCloudinary(photoURL); err != nil {
		app.logger.Errorw("deleting cloudinary asset", "error", err)
	}

	w.WriteHeader(http.StatusNoContent)
}
