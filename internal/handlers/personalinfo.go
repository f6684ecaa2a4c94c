package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/adityaverma/portfolio-backend/internal/database"
	"github.com/adityaverma/portfolio-backend/internal/services"
)

// maxProfileImageSize bounds the multipart form parse for profile uploads.
const maxProfileImageSize = 10 << 20

var uploadService services.Uploader

// InitUploadService wires the uploader used for profile image updates.
func InitUploadService(u services.Uploader) {
	uploadService = u
}

// PersonalInfo is the singleton profile record shown on the site.
type PersonalInfo struct {
	ID           int       `json:"id"`
	FullName     string    `json:"full_name"`
	Title        string    `json:"title,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	Email        string    `json:"email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Location     string    `json:"location,omitempty"`
	GithubURL    string    `json:"github_url,omitempty"`
	LinkedinURL  string    `json:"linkedin_url,omitempty"`
	TwitterURL   string    `json:"twitter_url,omitempty"`
	ResumeURL    string    `json:"resume_url,omitempty"`
	ProfileImage string    `json:"profile_image,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

const personalInfoColumns = "id, full_name, title, bio, email, phone, location, github_url, linkedin_url, twitter_url, resume_url, profile_image, updated_at"

func scanPersonalInfo(s rowScanner) (PersonalInfo, error) {
	var p PersonalInfo
	var title, bio, email, phone, location, github, linkedin, twitter, resume, image sql.NullString
	err := s.Scan(&p.ID, &p.FullName, &title, &bio, &email, &phone, &location,
		&github, &linkedin, &twitter, &resume, &image, &p.UpdatedAt)
	p.Title = title.String
	p.Bio = bio.String
	p.Email = email.String
	p.Phone = phone.String
	p.Location = location.String
	p.GithubURL = github.String
	p.LinkedinURL = linkedin.String
	p.TwitterURL = twitter.String
	p.ResumeURL = resume.String
	p.ProfileImage = image.String
	return p, err
}

func fetchPersonalInfo(ctx context.Context) (PersonalInfo, error) {
	row := database.MySQLDB.QueryRowContext(ctx, `SELECT `+personalInfoColumns+` FROM personal_info WHERE id = 1`)
	return scanPersonalInfo(row)
}

// GetPersonalInfo handles GET /api/personal-info (public)
func GetPersonalInfo(w http.ResponseWriter, r *http.Request) {
	p, err := fetchPersonalInfo(r.Context())
	if err == sql.ErrNoRows {
		writeError(w, http.StatusNotFound, "Personal info not found")
		return
	}
	if err != nil {
		log.Printf("personal-info: fetch failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch personal info")
		return
	}
	writeData(w, http.StatusOK, "", p)
}

// UpdatePersonalInfo handles PUT /api/personal-info (admin only). The body is
// either JSON or a multipart form with an optional profile_image file; the
// stored image URL is only replaced when a new file is uploaded.
func UpdatePersonalInfo(w http.ResponseWriter, r *http.Request) {
	var req PersonalInfo
	var imageURL string

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxProfileImageSize); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		req.FullName = r.FormValue("full_name")
		req.Title = r.FormValue("title")
		req.Bio = r.FormValue("bio")
		req.Email = r.FormValue("email")
		req.Phone = r.FormValue("phone")
		req.Location = r.FormValue("location")
		req.GithubURL = r.FormValue("github_url")
		req.LinkedinURL = r.FormValue("linkedin_url")
		req.TwitterURL = r.FormValue("twitter_url")
		req.ResumeURL = r.FormValue("resume_url")

		// Read the header straight from the parsed form; FormFile would open
		// the file and leak the handle until request teardown.
		if files := r.MultipartForm.File["profile_image"]; len(files) > 0 {
			fileHeader := files[0]
			if uploadService == nil {
				writeError(w, http.StatusInternalServerError, "Image uploads are not configured")
				return
			}
			url, err := uploadService.Upload(r.Context(), fileHeader)
			if err != nil {
				log.Printf("personal-info: image upload failed: %v", err)
				writeError(w, http.StatusInternalServerError, "Failed to upload profile image")
				return
			}
			imageURL = url
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	if req.FullName == "" {
		writeError(w, http.StatusBadRequest, "full_name is required")
		return
	}

	if _, err := fetchPersonalInfo(r.Context()); err != nil {
		if err == sql.ErrNoRows {
			writeError(w, http.StatusNotFound, "Personal info not found")
			return
		}
		log.Printf("personal-info: fetch failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update personal info")
		return
	}

	args := []interface{}{
		req.FullName, nullIfEmpty(req.Title), nullIfEmpty(req.Bio), nullIfEmpty(req.Email),
		nullIfEmpty(req.Phone), nullIfEmpty(req.Location), nullIfEmpty(req.GithubURL),
		nullIfEmpty(req.LinkedinURL), nullIfEmpty(req.TwitterURL), nullIfEmpty(req.ResumeURL),
	}
	query := `
		UPDATE personal_info SET full_name = ?, title = ?, bio = ?, email = ?, phone = ?,
			location = ?, github_url = ?, linkedin_url = ?, twitter_url = ?, resume_url = ?`
	if imageURL != "" {
		query += `, profile_image = ?`
		args = append(args, imageURL)
	}
	query += ` WHERE id = 1`

	if _, err := database.MySQLDB.ExecContext(r.Context(), query, args...); err != nil {
		log.Printf("personal-info: update failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update personal info")
		return
	}

	p, err := fetchPersonalInfo(r.Context())
	if err != nil {
		log.Printf("personal-info: fetch after update failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update personal info")
		return
	}
	writeData(w, http.StatusOK, "Personal info updated successfully", p)
}
