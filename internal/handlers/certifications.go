package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/adityaverma/portfolio-backend/internal/database"
)

// Certification is a single entry in the certifications category.
type Certification struct {
	ID                  int       `json:"id"`
	CertName            string    `json:"cert_name"`
	IssuingOrganization string    `json:"issuing_organization"`
	IssueDate           string    `json:"issue_date"`
	CredentialID        string    `json:"credential_id,omitempty"`
	CredentialURL       string    `json:"credential_url,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

const certificationColumns = "id, cert_name, issuing_organization, DATE_FORMAT(issue_date, '%Y-%m-%d'), credential_id, credential_url, created_at"

func scanCertification(s rowScanner) (Certification, error) {
	var c Certification
	var credentialID, credentialURL sql.NullString
	err := s.Scan(&c.ID, &c.CertName, &c.IssuingOrganization, &c.IssueDate, &credentialID, &credentialURL, &c.CreatedAt)
	c.CredentialID = credentialID.String
	c.CredentialURL = credentialURL.String
	return c, err
}

func fetchCertification(ctx context.Context, id int) (Certification, error) {
	row := database.MySQLDB.QueryRowContext(ctx, `SELECT `+certificationColumns+` FROM certifications WHERE id = ?`, id)
	return scanCertification(row)
}

// ListCertifications handles GET /api/certifications (public); newest first
func ListCertifications(w http.ResponseWriter, r *http.Request) {
	rows, err := database.MySQLDB.QueryContext(r.Context(), `
		SELECT `+certificationColumns+` FROM certifications ORDER BY issue_date DESC
	`)
	if err != nil {
		log.Printf("certifications: list failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch certifications")
		return
	}
	defer rows.Close()

	certifications := make([]Certification, 0)
	for rows.Next() {
		c, err := scanCertification(rows)
		if err != nil {
			log.Printf("certifications: scan failed: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to fetch certifications")
			return
		}
		certifications = append(certifications, c)
	}
	writeList(w, certifications, len(certifications))
}

// GetCertification handles GET /api/certifications/{id} (public)
func GetCertification(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	c, err := fetchCertification(r.Context(), id)
	if err == sql.ErrNoRows {
		writeError(w, http.StatusNotFound, "Certification not found")
		return
	}
	if err != nil {
		log.Printf("certifications: fetch failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch certification")
		return
	}
	writeData(w, http.StatusOK, "", c)
}

// CreateCertification handles POST /api/certifications (admin only)
func CreateCertification(w http.ResponseWriter, r *http.Request) {
	var req Certification
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if missing := firstMissing(
		requiredField{"cert_name", req.CertName},
		requiredField{"issuing_organization", req.IssuingOrganization},
		requiredField{"issue_date", req.IssueDate},
	); missing != "" {
		writeError(w, http.StatusBadRequest, missing+" is required")
		return
	}

	result, err := database.MySQLDB.ExecContext(r.Context(), `
		INSERT INTO certifications (cert_name, issuing_organization, issue_date, credential_id, credential_url)
		VALUES (?, ?, ?, ?, ?)
	`, req.CertName, req.IssuingOrganization, req.IssueDate,
		nullIfEmpty(req.CredentialID), nullIfEmpty(req.CredentialURL))
	if err != nil {
		log.Printf("certifications: insert failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create certification")
		return
	}

	id, _ := result.LastInsertId()
	c, err := fetchCertification(r.Context(), int(id))
	if err != nil {
		log.Printf("certifications: fetch after insert failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create certification")
		return
	}
	writeData(w, http.StatusCreated, "Certification created successfully", c)
}

// UpdateCertification handles PUT /api/certifications/{id} (admin only)
func UpdateCertification(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req Certification
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if missing := firstMissing(
		requiredField{"cert_name", req.CertName},
		requiredField{"issuing_organization", req.IssuingOrganization},
		requiredField{"issue_date", req.IssueDate},
	); missing != "" {
		writeError(w, http.StatusBadRequest, missing+" is required")
		return
	}

	if _, err := fetchCertification(r.Context(), id); err != nil {
		if err == sql.ErrNoRows {
			writeError(w, http.StatusNotFound, "Certification not found")
			return
		}
		log.Printf("certifications: fetch failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update certification")
		return
	}

	_, err := database.MySQLDB.ExecContext(r.Context(), `
		UPDATE certifications SET cert_name = ?, issuing_organization = ?, issue_date = ?,
			credential_id = ?, credential_url = ? WHERE id = ?
	`, req.CertName, req.IssuingOrganization, req.IssueDate,
		nullIfEmpty(req.CredentialID), nullIfEmpty(req.CredentialURL), id)
	if err != nil {
		log.Printf("certifications: update failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update certification")
		return
	}

	c, err := fetchCertification(r.Context(), id)
	if err != nil {
		log.Printf("certifications: fetch after update failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update certification")
		return
	}
	writeData(w, http.StatusOK, "Certification updated successfully", c)
}

// DeleteCertification handles DELETE /api/certifications/{id} (admin only)
func DeleteCertification(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	result, err := database.MySQLDB.ExecContext(r.Context(), `DELETE FROM certifications WHERE id = ?`, id)
	if err != nil {
		log.Printf("certifications: delete failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete certification")
		return
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		writeError(w, http.StatusNotFound, "Certification not found")
		return
	}
	writeData(w, http.StatusOK, "Certification deleted successfully", nil)
}
