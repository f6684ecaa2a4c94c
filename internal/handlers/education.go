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

// Education is a single entry in the education category.
type Education struct {
	ID          int       `json:"id"`
	Degree      string    `json:"degree"`
	Institution string    `json:"institution"`
	Location    string    `json:"location,omitempty"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date,omitempty"`
	Current     bool      `json:"current"`
	GPA         string    `json:"gpa,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

const educationColumns = "id, degree, institution, location, DATE_FORMAT(start_date, '%Y-%m-%d'), DATE_FORMAT(end_date, '%Y-%m-%d'), current, gpa, description, created_at"

func scanEducation(s rowScanner) (Education, error) {
	var e Education
	var location, endDate, gpa, description sql.NullString
	err := s.Scan(&e.ID, &e.Degree, &e.Institution, &location, &e.StartDate, &endDate,
		&e.Current, &gpa, &description, &e.CreatedAt)
	e.Location = location.String
	e.EndDate = endDate.String
	e.GPA = gpa.String
	e.Description = description.String
	return e, err
}

func fetchEducation(ctx context.Context, id int) (Education, error) {
	row := database.MySQLDB.QueryRowContext(ctx, `SELECT `+educationColumns+` FROM education WHERE id = ?`, id)
	return scanEducation(row)
}

// ListEducation handles GET /api/education (public); most recent first
func ListEducation(w http.ResponseWriter, r *http.Request) {
	rows, err := database.MySQLDB.QueryContext(r.Context(), `
		SELECT `+educationColumns+` FROM education ORDER BY start_date DESC
	`)
	if err != nil {
		log.Printf("education: list failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch education records")
		return
	}
	defer rows.Close()

	records := make([]Education, 0)
	for rows.Next() {
		e, err := scanEducation(rows)
		if err != nil {
			log.Printf("education: scan failed: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to fetch education records")
			return
		}
		records = append(records, e)
	}
	writeList(w, records, len(records))
}

// GetEducation handles GET /api/education/{id} (public)
func GetEducation(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	e, err := fetchEducation(r.Context(), id)
	if err == sql.ErrNoRows {
		writeError(w, http.StatusNotFound, "Education record not found")
		return
	}
	if err != nil {
		log.Printf("education: fetch failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch education record")
		return
	}
	writeData(w, http.StatusOK, "", e)
}

// CreateEducation handles POST /api/education (admin only)
func CreateEducation(w http.ResponseWriter, r *http.Request) {
	var req Education
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if missing := firstMissing(
		requiredField{"degree", req.Degree},
		requiredField{"institution", req.Institution},
		requiredField{"start_date", req.StartDate},
	); missing != "" {
		writeError(w, http.StatusBadRequest, missing+" is required")
		return
	}

	result, err := database.MySQLDB.ExecContext(r.Context(), `
		INSERT INTO education (degree, institution, location, start_date, end_date, current, gpa, description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, req.Degree, req.Institution, nullIfEmpty(req.Location), req.StartDate, nullIfEmpty(req.EndDate),
		req.Current, nullIfEmpty(req.GPA), nullIfEmpty(req.Description))
	if err != nil {
		log.Printf("education: insert failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create education record")
		return
	}

	id, _ := result.LastInsertId()
	e, err := fetchEducation(r.Context(), int(id))
	if err != nil {
		log.Printf("education: fetch after insert failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create education record")
		return
	}
	writeData(w, http.StatusCreated, "Education record created successfully", e)
}

// UpdateEducation handles PUT /api/education/{id} (admin only)
func UpdateEducation(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req Education
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if missing := firstMissing(
		requiredField{"degree", req.Degree},
		requiredField{"institution", req.Institution},
		requiredField{"start_date", req.StartDate},
	); missing != "" {
		writeError(w, http.StatusBadRequest, missing+" is required")
		return
	}

	if _, err := fetchEducation(r.Context(), id); err != nil {
		if err == sql.ErrNoRows {
			writeError(w, http.StatusNotFound, "Education record not found")
			return
		}
		log.Printf("education: fetch failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update education record")
		return
	}

	_, err := database.MySQLDB.ExecContext(r.Context(), `
		UPDATE education SET degree = ?, institution = ?, location = ?, start_date = ?, end_date = ?,
			current = ?, gpa = ?, description = ? WHERE id = ?
	`, req.Degree, req.Institution, nullIfEmpty(req.Location), req.StartDate, nullIfEmpty(req.EndDate),
		req.Current, nullIfEmpty(req.GPA), nullIfEmpty(req.Description), id)
	if err != nil {
		log.Printf("education: update failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update education record")
		return
	}

	e, err := fetchEducation(r.Context(), id)
	if err != nil {
		log.Printf("education: fetch after update failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update education record")
		return
	}
	writeData(w, http.StatusOK, "Education record updated successfully", e)
}

// DeleteEducation handles DELETE /api/education/{id} (admin only)
func DeleteEducation(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	result, err := database.MySQLDB.ExecContext(r.Context(), `DELETE FROM education WHERE id = ?`, id)
	if err != nil {
		log.Printf("education: delete failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete education record")
		return
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		writeError(w, http.StatusNotFound, "Education record not found")
		return
	}
	writeData(w, http.StatusOK, "Education record deleted successfully", nil)
}
