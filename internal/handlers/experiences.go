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

// Experience is a single entry in the experiences category.
type Experience struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	Company      string    `json:"company"`
	Location     string    `json:"location,omitempty"`
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date,omitempty"`
	Current      bool      `json:"current"`
	Description  string    `json:"description,omitempty"`
	Technologies string    `json:"technologies,omitempty"`
	Type         string    `json:"type"`
	CreatedAt    time.Time `json:"created_at"`
}

const experienceColumns = "id, title, company, location, DATE_FORMAT(start_date, '%Y-%m-%d'), DATE_FORMAT(end_date, '%Y-%m-%d'), current, description, technologies, type, created_at"

func scanExperience(s rowScanner) (Experience, error) {
	var e Experience
	var location, endDate, description, technologies sql.NullString
	err := s.Scan(&e.ID, &e.Title, &e.Company, &location, &e.StartDate, &endDate,
		&e.Current, &description, &technologies, &e.Type, &e.CreatedAt)
	e.Location = location.String
	e.EndDate = endDate.String
	e.Description = description.String
	e.Technologies = technologies.String
	return e, err
}

func fetchExperience(ctx context.Context, id int) (Experience, error) {
	row := database.MySQLDB.QueryRowContext(ctx, `SELECT `+experienceColumns+` FROM experiences WHERE id = ?`, id)
	return scanExperience(row)
}

// ListExperiences handles GET /api/experiences (public); most recent first
func ListExperiences(w http.ResponseWriter, r *http.Request) {
	rows, err := database.MySQLDB.QueryContext(r.Context(), `
		SELECT `+experienceColumns+` FROM experiences ORDER BY start_date DESC
	`)
	if err != nil {
		log.Printf("experiences: list failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch experiences")
		return
	}
	defer rows.Close()

	experiences := make([]Experience, 0)
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			log.Printf("experiences: scan failed: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to fetch experiences")
			return
		}
		experiences = append(experiences, e)
	}
	writeList(w, experiences, len(experiences))
}

// GetExperience handles GET /api/experiences/{id} (public)
func GetExperience(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	e, err := fetchExperience(r.Context(), id)
	if err == sql.ErrNoRows {
		writeError(w, http.StatusNotFound, "Experience not found")
		return
	}
	if err != nil {
		log.Printf("experiences: fetch failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch experience")
		return
	}
	writeData(w, http.StatusOK, "", e)
}

// CreateExperience handles POST /api/experiences (admin only)
func CreateExperience(w http.ResponseWriter, r *http.Request) {
	var req Experience
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if missing := firstMissing(
		requiredField{"title", req.Title},
		requiredField{"company", req.Company},
		requiredField{"start_date", req.StartDate},
	); missing != "" {
		writeError(w, http.StatusBadRequest, missing+" is required")
		return
	}
	if req.Type == "" {
		req.Type = "Internship"
	}

	result, err := database.MySQLDB.ExecContext(r.Context(), `
		INSERT INTO experiences (title, company, location, start_date, end_date, current, description, technologies, type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, req.Title, req.Company, nullIfEmpty(req.Location), req.StartDate, nullIfEmpty(req.EndDate),
		req.Current, nullIfEmpty(req.Description), nullIfEmpty(req.Technologies), req.Type)
	if err != nil {
		log.Printf("experiences: insert failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create experience")
		return
	}

	id, _ := result.LastInsertId()
	e, err := fetchExperience(r.Context(), int(id))
	if err != nil {
		log.Printf("experiences: fetch after insert failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create experience")
		return
	}
	writeData(w, http.StatusCreated, "Experience created successfully", e)
}

// UpdateExperience handles PUT /api/experiences/{id} (admin only)
func UpdateExperience(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req Experience
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if missing := firstMissing(
		requiredField{"title", req.Title},
		requiredField{"company", req.Company},
		requiredField{"start_date", req.StartDate},
	); missing != "" {
		writeError(w, http.StatusBadRequest, missing+" is required")
		return
	}
	if req.Type == "" {
		req.Type = "Internship"
	}

	if _, err := fetchExperience(r.Context(), id); err != nil {
		if err == sql.ErrNoRows {
			writeError(w, http.StatusNotFound, "Experience not found")
			return
		}
		log.Printf("experiences: fetch failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update experience")
		return
	}

	_, err := database.MySQLDB.ExecContext(r.Context(), `
		UPDATE experiences SET title = ?, company = ?, location = ?, start_date = ?, end_date = ?,
			current = ?, description = ?, technologies = ?, type = ? WHERE id = ?
	`, req.Title, req.Company, nullIfEmpty(req.Location), req.StartDate, nullIfEmpty(req.EndDate),
		req.Current, nullIfEmpty(req.Description), nullIfEmpty(req.Technologies), req.Type, id)
	if err != nil {
		log.Printf("experiences: update failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update experience")
		return
	}

	e, err := fetchExperience(r.Context(), id)
	if err != nil {
		log.Printf("experiences: fetch after update failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update experience")
		return
	}
	writeData(w, http.StatusOK, "Experience updated successfully", e)
}

// DeleteExperience handles DELETE /api/experiences/{id} (admin only)
func DeleteExperience(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	result, err := database.MySQLDB.ExecContext(r.Context(), `DELETE FROM experiences WHERE id = ?`, id)
	if err != nil {
		log.Printf("experiences: delete failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete experience")
		return
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		writeError(w, http.StatusNotFound, "Experience not found")
		return
	}
	writeData(w, http.StatusOK, "Experience deleted successfully", nil)
}
