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

// Skill is a single entry in the skills category.
type Skill struct {
	ID               int       `json:"id"`
	SkillName        string    `json:"skill_name"`
	ProficiencyLevel string    `json:"proficiency_level"`
	Category         string    `json:"category"`
	CreatedAt        time.Time `json:"created_at"`
}

const skillColumns = "id, skill_name, proficiency_level, category, created_at"

func scanSkill(s rowScanner) (Skill, error) {
	var sk Skill
	err := s.Scan(&sk.ID, &sk.SkillName, &sk.ProficiencyLevel, &sk.Category, &sk.CreatedAt)
	return sk, err
}

func fetchSkill(ctx context.Context, id int) (Skill, error) {
	row := database.MySQLDB.QueryRowContext(ctx, `SELECT `+skillColumns+` FROM skills WHERE id = ?`, id)
	return scanSkill(row)
}

// ListSkills handles GET /api/skills (public)
func ListSkills(w http.ResponseWriter, r *http.Request) {
	rows, err := database.MySQLDB.QueryContext(r.Context(), `
		SELECT `+skillColumns+` FROM skills ORDER BY category, skill_name
	`)
	if err != nil {
		log.Printf("skills: list failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch skills")
		return
	}
	defer rows.Close()

	skills := make([]Skill, 0)
	for rows.Next() {
		sk, err := scanSkill(rows)
		if err != nil {
			log.Printf("skills: scan failed: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to fetch skills")
			return
		}
		skills = append(skills, sk)
	}
	writeList(w, skills, len(skills))
}

// GetSkill handles GET /api/skills/{id} (public)
func GetSkill(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	sk, err := fetchSkill(r.Context(), id)
	if err == sql.ErrNoRows {
		writeError(w, http.StatusNotFound, "Skill not found")
		return
	}
	if err != nil {
		log.Printf("skills: fetch failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch skill")
		return
	}
	writeData(w, http.StatusOK, "", sk)
}

// CreateSkill handles POST /api/skills (admin only)
func CreateSkill(w http.ResponseWriter, r *http.Request) {
	var req Skill
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if missing := firstMissing(
		requiredField{"skill_name", req.SkillName},
		requiredField{"proficiency_level", req.ProficiencyLevel},
		requiredField{"category", req.Category},
	); missing != "" {
		writeError(w, http.StatusBadRequest, missing+" is required")
		return
	}

	result, err := database.MySQLDB.ExecContext(r.Context(), `
		INSERT INTO skills (skill_name, proficiency_level, category) VALUES (?, ?, ?)
	`, req.SkillName, req.ProficiencyLevel, req.Category)
	if err != nil {
		log.Printf("skills: insert failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create skill")
		return
	}

	id, _ := result.LastInsertId()
	sk, err := fetchSkill(r.Context(), int(id))
	if err != nil {
		log.Printf("skills: fetch after insert failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create skill")
		return
	}
	writeData(w, http.StatusCreated, "Skill created successfully", sk)
}

// UpdateSkill handles PUT /api/skills/{id} (admin only)
func UpdateSkill(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req Skill
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if missing := firstMissing(
		requiredField{"skill_name", req.SkillName},
		requiredField{"proficiency_level", req.ProficiencyLevel},
		requiredField{"category", req.Category},
	); missing != "" {
		writeError(w, http.StatusBadRequest, missing+" is required")
		return
	}

	// Existence check first: MySQL reports zero affected rows for a no-op
	// update, so RowsAffected cannot distinguish "missing" from "unchanged".
	if _, err := fetchSkill(r.Context(), id); err != nil {
		if err == sql.ErrNoRows {
			writeError(w, http.StatusNotFound, "Skill not found")
			return
		}
		log.Printf("skills: fetch failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update skill")
		return
	}

	_, err := database.MySQLDB.ExecContext(r.Context(), `
		UPDATE skills SET skill_name = ?, proficiency_level = ?, category = ? WHERE id = ?
	`, req.SkillName, req.ProficiencyLevel, req.Category, id)
	if err != nil {
		log.Printf("skills: update failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update skill")
		return
	}

	sk, err := fetchSkill(r.Context(), id)
	if err != nil {
		log.Printf("skills: fetch after update failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update skill")
		return
	}
	writeData(w, http.StatusOK, "Skill updated successfully", sk)
}

// DeleteSkill handles DELETE /api/skills/{id} (admin only)
func DeleteSkill(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	result, err := database.MySQLDB.ExecContext(r.Context(), `DELETE FROM skills WHERE id = ?`, id)
	if err != nil {
		log.Printf("skills: delete failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete skill")
		return
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		writeError(w, http.StatusNotFound, "Skill not found")
		return
	}
	writeData(w, http.StatusOK, "Skill deleted successfully", nil)
}
