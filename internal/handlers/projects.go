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

// Project is a single entry in the projects category.
type Project struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	TechStack   string    `json:"tech_stack"`
	GithubLink  string    `json:"github_link,omitempty"`
	DemoLink    string    `json:"demo_link,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	Featured    bool      `json:"featured"`
	CreatedAt   time.Time `json:"created_at"`
}

const projectColumns = "id, title, description, tech_stack, github_link, demo_link, image_url, featured, created_at"

func scanProject(s rowScanner) (Project, error) {
	var p Project
	var githubLink, demoLink, imageURL sql.NullString
	err := s.Scan(&p.ID, &p.Title, &p.Description, &p.TechStack, &githubLink, &demoLink, &imageURL, &p.Featured, &p.CreatedAt)
	p.GithubLink = githubLink.String
	p.DemoLink = demoLink.String
	p.ImageURL = imageURL.String
	return p, err
}

func fetchProject(ctx context.Context, id int) (Project, error) {
	row := database.MySQLDB.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	return scanProject(row)
}

// ListProjects handles GET /api/projects (public); featured projects first
func ListProjects(w http.ResponseWriter, r *http.Request) {
	rows, err := database.MySQLDB.QueryContext(r.Context(), `
		SELECT `+projectColumns+` FROM projects ORDER BY featured DESC, created_at DESC
	`)
	if err != nil {
		log.Printf("projects: list failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch projects")
		return
	}
	defer rows.Close()

	projects := make([]Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			log.Printf("projects: scan failed: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to fetch projects")
			return
		}
		projects = append(projects, p)
	}
	writeList(w, projects, len(projects))
}

// GetProject handles GET /api/projects/{id} (public)
func GetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	p, err := fetchProject(r.Context(), id)
	if err == sql.ErrNoRows {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	if err != nil {
		log.Printf("projects: fetch failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch project")
		return
	}
	writeData(w, http.StatusOK, "", p)
}

// CreateProject handles POST /api/projects (admin only)
func CreateProject(w http.ResponseWriter, r *http.Request) {
	var req Project
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if missing := firstMissing(
		requiredField{"title", req.Title},
		requiredField{"description", req.Description},
		requiredField{"tech_stack", req.TechStack},
	); missing != "" {
		writeError(w, http.StatusBadRequest, missing+" is required")
		return
	}

	result, err := database.MySQLDB.ExecContext(r.Context(), `
		INSERT INTO projects (title, description, tech_stack, github_link, demo_link, image_url, featured)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, req.Title, req.Description, req.TechStack,
		nullIfEmpty(req.GithubLink), nullIfEmpty(req.DemoLink), nullIfEmpty(req.ImageURL), req.Featured)
	if err != nil {
		log.Printf("projects: insert failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create project")
		return
	}

	id, _ := result.LastInsertId()
	p, err := fetchProject(r.Context(), int(id))
	if err != nil {
		log.Printf("projects: fetch after insert failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create project")
		return
	}
	writeData(w, http.StatusCreated, "Project created successfully", p)
}

// UpdateProject handles PUT /api/projects/{id} (admin only)
func UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req Project
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if missing := firstMissing(
		requiredField{"title", req.Title},
		requiredField{"description", req.Description},
		requiredField{"tech_stack", req.TechStack},
	); missing != "" {
		writeError(w, http.StatusBadRequest, missing+" is required")
		return
	}

	if _, err := fetchProject(r.Context(), id); err != nil {
		if err == sql.ErrNoRows {
			writeError(w, http.StatusNotFound, "Project not found")
			return
		}
		log.Printf("projects: fetch failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update project")
		return
	}

	_, err := database.MySQLDB.ExecContext(r.Context(), `
		UPDATE projects SET title = ?, description = ?, tech_stack = ?, github_link = ?,
			demo_link = ?, image_url = ?, featured = ? WHERE id = ?
	`, req.Title, req.Description, req.TechStack,
		nullIfEmpty(req.GithubLink), nullIfEmpty(req.DemoLink), nullIfEmpty(req.ImageURL), req.Featured, id)
	if err != nil {
		log.Printf("projects: update failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update project")
		return
	}

	p, err := fetchProject(r.Context(), id)
	if err != nil {
		log.Printf("projects: fetch after update failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update project")
		return
	}
	writeData(w, http.StatusOK, "Project updated successfully", p)
}

// DeleteProject handles DELETE /api/projects/{id} (admin only)
func DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	result, err := database.MySQLDB.ExecContext(r.Context(), `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		log.Printf("projects: delete failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete project")
		return
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}
	writeData(w, http.StatusOK, "Project deleted successfully", nil)
}
