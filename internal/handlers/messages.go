package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"regexp"
	"time"

	"github.com/adityaverma/portfolio-backend/internal/database"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Message is a contact form submission.
type Message struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Subject    string    `json:"subject,omitempty"`
	Message    string    `json:"message"`
	ReadStatus bool      `json:"read_status"`
	CreatedAt  time.Time `json:"created_at"`
}

const messageColumns = "id, name, email, subject, message, read_status, created_at"

func scanMessage(s rowScanner) (Message, error) {
	var m Message
	var subject sql.NullString
	err := s.Scan(&m.ID, &m.Name, &m.Email, &subject, &m.Message, &m.ReadStatus, &m.CreatedAt)
	m.Subject = subject.String
	return m, err
}

func fetchMessage(ctx context.Context, id int) (Message, error) {
	row := database.MySQLDB.QueryRowContext(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = ?`, id)
	return scanMessage(row)
}

// SubmitMessage handles POST /api/messages (public contact form)
func SubmitMessage(w http.ResponseWriter, r *http.Request) {
	var req Message
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if missing := firstMissing(
		requiredField{"name", req.Name},
		requiredField{"email", req.Email},
		requiredField{"message", req.Message},
	); missing != "" {
		writeError(w, http.StatusBadRequest, missing+" is required")
		return
	}
	if !emailRegex.MatchString(req.Email) {
		writeError(w, http.StatusBadRequest, "Invalid email address")
		return
	}

	result, err := database.MySQLDB.ExecContext(r.Context(), `
		INSERT INTO messages (name, email, subject, message) VALUES (?, ?, ?, ?)
	`, req.Name, req.Email, nullIfEmpty(req.Subject), req.Message)
	if err != nil {
		log.Printf("messages: insert failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to send message")
		return
	}

	id, _ := result.LastInsertId()
	m, err := fetchMessage(r.Context(), int(id))
	if err != nil {
		log.Printf("messages: fetch after insert failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to send message")
		return
	}
	writeData(w, http.StatusCreated, "Message sent successfully", m)
}

// ListMessages handles GET /api/messages (admin only); newest first
func ListMessages(w http.ResponseWriter, r *http.Request) {
	rows, err := database.MySQLDB.QueryContext(r.Context(), `
		SELECT `+messageColumns+` FROM messages ORDER BY created_at DESC
	`)
	if err != nil {
		log.Printf("messages: list failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch messages")
		return
	}
	defer rows.Close()

	messages := make([]Message, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			log.Printf("messages: scan failed: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to fetch messages")
			return
		}
		messages = append(messages, m)
	}
	writeList(w, messages, len(messages))
}

// GetMessage handles GET /api/messages/{id} (admin only)
func GetMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	m, err := fetchMessage(r.Context(), id)
	if err == sql.ErrNoRows {
		writeError(w, http.StatusNotFound, "Message not found")
		return
	}
	if err != nil {
		log.Printf("messages: fetch failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch message")
		return
	}
	writeData(w, http.StatusOK, "", m)
}

// MarkMessageRead handles PUT /api/messages/{id}/read (admin only)
func MarkMessageRead(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if _, err := fetchMessage(r.Context(), id); err != nil {
		if err == sql.ErrNoRows {
			writeError(w, http.StatusNotFound, "Message not found")
			return
		}
		log.Printf("messages: fetch failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update message")
		return
	}

	if _, err := database.MySQLDB.ExecContext(r.Context(), `UPDATE messages SET read_status = TRUE WHERE id = ?`, id); err != nil {
		log.Printf("messages: update failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update message")
		return
	}

	m, err := fetchMessage(r.Context(), id)
	if err != nil {
		log.Printf("messages: fetch after update failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update message")
		return
	}
	writeData(w, http.StatusOK, "Message marked as read", m)
}

// DeleteMessage handles DELETE /api/messages/{id} (admin only)
func DeleteMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	result, err := database.MySQLDB.ExecContext(r.Context(), `DELETE FROM messages WHERE id = ?`, id)
	if err != nil {
		log.Printf("messages: delete failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete message")
		return
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		writeError(w, http.StatusNotFound, "Message not found")
		return
	}
	writeData(w, http.StatusOK, "Message deleted successfully", nil)
}
