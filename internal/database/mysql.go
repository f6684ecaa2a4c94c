package database

import (
	"database/sql"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

var MySQLDB *sql.DB

// ConnectMySQL connects to the MySQL database
func ConnectMySQL(dsn string) error {
	var err error

	MySQLDB, err = sql.Open("mysql", dsn)
	if err != nil {
		return err
	}

	// Set connection pool settings
	MySQLDB.SetMaxOpenConns(25)
	MySQLDB.SetMaxIdleConns(5)
	MySQLDB.SetConnMaxLifetime(5 * time.Minute)

	// Test connection
	if err = MySQLDB.Ping(); err != nil {
		return err
	}

	log.Println("✅ Connected to MySQL")

	// Initialize tables
	if err = InitMySQLTables(); err != nil {
		return err
	}

	return nil
}

// InitMySQLTables creates all necessary tables if they don't exist
func InitMySQLTables() error {
	queries := []string{
		// Admin users table (provisioned out-of-band; login only reads it)
		`CREATE TABLE IF NOT EXISTS users (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(20) NOT NULL DEFAULT 'admin',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			KEY idx_users_email (email)
		)`,

		// Skills table
		`CREATE TABLE IF NOT EXISTS skills (
			id INT AUTO_INCREMENT PRIMARY KEY,
			skill_name VARCHAR(255) NOT NULL,
			proficiency_level VARCHAR(50) NOT NULL,
			category VARCHAR(100) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			KEY idx_skills_category (category)
		)`,

		// Projects table
		`CREATE TABLE IF NOT EXISTS projects (
			id INT AUTO_INCREMENT PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			description TEXT NOT NULL,
			tech_stack VARCHAR(500) NOT NULL,
			github_link VARCHAR(500),
			demo_link VARCHAR(500),
			image_url VARCHAR(500),
			featured BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			KEY idx_projects_featured (featured),
			KEY idx_projects_created_at (created_at)
		)`,

		// Certifications table
		`CREATE TABLE IF NOT EXISTS certifications (
			id INT AUTO_INCREMENT PRIMARY KEY,
			cert_name VARCHAR(255) NOT NULL,
			issuing_organization VARCHAR(255) NOT NULL,
			issue_date DATE NOT NULL,
			credential_id VARCHAR(255),
			credential_url VARCHAR(500),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			KEY idx_certifications_issue_date (issue_date)
		)`,

		// Experiences table
		`CREATE TABLE IF NOT EXISTS experiences (
			id INT AUTO_INCREMENT PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			company VARCHAR(255) NOT NULL,
			location VARCHAR(255),
			start_date DATE NOT NULL,
			end_date DATE,
			current BOOLEAN NOT NULL DEFAULT FALSE,
			description TEXT,
			technologies VARCHAR(500),
			type VARCHAR(50) NOT NULL DEFAULT 'Internship',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			KEY idx_experiences_start_date (start_date)
		)`,

		// Education table
		`CREATE TABLE IF NOT EXISTS education (
			id INT AUTO_INCREMENT PRIMARY KEY,
			degree VARCHAR(255) NOT NULL,
			institution VARCHAR(255) NOT NULL,
			location VARCHAR(255),
			start_date DATE NOT NULL,
			end_date DATE,
			current BOOLEAN NOT NULL DEFAULT FALSE,
			gpa VARCHAR(20),
			description TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			KEY idx_education_start_date (start_date)
		)`,

		// Personal info table (singleton row, id = 1)
		`CREATE TABLE IF NOT EXISTS personal_info (
			id INT PRIMARY KEY,
			full_name VARCHAR(255),
			title VARCHAR(255),
			bio TEXT,
			email VARCHAR(255),
			phone VARCHAR(50),
			location VARCHAR(255),
			github_url VARCHAR(500),
			linkedin_url VARCHAR(500),
			twitter_url VARCHAR(500),
			resume_url VARCHAR(500),
			profile_image VARCHAR(500),
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		)`,

		// Contact messages table
		`CREATE TABLE IF NOT EXISTS messages (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL,
			subject VARCHAR(255),
			message TEXT NOT NULL,
			read_status BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			KEY idx_messages_created_at (created_at)
		)`,
	}

	for _, query := range queries {
		if _, err := MySQLDB.Exec(query); err != nil {
			return err
		}
	}

	log.Println("✅ MySQL tables initialized")
	return nil
}

// DisconnectMySQL closes the MySQL connection
func DisconnectMySQL() error {
	if MySQLDB != nil {
		return MySQLDB.Close()
	}
	return nil
}
