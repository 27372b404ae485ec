// internal/store/models.go
package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `db:"id"`
	Email        string    `db:"email"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type Tag struct {
	ID      uuid.UUID `db:"id"`
	Name    string    `db:"name"`
	OwnerID uuid.UUID `db:"owner_id"`
}

type Project struct {
	ID          uuid.UUID `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	OwnerID     uuid.UUID `db:"owner_id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type Task struct {
	ID          uuid.UUID     `db:"id"`
	Title       string        `db:"title"`
	Description string        `db:"description"`
	DueDate     sql.NullTime  `db:"due_date"`
	Priority    sql.NullInt64 `db:"priority"`
	ProjectID   uuid.UUID     `db:"project_id"`
	OwnerID     uuid.UUID     `db:"owner_id"`
	AssignedTo  uuid.NullUUID `db:"assigned_to"`
	IsPrivate   bool          `db:"is_private"`
	IsCompleted bool          `db:"is_completed"`
	CreatedAt   time.Time     `db:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at"`
}

type SubTask struct {
	ID          uuid.UUID     `db:"id"`
	Title       string        `db:"title"`
	Description string        `db:"description"`
	DueDate     sql.NullTime  `db:"due_date"`
	Priority    sql.NullInt64 `db:"priority"`
	TaskID      uuid.UUID     `db:"task_id"`
	OwnerID     uuid.UUID     `db:"owner_id"`
	IsPrivate   bool          `db:"is_private"`
	IsCompleted bool          `db:"is_completed"`
	CreatedAt   time.Time     `db:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at"`
}

type AuditEvent struct {
	ID          uuid.UUID     `db:"id"`
	UserID      uuid.NullUUID `db:"user_id"`
	EventType   string        `db:"event_type"`
	Description string        `db:"description"`
	Severity    string        `db:"severity"`
	IPAddress   string        `db:"ip_address"`
	UserAgent   string        `db:"user_agent"`
	CreatedAt   time.Time     `db:"created_at"`
}
