package database

import (
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// DirectoryEntry is one row of the member directory listing: a visible
// profile joined with its family and owning user.
type DirectoryEntry struct {
	ProfileID   uint    `json:"profile_id"`
	DisplayName string  `json:"display_name"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	FamilyName  *string `json:"family_name,omitempty"`
	Phone       string  `json:"phone"`
	Address     string  `json:"address"`
	PhotoPath   *string `json:"photo_path,omitempty"`
}

// ListDirectory returns every profile visible in the directory for the given
// parish slug: opted in, approved, and belonging to that parish. Rows are
// ordered by family name, then the user's last name, then first name, all
// ascending under the store's default collation.
func ListDirectory(db *sql.DB, parishSlug string) ([]DirectoryEntry, error) {
	queryBuilder := psql.
		Select(
			"profiles.id",
			"profiles.visible_name",
			"profiles.phone",
			"profiles.address",
			"profiles.photo_path",
			"users.username",
			"users.first_name",
			"users.last_name",
			"families.name",
		).
		From("profiles").
		Join("users ON users.id = profiles.user_id").
		Join("parishes ON parishes.id = profiles.parish_id").
		LeftJoin("families ON families.id = profiles.family_id").
		Where(sq.Eq{
			"parishes.slug":             parishSlug,
			"profiles.opt_in_directory": true,
			"profiles.approved":         true,
		}).
		OrderBy("families.name ASC", "users.last_name ASC", "users.first_name ASC")

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL query for ListDirectory: %w", err)
	}

	rows, err := db.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query directory listing: %w", err)
	}
	defer rows.Close()

	var entries []DirectoryEntry
	for rows.Next() {
		var (
			entry       DirectoryEntry
			visibleName string
			username    string
			familyName  sql.NullString
			photoPath   sql.NullString
		)
		err := rows.Scan(
			&entry.ProfileID,
			&visibleName,
			&entry.Phone,
			&entry.Address,
			&photoPath,
			&username,
			&entry.FirstName,
			&entry.LastName,
			&familyName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan directory row: %w", err)
		}
		if familyName.Valid {
			entry.FamilyName = &familyName.String
		}
		if photoPath.Valid {
			entry.PhotoPath = &photoPath.String
		}
		entry.DisplayName = resolveDisplayName(visibleName, entry.FirstName, entry.LastName, username)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating directory rows: %w", err)
	}

	return entries, nil
}

// resolveDisplayName mirrors Profile.DisplayName for rows read outside GORM:
// explicit override, else trimmed full name, else the account username.
func resolveDisplayName(visibleName, firstName, lastName, username string) string {
	if visibleName != "" {
		return visibleName
	}
	full := strings.TrimSpace(firstName + " " + lastName)
	if full != "" {
		return full
	}
	return username
}
