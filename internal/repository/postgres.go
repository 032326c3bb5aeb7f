package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/UnknownOlympus/cartograph/internal/models"
)

// FetchTasksForGeocoding retrieves a list of tasks that require geocoding.
// It returns tasks that have a NULL latitude, are not closed, have fewer than MaxGeocodingAttempts
// attempts, and have a non-empty address. The results are ordered by creation date and limited
// to the specified count.
func (r *Repository) FetchTasksForGeocoding(ctx context.Context, limit int) ([]models.Task, error) {
	var tasks []models.Task
	query := `
		SELECT task_id, address
		FROM public.tasks
		WHERE
			latitude IS NULL
			AND is_closed = false
			AND geocoding_attempts < $1
			AND address IS NOT NULL AND address <> ''
		ORDER BY created_at ASC
		LIMIT $2;
	`

	rows, err := r.db.Query(ctx, query, MaxGeocodingAttempts, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query active tasks with address: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var task models.Task
		if errScan := rows.Scan(&task.ID, &task.Address); errScan != nil {
			return nil, fmt.Errorf("failed to scan active task with address: %w", errScan)
		}
		r.log.DebugContext(ctx, "A new active task without coordinates has been received.",
			"ID", task.ID, "Address", task.Address)
		tasks = append(tasks, task)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return tasks, nil
}

// UpdateTaskAddress stores the normalized address of a task identified by taskID.
// Absent optional fields are written as NULL and the geocoding_error field is cleared.
func (r *Repository) UpdateTaskAddress(ctx context.Context, taskID int, addr models.Address) error {
	query := `
		UPDATE tasks
		SET
			latitude = $1,
			longitude = $2,
			geocoding_provider = $3,
			street_number = $4,
			street_name = $5,
			locality = $6,
			postal_code = $7,
			country_code = $8,
			admin_levels = $9,
			geocoding_error = NULL
		WHERE
			task_id = $10;
	`

	adminLevels, err := json.Marshal(addr.AdminLevels)
	if err != nil {
		return fmt.Errorf("failed to encode admin levels: %w", err)
	}

	_, err = r.db.Exec(ctx, query,
		addr.Coordinates.Latitude,
		addr.Coordinates.Longitude,
		addr.ProvidedBy,
		addr.StreetNumber,
		addr.StreetName,
		addr.Locality,
		addr.PostalCode,
		addr.CountryCode,
		string(adminLevels),
		taskID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task address: %w", err)
	}

	return nil
}

// IncrementFailureCount increments the geocoding attempt count for a specific task
// identified by taskID and updates the associated error message. If the update
// operation fails, it returns an error with additional context.
func (r *Repository) IncrementFailureCount(ctx context.Context, taskID int, errMsg string) error {
	query := `
		UPDATE tasks
		SET
			geocoding_attempts = geocoding_attempts + 1,
			geocoding_error = $1
		WHERE task_id = $2;
	`

	_, err := r.db.Exec(ctx, query, errMsg, taskID)
	if err != nil {
		return fmt.Errorf("failed to update geocoding error and number of attempts: %w", err)
	}

	return nil
}

// MarkUnresolvable exhausts the attempts of a task whose address can never be geocoded,
// so it is not fetched again.
func (r *Repository) MarkUnresolvable(ctx context.Context, taskID int, errMsg string) error {
	query := `
		UPDATE tasks
		SET
			geocoding_attempts = $1,
			geocoding_error = $2
		WHERE task_id = $3;
	`

	_, err := r.db.Exec(ctx, query, MaxGeocodingAttempts, errMsg, taskID)
	if err != nil {
		return fmt.Errorf("failed to mark task as unresolvable: %w", err)
	}

	return nil
}
