// Package storage persists the whole planner store to a single SQLite
// file. Granularity is whole-object: Load reads the entire course graph and
// Save rewrites it in one transaction. There is no partial or field-level
// write path, which keeps the store the only source of truth in memory.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"myguide/internal/model"
)

// Timestamps keep their zone offset so local-date bucketing survives a
// round trip through the database.
const sqliteTimeLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Migrate applies all pending up migrations.
func (r *SQLiteRepository) Migrate() error {
	return MigrateUp(r.db)
}

// Save replaces the persisted graph with s inside one transaction.
func (r *SQLiteRepository) Save(ctx context.Context, s model.Store) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Children before parents; foreign keys are on.
	for _, table := range []string{
		"archived_items", "archived_weeks", "weekly_items", "weekly_plans",
		"notes", "tasks", "class_times", "courses", "meta",
	} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO meta (id, username, semester, last_weekly_prompt, notifications_enabled, default_reminder_minutes, week_start_day)
		VALUES (1, ?, ?, ?, ?, ?, ?)`,
		s.Meta.Username, s.Meta.Semester, s.Meta.LastWeeklyPrompt,
		boolInt(s.Settings.NotificationsEnabled), s.Settings.DefaultReminderMinutes, int(s.Settings.WeekStartDay),
	); err != nil {
		return fmt.Errorf("insert meta: %w", err)
	}

	for ci, c := range s.Courses {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO courses (id, code, title, instructor, color, position)
			VALUES (?, ?, ?, ?, ?, ?)`,
			c.ID, c.Code, c.Title, c.Instructor, c.Color, ci,
		); err != nil {
			return fmt.Errorf("insert course %s: %w", c.ID, err)
		}
		if err := saveCourseChildren(ctx, tx, c); err != nil {
			return fmt.Errorf("course %s: %w", c.ID, err)
		}
	}
	return tx.Commit()
}

func saveCourseChildren(ctx context.Context, tx *sql.Tx, c model.Course) error {
	for i, ct := range c.ClassTimes {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO class_times (course_id, day, start_time, end_time, position)
			VALUES (?, ?, ?, ?, ?)`,
			c.ID, int(ct.Day), ct.Start, ct.End, i,
		); err != nil {
			return fmt.Errorf("insert class time: %w", err)
		}
	}
	for i, t := range c.Tasks {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO tasks (id, course_id, title, type, due_at, added_at, status, source_id, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, c.ID, t.Title, string(t.Type), nullTime(t.Due), mustTime(t.AddedAt), string(t.Status), t.SourceID, i,
		); err != nil {
			return fmt.Errorf("insert task %s: %w", t.ID, err)
		}
	}
	for i, n := range c.Notes {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO notes (id, course_id, title, category, note_date, content, created_at, updated_at, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			n.ID, c.ID, n.Title, n.Category, n.Date, n.Content, mustTime(n.CreatedAt), nullTime(n.UpdatedAt), i,
		); err != nil {
			return fmt.Errorf("insert note %s: %w", n.ID, err)
		}
	}
	for pi, plan := range c.WeeklyPlans {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO weekly_plans (course_id, week_start, position)
			VALUES (?, ?, ?)`,
			c.ID, plan.WeekStart, pi,
		); err != nil {
			return fmt.Errorf("insert plan %s: %w", plan.WeekStart, err)
		}
		for ii, it := range plan.Items {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO weekly_items (id, course_id, week_start, title, type, due_at, created_at, position)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				it.ID, c.ID, plan.WeekStart, it.Title, string(it.Type), mustTime(it.Due), mustTime(it.CreatedAt), ii,
			); err != nil {
				return fmt.Errorf("insert item %s: %w", it.ID, err)
			}
		}
	}
	for ai, aw := range c.ArchivedWeeks {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO archived_weeks (course_id, week_start, archived_at, position)
			VALUES (?, ?, ?, ?)`,
			c.ID, aw.WeekStart, mustTime(aw.ArchivedAt), ai,
		)
		if err != nil {
			return fmt.Errorf("insert archive %s: %w", aw.WeekStart, err)
		}
		archiveID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("archive id: %w", err)
		}
		for ii, it := range aw.Items {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO archived_items (archive_id, item_id, title, type, due_at, created_at, position)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				archiveID, it.ID, it.Title, string(it.Type), mustTime(it.Due), mustTime(it.CreatedAt), ii,
			); err != nil {
				return fmt.Errorf("insert archived item %s: %w", it.ID, err)
			}
		}
	}
	return nil
}

// Load reads the entire persisted graph. An empty database yields the
// default store rather than an error.
func (r *SQLiteRepository) Load(ctx context.Context) (model.Store, error) {
	out := model.DefaultStore()

	row := r.db.QueryRowContext(ctx, `
		SELECT username, semester, last_weekly_prompt, notifications_enabled, default_reminder_minutes, week_start_day
		FROM meta WHERE id = 1`)
	var notifEnabled, weekStart int
	err := row.Scan(&out.Meta.Username, &out.Meta.Semester, &out.Meta.LastWeeklyPrompt,
		&notifEnabled, &out.Settings.DefaultReminderMinutes, &weekStart)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return out, nil
	case err != nil:
		return model.Store{}, fmt.Errorf("load meta: %w", err)
	}
	out.Settings.NotificationsEnabled = notifEnabled == 1
	out.Settings.WeekStartDay = time.Weekday(weekStart)

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, code, title, instructor, color FROM courses ORDER BY position`)
	if err != nil {
		return model.Store{}, fmt.Errorf("load courses: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Code, &c.Title, &c.Instructor, &c.Color); err != nil {
			return model.Store{}, fmt.Errorf("scan course: %w", err)
		}
		out.Courses = append(out.Courses, c)
	}
	if err := rows.Err(); err != nil {
		return model.Store{}, fmt.Errorf("load courses: %w", err)
	}

	for i := range out.Courses {
		if err := r.loadCourseChildren(ctx, &out.Courses[i]); err != nil {
			return model.Store{}, fmt.Errorf("course %s: %w", out.Courses[i].ID, err)
		}
	}
	return out, nil
}

func (r *SQLiteRepository) loadCourseChildren(ctx context.Context, c *model.Course) error {
	if err := r.loadClassTimes(ctx, c); err != nil {
		return err
	}
	if err := r.loadTasks(ctx, c); err != nil {
		return err
	}
	if err := r.loadNotes(ctx, c); err != nil {
		return err
	}
	if err := r.loadWeeklyPlans(ctx, c); err != nil {
		return err
	}
	return r.loadArchivedWeeks(ctx, c)
}

func (r *SQLiteRepository) loadClassTimes(ctx context.Context, c *model.Course) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT day, start_time, end_time FROM class_times
		WHERE course_id = ? ORDER BY position`, c.ID)
	if err != nil {
		return fmt.Errorf("load class times: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var day int
		var ct model.ClassTime
		if err := rows.Scan(&day, &ct.Start, &ct.End); err != nil {
			return fmt.Errorf("scan class time: %w", err)
		}
		ct.Day = time.Weekday(day)
		c.ClassTimes = append(c.ClassTimes, ct)
	}
	return rows.Err()
}

func (r *SQLiteRepository) loadTasks(ctx context.Context, c *model.Course) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, type, due_at, added_at, status, source_id FROM tasks
		WHERE course_id = ? ORDER BY position`, c.ID)
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var t model.Task
		var taskType, status string
		var due sql.NullString
		var added string
		if err := rows.Scan(&t.ID, &t.Title, &taskType, &due, &added, &status, &t.SourceID); err != nil {
			return fmt.Errorf("scan task: %w", err)
		}
		t.Type = model.TaskType(taskType)
		t.Status = model.TaskStatus(status)
		if t.Due, err = parseNullableTime(due); err != nil {
			return fmt.Errorf("task %s due: %w", t.ID, err)
		}
		if t.AddedAt, err = parseRequiredTime(added); err != nil {
			return fmt.Errorf("task %s added_at: %w", t.ID, err)
		}
		c.Tasks = append(c.Tasks, t)
	}
	return rows.Err()
}

func (r *SQLiteRepository) loadNotes(ctx context.Context, c *model.Course) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, category, note_date, content, created_at, updated_at FROM notes
		WHERE course_id = ? ORDER BY position`, c.ID)
	if err != nil {
		return fmt.Errorf("load notes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var n model.Note
		var created string
		var updated sql.NullString
		if err := rows.Scan(&n.ID, &n.Title, &n.Category, &n.Date, &n.Content, &created, &updated); err != nil {
			return fmt.Errorf("scan note: %w", err)
		}
		if n.CreatedAt, err = parseRequiredTime(created); err != nil {
			return fmt.Errorf("note %s created_at: %w", n.ID, err)
		}
		if n.UpdatedAt, err = parseNullableTime(updated); err != nil {
			return fmt.Errorf("note %s updated_at: %w", n.ID, err)
		}
		c.Notes = append(c.Notes, n)
	}
	return rows.Err()
}

func (r *SQLiteRepository) loadWeeklyPlans(ctx context.Context, c *model.Course) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT week_start FROM weekly_plans WHERE course_id = ? ORDER BY position`, c.ID)
	if err != nil {
		return fmt.Errorf("load plans: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var plan model.WeeklyPlan
		if err := rows.Scan(&plan.WeekStart); err != nil {
			return fmt.Errorf("scan plan: %w", err)
		}
		c.WeeklyPlans = append(c.WeeklyPlans, plan)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range c.WeeklyPlans {
		items, err := r.loadItems(ctx, `
			SELECT id, title, type, due_at, created_at FROM weekly_items
			WHERE course_id = ? AND week_start = ? ORDER BY position`,
			c.ID, c.WeeklyPlans[i].WeekStart)
		if err != nil {
			return fmt.Errorf("plan %s: %w", c.WeeklyPlans[i].WeekStart, err)
		}
		c.WeeklyPlans[i].Items = items
	}
	return nil
}

func (r *SQLiteRepository) loadArchivedWeeks(ctx context.Context, c *model.Course) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, week_start, archived_at FROM archived_weeks
		WHERE course_id = ? ORDER BY position`, c.ID)
	if err != nil {
		return fmt.Errorf("load archives: %w", err)
	}
	defer rows.Close()
	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		var aw model.ArchivedWeek
		var archived string
		if err := rows.Scan(&id, &aw.WeekStart, &archived); err != nil {
			return fmt.Errorf("scan archive: %w", err)
		}
		if aw.ArchivedAt, err = parseRequiredTime(archived); err != nil {
			return fmt.Errorf("archive %s archived_at: %w", aw.WeekStart, err)
		}
		ids = append(ids, id)
		c.ArchivedWeeks = append(c.ArchivedWeeks, aw)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i, id := range ids {
		items, err := r.loadItems(ctx, `
			SELECT item_id, title, type, due_at, created_at FROM archived_items
			WHERE archive_id = ? ORDER BY position`, id)
		if err != nil {
			return fmt.Errorf("archive %s: %w", c.ArchivedWeeks[i].WeekStart, err)
		}
		c.ArchivedWeeks[i].Items = items
	}
	return nil
}

func (r *SQLiteRepository) loadItems(ctx context.Context, query string, args ...any) ([]model.WeeklyItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	defer rows.Close()
	out := make([]model.WeeklyItem, 0)
	for rows.Next() {
		var it model.WeeklyItem
		var itemType, due, created string
		if err := rows.Scan(&it.ID, &it.Title, &itemType, &due, &created); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		it.Type = model.TaskType(itemType)
		if it.Due, err = parseRequiredTime(due); err != nil {
			return nil, fmt.Errorf("item %s due: %w", it.ID, err)
		}
		if it.CreatedAt, err = parseRequiredTime(created); err != nil {
			return nil, fmt.Errorf("item %s created_at: %w", it.ID, err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func nullTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.Format(sqliteTimeLayout)
}

func mustTime(v time.Time) string {
	return v.Format(sqliteTimeLayout)
}

func parseNullableTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	tm, err := time.Parse(sqliteTimeLayout, v.String)
	if err != nil {
		return nil, err
	}
	return &tm, nil
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
