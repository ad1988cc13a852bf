package tests

import (
	"fmt"
	"io"
	"log"
	"sync"

	"content-archives/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	testDB    *gorm.DB
	onceDB    sync.Once
	dbInitErr error
)

// SetupTestDB initializes an in-memory SQLite database for testing
// and migrates the schema.
func SetupTestDB() (*gorm.DB, error) {
	onceDB.Do(func() {
		testDB, dbInitErr = gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if dbInitErr != nil {
			log.Printf("Failed to connect to in-memory test database: %v", dbInitErr)
			return
		}

		dbInitErr = testDB.AutoMigrate(&models.ContentRecord{})
		if dbInitErr != nil {
			log.Printf("Failed to auto-migrate test database schema: %v", dbInitErr)
			return
		}
	})
	return testDB, dbInitErr
}

// ContentTypes returns the content types used throughout the tests.
func ContentTypes() []models.ContentType {
	return []models.ContentType{
		{Slug: "entries", Name: "Entries", SingularName: "entry", Sort: "-datepublish"},
		{Slug: "pages", Name: "Pages", SingularName: "page", Sort: "title", ListingTemplate: "pages"},
		{Slug: "blocks", Name: "Blocks", SingularName: "block", Viewless: true, Sort: "-datepublish"},
	}
}

// Record returns a published record of contentType dated datePublish.
func Record(contentType, slug, datePublish string) models.ContentRecord {
	return models.ContentRecord{
		UUID:        fmt.Sprintf("%s-%s", contentType, slug),
		ContentType: contentType,
		Slug:        slug,
		Title:       slug,
		Status:      models.StatusPublished,
		DatePublish: datePublish,
	}
}

// InsertRecords writes records straight to db.
func InsertRecords(db *gorm.DB, records ...models.ContentRecord) error {
	for i := range records {
		if err := db.Create(&records[i]).Error; err != nil {
			return fmt.Errorf("failed to insert record %s: %w", records[i].Slug, err)
		}
	}
	return nil
}

// CreateTestApp initializes a new Fiber app for testing purposes.
func CreateTestApp(views fiber.Views) *fiber.App {
	app := fiber.New(fiber.Config{
		Views: views,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			ctx.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
			return ctx.Status(code).SendString(err.Error())
		},
	})
	return app
}

// ClearContentRecords deletes all entries from the ContentRecord table.
func ClearContentRecords(db *gorm.DB) error {
	if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&models.ContentRecord{}).Error; err != nil {
		return fmt.Errorf("failed to delete content records: %w", err)
	}
	// Ignored when the table was never written to.
	_ = db.Exec("DELETE FROM sqlite_sequence WHERE name='content_records'").Error
	return nil
}

// RenderCall is a single template render captured by RecordingViews.
type RenderCall struct {
	Template string
	Binding  fiber.Map
}

// RecordingViews is a fiber.Views that records what it is asked to render
// and writes the template name.
type RecordingViews struct {
	mu    sync.Mutex
	Calls []RenderCall
}

func (v *RecordingViews) Load() error { return nil }

func (v *RecordingViews) Render(w io.Writer, name string, binding interface{}, _ ...string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	bind, _ := binding.(fiber.Map)
	v.Calls = append(v.Calls, RenderCall{Template: name, Binding: bind})
	_, err := fmt.Fprintf(w, "rendered %s", name)
	return err
}

// Last returns the most recent render, or false when nothing was rendered.
func (v *RecordingViews) Last() (RenderCall, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if len(v.Calls) == 0 {
		return RenderCall{}, false
	}
	return v.Calls[len(v.Calls)-1], true
}

// Reset forgets all recorded renders.
func (v *RecordingViews) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Calls = nil
}
