package blogify

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested post does not exist, or exists
// only as a draft and was requested through a published-only lookup.
var ErrNotFound = sql.ErrNoRows

// Store wraps a SQLite database and provides CRUD operations for posts.
// Slug uniqueness is enforced by a unique index, so concurrent writers
// cannot race two posts onto the same slug.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the
// data directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL for concurrent read/write access, busy timeout so writers wait
	// instead of returning SQLITE_BUSY, synchronous=NORMAL is safe with WAL.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    slug TEXT,
    content TEXT NOT NULL DEFAULT '',
    short_description TEXT NOT NULL DEFAULT '',
    meta_title TEXT NOT NULL DEFAULT '',
    meta_description TEXT NOT NULL DEFAULT '',
    meta_data TEXT NOT NULL DEFAULT '{}',
    author TEXT NOT NULL DEFAULT '',
    published_at TEXT,
    featured_image TEXT NOT NULL DEFAULT '',
    featured_image_content_type TEXT NOT NULL DEFAULT '',
    featured_image_byte_size INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_posts_slug ON posts (slug) WHERE slug != '';
`)
	return err
}

const postColumns = `id, title, slug, content, short_description, meta_title,
	meta_description, meta_data, author, published_at, featured_image,
	featured_image_content_type, featured_image_byte_size, created_at, updated_at`

// Save inserts the post when it has no id yet, otherwise updates it.
// The store owns the timestamps: CreatedAt and UpdatedAt are set here.
func (s *Store) Save(p *Post) error {
	now := time.Now().UTC()
	if p.ID == 0 {
		p.CreatedAt = now
		p.UpdatedAt = now
		res, err := s.db.Exec(`INSERT INTO posts (title, slug, content, short_description,
			meta_title, meta_description, meta_data, author, published_at, featured_image,
			featured_image_content_type, featured_image_byte_size, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.Title, p.Slug, p.Content, p.ShortDescription,
			p.MetaTitle, p.MetaDescription, encodeMetaData(p.MetaData), p.Author,
			encodeNullTime(p.PublishedAt), imageFilename(p), imageContentType(p), imageByteSize(p),
			encodeTime(p.CreatedAt), encodeTime(p.UpdatedAt))
		if err != nil {
			return fmt.Errorf("insert post: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		p.ID = id
		return nil
	}

	p.UpdatedAt = now
	_, err := s.db.Exec(`UPDATE posts SET title = ?, slug = ?, content = ?,
		short_description = ?, meta_title = ?, meta_description = ?, meta_data = ?,
		author = ?, published_at = ?, featured_image = ?, featured_image_content_type = ?,
		featured_image_byte_size = ?, updated_at = ? WHERE id = ?`,
		p.Title, p.Slug, p.Content, p.ShortDescription,
		p.MetaTitle, p.MetaDescription, encodeMetaData(p.MetaData),
		p.Author, encodeNullTime(p.PublishedAt), imageFilename(p), imageContentType(p),
		imageByteSize(p), encodeTime(p.UpdatedAt), p.ID)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// FindBySlug returns a single published post by slug.
func (s *Store) FindBySlug(slug string) (Post, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM posts
		WHERE slug = ? AND published_at IS NOT NULL`, slug)
	return scanPost(row)
}

// FindByID returns a single published post by id.
func (s *Store) FindByID(id int64) (Post, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM posts
		WHERE id = ? AND published_at IS NOT NULL`, id)
	return scanPost(row)
}

// FindAny returns a post by id regardless of published status.
func (s *Store) FindAny(id int64) (Post, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE id = ?`, id)
	return scanPost(row)
}

// FindBySlugOrID looks a published post up by slug first, then by numeric
// id. Drafts are indistinguishable from missing posts: both yield
// ErrNotFound.
func (s *Store) FindBySlugOrID(value string) (Post, error) {
	post, err := s.FindBySlug(value)
	if err == nil {
		return post, nil
	}
	if err != ErrNotFound {
		return Post{}, err
	}
	id, parseErr := strconv.ParseInt(value, 10, 64)
	if parseErr != nil {
		return Post{}, ErrNotFound
	}
	return s.FindByID(id)
}

// ListPublished returns all published posts, newest publish date first.
func (s *Store) ListPublished() ([]Post, error) {
	return s.list(`SELECT ` + postColumns + ` FROM posts
		WHERE published_at IS NOT NULL ORDER BY published_at DESC`)
}

// ListDrafts returns all unpublished posts, newest first.
func (s *Store) ListDrafts() ([]Post, error) {
	return s.list(`SELECT ` + postColumns + ` FROM posts
		WHERE published_at IS NULL ORDER BY created_at DESC`)
}

// ListAll returns every post, drafts included, newest first.
func (s *Store) ListAll() ([]Post, error) {
	return s.list(`SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC`)
}

func (s *Store) list(query string) ([]Post, error) {
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// SlugTaken reports whether slug is used by a post other than excludeID.
func (s *Store) SlugTaken(slug string, excludeID int64) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM posts WHERE slug = ? AND id != ?`,
		slug, excludeID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Delete removes a post by id.
func (s *Store) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM posts WHERE id = ?`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (Post, error) {
	var (
		p                       Post
		metaData                string
		publishedAt             sql.NullString
		createdAt, updatedAt    string
		imgName, imgContentType string
		imgByteSize             int64
	)
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.ShortDescription,
		&p.MetaTitle, &p.MetaDescription, &metaData, &p.Author, &publishedAt,
		&imgName, &imgContentType, &imgByteSize, &createdAt, &updatedAt)
	if err != nil {
		return Post{}, err
	}
	if metaData != "" && metaData != "{}" {
		if err := json.Unmarshal([]byte(metaData), &p.MetaData); err != nil {
			return Post{}, fmt.Errorf("decode meta_data: %w", err)
		}
	}
	if publishedAt.Valid {
		t, err := decodeTime(publishedAt.String)
		if err != nil {
			return Post{}, err
		}
		p.PublishedAt = &t
	}
	if imgName != "" {
		p.FeaturedImage = &FeaturedImage{
			Filename:    imgName,
			ContentType: imgContentType,
			ByteSize:    imgByteSize,
		}
	}
	if p.CreatedAt, err = decodeTime(createdAt); err != nil {
		return Post{}, err
	}
	if p.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return Post{}, err
	}
	return p, nil
}

func encodeMetaData(m map[string]string) string {
	if len(m) == 0 {
		return "{}"
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func encodeTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func encodeNullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return encodeTime(*t)
}

func decodeTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("decode timestamp %q: %w", s, err)
	}
	return t, nil
}

func imageFilename(p *Post) string {
	if p.FeaturedImage == nil {
		return ""
	}
	return p.FeaturedImage.Filename
}

func imageContentType(p *Post) string {
	if p.FeaturedImage == nil {
		return ""
	}
	return p.FeaturedImage.ContentType
}

func imageByteSize(p *Post) int64 {
	if p.FeaturedImage == nil {
		return 0
	}
	return p.FeaturedImage.ByteSize
}
