// Package importer loads a directory of markdown files as blogs.
package importer

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/draftboard/internal/model"
	"github.com/debemdeboas/draftboard/internal/repository"
)

var importLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	importLogger = l
}

// Title returns the text of the first level-one heading, or fallback when
// there is none.
func Title(content []byte, fallback string) string {
	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if title, ok := strings.CutPrefix(line, "# "); ok {
			if title = strings.TrimSpace(title); title != "" {
				return title
			}
		}
	}
	return fallback
}

type Result struct {
	Imported int
	Failed   int
}

// ImportDir stores every .md file directly under dir as a blog with the given
// status. Timestamps come from the file's modification time. A file that
// fails is logged and skipped.
func ImportDir(ctx context.Context, dir string, repo repository.BlogRepository, status model.Status) (Result, error) {
	var res Result

	if !status.Valid() {
		return res, &model.ValidationError{Field: "status", Reason: "must be draft or published"}
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		return res, errors.Wrapf(err, "read directory %s", dir)
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".md") {
			continue
		}

		blog, err := importFile(ctx, dir, file, repo, status)
		if err != nil {
			res.Failed++
			importLogger.Error().Err(err).Str("file", file.Name()).Msg("Error processing file")
			continue
		}

		res.Imported++
		importLogger.Info().
			Str("file", file.Name()).
			Str("blog_id", string(blog.ID)).
			Str("title", blog.Title).
			Msg("Imported blog")
	}

	return res, nil
}

func importFile(ctx context.Context, dir string, file os.DirEntry, repo repository.BlogRepository, status model.Status) (*model.Blog, error) {
	content, err := os.ReadFile(filepath.Join(dir, file.Name()))
	if err != nil {
		return nil, err
	}

	info, err := file.Info()
	if err != nil {
		return nil, err
	}
	modTime := info.ModTime().UTC()

	blog := &model.Blog{
		ID:        model.BlogID(uuid.NewString()),
		Title:     Title(content, strings.TrimSuffix(file.Name(), ".md")),
		Content:   string(content),
		Tags:      model.Tags{},
		Status:    status,
		CreatedAt: modTime,
		UpdatedAt: modTime,
	}

	if err := repo.Put(ctx, blog); err != nil {
		return nil, errors.Wrapf(err, "save %s", file.Name())
	}
	return blog, nil
}
