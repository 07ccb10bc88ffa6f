// package formatter renders show listings and details to CSV, Markdown, JSON and plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/tvx/internal/models"
	"github.com/desertthunder/tvx/internal/shared"
)

// Supported export formats
const (
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatText     = "txt"
	FormatJSON     = "json"
)

// ShowsToCSV converts shows to CSV with columns: ID, Name, Genres, Rating, Premiered, Status, Channel, URL
func ShowsToCSV(shows []models.Show) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Genres", "Rating", "Premiered", "Status", "Channel", "URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, show := range shows {
		record := []string{
			strconv.Itoa(show.ID),
			show.Name,
			strings.Join(show.Genres, ";"),
			show.RatingString(),
			show.PremieredString(),
			show.Status,
			show.Channel(),
			show.URL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ShowsToMarkdown renders shows as a Markdown table under the given title
func ShowsToMarkdown(title string, shows []models.Show) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", title)
	fmt.Fprintf(&buf, "**Shows**: %d\n\n", len(shows))

	buf.WriteString("| ID | Name | Genres | Rating | Premiered |\n")
	buf.WriteString("|---:|------|--------|-------:|-----------|\n")
	for _, show := range shows {
		fmt.Fprintf(&buf, "| %d | [%s](%s) | %s | %s | %s |\n",
			show.ID,
			escapePipes(show.Name),
			show.URL,
			strings.Join(show.Genres, ", "),
			show.RatingString(),
			show.PremieredString(),
		)
	}

	return buf.Bytes(), nil
}

// ShowsToText renders one line per show
func ShowsToText(shows []models.Show) ([]byte, error) {
	var buf bytes.Buffer
	for i, show := range shows {
		fmt.Fprintf(&buf, "%d. %s (#%d) [%s]", i+1, show.Name, show.ID, show.RatingString())
		if len(show.Genres) > 0 {
			fmt.Fprintf(&buf, " - %s", strings.Join(show.Genres, ", "))
		}
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

// ShowsToJSON encodes shows as indented JSON
func ShowsToJSON(shows []models.Show) ([]byte, error) {
	if shows == nil {
		shows = []models.Show{}
	}
	return shared.MarshalJSON(shows, true)
}

// GroupedToText renders genres in alphabetical order with their shows beneath
func GroupedToText(grouped models.GroupedShows) ([]byte, error) {
	var buf bytes.Buffer
	for i, genre := range grouped.Genres() {
		if i > 0 {
			buf.WriteString("\n")
		}
		shows := grouped[genre]
		fmt.Fprintf(&buf, "%s (%d)\n", genre, len(shows))
		for _, show := range shows {
			fmt.Fprintf(&buf, "  - %s (#%d) [%s]\n", show.Name, show.ID, show.RatingString())
		}
	}
	return buf.Bytes(), nil
}

// DetailsToMarkdown renders show details and cast with an optional poster image
func DetailsToMarkdown(details *models.ShowDetails, imageFilename string) ([]byte, error) {
	if details == nil {
		return nil, fmt.Errorf("%w: nil show details", shared.ErrInvalidInput)
	}

	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", details.Name)

	if imageFilename != "" {
		fmt.Fprintf(&buf, "![Poster](%s)\n\n", imageFilename)
	}

	if summary := details.PlainSummary(); summary != "" {
		fmt.Fprintf(&buf, "%s\n\n", summary)
	}

	fmt.Fprintf(&buf, "**Genres**: %s\n", orDash(strings.Join(details.Genres, ", ")))
	fmt.Fprintf(&buf, "**Rating**: %s\n", details.RatingString())
	fmt.Fprintf(&buf, "**Status**: %s\n", orDash(details.Status))
	fmt.Fprintf(&buf, "**Premiered**: %s\n", orDash(details.PremieredString()))
	fmt.Fprintf(&buf, "**Runtime**: %s\n", shared.FormatRuntime(details.Runtime))
	if channel := details.Channel(); channel != "" {
		fmt.Fprintf(&buf, "**Channel**: %s\n", channel)
	}
	if details.URL != "" {
		fmt.Fprintf(&buf, "**TVmaze**: %s\n", details.URL)
	}

	cast := details.Cast()
	if len(cast) > 0 {
		buf.WriteString("\n## Cast\n\n")
		for _, member := range cast {
			role := member.Character.Name
			if member.Voice {
				role += " (voice)"
			}
			fmt.Fprintf(&buf, "- %s as %s\n", member.Person.Name, role)
		}
	}

	return buf.Bytes(), nil
}

// Render converts shows to the named format.
func Render(shows []models.Show, format, title string) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ShowsToCSV(shows)
	case FormatMarkdown, "md":
		return ShowsToMarkdown(title, shows)
	case FormatJSON:
		return ShowsToJSON(shows)
	case FormatText, "text", "":
		return ShowsToText(shows)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q (expected csv, markdown, json or txt)", shared.ErrInvalidFlag, format)
	}
}

// WriteExport renders shows in format and writes them to path, creating parent directories.
func WriteExport(shows []models.Show, format, path string) error {
	if path == "" {
		return fmt.Errorf("%w: output path", shared.ErrMissingArgument)
	}

	data, err := Render(shows, format, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// DetailsExportResult contains information about files created by WriteDetailsExport
type DetailsExportResult struct {
	Directory string
	Files     []string
	Poster    string
}

// WriteDetailsExport writes show details as {dir}/README.md and, when withPoster is set
// and the show has an image, {dir}/poster.jpg.
//
// Directory name defaults to the show ID. A failed poster download is reported on stderr
// and the README is still written.
func WriteDetailsExport(details *models.ShowDetails, outputDir string, withPoster bool) (*DetailsExportResult, error) {
	if details == nil {
		return nil, fmt.Errorf("%w: nil show details", shared.ErrInvalidInput)
	}
	if outputDir == "" {
		outputDir = strconv.Itoa(details.ID)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &DetailsExportResult{Directory: outputDir, Files: []string{}}

	var posterFilename string
	if withPoster && details.Image != nil && details.Image.Medium != "" {
		imageData, err := DownloadImage(details.Image.Medium)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to download poster: %v\n", err)
		} else {
			posterFilename = "poster.jpg"
			posterPath := filepath.Join(outputDir, posterFilename)
			if err := os.WriteFile(posterPath, imageData, 0644); err != nil {
				return nil, fmt.Errorf("failed to write poster: %w", err)
			}
			result.Poster = posterPath
			result.Files = append(result.Files, posterPath)
		}
	}

	markdown, err := DetailsToMarkdown(details, posterFilename)
	if err != nil {
		return nil, err
	}

	readmePath := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(readmePath, markdown, 0644); err != nil {
		return nil, fmt.Errorf("failed to write README: %w", err)
	}
	result.Files = append(result.Files, readmePath)

	return result, nil
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
